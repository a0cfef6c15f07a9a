// Package cli is the interactive tikbook shell: a read–eval–print loop
// over the services.Coordinator. Each command maps to one coordinator
// operation; errors are printed and the loop keeps running.
package cli
