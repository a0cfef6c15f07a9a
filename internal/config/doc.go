// Package config loads runtime configuration for tikbook.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. An optional .env file and TIKBOOK_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "720h" or
// integer nanoseconds:
//
//	{
//	  "slot_backend": "sqlite",
//	  "data_dsn": "file:tikbook.db",
//	  "session_ttl": "720h",
//	  "activity_retention": "2160h"
//	}
package config
