// Package services contains the tikbook Coordinator and the admin seeder.
//
// The Coordinator is the only writer of session state. Each operation takes
// the caller's *Session, validates its input, performs one read-modify-write
// against the Profile Store and the slot repository, mirrors the signed-in
// user into the tikbook_user slot and fans out side-effect records
// (notifications, activity items, request queues). Operations are
// serialized by a mutex; a failed operation leaves stored state unchanged.
package services
