// Package profiles is the Profile Store: the durable collection of user
// records keyed by id.
//
// Two implementations are provided. CollectionStore keeps the whole
// collection as one JSON document in the tikbook_all_users slot and rewrites
// it on every write. PostgresStore keeps one row per user and performs
// balance credits as a single conditional UPDATE.
//
// Both enforce a non-negative balance: a Credit that would take the balance
// below zero fails with common.ErrInsufficientBalance and writes nothing.
package profiles
