// Package slots implements tikbook's durable storage: a set of named slots,
// each holding one JSON document. A missing slot reads as (nil, nil) and
// callers treat it as "no data yet".
//
// Three backends satisfy Repository:
//
//   - SQLiteRepository: a single table, schema applied with goose.
//   - RedisRepository: one string key per slot under a common prefix.
//   - MemoryRepository: a process-local map, used in tests and as a fallback.
package slots
