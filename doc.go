// Package ictx is an in-memory, optimistic-concurrency transaction engine
// over a pluggable key-addressed record store. Callers stage creates,
// updates, and deletes against a Transaction's action log, then commit or
// roll it back atomically; a version carried on every Record is the sole
// conflict-detection mechanism - there are no locks held during staging, no
// read tracking, and no isolation guarantees beyond what that version check
// yields.
//
// A Database handle wraps a Backend and exposes lock-free reads alongside
// Tx, which mints new transactions bound to the same backend. The memstore
// subpackage provides the reference Backend implementation, a map guarded
// by a single mutex; the cache subpackage provides an optional read-through
// L2 cache that a Database can be given to accelerate untransacted reads,
// which never participates in conflict detection.
//
// This package has no wire protocol, no persisted-state format, and no
// multi-process coordination: durability and distribution are entirely the
// concern of whatever Backend a caller plugs in.
package ictx
