// Package memstore provides the reference Backend implementation: a Go map
// guarded by a single sync.RWMutex. It has no persistence and no
// distribution; it exists to give the engine a concrete, trivially-auditable
// backend to test and benchmark against, and as a model for anyone writing a
// durable Backend of their own.
//
// Every method here takes and releases the lock for exactly the duration of
// that one call. Transaction.Commit additionally holds its own mutex around
// the whole two-phase commit, so a backend never needs to protect itself
// against interleaving with a single commit's Phase A and Phase B - it only
// needs to be safe against concurrent calls from unrelated transactions and
// untransacted reads, which the RWMutex here provides.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/ufoscout/ic-tx"
)

// Store is the reference in-memory ictx.Backend.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	records map[K]ictx.Record[K, V]
}

// New returns an empty Store.
func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{
		records: make(map[K]ictx.Record[K, V]),
	}
}

// FetchOne fetches the record for id, failing with ictx.FetchNotFound if
// absent.
func (s *Store[K, V]) FetchOne(_ context.Context, id K) (ictx.Record[K, V], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		var zero ictx.Record[K, V]
		return zero, newNotFoundError(id)
	}
	return rec, nil
}

// FetchIfPresent fetches the record for id, returning ok=false if absent.
func (s *Store[K, V]) FetchIfPresent(_ context.Context, id K) (ictx.Record[K, V], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	return rec, ok, nil
}

// FetchVersion fetches only the version for id, failing with
// ictx.FetchNotFound if absent.
func (s *Store[K, V]) FetchVersion(_ context.Context, id K) (ictx.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return 0, newNotFoundError(id)
	}
	return rec.Version(), nil
}

// FetchVersionIfPresent fetches only the version for id, returning ok=false
// if absent.
func (s *Store[K, V]) FetchVersionIfPresent(_ context.Context, id K) (ictx.Version, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return 0, false, nil
	}
	return rec.Version(), true, nil
}

// Save inserts a brand-new record at version 0, failing if id is already in
// use.
func (s *Store[K, V]) Save(_ context.Context, nr ictx.NewRecord[K, V]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[nr.ID]; ok {
		return ictxErrorf(ictx.Save, nr.ID, "id already in use")
	}
	s.records[nr.ID] = ictx.NewRecordFrom(nr)
	return nil
}

// Update stores rec.Data at rec.Version()+1 iff the store's current version
// for rec.ID equals rec.Version().
func (s *Store[K, V]) Update(_ context.Context, rec ictx.Record[K, V]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records[rec.ID]
	if !ok {
		return ictxErrorf(ictx.Update, rec.ID, "record does not exist")
	}
	if current.Version() != rec.Version() {
		return ictxErrorf(ictx.UpdateOptimisticLock, rec.ID,
			"expected version %d, found %d", rec.Version(), current.Version())
	}
	s.records[rec.ID] = current.NextVersion(rec.Data)
	return nil
}

// Delete removes id, failing with ictx.Delete if absent.
func (s *Store[K, V]) Delete(_ context.Context, id K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return ictxErrorf(ictx.Delete, id, "record does not exist")
	}
	delete(s.records, id)
	return nil
}

// DeleteIfPresent removes id if present, reporting whether anything was
// removed.
func (s *Store[K, V]) DeleteIfPresent(_ context.Context, id K) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

// Len returns the current number of stored records. Not part of the
// ictx.Backend contract; a convenience for tests and the benchmark tool.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func newNotFoundError(id any) ictx.Error {
	return ictxErrorf(ictx.FetchNotFound, id, "record does not exist")
}

func ictxErrorf(code ictx.ErrorCode, id any, format string, args ...any) ictx.Error {
	return ictx.Error{Code: code, UserData: id, Err: fmt.Errorf(format, args...)}
}
