package ictx

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ufoscout/ic-tx/cache"
)

// actionKind discriminates the four staged mutations a Transaction can
// hold. A read branch was considered and deliberately left out: reads
// never participate in conflict detection.
type actionKind int

const (
	actionCreate actionKind = iota
	actionUpdate
	actionDelete
	actionDeleteIfPresent
)

// action is one entry of a Transaction's action log. Exactly one of the
// fields relevant to its kind is populated; the log preserves caller
// insertion order, which is what both commit phases iterate in.
type action[K comparable, V any] struct {
	kind      actionKind
	newRecord NewRecord[K, V]
	record    Record[K, V]
	id        K
	version   Version
}

// Transaction stages creates, updates, and deletes against a single Backend
// and applies them atomically on Commit, or discards them on Rollback. A
// Transaction is usable until exactly one terminal operation runs; after
// that every staging method and Commit/Rollback again is a programming
// error, and is reported via ErrTransactionCompleted rather than silently
// double-applying.
type Transaction[K comparable, V any] struct {
	id       UUID
	backend  Backend[K, V]
	mu       *sync.Mutex // the single exclusive scope shared with the Database handle's backend
	cache    cache.Cache // optional L2 read cache, invalidated on successful apply
	logger   *slog.Logger
	logLevel slog.Level

	completed bool
	actions   []action[K, V]
}

// ErrTransactionCompleted is returned by any staging method or a second
// terminal call made against a Transaction that has already committed or
// rolled back.
var ErrTransactionCompleted = fmt.Errorf("ictx: transaction is already completed")

func newTransaction[K comparable, V any](backend Backend[K, V], mu *sync.Mutex, c cache.Cache, logger *slog.Logger, level slog.Level) *Transaction[K, V] {
	t := &Transaction[K, V]{
		id:       NewUUID(),
		backend:  backend,
		mu:       mu,
		cache:    c,
		logger:   logger,
		logLevel: level,
	}
	t.logger.Log(context.Background(), t.logLevel, fmt.Sprintf("ictx: tx %s begin", t.id))
	return t
}

// ID returns the transaction's identity, minted once at creation.
func (t *Transaction[K, V]) ID() UUID {
	return t.id
}

// Completed reports whether a terminal operation (Commit or Rollback) has
// already run.
func (t *Transaction[K, V]) Completed() bool {
	return t.completed
}

// FetchOne reads through to the backend. Not logged: reads never affect the
// action log or participate in conflict detection.
func (t *Transaction[K, V]) FetchOne(ctx context.Context, id K) (Record[K, V], error) {
	if t.completed {
		var zero Record[K, V]
		return zero, ErrTransactionCompleted
	}
	return t.backend.FetchOne(ctx, id)
}

// FetchIfPresent reads through to the backend. Not logged.
func (t *Transaction[K, V]) FetchIfPresent(ctx context.Context, id K) (Record[K, V], bool, error) {
	if t.completed {
		var zero Record[K, V]
		return zero, false, ErrTransactionCompleted
	}
	return t.backend.FetchIfPresent(ctx, id)
}

// Save appends a Create action. Infallible at stage time: the id-in-use
// check only happens during commit's Phase A.
func (t *Transaction[K, V]) Save(nr NewRecord[K, V]) error {
	if t.completed {
		return ErrTransactionCompleted
	}
	t.actions = append(t.actions, action[K, V]{kind: actionCreate, newRecord: nr})
	return nil
}

// Update appends an Update action carrying the version the caller observed.
// Infallible at stage time: the version check happens during commit's
// Phase A.
func (t *Transaction[K, V]) Update(rec Record[K, V]) error {
	if t.completed {
		return ErrTransactionCompleted
	}
	t.actions = append(t.actions, action[K, V]{kind: actionUpdate, record: rec})
	return nil
}

// Delete snapshots the current version of id via the backend and appends a
// strict Delete action if present. If id is absent at stage time nothing is
// appended at all; commit then succeeds trivially for this id. A stricter
// engine would instead log a sentinel and fail commit with DeleteNotFound,
// but tolerating a missing id here is the deliberate behavior.
func (t *Transaction[K, V]) Delete(ctx context.Context, id K) error {
	if t.completed {
		return ErrTransactionCompleted
	}
	v, ok, err := t.backend.FetchVersionIfPresent(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		t.actions = append(t.actions, action[K, V]{kind: actionDelete, id: id, version: v})
	}
	return nil
}

// DeleteIfPresent snapshots the current version of id via the backend and
// appends a tolerant DeleteIfPresent action if present. If id is absent,
// nothing is appended and commit is a no-op for this id.
func (t *Transaction[K, V]) DeleteIfPresent(ctx context.Context, id K) error {
	if t.completed {
		return ErrTransactionCompleted
	}
	v, ok, err := t.backend.FetchVersionIfPresent(ctx, id)
	if err != nil {
		return err
	}
	if ok {
		t.actions = append(t.actions, action[K, V]{kind: actionDeleteIfPresent, id: id, version: v})
	}
	return nil
}

// Commit runs the two-phase commit protocol: Phase A validates every staged
// action against the backend's current state; only if every check passes
// does Phase B apply the actions, in insertion order. Both phases run under
// the same exclusive scope so no concurrent transaction on the same backend
// observes a partial apply. The transaction transitions to Completed
// whether commit succeeds or fails.
func (t *Transaction[K, V]) Commit(ctx context.Context) error {
	if t.completed {
		return ErrTransactionCompleted
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	defer func() { t.completed = true }()

	if err := t.validate(ctx); err != nil {
		t.logger.Log(ctx, t.logLevel, fmt.Sprintf("ictx: tx %s phase1 validation failed: %v", t.id, err))
		return err
	}

	if err := t.apply(ctx); err != nil {
		// Unreachable under a correct backend with no concurrent, unguarded
		// writers: Phase A already proved every precondition against the
		// exact state Phase B applies against, inside the same lock. The
		// engine makes no attempt to undo a partial apply here.
		t.logger.Log(ctx, t.logLevel, fmt.Sprintf("ictx: tx %s phase2 apply failed: %v", t.id, err))
		return err
	}

	t.logger.Log(ctx, t.logLevel, fmt.Sprintf("ictx: tx %s committed, %d action(s)", t.id, len(t.actions)))
	return nil
}

// MustCommit is a fatal-commit convenience: a host embedding the engine is
// expected to expose both a fallible Commit and an escalating variant it
// uses to abort the current request. The engine itself never calls this;
// it is a thin helper for callers that want it.
func (t *Transaction[K, V]) MustCommit(ctx context.Context) {
	if err := t.Commit(ctx); err != nil {
		panic(err)
	}
}

// Rollback discards the action log without applying anything. Infallible.
// Consumes the transaction; a Transaction dropped without ever calling
// Commit or Rollback is equivalent to calling Rollback, since nothing is
// staged against the backend until Commit's Phase B runs.
func (t *Transaction[K, V]) Rollback(ctx context.Context) error {
	if t.completed {
		return ErrTransactionCompleted
	}
	t.completed = true
	t.actions = nil
	t.logger.Log(ctx, t.logLevel, fmt.Sprintf("ictx: tx %s rolled back", t.id))
	return nil
}

// validate is commit's Phase A: it evaluates every action's precondition
// against the pre-commit backend snapshot. One consequence of checking
// against the real backend rather than an intra-transaction overlay: an
// action never sees the effect of an earlier action in the same
// transaction. A Create{id=1} followed by Update{id=1} in one transaction
// therefore fails validation (Update finds id=1 absent), even though
// committing them as two separate transactions would succeed.
func (t *Transaction[K, V]) validate(ctx context.Context) error {
	for _, a := range t.actions {
		switch a.kind {
		case actionCreate:
			if _, ok, err := t.backend.FetchVersionIfPresent(ctx, a.newRecord.ID); err != nil {
				return err
			} else if ok {
				return newError(Save, a.newRecord.ID,
					fmt.Errorf("cannot save record with id %s because the id is already in use", stringOf(a.newRecord.ID)))
			}
		case actionUpdate:
			v, ok, err := t.backend.FetchVersionIfPresent(ctx, a.record.ID)
			if err != nil {
				return err
			}
			if !ok {
				return newError(Update, a.record.ID,
					fmt.Errorf("cannot update record with id %s because it does not exist", stringOf(a.record.ID)))
			}
			if v != a.record.Version() {
				return newError(UpdateOptimisticLock, a.record.ID,
					fmt.Errorf("cannot update record with id %s: expected version %d, found %d", stringOf(a.record.ID), a.record.Version(), v))
			}
		case actionDelete:
			v, ok, err := t.backend.FetchVersionIfPresent(ctx, a.id)
			if err != nil {
				return err
			}
			if !ok {
				return newError(Delete, a.id,
					fmt.Errorf("cannot delete record with id %s because it does not exist", stringOf(a.id)))
			}
			if v != a.version {
				return newError(DeleteOptimisticLock, a.id,
					fmt.Errorf("cannot delete record with id %s: expected version %d, found %d", stringOf(a.id), a.version, v))
			}
		case actionDeleteIfPresent:
			v, ok, err := t.backend.FetchVersionIfPresent(ctx, a.id)
			if err != nil {
				return err
			}
			if ok && v != a.version {
				return newError(DeleteOptimisticLock, a.id,
					fmt.Errorf("cannot delete record with id %s: expected version %d, found %d", stringOf(a.id), a.version, v))
			}
			// ok==false: tolerated, no-op at apply time.
		}
	}
	return nil
}

// apply is commit's Phase B: drain the action log in insertion order,
// invoking the matching backend mutator. Only reached if validate fully
// passed.
func (t *Transaction[K, V]) apply(ctx context.Context) error {
	for _, a := range t.actions {
		switch a.kind {
		case actionCreate:
			if err := t.backend.Save(ctx, a.newRecord); err != nil {
				return err
			}
			t.invalidate(ctx, a.newRecord.ID)
		case actionUpdate:
			if err := t.backend.Update(ctx, a.record); err != nil {
				return err
			}
			t.invalidate(ctx, a.record.ID)
		case actionDelete:
			if err := t.backend.Delete(ctx, a.id); err != nil {
				return err
			}
			t.invalidate(ctx, a.id)
		case actionDeleteIfPresent:
			if _, err := t.backend.DeleteIfPresent(ctx, a.id); err != nil {
				return err
			}
			t.invalidate(ctx, a.id)
		}
	}
	return nil
}

// invalidate drops id's L2 cache entry, if a cache is wired. Called only
// after the backend call for id has already succeeded. Database reads do
// not take the commit lock, so a reader racing this transaction can still
// get the pre-commit value from the cache until this call removes it, and a
// reader that fetched the old value from the backend before the mutation
// can write it back into the cache afterwards; such an entry lives until
// readCacheTTL expires or the next commit that touches id.
func (t *Transaction[K, V]) invalidate(ctx context.Context, id K) {
	if t.cache == nil {
		return
	}
	_ = t.cache.Delete(ctx, cacheKey(id))
}
