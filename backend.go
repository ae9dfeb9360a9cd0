package ictx

import "context"

// Backend is the capability set a keyed record store must provide. It is
// the sole integration point for pluggability: durable or distributed
// stores are expected to implement this interface and honor every method's
// contract verbatim, in particular the atomicity of Update's
// version-check-and-set, which is what makes Transaction's two-phase commit
// safe.
//
// Implementations MUST NOT return a zero Version/Record pair on "not
// found" - use the documented sentinel behavior instead (an Error with
// code FetchNotFound, or a false/zero "if present" result).
type Backend[K comparable, V any] interface {
	// FetchOne fetches the record for id, failing with FetchNotFound if
	// absent or FetchGeneric on any other backend failure.
	FetchOne(ctx context.Context, id K) (Record[K, V], error)
	// FetchIfPresent fetches the record for id, returning ok=false (no
	// error) if absent.
	FetchIfPresent(ctx context.Context, id K) (rec Record[K, V], ok bool, err error)
	// FetchVersion fetches only the version for id, failing with
	// FetchNotFound if absent.
	FetchVersion(ctx context.Context, id K) (Version, error)
	// FetchVersionIfPresent fetches only the version for id, returning
	// ok=false (no error) if absent.
	FetchVersionIfPresent(ctx context.Context, id K) (v Version, ok bool, err error)
	// Save inserts a brand-new record at version 0. Fails with a Save
	// error if id is already in use.
	Save(ctx context.Context, nr NewRecord[K, V]) error
	// Update stores rec.Data at rec.Version()+1 if and only if the
	// backend's current version for rec.ID equals rec.Version(). Otherwise
	// it fails with Update (id absent) or UpdateOptimisticLock (version
	// mismatch).
	Update(ctx context.Context, rec Record[K, V]) error
	// Delete removes id, failing with Delete if absent.
	Delete(ctx context.Context, id K) error
	// DeleteIfPresent removes id if present, returning whether anything
	// was removed. Never fails because the id was absent.
	DeleteIfPresent(ctx context.Context, id K) (removed bool, err error)
}
