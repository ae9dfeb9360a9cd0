package ictx

import "encoding/json"

// Version is the monotonically increasing tag on a Record. It starts at 0
// when a record is first saved and is incremented by exactly one on every
// successful update. It is the sole anchor of conflict detection: the
// engine takes no locks during staging and instead compares the version a
// caller observed against the version the backend currently holds at
// commit time.
type Version uint32

// NewRecord is a record awaiting its first insertion: it has no version
// yet because only the backend mints one, on a successful Save.
type NewRecord[K comparable, V any] struct {
	ID   K
	Data V
}

// NewNewRecord builds a NewRecord from an id and its data.
func NewNewRecord[K comparable, V any](id K, data V) NewRecord[K, V] {
	return NewRecord[K, V]{ID: id, Data: data}
}

// Record is a stored (id, version, data) triple. version is unexported:
// callers read it through Version() and can never set it directly except
// through the constructors below and the backend's own bookkeeping.
type Record[K comparable, V any] struct {
	ID      K
	version Version
	Data    V
}

// Version returns the record's current version tag.
func (r Record[K, V]) Version() Version {
	return r.version
}

// NewRecordFrom constructs a Record from a NewRecord, assigning version 0.
// Used by the reference backend's Save and by tests/migrations that need to
// seed a backend with records at a known version.
func NewRecordFrom[K comparable, V any](nr NewRecord[K, V]) Record[K, V] {
	return Record[K, V]{ID: nr.ID, version: 0, Data: nr.Data}
}

// RecordOf constructs a Record directly from its three parts, for tests and
// migrations that need to seed a backend at an arbitrary version.
func RecordOf[K comparable, V any](id K, version Version, data V) Record[K, V] {
	return Record[K, V]{ID: id, version: version, Data: data}
}

// NextVersion derives the record that results from a successful in-place
// update: same id, data replaced by the caller's, version incremented by
// one. Exported for the benefit of Backend implementations outside this package
// (the reference memstore.Store uses it); callers staging a Transaction
// never need it directly.
func (r Record[K, V]) NextVersion(data V) Record[K, V] {
	return Record[K, V]{ID: r.ID, version: r.version + 1, Data: data}
}

// recordJSON mirrors Record's fields for the optional L2 cache's
// (de)serialization; needed because version is unexported and
// encoding/json otherwise can't see it.
type recordJSON[K comparable, V any] struct {
	ID      K       `json:"id"`
	Version Version `json:"version"`
	Data    V       `json:"data"`
}

func (r Record[K, V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(recordJSON[K, V]{ID: r.ID, Version: r.version, Data: r.Data})
}

func (r *Record[K, V]) UnmarshalJSON(data []byte) error {
	var j recordJSON[K, V]
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	r.ID = j.ID
	r.version = j.Version
	r.Data = j.Data
	return nil
}
