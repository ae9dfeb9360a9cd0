package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/ufoscout/ic-tx"
)

var ctx = context.Background()

func TestSaveAndFetchOne(t *testing.T) {
	s := New[string, string]()

	if err := s.Save(ctx, ictx.NewNewRecord("a", "hello")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec, err := s.FetchOne(ctx, "a")
	if err != nil {
		t.Fatalf("FetchOne: %v", err)
	}
	if rec.Version() != 0 || rec.Data != "hello" {
		t.Errorf("got %+v, want version 0 data hello", rec)
	}
}

func TestSaveDuplicateIDFails(t *testing.T) {
	s := New[string, string]()
	_ = s.Save(ctx, ictx.NewNewRecord("a", "hello"))

	err := s.Save(ctx, ictx.NewNewRecord("a", "again"))
	var e ictx.Error
	if !errors.As(err, &e) || e.Code != ictx.Save {
		t.Fatalf("got %v, want ictx.Save error", err)
	}
}

func TestFetchOneNotFound(t *testing.T) {
	s := New[string, string]()

	_, err := s.FetchOne(ctx, "missing")
	var e ictx.Error
	if !errors.As(err, &e) || e.Code != ictx.FetchNotFound {
		t.Fatalf("got %v, want ictx.FetchNotFound error", err)
	}
}

func TestFetchIfPresent(t *testing.T) {
	s := New[string, string]()

	_, ok, err := s.FetchIfPresent(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("got ok=%v err=%v, want ok=false err=nil", ok, err)
	}

	_ = s.Save(ctx, ictx.NewNewRecord("a", "hello"))
	rec, ok, err := s.FetchIfPresent(ctx, "a")
	if err != nil || !ok || rec.Data != "hello" {
		t.Fatalf("got rec=%+v ok=%v err=%v", rec, ok, err)
	}
}

func TestUpdateSucceedsWithMatchingVersion(t *testing.T) {
	s := New[string, string]()
	_ = s.Save(ctx, ictx.NewNewRecord("a", "v0"))

	if err := s.Update(ctx, ictx.RecordOf("a", 0, "v1")); err != nil {
		t.Fatalf("Update: %v", err)
	}

	rec, _ := s.FetchOne(ctx, "a")
	if rec.Version() != 1 || rec.Data != "v1" {
		t.Errorf("got %+v, want version 1 data v1", rec)
	}
}

func TestUpdateFailsOnVersionMismatch(t *testing.T) {
	s := New[string, string]()
	_ = s.Save(ctx, ictx.NewNewRecord("a", "v0"))

	err := s.Update(ctx, ictx.RecordOf("a", 5, "stale"))
	var e ictx.Error
	if !errors.As(err, &e) || e.Code != ictx.UpdateOptimisticLock {
		t.Fatalf("got %v, want ictx.UpdateOptimisticLock error", err)
	}
}

func TestUpdateFailsWhenAbsent(t *testing.T) {
	s := New[string, string]()

	err := s.Update(ctx, ictx.RecordOf("missing", 0, "x"))
	var e ictx.Error
	if !errors.As(err, &e) || e.Code != ictx.Update {
		t.Fatalf("got %v, want ictx.Update error", err)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	s := New[string, string]()
	_ = s.Save(ctx, ictx.NewNewRecord("a", "v0"))

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.FetchIfPresent(ctx, "a"); ok {
		t.Errorf("record still present after delete")
	}
}

func TestDeleteFailsWhenAbsent(t *testing.T) {
	s := New[string, string]()

	err := s.Delete(ctx, "missing")
	var e ictx.Error
	if !errors.As(err, &e) || e.Code != ictx.Delete {
		t.Fatalf("got %v, want ictx.Delete error", err)
	}
}

func TestDeleteIfPresentIsTolerant(t *testing.T) {
	s := New[string, string]()

	removed, err := s.DeleteIfPresent(ctx, "missing")
	if err != nil || removed {
		t.Fatalf("got removed=%v err=%v, want removed=false err=nil", removed, err)
	}

	_ = s.Save(ctx, ictx.NewNewRecord("a", "v0"))
	removed, err = s.DeleteIfPresent(ctx, "a")
	if err != nil || !removed {
		t.Fatalf("got removed=%v err=%v, want removed=true err=nil", removed, err)
	}
}

func TestLen(t *testing.T) {
	s := New[string, string]()
	if s.Len() != 0 {
		t.Fatalf("got %d, want 0", s.Len())
	}
	_ = s.Save(ctx, ictx.NewNewRecord("a", "v0"))
	_ = s.Save(ctx, ictx.NewNewRecord("b", "v0"))
	if s.Len() != 2 {
		t.Fatalf("got %d, want 2", s.Len())
	}
}
