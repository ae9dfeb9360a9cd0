package txretry

import (
	"context"
	"errors"
	"testing"

	"github.com/ufoscout/ic-tx"
)

func TestRetryableClassifiesOptimisticLockErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"update optimistic lock", ictx.Error{Code: ictx.UpdateOptimisticLock}, true},
		{"delete optimistic lock", ictx.Error{Code: ictx.DeleteOptimisticLock}, true},
		{"not found", ictx.Error{Code: ictx.FetchNotFound}, false},
		{"save conflict", ictx.Error{Code: ictx.Save}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Retryable(c.err); got != c.want {
				t.Errorf("Retryable(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}

func TestRetrySucceedsAfterTransientOptimisticLockFailures(t *testing.T) {
	ctx := context.Background()
	attempts := 0

	err := Retry(ctx, 5, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return ictx.Error{Code: ictx.UpdateOptimisticLock}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("got %d attempts, want 3", attempts)
	}
}

func TestRetryGivesUpOnNonRetryableError(t *testing.T) {
	ctx := context.Background()
	attempts := 0

	err := Retry(ctx, 5, func(ctx context.Context) error {
		attempts++
		return ictx.Error{Code: ictx.Save}
	})
	if err == nil {
		t.Fatalf("expected an error, got nil")
	}
	if attempts != 1 {
		t.Fatalf("got %d attempts, want 1 (non-retryable errors should not be retried)", attempts)
	}
}
