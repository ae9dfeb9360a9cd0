// Package txretry offers a Fibonacci-backoff retry helper for the classic
// optimistic-concurrency-control pattern: stage a transaction, attempt
// commit, and if it lost a race to another committer, re-read and retry.
// It is pure caller-side convenience - the engine itself never retries a
// commit; Retry just wraps github.com/sethvargo/go-retry's Fibonacci
// backoff with the classification Retryable provides.
package txretry

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/ufoscout/ic-tx"
)

// Retry runs task once and then, with Fibonacci backoff, up to maxRetries
// more times (maxRetries+1 attempts in all), continuing only while
// Retryable(err) is true. task is expected to open a
// fresh Transaction, re-read whatever it needs, stage its actions, and
// commit; on an optimistic-lock failure it should return that error
// unchanged so Retry can classify it.
func Retry(ctx context.Context, maxRetries uint64, task func(ctx context.Context) error) error {
	b := retry.NewFibonacci(10 * time.Millisecond)
	err := retry.Do(ctx, retry.WithMaxRetries(maxRetries, b), func(ctx context.Context) error {
		if err := task(ctx); err != nil {
			if Retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		log.Debug("txretry: gave up", "error", err)
	}
	return err
}

// Retryable reports whether err is the kind of failure a caller following
// the optimistic-concurrency retry pattern should re-attempt: a commit that
// lost a race, as opposed to a programming error or a permanent backend
// failure.
func Retryable(err error) bool {
	var e ictx.Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Code {
	case ictx.UpdateOptimisticLock, ictx.DeleteOptimisticLock:
		return true
	default:
		return false
	}
}
