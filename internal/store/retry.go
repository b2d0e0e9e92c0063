package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// RetryConfig holds retry settings for writes that hit a locked database.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the retry settings used by SQLiteStore.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   4,
		InitialDelay:  50 * time.Millisecond,
		MaxDelay:      time.Second,
		BackoffFactor: 2.0,
	}
}

// Retry runs fn until it succeeds, returns an error retryable rejects, or
// MaxAttempts is reached. Sleeps between attempts stop early when ctx is done.
func Retry(ctx context.Context, cfg RetryConfig, retryable func(error) bool, fn func() error) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}

		// Don't sleep after the last attempt
		if attempt == cfg.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * cfg.BackoffFactor)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

// IsBusy reports whether err is SQLite refusing a write because another
// connection holds the lock.
func IsBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !stderrors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// exec runs a write statement, retrying while the database is busy.
func (s *SQLiteStore) exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	var result sql.Result
	err := Retry(ctx, s.retry, IsBusy, func() error {
		var err error
		result, err = s.db.ExecContext(ctx, query, args...)
		return err
	})
	return result, err
}
