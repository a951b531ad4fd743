package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"gorm.io/gorm"

	"github.com/oggyb/amigo-matching/internal/db"
	svcErr "github.com/oggyb/amigo-matching/internal/errors"
)

// MaxTxAttempts bounds how often a conflicting transaction is replayed.
const MaxTxAttempts = 5

// WithTx runs fn inside one database transaction.
//
// Behavior:
//   - fn may run more than once; it must derive all of its results from tx.
//   - Serialization conflicts (see db.IsConflict) roll back and replay the whole
//     transaction with exponential backoff, up to MaxTxAttempts.
//   - Exhausted retries and connectivity faults are reported as ErrStoreUnavailable.
//   - Any other error from fn rolls back and is returned unchanged.
//   - A cancelled ctx aborts the transaction; nothing partial is committed.
func WithTx(ctx context.Context, database *gorm.DB, fn func(tx *gorm.DB) error) error {
	var opts []*sql.TxOptions
	if o := db.TxOptions(database); o != nil {
		opts = append(opts, o)
	}

	attempt := func() (struct{}, error) {
		err := database.WithContext(ctx).Transaction(fn, opts...)
		switch {
		case err == nil:
			return struct{}{}, nil
		case db.IsConflict(err):
			return struct{}{}, fmt.Errorf("%w: %w", svcErr.ErrConflictRetry, err)
		default:
			return struct{}{}, backoff.Permanent(err)
		}
	}

	_, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(newTxBackOff()),
		backoff.WithMaxTries(MaxTxAttempts),
	)
	if err == nil {
		return nil
	}
	if errors.Is(err, svcErr.ErrConflictRetry) || db.IsUnavailable(err) {
		return fmt.Errorf("%w: %w", svcErr.ErrStoreUnavailable, err)
	}
	return err
}

func newTxBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = 250 * time.Millisecond
	return b
}

// storeError annotates a failed query and lifts connectivity faults to ErrStoreUnavailable.
func storeError(op string, err error) error {
	if db.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, svcErr.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
