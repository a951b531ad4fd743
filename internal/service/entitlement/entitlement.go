// Package entitlement decides whether a user's premium subscription is in effect
// and computes renewals.
package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/oggyb/amigo-matching/internal/db"
)

// State is the stored subscription sub-state of a user.
type State struct {
	IsPremium bool
	ExpiresAt *time.Time
}

// StateOf extracts the subscription columns of u.
func StateOf(u *db.User) State {
	return State{IsPremium: u.IsPremium, ExpiresAt: u.PremiumExpiresAt}
}

// Active reports whether premium is in effect at now.
// A flag without an expiry is treated as open-ended.
func Active(s State, now time.Time) bool {
	if !s.IsPremium {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

// NeedsReconcile reports whether the stored flag is stale: set, but no longer active.
func NeedsReconcile(s State, now time.Time) bool {
	return s.IsPremium && !Active(s, now)
}

// Renew returns the expiry after buying days more of premium.
//
// Unexpired time is extended; otherwise the period starts at now. On 2024-01-05 a
// 30 day purchase moves an expiry of 2024-01-10 to 2024-02-09, and gives a user
// without premium an expiry of 2024-02-04.
func Renew(s State, now time.Time, days int) time.Time {
	period := time.Duration(days) * 24 * time.Hour
	if Active(s, now) && s.ExpiresAt != nil {
		return s.ExpiresAt.Add(period)
	}
	return now.Add(period)
}

// Reconciler persists the lazy-expiry write. Implemented by repository.UserRepository.
type Reconciler interface {
	ClearExpiredPremium(ctx context.Context, id int64, seenExpiry time.Time) (bool, error)
}

// Resolver evaluates entitlements on read paths and reconciles stale flags.
type Resolver struct {
	store  Reconciler
	logger *slog.Logger
}

// NewResolver creates a Resolver writing reconciliations through store.
func NewResolver(store Reconciler, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve returns whether u is premium at now.
//
// Behavior:
//   - A stale flag (set but expired) triggers a best-effort write clearing the
//     subscription columns; failures are logged and never change the result.
//   - u is updated in memory to the reconciled view in both cases.
func (r *Resolver) Resolve(ctx context.Context, u *db.User, now time.Time) bool {
	state := StateOf(u)
	active := Active(state, now)
	if !NeedsReconcile(state, now) {
		return active
	}

	// a stale flag always carries an expiry: nil expiry is open-ended and active
	seen := *state.ExpiresAt
	cleared, err := r.store.ClearExpiredPremium(ctx, u.ID, seen)
	switch {
	case err != nil:
		r.logger.Warn("premium reconciliation failed", "user_id", u.ID, "expires_at", seen, "err", err)
	case !cleared:
		r.logger.Debug("premium reconciliation skipped, row changed", "user_id", u.ID)
	default:
		r.logger.Info("premium expired", "user_id", u.ID, "expires_at", seen)
	}

	u.IsPremium = false
	u.PremiumExpiresAt = nil
	return active
}
