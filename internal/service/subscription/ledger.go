// Package subscription applies confirmed premium purchases.
package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/amigo-matching/internal/app"
	"github.com/oggyb/amigo-matching/internal/db"
	svcErr "github.com/oggyb/amigo-matching/internal/errors"
	"github.com/oggyb/amigo-matching/internal/repository"
	"github.com/oggyb/amigo-matching/internal/service/entitlement"
)

// Payment is a successful payment reported by the provider.
// ChargeID is the provider's charge identifier; confirmations carrying an already
// recorded ChargeID are replays.
type Payment struct {
	Currency string
	Amount   int64
	Payload  string
	ChargeID *string
}

// Confirmation is the outcome of ConfirmPayment.
type Confirmation struct {
	ExpiresAt        time.Time
	AlreadyProcessed bool
}

// Ledger is the subscription component.
type Ledger struct {
	appCtx   *app.AppContext
	payments *repository.PaymentRepository
}

// NewLedger creates a Ledger with dependencies from AppContext.
func NewLedger(appCtx *app.AppContext) *Ledger {
	return &Ledger{
		appCtx:   appCtx,
		payments: repository.NewPaymentRepository(appCtx.DB),
	}
}

// Validate checks that p buys the configured premium product.
func (l *Ledger) Validate(p Payment) error {
	product := l.appCtx.Premium
	switch {
	case p.Currency != product.Currency:
		return fmt.Errorf("currency %q: %w", p.Currency, svcErr.ErrInvalidPayment)
	case p.Amount != product.Amount:
		return fmt.Errorf("amount %d: %w", p.Amount, svcErr.ErrInvalidPayment)
	case p.Payload != product.Payload:
		return fmt.Errorf("payload %q: %w", p.Payload, svcErr.ErrInvalidPayment)
	}
	return nil
}

// ConfirmPayment grants or extends premium for userID.
//
// Behavior:
//   - A payment for anything but the premium product is ErrInvalidPayment; nothing changes.
//   - The user row is locked for the whole transaction so concurrent renewals stack.
//   - Unexpired premium is extended, otherwise the period starts now (see entitlement.Renew).
//   - A replayed ChargeID returns AlreadyProcessed with the current expiry and changes nothing.
func (l *Ledger) ConfirmPayment(ctx context.Context, userID int64, p Payment) (Confirmation, error) {
	if userID <= 0 {
		return Confirmation{}, fmt.Errorf("user id must be positive: %w", svcErr.ErrInvalidArgument)
	}
	if err := l.Validate(p); err != nil {
		l.appCtx.Logger.Warn("payment rejected", "user_id", userID, "err", err)
		return Confirmation{}, err
	}
	if p.ChargeID != nil && strings.TrimSpace(*p.ChargeID) == "" {
		p.ChargeID = nil
	}

	now := l.appCtx.Now()
	days := l.appCtx.Premium.DurationDays

	var res Confirmation
	err := repository.WithTx(ctx, l.appCtx.DB, func(tx *gorm.DB) error {
		res = Confirmation{}

		users := repository.NewUserRepository(tx)
		u, err := users.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		expiresAt := entitlement.Renew(entitlement.StateOf(u), now, days)
		created, err := repository.NewPaymentRepository(tx).InsertIfNew(ctx, &db.Payment{
			UserID:    userID,
			ChargeID:  p.ChargeID,
			Currency:  p.Currency,
			Amount:    p.Amount,
			Payload:   p.Payload,
			ExpiresAt: expiresAt,
		})
		if err != nil {
			return err
		}
		if !created {
			res.AlreadyProcessed = true
			if u.PremiumExpiresAt != nil {
				res.ExpiresAt = *u.PremiumExpiresAt
			}
			return nil
		}

		if err := users.SetPremium(ctx, userID, expiresAt); err != nil {
			return err
		}
		res.ExpiresAt = expiresAt
		return nil
	})
	if err != nil {
		l.appCtx.Logger.Error("confirm payment failed", "user_id", userID, "err", err)
		return Confirmation{}, err
	}

	l.appCtx.Logger.Info("payment confirmed",
		"user_id", userID,
		"expires_at", res.ExpiresAt,
		"already_processed", res.AlreadyProcessed,
	)
	return res, nil
}

// ListPayments returns the accepted payments of userID, oldest first.
func (l *Ledger) ListPayments(ctx context.Context, userID int64) ([]db.Payment, error) {
	return l.payments.ListForUser(ctx, userID)
}
