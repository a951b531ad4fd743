package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/amigo-matching/internal/db"
)

// PaymentRepository records accepted premium purchases.
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new repository bound to the given DB connection or transaction.
func NewPaymentRepository(database *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: database}
}

// InsertIfNew stores the payment.
//
// Behavior:
//   - A payment whose charge_id is already recorded is not inserted; created is false.
//   - Payments without a charge id are always inserted (NULLs never collide).
func (r *PaymentRepository) InsertIfNew(ctx context.Context, p *db.Payment) (created bool, err error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "charge_id"}},
			DoNothing: true,
		}).
		Create(p)
	if res.Error != nil {
		return false, storeError("insert payment", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListForUser returns a user's accepted payments, oldest first.
func (r *PaymentRepository) ListForUser(ctx context.Context, userID int64) ([]db.Payment, error) {
	var payments []db.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, storeError("list payments", err)
	}
	return payments, nil
}
