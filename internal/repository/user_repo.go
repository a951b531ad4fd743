package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/amigo-matching/internal/db"
	svcErr "github.com/oggyb/amigo-matching/internal/errors"
)

// profileColumns are the demographic columns a profile upsert may overwrite.
// Subscription columns never appear here.
var profileColumns = []string{
	"username", "first_name", "name", "age", "gender", "orientation",
	"country", "city", "goal", "photo", "bio", "updated_at",
}

// UserRepository provides data access for profiles and their subscription sub-state.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection or transaction.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Upsert inserts the profile or overwrites its demographic columns.
//
// Behavior:
//   - First insert stores is_premium=false and no expiry, whatever the caller passed.
//   - On conflict (id) only profileColumns are updated.
func (r *UserRepository) Upsert(ctx context.Context, u *db.User) error {
	u.IsPremium = false
	u.PremiumExpiresAt = nil

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(profileColumns),
		}).
		Create(u).Error
	if err != nil {
		return storeError("upsert user", err)
	}
	return nil
}

// Get loads one user. Missing rows are reported as ErrNotFound.
func (r *UserRepository) Get(ctx context.Context, id int64) (*db.User, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate loads one user and locks the row until the surrounding transaction ends.
// SQLite ignores the locking clause; it serializes writers itself.
func (r *UserRepository) GetForUpdate(ctx context.Context, id int64) (*db.User, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *UserRepository) get(q *gorm.DB, id int64) (*db.User, error) {
	var u db.User
	if err := q.Where("id = ?", id).Take(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, svcErr.ErrNotFound)
		}
		return nil, storeError("get user", err)
	}
	return &u, nil
}

// CountExisting returns how many of the given ids have a profile.
func (r *UserRepository) CountExisting(ctx context.Context, ids ...int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&db.User{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return 0, storeError("count users", err)
	}
	return n, nil
}

// FindCandidates lists profiles the requester may be shown.
//
// Behavior:
//   - Always excludes the requester and everyone the requester already liked.
//   - predicates are ANDed on top; an empty list means no extra filtering.
//   - Ordered by id so a fixed snapshot always yields the same page.
func (r *UserRepository) FindCandidates(
	ctx context.Context,
	requesterID int64,
	predicates []clause.Expression,
	limit int,
) ([]db.User, error) {
	alreadyLiked := r.db.
		Table("likes l").
		Select("1").
		Where("l.from_id = ? AND l.to_id = users.id", requesterID)

	query := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("users.id <> ?", requesterID).
		Where("NOT EXISTS (?)", alreadyLiked)
	if len(predicates) > 0 {
		query = query.Where(clause.And(predicates...))
	}

	var users []db.User
	if err := query.Order("users.id ASC").Limit(limit).Find(&users).Error; err != nil {
		return nil, storeError("find candidates", err)
	}
	return users, nil
}

// SetPremium stores a renewed subscription. Callers hold the row lock from GetForUpdate.
func (r *UserRepository) SetPremium(ctx context.Context, id int64, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_premium":         true,
			"premium_expires_at": expiresAt,
		})
	if res.Error != nil {
		return storeError("set premium", res.Error)
	}
	return nil
}

// ClearExpiredPremium is the lazy-expiry reconciliation write.
//
// It is a compare-and-set on the expiry that was read: when a renewal committed in
// between, the row no longer matches and nothing changes. Returns whether the row
// was cleared.
func (r *UserRepository) ClearExpiredPremium(ctx context.Context, id int64, seenExpiry time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ? AND is_premium = ? AND premium_expires_at = ?", id, true, seenExpiry).
		Updates(map[string]any{
			"is_premium":         false,
			"premium_expires_at": nil,
		})
	if res.Error != nil {
		return false, storeError("clear expired premium", res.Error)
	}
	return res.RowsAffected > 0, nil
}
