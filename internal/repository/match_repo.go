package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/amigo-matching/internal/db"
)

// MatchRepository provides data access methods for canonical match rows.
type MatchRepository struct {
	db *gorm.DB
}

// MatchRow is one entry of a user's match list: the other side's public fields.
type MatchRow struct {
	UserID    int64
	Name      string
	Username  *string
	Photo     *string
	MatchedAt time.Time
}

// NewMatchRepository creates a new repository bound to the given DB connection or transaction.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// InsertIfAbsent stores the match for the unordered pair {a, b}.
//
// Behavior:
//   - The pair is canonicalised (lower id first) before insert.
//   - An existing row is left untouched; created reports whether this call inserted it.
func (r *MatchRepository) InsertIfAbsent(ctx context.Context, a, b int64) (created bool, err error) {
	userA, userB := db.CanonicalPair(a, b)
	match := db.Match{UserA: userA, UserB: userB}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a"}, {Name: "user_b"}},
			DoNothing: true,
		}).
		Create(&match)
	if res.Error != nil {
		return false, storeError("insert match", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CountForPair returns how many match rows exist for {a, b}. Anything but 0 or 1 is a bug.
func (r *MatchRepository) CountForPair(ctx context.Context, a, b int64) (int64, error) {
	userA, userB := db.CanonicalPair(a, b)
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_a = ? AND user_b = ?", userA, userB).
		Count(&n).Error
	if err != nil {
		return 0, storeError("count match", err)
	}
	return n, nil
}

// ListForUser returns everyone userID matched with, newest match first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID int64) ([]MatchRow, error) {
	var rows []MatchRow
	err := r.db.WithContext(ctx).
		Table("matches m").
		Select("u.id AS user_id, u.name, u.username, u.photo, m.created_at AS matched_at").
		Joins("JOIN users u ON u.id = CASE WHEN m.user_a = ? THEN m.user_b ELSE m.user_a END", userID).
		Where("m.user_a = ? OR m.user_b = ?", userID, userID).
		Order("m.created_at DESC, u.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, storeError("list matches", err)
	}
	return rows, nil
}
