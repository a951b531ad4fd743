package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/amigo-matching/internal/db"
	"github.com/oggyb/amigo-matching/internal/utils/pagination"
)

// LikeRepository provides data access methods for the Like model.
// It encapsulates all queries related to directed likes between users.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection or transaction.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// InsertIfAbsent stores the directed like from -> to.
//
// Behavior:
//   - If the (from_id, to_id) pair exists nothing changes and created is false.
//   - The composite PK is what makes concurrent duplicates harmless.
//
// Example:
//
//	repo.InsertIfAbsent(ctx, 1, 2) // user 1 liked user 2
func (r *LikeRepository) InsertIfAbsent(ctx context.Context, fromID, toID int64) (created bool, err error) {
	like := db.Like{FromID: fromID, ToID: toID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_id"}, {Name: "to_id"}},
			DoNothing: true,
		}).
		Create(&like)
	if res.Error != nil {
		return false, storeError("insert like", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Exists checks whether fromID has liked toID.
//
// Example:
//
//	repo.Exists(ctx, 2, 1) // -> true if user 2 liked user 1
func (r *LikeRepository) Exists(ctx context.Context, fromID, toID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_id = ? AND to_id = ?", fromID, toID).
		Count(&count).Error
	if err != nil {
		return false, storeError("lookup like", err)
	}
	return count > 0, nil
}

// pendingReceived scopes likes towards recipientID that the recipient has not
// answered with a like of their own.
func (r *LikeRepository) pendingReceived(ctx context.Context, recipientID int64) *gorm.DB {
	likedBack := r.db.
		Table("likes back").
		Select("1").
		Where("back.from_id = l.to_id AND back.to_id = l.from_id")

	return r.db.WithContext(ctx).
		Table("likes l").
		Where("l.to_id = ? AND NOT EXISTS (?)", recipientID, likedBack)
}

// ListPendingReceived returns users who liked the recipient but have not been liked back.
//
// Behavior:
//   - Excludes mutual likes (those are matches).
//   - Ordered by created_at DESC, from_id DESC.
//   - Supports cursor-based pagination.
//
// Example:
//
//	repo.ListPendingReceived(ctx, 42, nil, 20) // first 20 one-way likes for user 42
func (r *LikeRepository) ListPendingReceived(
	ctx context.Context,
	recipientID int64,
	paginationToken *string,
	limit int,
) ([]db.Like, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.pendingReceived(ctx, recipientID).
		Select("l.from_id, l.to_id, l.created_at").
		Order("l.created_at DESC, l.from_id DESC").
		Limit(limit + 1)

	if !cursor.IsZero() {
		ts := cursor.CreatedAt()
		query = query.Where(
			"(l.created_at < ? OR (l.created_at = ? AND l.from_id < ?))",
			ts, ts, cursor.UserID,
		)
	}

	var likes []db.Like
	if err := query.Find(&likes).Error; err != nil {
		return nil, nil, storeError("list received likes", err)
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(likes) > limit {
		last := likes[limit-1]
		token, err := pagination.Encode(pagination.NewCursor(last.FromID, last.CreatedAt))
		if err != nil {
			return nil, nil, err
		}
		nextToken = &token
		likes = likes[:limit]
	}

	return likes, nextToken, nil
}

// CountPendingReceived counts the same population ListPendingReceived pages through.
// Used in conjunction with the Redis counter (DB is the fallback).
func (r *LikeRepository) CountPendingReceived(ctx context.Context, recipientID int64) (int64, error) {
	var count int64
	if err := r.pendingReceived(ctx, recipientID).Count(&count).Error; err != nil {
		return 0, storeError("count received likes", err)
	}
	return count, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
