// Package affinity records likes and turns reciprocal likes into matches.
package affinity

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/amigo-matching/internal/app"
	svcErr "github.com/oggyb/amigo-matching/internal/errors"
	"github.com/oggyb/amigo-matching/internal/repository"
)

const (
	// DefaultPageSize is used when ListLikesReceived is called without a limit.
	DefaultPageSize = 20
	// MaxPageSize caps the limit a caller may ask for.
	MaxPageSize = 100
)

// LikeResult reports what a like did.
// Matched is true whenever both directed likes exist; NewMatch only for the
// call that created the match row.
type LikeResult struct {
	Matched  bool
	NewMatch bool
}

// MatchEntry is one counterpart in a user's match list.
type MatchEntry struct {
	UserID    int64
	Name      string
	Username  *string
	Photo     *string
	MatchedAt time.Time
}

// Liker is a user who liked the recipient and is still waiting for an answer.
type Liker struct {
	UserID  int64
	LikedAt time.Time
}

// Ledger is the like/match component.
type Ledger struct {
	appCtx  *app.AppContext
	users   *repository.UserRepository
	likes   *repository.LikeRepository
	matches *repository.MatchRepository
}

// NewLedger creates a Ledger with dependencies from AppContext.
func NewLedger(appCtx *app.AppContext) *Ledger {
	return &Ledger{
		appCtx:  appCtx,
		users:   repository.NewUserRepository(appCtx.DB),
		likes:   repository.NewLikeRepository(appCtx.DB),
		matches: repository.NewMatchRepository(appCtx.DB),
	}
}

// Like records that fromID likes toID.
//
// Behavior:
//   - Self-likes and non-positive ids are ErrInvalidArgument; unknown users ErrNotFound.
//   - The like, the reverse-like check and the match insert run in one transaction,
//     replayed on serialization conflicts.
//   - Repeating a like changes nothing.
//   - After commit a newly created like invalidates the recipient's cached counter.
//
// Example:
//
//	ledger.Like(ctx, 1, 2) // {Matched: true, NewMatch: true} if 2 already liked 1
func (l *Ledger) Like(ctx context.Context, fromID, toID int64) (LikeResult, error) {
	if fromID <= 0 || toID <= 0 {
		return LikeResult{}, fmt.Errorf("user ids must be positive: %w", svcErr.ErrInvalidArgument)
	}
	if fromID == toID {
		return LikeResult{}, fmt.Errorf("cannot like yourself: %w", svcErr.ErrInvalidArgument)
	}

	n, err := l.users.CountExisting(ctx, fromID, toID)
	if err != nil {
		return LikeResult{}, err
	}
	if n != 2 {
		return LikeResult{}, fmt.Errorf("like %d -> %d: %w", fromID, toID, svcErr.ErrNotFound)
	}

	var (
		res         LikeResult
		likeCreated bool
	)
	err = repository.WithTx(ctx, l.appCtx.DB, func(tx *gorm.DB) error {
		// results are rebuilt on every attempt
		res, likeCreated = LikeResult{}, false

		created, err := repository.NewLikeRepository(tx).InsertIfAbsent(ctx, fromID, toID)
		if err != nil {
			return err
		}
		likeCreated = created

		reciprocal, err := repository.NewLikeRepository(tx).Exists(ctx, toID, fromID)
		if err != nil || !reciprocal {
			return err
		}

		newMatch, err := repository.NewMatchRepository(tx).InsertIfAbsent(ctx, fromID, toID)
		if err != nil {
			return err
		}
		res = LikeResult{Matched: true, NewMatch: newMatch}
		return nil
	})
	if err != nil {
		l.appCtx.Logger.Error("like failed", "from", fromID, "to", toID, "err", err)
		return LikeResult{}, err
	}

	if likeCreated {
		// the recipient gained a pending like; the liker may have lost one by answering
		if err := l.appCtx.RedisCache.InvalidateLikesReceived(ctx, toID, fromID); err != nil {
			l.appCtx.Logger.Warn("likes counter invalidation failed", "users", []int64{toID, fromID}, "err", err)
		}
	}

	l.appCtx.Logger.Debug("like recorded",
		"from", fromID,
		"to", toID,
		"created", likeCreated,
		"matched", res.Matched,
		"new_match", res.NewMatch,
	)
	return res, nil
}

// ListMatches returns everyone userID matched with, newest match first.
func (l *Ledger) ListMatches(ctx context.Context, userID int64) ([]MatchEntry, error) {
	rows, err := l.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]MatchEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, MatchEntry(r))
	}
	return entries, nil
}

// ListLikesReceived pages through users who liked userID and have not been liked back.
//
// Behavior:
//   - Newest first.
//   - token is the opaque cursor returned by the previous page; nil starts over.
//   - A nil next token means there are no more pages.
//   - limit <= 0 selects DefaultPageSize; larger limits are clamped to MaxPageSize.
func (l *Ledger) ListLikesReceived(
	ctx context.Context,
	userID int64,
	token *string,
	limit int,
) ([]Liker, *string, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	likes, next, err := l.likes.ListPendingReceived(ctx, userID, token, limit)
	if err != nil {
		return nil, nil, err
	}
	out := make([]Liker, 0, len(likes))
	for _, lk := range likes {
		out = append(out, Liker{UserID: lk.FromID, LikedAt: lk.CreatedAt})
	}
	return out, next, nil
}

// CountLikesReceived counts the users ListLikesReceived would return.
// Cache-first strategy:
//  1. Attempts to read the Redis counter (likes:received:<id>).
//  2. On a miss or a Redis error, counts in the DB.
//  3. After a DB count, stores the counter with a 1h TTL unless a like
//     invalidated it while the count ran.
func (l *Ledger) CountLikesReceived(ctx context.Context, userID int64) (int64, error) {
	n, gen, ok, err := l.appCtx.RedisCache.GetLikesReceived(ctx, userID)
	cacheUp := err == nil
	if err != nil {
		l.appCtx.Logger.Warn("likes counter read failed", "user_id", userID, "err", err)
	} else if ok {
		return n, nil
	}

	n, err = l.likes.CountPendingReceived(ctx, userID)
	if err != nil {
		return 0, err
	}

	if !cacheUp {
		return n, nil
	}
	stored, err := l.appCtx.RedisCache.SetLikesReceived(ctx, userID, n, gen)
	if err != nil {
		l.appCtx.Logger.Warn("likes counter write failed", "user_id", userID, "err", err)
	} else if !stored {
		l.appCtx.Logger.Debug("likes counter invalidated during count, not cached", "user_id", userID)
	}
	return n, nil
}
