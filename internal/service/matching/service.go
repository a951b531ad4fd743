// Package matching exposes the engine over gRPC.
package matching

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oggyb/amigo-matching/internal/app"
	svcErr "github.com/oggyb/amigo-matching/internal/errors"
	pb "github.com/oggyb/amigo-matching/internal/proto/matching"
	"github.com/oggyb/amigo-matching/internal/service/affinity"
	"github.com/oggyb/amigo-matching/internal/service/candidates"
	"github.com/oggyb/amigo-matching/internal/service/profile"
	"github.com/oggyb/amigo-matching/internal/service/subscription"
)

// Service implements the Matching gRPC API.
// It only translates messages; the engine components hold the logic.
type Service struct {
	appCtx       *app.AppContext
	profiles     *profile.Service
	selector     *candidates.Selector
	affinity     *affinity.Ledger
	subscription *subscription.Ledger

	pb.UnimplementedMatchingServiceServer
}

// NewMatchingService creates the Matching service with dependencies from AppContext.
func NewMatchingService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		profiles:     profile.NewService(appCtx),
		selector:     candidates.NewSelector(appCtx),
		affinity:     affinity.NewLedger(appCtx),
		subscription: subscription.NewLedger(appCtx),
	}
}

func respond(fields map[string]any) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return resp, nil
}

func profileFields(v profile.View) map[string]any {
	u := v.User
	var expires any
	if u.PremiumExpiresAt != nil {
		expires = formatTime(*u.PremiumExpiresAt)
	}
	return map[string]any{
		"id":                 formatID(u.ID),
		"username":           derefOrNil(u.Username),
		"first_name":         derefOrNil(u.FirstName),
		"name":               u.Name,
		"age":                u.Age,
		"gender":             u.Gender,
		"orientation":        u.Orientation,
		"country":            u.Country,
		"city":               u.City,
		"goal":               u.Goal,
		"photo":              derefOrNil(u.Photo),
		"bio":                derefOrNil(u.Bio),
		"is_premium":         u.IsPremium,
		"premium_expires_at": expires,
		"premium_active":     v.PremiumActive,
	}
}

// RegisterProfile creates or updates a profile. Premium fields in the request are ignored.
//
// Example:
//
//	{"id": "42", "name": "Aigerim", "age": 27, "gender": "female", "orientation": "hetero"}
func (s *Service) RegisterProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "id")
	if err != nil {
		return nil, err
	}
	age, err := intField(req, "age")
	if err != nil {
		return nil, err
	}

	view, err := s.profiles.Register(ctx, profile.Profile{
		ID:          id,
		Username:    optionalString(req, "username"),
		FirstName:   optionalString(req, "first_name"),
		Name:        stringField(req, "name"),
		Age:         age,
		Gender:      stringField(req, "gender"),
		Orientation: stringField(req, "orientation"),
		Country:     stringField(req, "country"),
		City:        stringField(req, "city"),
		Goal:        stringField(req, "goal"),
		Photo:       optionalString(req, "photo"),
		Bio:         optionalString(req, "bio"),
	})
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return respond(profileFields(view))
}

// GetProfile returns a profile with its entitlement resolved.
func (s *Service) GetProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "user_id")
	if err != nil {
		return nil, err
	}
	view, err := s.profiles.Get(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return respond(profileFields(view))
}

// ListCandidates returns up to 20 profiles for the requester.
// city, min_age, max_age and goal only apply to premium requesters.
func (s *Service) ListCandidates(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "user_id")
	if err != nil {
		return nil, err
	}
	minAge, err := intField(req, "min_age")
	if err != nil {
		return nil, err
	}
	maxAge, err := intField(req, "max_age")
	if err != nil {
		return nil, err
	}

	users, err := s.selector.Select(ctx, id, candidates.Filters{
		City:   stringField(req, "city"),
		MinAge: minAge,
		MaxAge: maxAge,
		Goal:   stringField(req, "goal"),
	})
	if err != nil {
		return nil, svcErr.Map(err)
	}

	list := make([]any, 0, len(users))
	for _, u := range users {
		list = append(list, map[string]any{
			"id":          formatID(u.ID),
			"name":        u.Name,
			"age":         u.Age,
			"gender":      u.Gender,
			"orientation": u.Orientation,
			"city":        u.City,
			"goal":        u.Goal,
			"photo":       derefOrNil(u.Photo),
			"bio":         derefOrNil(u.Bio),
		})
	}

	s.appCtx.Logger.Debug("ListCandidates result", "user_id", id, "count", len(list))
	return respond(map[string]any{"candidates": list})
}

// Like records from_user_id liking to_user_id and reports whether they matched.
func (s *Service) Like(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fromID, err := idField(req, "from_user_id")
	if err != nil {
		return nil, err
	}
	toID, err := idField(req, "to_user_id")
	if err != nil {
		return nil, err
	}

	res, err := s.affinity.Like(ctx, fromID, toID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return respond(map[string]any{
		"matched":   res.Matched,
		"new_match": res.NewMatch,
	})
}

// ListMatches returns the user's matches, newest first.
func (s *Service) ListMatches(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "user_id")
	if err != nil {
		return nil, err
	}
	entries, err := s.affinity.ListMatches(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	list := make([]any, 0, len(entries))
	for _, e := range entries {
		list = append(list, map[string]any{
			"user_id":    formatID(e.UserID),
			"name":       e.Name,
			"username":   derefOrNil(e.Username),
			"photo":      derefOrNil(e.Photo),
			"matched_at": formatTime(e.MatchedAt),
		})
	}
	return respond(map[string]any{"matches": list})
}

// ConfirmPayment applies a successful premium payment.
//
// Example:
//
//	{"user_id": "42", "currency": "XTR", "amount": 590, "payload": "premium_upgrade", "charge_id": "ch_1"}
func (s *Service) ConfirmPayment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "user_id")
	if err != nil {
		return nil, err
	}
	amount, err := intField(req, "amount")
	if err != nil {
		return nil, err
	}

	conf, err := s.subscription.ConfirmPayment(ctx, id, subscription.Payment{
		Currency: stringField(req, "currency"),
		Amount:   int64(amount),
		Payload:  stringField(req, "payload"),
		ChargeID: optionalString(req, "charge_id"),
	})
	if err != nil {
		return nil, svcErr.Map(err)
	}

	var expires any
	if !conf.ExpiresAt.IsZero() {
		expires = formatTime(conf.ExpiresAt)
	}
	return respond(map[string]any{
		"premium_expires_at": expires,
		"already_processed":  conf.AlreadyProcessed,
	})
}

// ListLikesReceived returns users who liked the user and are still unanswered.
// Supports cursor-based pagination with pagination_token.
func (s *Service) ListLikesReceived(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "user_id")
	if err != nil {
		return nil, err
	}
	limit, err := intField(req, "limit")
	if err != nil {
		return nil, err
	}

	likers, next, err := s.affinity.ListLikesReceived(ctx, id, optionalString(req, "pagination_token"), limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	list := make([]any, 0, len(likers))
	for _, l := range likers {
		list = append(list, map[string]any{
			"user_id":        formatID(l.UserID),
			"unix_timestamp": l.LikedAt.UnixMilli(),
		})
	}
	return respond(map[string]any{
		"likers":                list,
		"next_pagination_token": derefOrNil(next),
	})
}

// CountLikesReceived returns how many users are waiting for an answer.
func (s *Service) CountLikesReceived(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req, "user_id")
	if err != nil {
		return nil, err
	}
	n, err := s.affinity.CountLikesReceived(ctx, id)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return respond(map[string]any{"count": n})
}
