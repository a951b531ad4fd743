// Package profile registers and reads user profiles.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/oggyb/amigo-matching/internal/app"
	"github.com/oggyb/amigo-matching/internal/db"
	svcErr "github.com/oggyb/amigo-matching/internal/errors"
	"github.com/oggyb/amigo-matching/internal/repository"
	"github.com/oggyb/amigo-matching/internal/service/entitlement"
)

const (
	MinAge = 18
	MaxAge = 99
)

var (
	genders      = []string{db.GenderMale, db.GenderFemale, db.GenderOther}
	orientations = []string{db.OrientationHetero, db.OrientationGay, db.OrientationBisexual, db.OrientationOther}
)

// Profile is the client-editable part of a user.
type Profile struct {
	ID          int64
	Username    *string
	FirstName   *string
	Name        string
	Age         int
	Gender      string
	Orientation string
	Country     string
	City        string
	Goal        string
	Photo       *string
	Bio         *string
}

// View is a stored profile plus whether premium is in effect right now.
type View struct {
	User          db.User
	PremiumActive bool
}

// Service implements profile registration and lookup.
type Service struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	resolver *entitlement.Resolver
}

// NewService creates a profile Service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	users := repository.NewUserRepository(appCtx.DB)
	return &Service{
		appCtx:   appCtx,
		users:    users,
		resolver: entitlement.NewResolver(users, appCtx.Logger),
	}
}

// Validate checks the required fields and enums of p.
func Validate(p Profile) error {
	switch {
	case p.ID <= 0:
		return fmt.Errorf("id must be positive: %w", svcErr.ErrInvalidArgument)
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("name is required: %w", svcErr.ErrInvalidArgument)
	case p.Age < MinAge || p.Age > MaxAge:
		return fmt.Errorf("age %d outside %d..%d: %w", p.Age, MinAge, MaxAge, svcErr.ErrInvalidArgument)
	case !oneOf(p.Gender, genders):
		return fmt.Errorf("unknown gender %q: %w", p.Gender, svcErr.ErrInvalidArgument)
	case !oneOf(p.Orientation, orientations):
		return fmt.Errorf("unknown orientation %q: %w", p.Orientation, svcErr.ErrInvalidArgument)
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// Register creates the profile or overwrites its demographic fields.
// The subscription columns are never written here.
func (s *Service) Register(ctx context.Context, p Profile) (View, error) {
	if err := Validate(p); err != nil {
		return View{}, err
	}

	u := &db.User{
		ID:          p.ID,
		Username:    p.Username,
		FirstName:   p.FirstName,
		Name:        strings.TrimSpace(p.Name),
		Age:         p.Age,
		Gender:      p.Gender,
		Orientation: p.Orientation,
		Country:     p.Country,
		City:        p.City,
		Goal:        p.Goal,
		Photo:       p.Photo,
		Bio:         p.Bio,
	}
	if err := s.users.Upsert(ctx, u); err != nil {
		s.appCtx.Logger.Error("register profile failed", "user_id", p.ID, "err", err)
		return View{}, err
	}

	s.appCtx.Logger.Debug("profile registered", "user_id", p.ID)
	return s.Get(ctx, p.ID)
}

// Get returns the profile with its entitlement resolved. An expired premium flag
// is reconciled as a side effect and reported as false.
func (s *Service) Get(ctx context.Context, userID int64) (View, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return View{}, err
	}
	active := s.resolver.Resolve(ctx, u, s.appCtx.Now())
	return View{User: *u, PremiumActive: active}, nil
}
