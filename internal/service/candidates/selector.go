// Package candidates picks the profiles a user may be shown next.
package candidates

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/oggyb/amigo-matching/internal/app"
	"github.com/oggyb/amigo-matching/internal/db"
	"github.com/oggyb/amigo-matching/internal/repository"
	"github.com/oggyb/amigo-matching/internal/service/entitlement"
)

const (
	// PageSize caps one candidate listing.
	PageSize = 20

	MinAge = 18
	MaxAge = 99

	// AnyValue disables the city or goal filter.
	AnyValue = "all"
)

// Filters are the optional premium search filters.
// The zero value means "no filtering" once passed through Normalize.
type Filters struct {
	City   string
	MinAge int
	MaxAge int
	Goal   string
}

// Normalize fills unset bounds with the defaults 18..99.
func (f Filters) Normalize() Filters {
	if f.MinAge == 0 {
		f.MinAge = MinAge
	}
	if f.MaxAge == 0 {
		f.MaxAge = MaxAge
	}
	return f
}

// Selector lists candidates for a requester.
type Selector struct {
	appCtx   *app.AppContext
	users    *repository.UserRepository
	resolver *entitlement.Resolver
}

// NewSelector creates a Selector with dependencies from AppContext.
func NewSelector(appCtx *app.AppContext) *Selector {
	users := repository.NewUserRepository(appCtx.DB)
	return &Selector{
		appCtx:   appCtx,
		users:    users,
		resolver: entitlement.NewResolver(users, appCtx.Logger),
	}
}

// Select returns up to PageSize profiles the requester has not liked yet.
//
// Behavior:
//   - Orientation compatibility is always applied.
//   - Filters apply only while the requester's premium is in effect; otherwise
//     they are ignored, not rejected.
//   - Resolving the requester's entitlement may reconcile an expired flag.
//   - Ordered by id ascending.
func (s *Selector) Select(ctx context.Context, requesterID int64, f Filters) ([]db.User, error) {
	requester, err := s.users.Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	premium := s.resolver.Resolve(ctx, requester, s.appCtx.Now())

	predicates := OrientationPredicates(requester)
	if premium {
		predicates = append(predicates, FilterPredicates(f.Normalize())...)
	}

	s.appCtx.Logger.Debug("selecting candidates",
		"requester", requesterID,
		"premium", premium,
		"predicates", len(predicates),
	)

	return s.users.FindCandidates(ctx, requesterID, predicates, PageSize)
}

func col(name string) clause.Column {
	return clause.Column{Table: "users", Name: name}
}

// OrientationPredicates restricts candidate gender by the requester's orientation.
//
// hetero sees the opposite binary gender, gay sees the same gender, anything
// else sees everyone. A hetero requester of gender "other" has no opposite, so
// nothing is restricted.
func OrientationPredicates(requester *db.User) []clause.Expression {
	switch requester.Orientation {
	case db.OrientationHetero:
		switch requester.Gender {
		case db.GenderMale:
			return []clause.Expression{clause.Eq{Column: col("gender"), Value: db.GenderFemale}}
		case db.GenderFemale:
			return []clause.Expression{clause.Eq{Column: col("gender"), Value: db.GenderMale}}
		}
	case db.OrientationGay:
		return []clause.Expression{clause.Eq{Column: col("gender"), Value: requester.Gender}}
	}
	return nil
}

// FilterPredicates turns premium filters into predicates. Defaults add nothing.
func FilterPredicates(f Filters) []clause.Expression {
	var out []clause.Expression
	if city := strings.TrimSpace(f.City); city != "" && !strings.EqualFold(city, AnyValue) {
		out = append(out, clause.Eq{Column: col("city"), Value: city})
	}
	if f.MinAge > MinAge {
		out = append(out, clause.Gte{Column: col("age"), Value: f.MinAge})
	}
	if f.MaxAge < MaxAge {
		out = append(out, clause.Lte{Column: col("age"), Value: f.MaxAge})
	}
	if goal := strings.TrimSpace(f.Goal); goal != "" && !strings.EqualFold(goal, AnyValue) {
		out = append(out, clause.Eq{Column: col("goal"), Value: goal})
	}
	return out
}
