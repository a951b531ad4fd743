package candidates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/amigo-matching/internal/db"
	svcErr "github.com/oggyb/amigo-matching/internal/errors"
	"github.com/oggyb/amigo-matching/internal/service/candidates"
	"github.com/oggyb/amigo-matching/internal/testutil"
)

var now = testutil.Date(2024, time.January, 5)

func ids(users []db.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func profile(id int64, gender, orientation, city string, age int, goal string) db.User {
	u := testutil.User(id, gender, orientation)
	u.City = city
	u.Age = age
	u.Goal = goal
	return u
}

func TestHeteroMaleSeesOnlyWomen(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t, now)
	testutil.InsertUsers(t, appCtx.DB,
		testutil.User(1, db.GenderMale, db.OrientationHetero),
		testutil.User(2, db.GenderFemale, db.OrientationHetero),
		testutil.User(3, db.GenderMale, db.OrientationGay),
		testutil.User(4, db.GenderOther, db.OrientationBisexual),
		testutil.User(5, db.GenderFemale, db.OrientationBisexual),
	)

	got, err := candidates.NewSelector(appCtx).Select(context.Background(), 1, candidates.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5}, ids(got))
}

func TestOrientationRules(t *testing.T) {
	tests := []struct {
		name      string
		requester db.User
		want      []int64
	}{
		{"hetero female", testutil.User(100, db.GenderFemale, db.OrientationHetero), []int64{1, 3}},
		{"gay male", testutil.User(100, db.GenderMale, db.OrientationGay), []int64{1, 3}},
		{"gay female", testutil.User(100, db.GenderFemale, db.OrientationGay), []int64{2}},
		{"bisexual sees everyone", testutil.User(100, db.GenderMale, db.OrientationBisexual), []int64{1, 2, 3, 4}},
		{"hetero other is unrestricted", testutil.User(100, db.GenderOther, db.OrientationHetero), []int64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appCtx, _ := testutil.NewAppContext(t, now)
			testutil.InsertUsers(t, appCtx.DB,
				testutil.User(1, db.GenderMale, db.OrientationHetero),
				testutil.User(2, db.GenderFemale, db.OrientationHetero),
				testutil.User(3, db.GenderMale, db.OrientationGay),
				testutil.User(4, db.GenderOther, db.OrientationOther),
				tt.requester,
			)

			got, err := candidates.NewSelector(appCtx).Select(context.Background(), 100, candidates.Filters{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFiltersIgnoredWithoutPremium(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t, now)
	testutil.InsertUsers(t, appCtx.DB,
		profile(1, db.GenderMale, db.OrientationHetero, "Almaty", 30, "friendship"),
		profile(2, db.GenderFemale, db.OrientationHetero, "Almaty", 25, "relationship"),
		profile(3, db.GenderFemale, db.OrientationHetero, "Astana", 40, "friendship"),
	)

	got, err := candidates.NewSelector(appCtx).Select(context.Background(), 1,
		candidates.Filters{City: "Astana", MinAge: 35, Goal: "friendship"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(got), "non-premium requesters get the unfiltered listing")
}

func TestFiltersAppliedWithPremium(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t, now)
	testutil.InsertUsers(t, appCtx.DB,
		testutil.Premium(profile(1, db.GenderMale, db.OrientationHetero, "Almaty", 30, "friendship"), now.AddDate(0, 0, 10)),
		profile(2, db.GenderFemale, db.OrientationHetero, "Almaty", 25, "relationship"),
		profile(3, db.GenderFemale, db.OrientationHetero, "Astana", 40, "friendship"),
		profile(4, db.GenderFemale, db.OrientationHetero, "Astana", 30, "friendship"),
		profile(5, db.GenderFemale, db.OrientationHetero, "Astana", 50, "relationship"),
	)
	selector := candidates.NewSelector(appCtx)

	tests := []struct {
		name    string
		filters candidates.Filters
		want    []int64
	}{
		{"defaults", candidates.Filters{}, []int64{2, 3, 4, 5}},
		{"explicit defaults", candidates.Filters{City: "all", MinAge: 18, MaxAge: 99, Goal: "all"}, []int64{2, 3, 4, 5}},
		{"city", candidates.Filters{City: "Astana"}, []int64{3, 4, 5}},
		{"age window", candidates.Filters{MinAge: 28, MaxAge: 45}, []int64{3, 4}},
		{"everything", candidates.Filters{City: "Astana", MinAge: 35, Goal: "friendship"}, []int64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selector.Select(context.Background(), 1, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestExpiredPremiumLosesFiltersAndIsReconciled(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t, now)
	testutil.InsertUsers(t, appCtx.DB,
		testutil.Premium(profile(1, db.GenderMale, db.OrientationHetero, "Almaty", 30, "friendship"), now.Add(-time.Minute)),
		profile(2, db.GenderFemale, db.OrientationHetero, "Almaty", 25, "relationship"),
		profile(3, db.GenderFemale, db.OrientationHetero, "Astana", 40, "friendship"),
	)

	got, err := candidates.NewSelector(appCtx).Select(context.Background(), 1, candidates.Filters{City: "Astana"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, ids(got))

	var stored db.User
	require.NoError(t, appCtx.DB.First(&stored, 1).Error)
	assert.False(t, stored.IsPremium)
	assert.Nil(t, stored.PremiumExpiresAt)
}

func TestLikedProfilesAreExcluded(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t, now)
	testutil.InsertUsers(t, appCtx.DB,
		testutil.User(1, db.GenderMale, db.OrientationHetero),
		testutil.User(2, db.GenderFemale, db.OrientationHetero),
		testutil.User(3, db.GenderFemale, db.OrientationHetero),
	)
	testutil.InsertLikes(t, appCtx.DB, [2]int64{1, 2}, [2]int64{3, 1})

	got, err := candidates.NewSelector(appCtx).Select(context.Background(), 1, candidates.Filters{})
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids(got))
}

func TestListingIsCapped(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t, now)
	users := []db.User{testutil.User(1, db.GenderMale, db.OrientationBisexual)}
	for id := int64(2); id <= 30; id++ {
		users = append(users, testutil.User(id, db.GenderFemale, db.OrientationHetero))
	}
	testutil.InsertUsers(t, appCtx.DB, users...)

	got, err := candidates.NewSelector(appCtx).Select(context.Background(), 1, candidates.Filters{})
	require.NoError(t, err)
	require.Len(t, got, candidates.PageSize)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(21), got[len(got)-1].ID)
}

func TestUnknownRequester(t *testing.T) {
	appCtx, _ := testutil.NewAppContext(t, now)
	_, err := candidates.NewSelector(appCtx).Select(context.Background(), 42, candidates.Filters{})
	assert.True(t, errors.Is(err, svcErr.ErrNotFound))
}
