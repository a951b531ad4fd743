package subscription_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/oggyb/amigo-matching/internal/app"
	"github.com/oggyb/amigo-matching/internal/db"
	svcErr "github.com/oggyb/amigo-matching/internal/errors"
	"github.com/oggyb/amigo-matching/internal/service/subscription"
	"github.com/oggyb/amigo-matching/internal/testutil"
)

var now = testutil.Date(2024, time.January, 5)

func premiumPayment(chargeID string) subscription.Payment {
	p := subscription.Payment{Currency: "XTR", Amount: 590, Payload: "premium_upgrade"}
	if chargeID != "" {
		p.ChargeID = &chargeID
	}
	return p
}

func setup(t *testing.T, users ...db.User) (*subscription.Ledger, *app.AppContext) {
	t.Helper()
	appCtx, _ := testutil.NewAppContext(t, now)
	testutil.InsertUsers(t, appCtx.DB, users...)
	return subscription.NewLedger(appCtx), appCtx
}

func loadUser(t *testing.T, appCtx *app.AppContext, id int64) db.User {
	t.Helper()
	var u db.User
	require.NoError(t, appCtx.DB.First(&u, id).Error)
	return u
}

func TestConfirmPaymentStartsPremium(t *testing.T) {
	ledger, appCtx := setup(t, testutil.User(1, db.GenderMale, db.OrientationHetero))

	conf, err := ledger.ConfirmPayment(context.Background(), 1, premiumPayment("ch_1"))
	require.NoError(t, err)
	assert.False(t, conf.AlreadyProcessed)
	assert.True(t, testutil.Date(2024, time.February, 4).Equal(conf.ExpiresAt))

	u := loadUser(t, appCtx, 1)
	assert.True(t, u.IsPremium)
	require.NotNil(t, u.PremiumExpiresAt)
	assert.True(t, conf.ExpiresAt.Equal(*u.PremiumExpiresAt))
}

func TestConfirmPaymentExtendsActivePremium(t *testing.T) {
	ledger, appCtx := setup(t,
		testutil.Premium(testutil.User(1, db.GenderMale, db.OrientationHetero), testutil.Date(2024, time.January, 10)))

	conf, err := ledger.ConfirmPayment(context.Background(), 1, premiumPayment("ch_1"))
	require.NoError(t, err)
	assert.True(t, testutil.Date(2024, time.February, 9).Equal(conf.ExpiresAt))

	u := loadUser(t, appCtx, 1)
	require.NotNil(t, u.PremiumExpiresAt)
	assert.True(t, conf.ExpiresAt.Equal(*u.PremiumExpiresAt))
}

func TestConfirmPaymentRestartsExpiredPremium(t *testing.T) {
	ledger, _ := setup(t,
		testutil.Premium(testutil.User(1, db.GenderMale, db.OrientationHetero), testutil.Date(2023, time.December, 1)))

	conf, err := ledger.ConfirmPayment(context.Background(), 1, premiumPayment(""))
	require.NoError(t, err)
	assert.True(t, testutil.Date(2024, time.February, 4).Equal(conf.ExpiresAt))
}

func TestConsecutivePaymentsStack(t *testing.T) {
	ledger, _ := setup(t, testutil.User(1, db.GenderMale, db.OrientationHetero))
	ctx := context.Background()

	_, err := ledger.ConfirmPayment(ctx, 1, premiumPayment("ch_1"))
	require.NoError(t, err)
	conf, err := ledger.ConfirmPayment(ctx, 1, premiumPayment("ch_2"))
	require.NoError(t, err)
	assert.True(t, now.AddDate(0, 0, 60).Equal(conf.ExpiresAt))

	history, err := ledger.ListPayments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestConcurrentPaymentsStack(t *testing.T) {
	const payments = 5

	appCtx, _ := testutil.NewConcurrentAppContext(t, now)
	testutil.InsertUsers(t, appCtx.DB, testutil.User(1, db.GenderMale, db.OrientationHetero))
	ledger := subscription.NewLedger(appCtx)

	var g errgroup.Group
	for i := 0; i < payments; i++ {
		charge := fmt.Sprintf("ch_%d", i)
		g.Go(func() error {
			_, err := ledger.ConfirmPayment(context.Background(), 1, premiumPayment(charge))
			return err
		})
	}
	require.NoError(t, g.Wait())

	u := loadUser(t, appCtx, 1)
	require.NotNil(t, u.PremiumExpiresAt)
	want := now.AddDate(0, 0, payments*30)
	assert.True(t, want.Equal(*u.PremiumExpiresAt), "want %s, got %s", want, u.PremiumExpiresAt)

	history, err := ledger.ListPayments(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, history, payments)
}

func TestConfirmPaymentReplayIsNoop(t *testing.T) {
	ledger, appCtx := setup(t, testutil.User(1, db.GenderMale, db.OrientationHetero))
	ctx := context.Background()

	first, err := ledger.ConfirmPayment(ctx, 1, premiumPayment("ch_1"))
	require.NoError(t, err)

	replay, err := ledger.ConfirmPayment(ctx, 1, premiumPayment("ch_1"))
	require.NoError(t, err)
	assert.True(t, replay.AlreadyProcessed)
	assert.True(t, first.ExpiresAt.Equal(replay.ExpiresAt), "replay reports the current expiry")

	u := loadUser(t, appCtx, 1)
	require.NotNil(t, u.PremiumExpiresAt)
	assert.True(t, first.ExpiresAt.Equal(*u.PremiumExpiresAt), "replay does not extend premium")

	history, err := ledger.ListPayments(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestConfirmPaymentRejectsOtherProducts(t *testing.T) {
	tests := []struct {
		name    string
		payment subscription.Payment
	}{
		{"wrong currency", subscription.Payment{Currency: "USD", Amount: 590, Payload: "premium_upgrade"}},
		{"wrong amount", subscription.Payment{Currency: "XTR", Amount: 1, Payload: "premium_upgrade"}},
		{"wrong payload", subscription.Payment{Currency: "XTR", Amount: 590, Payload: "gift"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, appCtx := setup(t, testutil.User(1, db.GenderMale, db.OrientationHetero))

			_, err := ledger.ConfirmPayment(context.Background(), 1, tt.payment)
			assert.True(t, errors.Is(err, svcErr.ErrInvalidPayment), "got %v", err)

			u := loadUser(t, appCtx, 1)
			assert.False(t, u.IsPremium)
			assert.Nil(t, u.PremiumExpiresAt)

			var n int64
			require.NoError(t, appCtx.DB.Model(&db.Payment{}).Count(&n).Error)
			assert.Zero(t, n)
		})
	}
}

func TestConfirmPaymentUnknownUser(t *testing.T) {
	ledger, appCtx := setup(t, testutil.User(1, db.GenderMale, db.OrientationHetero))

	_, err := ledger.ConfirmPayment(context.Background(), 404, premiumPayment("ch_1"))
	assert.True(t, errors.Is(err, svcErr.ErrNotFound))

	var n int64
	require.NoError(t, appCtx.DB.Model(&db.Payment{}).Count(&n).Error)
	assert.Zero(t, n)
}
