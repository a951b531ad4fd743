package db

import (
	"time"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"

	OrientationHetero   = "hetero"
	OrientationGay      = "gay"
	OrientationBisexual = "bisexual"
	OrientationOther    = "other"
)

// User is a registered profile keyed by the messenger account id.
//
// IsPremium and PremiumExpiresAt form the subscription sub-state. They are written
// only by the subscription ledger and by entitlement reconciliation; profile
// updates never touch them.
type User struct {
	ID               int64      `gorm:"primaryKey;autoIncrement:false"`
	Username         *string    `gorm:"size:64"`
	FirstName        *string    `gorm:"size:128"`
	Name             string     `gorm:"size:128;not null"`
	Age              int        `gorm:"not null;index:idx_users_city_age,priority:2"`
	Gender           string     `gorm:"size:16;not null;index"`
	Orientation      string     `gorm:"size:16;not null"`
	Country          string     `gorm:"size:64"`
	City             string     `gorm:"size:64;index:idx_users_city_age,priority:1"`
	Goal             string     `gorm:"size:64"`
	Photo            *string    `gorm:"size:512"`
	Bio              *string    `gorm:"type:text"`
	IsPremium        bool       `gorm:"not null"`
	PremiumExpiresAt *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// Like is a directed edge: FromID liked ToID.
//
// Composite PK: (FromID, ToID)
//   - At most one row per ordered pair; inserts use ON CONFLICT DO NOTHING.
//
// Indexes:
//   - idx_likes_to_created(to_id, created_at DESC)
//     Serves the "liked you" listing and counter.
type Like struct {
	FromID    int64     `gorm:"primaryKey;autoIncrement:false"`
	ToID      int64     `gorm:"primaryKey;autoIncrement:false;index:idx_likes_to_created,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_likes_to_created,priority:2,sort:desc"`

	From *User `gorm:"foreignKey:FromID;references:ID;constraint:OnDelete:CASCADE"`
	To   *User `gorm:"foreignKey:ToID;references:ID;constraint:OnDelete:CASCADE"`
}

// Match is the canonical row for an unordered pair, UserA < UserB.
// The composite PK plus the check constraint guarantee one row per pair.
type Match struct {
	UserA     int64     `gorm:"primaryKey;autoIncrement:false;check:chk_matches_order,user_a < user_b"`
	UserB     int64     `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	A *User `gorm:"foreignKey:UserA;references:ID;constraint:OnDelete:CASCADE"`
	B *User `gorm:"foreignKey:UserB;references:ID;constraint:OnDelete:CASCADE"`
}

// Payment records an accepted premium purchase.
// ChargeID is the provider's charge identifier; a repeated ChargeID is a replay.
type Payment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index"`
	ChargeID  *string   `gorm:"size:255;uniqueIndex"`
	Currency  string    `gorm:"size:8;not null"`
	Amount    int64     `gorm:"not null"`
	Payload   string    `gorm:"size:128;not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// CanonicalPair orders two user ids the way Match rows store them.
func CanonicalPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Models lists every table managed by AutoMigrate, parents first.
func Models() []any {
	return []any{&User{}, &Like{}, &Match{}, &Payment{}}
}
