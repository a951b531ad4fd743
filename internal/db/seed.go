package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	seedCities = []string{"Almaty", "Astana", "Shymkent"}
	seedGoals  = []string{"relationship", "friendship", "chat"}
)

// SeedTestData resets the database and populates it with demo profiles, likes and matches.
//
// Behavior:
//  1. Clears existing rows in `payments`, `matches`, `likes` and `users`.
//  2. Creates 20 profiles (10 male, 10 female) spread over three cities, mostly hetero.
//  3. Every 4th profile is premium for the next 30 days; profile 20 holds an expired premium
//     flag so lazy reconciliation can be observed.
//  4. Generates ~100 likes between opposite-gender profiles; every 3rd like is reciprocated.
//  5. Derives one canonical match row per reciprocated pair.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now().UTC()

	// --- Fresh start ---
	for _, table := range []string{"payments", "matches", "likes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	// --- Seed users (10 male, 10 female) ---
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		username := fmt.Sprintf("user%d", i)
		gender := GenderMale
		if i > 10 {
			gender = GenderFemale
		}
		orientation := OrientationHetero
		switch i % 7 {
		case 0:
			orientation = OrientationBisexual
		case 5:
			orientation = OrientationGay
		}

		u := User{
			ID:          int64(1000 + i),
			Username:    &username,
			Name:        fmt.Sprintf("User %d", i),
			Age:         18 + r.Intn(30),
			Gender:      gender,
			Orientation: orientation,
			Country:     "KZ",
			City:        seedCities[i%len(seedCities)],
			Goal:        seedGoals[i%len(seedGoals)],
		}
		if i%4 == 0 {
			expires := now.AddDate(0, 0, 30)
			u.IsPremium = true
			u.PremiumExpiresAt = &expires
		}
		if i == 20 {
			expired := now.AddDate(0, 0, -1)
			u.IsPremium = true
			u.PremiumExpiresAt = &expired
		}
		users = append(users, u)
	}
	if err := db.Create(&users).Error; err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}
	log.Println("Seeded 20 users.")

	// --- Seed likes (~100) ---
	counter := 0
	for _, actor := range users {
		for j := 0; j < 8; j++ {
			target := users[r.Intn(len(users))]
			if target.ID == actor.ID || target.Gender == actor.Gender {
				continue
			}

			if err := insertSeedLike(db, actor.ID, target.ID); err != nil {
				return err
			}

			// guarantee a reciprocal like every 3rd pair
			if counter%3 == 0 {
				if err := insertSeedLike(db, target.ID, actor.ID); err != nil {
					return err
				}
			}
			counter++
		}
	}

	// --- Derive matches from every reciprocated pair ---
	if err := db.Exec(`
		INSERT INTO matches (user_a, user_b, created_at)
		SELECT l.from_id, l.to_id, ?
		FROM likes l
		JOIN likes r ON r.from_id = l.to_id AND r.to_id = l.from_id
		WHERE l.from_id < l.to_id`, now).Error; err != nil {
		return fmt.Errorf("failed to seed matches: %w", err)
	}
	log.Printf("Seeded %d likes.", counter)

	return nil
}

func insertSeedLike(db *gorm.DB, from, to int64) error {
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&Like{FromID: from, ToID: to}).Error
	if err != nil {
		return fmt.Errorf("failed to seed like: %w", err)
	}
	return nil
}
