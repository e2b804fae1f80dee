package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultActivities is the static activity list offered at registration
// and accepted by the matching engine.
var DefaultActivities = []string{"Padel", "Five-a-side", "Hiking", "Aperitivo"}

// SeedActivities inserts the static activity list, skipping existing names.
func SeedActivities(db *gorm.DB) error {
	for _, name := range DefaultActivities {
		a := Activity{Name: name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&a).Error; err != nil {
			return fmt.Errorf("failed to seed activity %q: %w", name, err)
		}
	}
	return nil
}

// SeedTestData resets the database and populates it with demo users and a
// handful of pending match requests clustered around Milan.
//
// Behavior:
//  1. Clears all application tables.
//  2. Seeds the static activity list.
//  3. Creates 20 users with hashed passwords and random interests.
//  4. Leaves ~10 pending match requests spread over two matching buckets.
//
// Compatible with both MySQL and SQLite (AUTO_INCREMENT reset skipped for SQLite).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "participants", "match_requests", "woops", "user_activities", "users", "activities"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"messages", "participants", "match_requests", "woops", "users", "activities"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence")
	}

	log.Println("Cleared existing data")

	if err := SeedActivities(db); err != nil {
		return err
	}

	var activities []Activity
	if err := db.Order("id asc").Find(&activities).Error; err != nil {
		return err
	}

	// --- Seed Users ---
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := User{
			FirstName:    fmt.Sprintf("Demo%d", i),
			LastName:     "User",
			Age:          20 + r.Intn(30),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Bio:          "Demo account",
		}
		// one or two random interests each
		user.Activities = append(user.Activities, activities[r.Intn(len(activities))])
		if r.Intn(2) == 0 {
			user.Activities = append(user.Activities, activities[r.Intn(len(activities))])
		}

		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// --- Seed pending match requests (two buckets around Milan) ---
	base := struct{ lat, lon float64 }{45.4642, 9.1900}
	for i := 1; i <= 10; i++ {
		req := MatchRequest{
			UserID:          uint64(i),
			Activity:        "Padel",
			Level:           LevelIntermediate,
			Gender:          GenderEither,
			MaxParticipants: 4,
			RadiusKm:        20,
			Latitude:        base.lat + r.Float64()*0.05,
			Longitude:       base.lon + r.Float64()*0.05,
			Status:          MatchStatusPending,
		}
		if i > 6 {
			req.Activity = "Hiking"
			req.Level = LevelBeginner
			req.MaxParticipants = 6
		}
		if err := db.Create(&req).Error; err != nil {
			return fmt.Errorf("failed to seed match request: %w", err)
		}
	}
	log.Println("Seeded pending match requests.")

	return nil
}
