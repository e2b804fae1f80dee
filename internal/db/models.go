package db

import (
	"time"
)

// Skill levels accepted on a match request.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelExpert       = "expert"
)

// Gender preferences accepted on a match request.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderEither = "either"
)

// Match request lifecycle. Pending rows are the candidate pool; matched is terminal.
const (
	MatchStatusPending = "pending"
	MatchStatusMatched = "matched"
)

// Woop lifecycle.
const (
	WoopStatusSearching = "searching"
	WoopStatusActive    = "active"
	WoopStatusCompleted = "completed"
)

// User table
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	FirstName    string `gorm:"size:64;not null"`
	LastName     string `gorm:"size:64;not null"`
	Age          int    `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Bio          string `gorm:"size:500"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	// Interests, many-to-many against the static activity list
	Activities []Activity `gorm:"many2many:user_activities;"`
}

// Activity is static reference data (padel, hiking, ...), seeded at boot.
type Activity struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"uniqueIndex;size:100;not null"`
}

// MatchRequest is one user's standing request to be auto-matched into a woop.
//
// Lifecycle: pending → matched (terminal). WoopID is set exactly once, together
// with the status flip; both happen through the conditional batched update in
// MatchRequestRepository.MarkMatched.
//
// Index idx_match_requests_bucket(status, activity, level, max_participants)
// serves the candidate-pool query: all pending rows of one matching bucket.
type MatchRequest struct {
	ID              uint64  `gorm:"primaryKey;autoIncrement"`
	UserID          uint64  `gorm:"not null;index"`
	Activity        string  `gorm:"size:100;not null;index:idx_match_requests_bucket,priority:2"`
	Level           string  `gorm:"size:20;not null;index:idx_match_requests_bucket,priority:3"`
	Gender          string  `gorm:"size:10;not null"`
	MaxParticipants int     `gorm:"not null;index:idx_match_requests_bucket,priority:4"`
	RadiusKm        float64 `gorm:"not null"`
	Latitude        float64 `gorm:"not null"`
	Longitude       float64 `gorm:"not null"`
	Status          string  `gorm:"size:10;not null;default:pending;index:idx_match_requests_bucket,priority:1"`
	WoopID          *uint64 `gorm:"index"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// Woop is a group activity session. Auto-matched woops are created in status
// "searching" with the preference fields copied from the triggering request.
type Woop struct {
	ID               uint64  `gorm:"primaryKey;autoIncrement"`
	Title            string  `gorm:"size:200;not null"`
	Description      string  `gorm:"size:500"`
	UserID           *uint64 `gorm:"index"` // creator, reassigned when they leave
	Status           string  `gorm:"size:20;not null;default:searching"`
	MaxParticipants  int     `gorm:"default:0"`
	MaxDistanceKm    float64 `gorm:"default:0"`
	GenderPreference string  `gorm:"size:10"`
	TimeFrame        string  `gorm:"size:100"`
	IsMock           bool    `gorm:"default:false"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`

	Participants []*Participant `gorm:"foreignKey:WoopID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Participant joins a user to a woop. One row per (woop, user).
type Participant struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	WoopID uint64 `gorm:"not null;uniqueIndex:idx_participants_woop_user,priority:1"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_participants_woop_user,priority:2"`
}

// CommunityIdea is a user-suggested activity idea, browsable newest first.
type CommunityIdea struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	UserID      uint64 `gorm:"not null;index"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"size:500;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// Message is one chat line inside a woop.
type Message struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	WoopID    uint64 `gorm:"not null;index"`
	UserID    uint64 `gorm:"not null"`
	Text      string `gorm:"size:2000;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ValidLevel reports whether s is a recognized skill level.
func ValidLevel(s string) bool {
	switch s {
	case LevelBeginner, LevelIntermediate, LevelExpert:
		return true
	}
	return false
}

// ValidGender reports whether s is a recognized gender preference.
func ValidGender(s string) bool {
	switch s {
	case GenderMale, GenderFemale, GenderEither:
		return true
	}
	return false
}
