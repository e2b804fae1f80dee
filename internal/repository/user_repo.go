package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/db"
)

// UserRepository provides data access methods for users, their interests and
// the static activity list.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create persists a new user. The unique email index rejects duplicates.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail returns the user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns one user.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users with their interests preloaded.
func (r *UserRepository) List(ctx context.Context) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Preload("Activities").
		Order("id asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Interests returns the activity names a user registered interest in.
func (r *UserRepository) Interests(ctx context.Context, userID uint64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("activities a").
		Select("a.name").
		Joins("JOIN user_activities ua ON ua.activity_id = a.id").
		Where("ua.user_id = ?", userID).
		Order("a.name asc").
		Scan(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// SetInterests replaces a user's interests with the named activities, in one
// transaction. Unknown activity names are silently skipped.
func (r *UserRepository) SetInterests(ctx context.Context, userID uint64, names []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_activities WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		var activities []db.Activity
		if err := tx.Where("name IN ?", names).Find(&activities).Error; err != nil {
			return err
		}
		for _, a := range activities {
			if err := tx.Exec(
				"INSERT INTO user_activities (user_id, activity_id) VALUES (?, ?)",
				userID, a.ID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Activities returns the static activity list, sorted by name.
func (r *UserRepository) Activities(ctx context.Context) ([]db.Activity, error) {
	var activities []db.Activity
	if err := r.db.WithContext(ctx).Order("name asc").Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}
