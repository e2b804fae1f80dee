package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/db"
)

// IdeaWithAuthor is one community idea joined with its author's name.
type IdeaWithAuthor struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
}

// CommunityIdeaRepository provides data access methods for community ideas.
type CommunityIdeaRepository struct {
	db *gorm.DB
}

func NewCommunityIdeaRepository(database *gorm.DB) *CommunityIdeaRepository {
	return &CommunityIdeaRepository{db: database}
}

// Save persists a new idea.
func (r *CommunityIdeaRepository) Save(ctx context.Context, idea *db.CommunityIdea) error {
	return r.db.WithContext(ctx).Create(idea).Error
}

// List returns all ideas with their authors, newest first.
func (r *CommunityIdeaRepository) List(ctx context.Context) ([]IdeaWithAuthor, error) {
	var ideas []IdeaWithAuthor
	err := r.db.WithContext(ctx).
		Table("community_ideas ci").
		Select("ci.id, ci.user_id, ci.title, ci.description, ci.created_at, u.first_name, u.last_name").
		Joins("JOIN users u ON ci.user_id = u.id").
		Order("ci.created_at desc, ci.id desc").
		Scan(&ideas).Error
	if err != nil {
		return nil, err
	}
	return ideas, nil
}
