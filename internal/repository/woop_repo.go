package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/db"
	"github.com/woopit/woopit-server/internal/utils/pagination"
)

// WoopRepository provides data access methods for woops, participants and the
// session-materialization step of the matching engine.
type WoopRepository struct {
	db *gorm.DB
}

// NewWoopRepository creates a new repository bound to the given DB connection.
func NewWoopRepository(database *gorm.DB) *WoopRepository {
	return &WoopRepository{db: database}
}

// CreateWithParticipants creates exactly one woop row and one participant row
// per supplied user id, on the given transaction handle. Any failure aborts
// the whole unit, so a half-materialized session is never reachable.
func (r *WoopRepository) CreateWithParticipants(
	ctx context.Context,
	tx *gorm.DB,
	woop *db.Woop,
	userIDs []uint64,
) error {
	if err := tx.WithContext(ctx).Create(woop).Error; err != nil {
		return err
	}
	for _, uid := range userIDs {
		p := db.Participant{WoopID: woop.ID, UserID: uid}
		if err := tx.WithContext(ctx).Create(&p).Error; err != nil {
			return err
		}
	}
	return nil
}

// Create persists a manually created woop and seats its creator, in one
// transaction.
func (r *WoopRepository) Create(ctx context.Context, woop *db.Woop, creatorID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.CreateWithParticipants(ctx, tx, woop, []uint64{creatorID})
	})
}

// List returns non-mock woops, newest first, with cursor pagination.
func (r *WoopRepository) List(
	ctx context.Context,
	paginationToken *string,
	limit int,
) ([]db.Woop, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Where("is_mock = ?", false).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.ID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	var woops []db.Woop
	if err := query.Find(&woops).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(woops) > limit {
		last := woops[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		woops = woops[:limit]
	}

	return woops, nextToken, nil
}

// GetByID fetches one woop.
func (r *WoopRepository) GetByID(ctx context.Context, id uint64) (*db.Woop, error) {
	var woop db.Woop
	if err := r.db.WithContext(ctx).First(&woop, id).Error; err != nil {
		return nil, err
	}
	return &woop, nil
}

// Join seats a user in a woop. The unique (woop_id, user_id) index rejects
// duplicates.
func (r *WoopRepository) Join(ctx context.Context, woopID, userID uint64) error {
	p := db.Participant{WoopID: woopID, UserID: userID}
	return r.db.WithContext(ctx).Create(&p).Error
}

// Leave removes a user from a woop. When the leaving user is the creator, the
// earliest remaining participant inherits the woop (NULL when nobody is left).
func (r *WoopRepository) Leave(ctx context.Context, woopID, userID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("woop_id = ? AND user_id = ?", woopID, userID).
			Delete(&db.Participant{}).Error; err != nil {
			return err
		}

		var woop db.Woop
		if err := tx.First(&woop, woopID).Error; err != nil {
			return err
		}
		if woop.UserID == nil || *woop.UserID != userID {
			return nil
		}

		// creator left: hand the woop to the earliest remaining participant
		var next db.Participant
		err := tx.Where("woop_id = ?", woopID).Order("id asc").First(&next).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			return tx.Model(&woop).Update("user_id", nil).Error
		case err != nil:
			return err
		default:
			return tx.Model(&woop).Update("user_id", next.UserID).Error
		}
	})
}

// Complete marks a woop as completed.
func (r *WoopRepository) Complete(ctx context.Context, woopID uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Woop{}).
		Where("id = ?", woopID).
		Update("status", db.WoopStatusCompleted).Error
}

// Participants returns the users seated in a woop.
func (r *WoopRepository) Participants(ctx context.Context, woopID uint64) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Table("users u").
		Select("u.*").
		Joins("JOIN participants p ON p.user_id = u.id").
		Where("p.woop_id = ?", woopID).
		Order("p.id asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
