package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/db"
)

// ErrConcurrentMatch is returned by MarkMatched when at least one of the
// requests it was asked to consume is no longer pending: a concurrent
// grouping decision got there first. The caller must abort the whole
// grouping decision.
var ErrConcurrentMatch = errors.New("match request already consumed by a concurrent match")

// Bucket identifies one matching pool: only requests that agree on all four
// fields can ever be grouped together.
type Bucket struct {
	Activity        string
	Level           string
	Gender          string
	MaxParticipants int
}

// MatchRequestRepository provides data access methods for the MatchRequest model.
// It encapsulates the pending-pool queries and the conditional commit used by
// the group formation engine.
type MatchRequestRepository struct {
	db *gorm.DB
}

// NewMatchRequestRepository creates a new repository bound to the given DB connection.
func NewMatchRequestRepository(database *gorm.DB) *MatchRequestRepository {
	return &MatchRequestRepository{db: database}
}

// Insert persists a new request in status pending and assigns its id.
func (r *MatchRequestRepository) Insert(ctx context.Context, req *db.MatchRequest) error {
	req.Status = db.MatchStatusPending
	req.WoopID = nil
	return r.db.WithContext(ctx).Create(req).Error
}

// QueryPending returns the current candidate pool for a bucket.
//
// Behavior:
//   - Only rows in status pending are returned.
//   - Activity, level and max_participants must match exactly.
//   - Gender matches when the candidate declared the same preference as the
//     requester, or declared "either".
//   - Ordered by created_at asc, id asc: the truncation step downstream keeps
//     the earliest-created members, so the pool arrives already in commit order.
//   - excludeUserID > 0 omits that user's rows (exclude-self policy variant).
//
// Zero matches is not an error; the result is simply empty.
func (r *MatchRequestRepository) QueryPending(
	ctx context.Context,
	bucket Bucket,
	excludeUserID uint64,
) ([]db.MatchRequest, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", db.MatchStatusPending).
		Where("activity = ? AND level = ? AND max_participants = ?",
			bucket.Activity, bucket.Level, bucket.MaxParticipants).
		Where("gender = ? OR gender = ?", bucket.Gender, db.GenderEither).
		Order("created_at asc, id asc")

	if excludeUserID > 0 {
		query = query.Where("user_id <> ?", excludeUserID)
	}

	var requests []db.MatchRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// CountPending returns how many requests are waiting in a bucket, regardless
// of gender preference. Used for the "people searching" counter, with Redis
// in front (DB is fallback).
func (r *MatchRequestRepository) CountPending(
	ctx context.Context,
	activity, level string,
	maxParticipants int,
) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.MatchRequest{}).
		Where("status = ? AND activity = ? AND level = ? AND max_participants = ?",
			db.MatchStatusPending, activity, level, maxParticipants).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkMatched transitions the given request ids from pending to matched and
// attaches the woop id, as a single conditional batched update: rows are only
// flipped while still pending (compare-and-swap per row, batched).
//
// It runs on the supplied transaction handle so that a shortfall rolls back
// everything the caller did in the same unit (the woop and its participants).
// Returns ErrConcurrentMatch when fewer rows were updated than requested.
func (r *MatchRequestRepository) MarkMatched(
	ctx context.Context,
	tx *gorm.DB,
	ids []uint64,
	woopID uint64,
) error {
	if len(ids) == 0 {
		return nil
	}
	res := tx.WithContext(ctx).
		Model(&db.MatchRequest{}).
		Where("id IN ? AND status = ?", ids, db.MatchStatusPending).
		Updates(map[string]interface{}{
			"status":  db.MatchStatusMatched,
			"woop_id": woopID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return ErrConcurrentMatch
	}
	return nil
}

// GetByID fetches one request. Serves the status polling endpoint.
func (r *MatchRequestRepository) GetByID(ctx context.Context, id uint64) (*db.MatchRequest, error) {
	var req db.MatchRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}
