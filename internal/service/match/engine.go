package match

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/woopit/woopit-server/internal/app"
	"github.com/woopit/woopit-server/internal/db"
	"github.com/woopit/woopit-server/internal/repository"
)

// Policy selects between the matching behaviors the system supports.
//
// ExcludeSelf keeps the submitter's own rows out of the candidate query; the
// new request is then merged back in by creation order. The default (false)
// lets the freshly inserted request appear in its own pool.
//
// Strict always seats the requester and demands exactly MaxParticipants-1
// compatible others. The default (false) is the inclusive policy: a group is
// complete when the compatible set reaches MaxParticipants, and is truncated
// to the MaxParticipants earliest-created members, which favors long-waiting
// requesters even over the submitter itself.
type Policy struct {
	ExcludeSelf bool
	Strict      bool
}

// SubmitInput carries a validated match submission.
type SubmitInput struct {
	Activity        string
	Level           string
	Gender          string
	MaxParticipants int
	RadiusKm        float64
	Latitude        float64
	Longitude       float64
}

// SubmitResult is the outcome of one submission. Matched reports whether the
// caller's own request was consumed; WoopID is set whenever this submission
// completed a group, even one the caller was truncated out of.
type SubmitResult struct {
	Matched   bool
	RequestID uint64
	WoopID    *uint64
}

// Engine implements the group formation flow: persist the incoming request,
// read the pending bucket, filter for mutual compatibility, and commit a
// session when the group is complete.
type Engine struct {
	appCtx   *app.AppContext
	requests *repository.MatchRequestRepository
	woops    *repository.WoopRepository
	policy   Policy
}

// NewEngine creates the engine with dependencies from AppContext; policy
// flags come from config.
func NewEngine(appCtx *app.AppContext) *Engine {
	return &Engine{
		appCtx:   appCtx,
		requests: repository.NewMatchRequestRepository(appCtx.DB),
		woops:    repository.NewWoopRepository(appCtx.DB),
		policy: Policy{
			ExcludeSelf: appCtx.Config.Match.ExcludeSelf,
			Strict:      appCtx.Config.Match.Strict,
		},
	}
}

// NewEngineWithPolicy is like NewEngine with an explicit policy. Used by
// tests and by deployments pinning a legacy behavior.
func NewEngineWithPolicy(appCtx *app.AppContext, policy Policy) *Engine {
	e := NewEngine(appCtx)
	e.policy = policy
	return e
}

// Submit persists a new pending request for userID and attempts to form a
// group from the current pool.
//
// A commit race (some selected request consumed by a concurrent submission)
// is retried once from the candidate query; a second loss degrades to "not
// matched", which is a true and safe answer since the caller's request is
// still pending. Every other error propagates, leaving the inserted request
// pending and recoverable by a future submission's query.
func (e *Engine) Submit(ctx context.Context, userID uint64, in SubmitInput) (SubmitResult, error) {
	req := &db.MatchRequest{
		UserID:          userID,
		Activity:        in.Activity,
		Level:           in.Level,
		Gender:          in.Gender,
		MaxParticipants: in.MaxParticipants,
		RadiusKm:        in.RadiusKm,
		Latitude:        in.Latitude,
		Longitude:       in.Longitude,
	}
	if err := e.requests.Insert(ctx, req); err != nil {
		return SubmitResult{}, err
	}

	// the bucket's pending set changed the moment the insert landed, so the
	// counter goes stale on every exit path from here on
	defer func() {
		_ = e.appCtx.RedisCache.InvalidateSearchingCount(ctx, in.Activity, in.Level, in.MaxParticipants)
	}()

	result := SubmitResult{RequestID: req.ID}

	for attempt := 1; attempt <= 2; attempt++ {
		outcome, err := e.tryFormGroup(ctx, req)
		if errors.Is(err, repository.ErrConcurrentMatch) {
			e.appCtx.Logger.Warn("group commit lost a race",
				"request_id", req.ID, "attempt", attempt)
			continue
		}
		if err != nil {
			return result, err
		}
		result.Matched = outcome.matchedSelf
		result.WoopID = outcome.woopID
		break
	}

	return result, nil
}

type groupOutcome struct {
	woopID      *uint64
	matchedSelf bool
}

// tryFormGroup runs steps 2-6 of the submission flow once. A nil-woop outcome
// means the group is not complete yet; repository.ErrConcurrentMatch means
// the commit was lost to a racing submission and the whole decision aborted.
func (e *Engine) tryFormGroup(ctx context.Context, req *db.MatchRequest) (groupOutcome, error) {
	bucket := repository.Bucket{
		Activity:        req.Activity,
		Level:           req.Level,
		Gender:          req.Gender,
		MaxParticipants: req.MaxParticipants,
	}

	var exclude uint64
	if e.policy.ExcludeSelf {
		exclude = req.UserID
	}

	pool, err := e.requests.QueryPending(ctx, bucket, exclude)
	if err != nil {
		return groupOutcome{}, err
	}

	group := selectCompatible(req, pool)
	if e.policy.ExcludeSelf {
		group = insertByCreation(group, *req)
	}

	if e.policy.Strict {
		group = e.strictGroup(req, group)
	} else {
		if len(group) < req.MaxParticipants {
			return groupOutcome{}, nil
		}
		group = group[:req.MaxParticipants]
	}
	if group == nil {
		return groupOutcome{}, nil
	}

	return e.commitGroup(ctx, req, group)
}

// strictGroup implements the legacy completeness rule: the requester is
// always seated and exactly MaxParticipants-1 earliest compatible others are
// required. Returns nil when the group cannot be completed.
func (e *Engine) strictGroup(req *db.MatchRequest, group []db.MatchRequest) []db.MatchRequest {
	others := make([]db.MatchRequest, 0, len(group))
	var self *db.MatchRequest
	for i := range group {
		if group[i].ID == req.ID {
			self = &group[i]
			continue
		}
		if group[i].UserID == req.UserID {
			continue
		}
		others = append(others, group[i])
	}
	if len(others) < req.MaxParticipants-1 {
		return nil
	}
	if self == nil {
		self = req
	}
	return append(others[:req.MaxParticipants-1:req.MaxParticipants-1], *self)
}

// commitGroup materializes the session and consumes the selected requests in
// one transactional unit. The conditional update guards against concurrent
// consumption: any shortfall rolls the session back too.
func (e *Engine) commitGroup(ctx context.Context, req *db.MatchRequest, group []db.MatchRequest) (groupOutcome, error) {
	ids := make([]uint64, len(group))
	userIDs := make([]uint64, len(group))
	matchedSelf := false
	for i, member := range group {
		ids[i] = member.ID
		userIDs[i] = member.UserID
		if member.ID == req.ID {
			matchedSelf = true
		}
	}

	creator := req.UserID
	woop := &db.Woop{
		Title:            "[AUTO] " + req.Activity,
		Description:      fmt.Sprintf("Automatic match for %s", req.Activity),
		UserID:           &creator,
		Status:           db.WoopStatusSearching,
		MaxParticipants:  req.MaxParticipants,
		MaxDistanceKm:    req.RadiusKm,
		GenderPreference: req.Gender,
	}

	err := e.appCtx.DB.Transaction(func(tx *gorm.DB) error {
		if err := e.woops.CreateWithParticipants(ctx, tx, woop, userIDs); err != nil {
			return err
		}
		return e.requests.MarkMatched(ctx, tx, ids, woop.ID)
	})
	if err != nil {
		return groupOutcome{}, err
	}

	e.appCtx.Logger.Info("formed group",
		"woop_id", woop.ID, "activity", req.Activity, "size", len(group))

	return groupOutcome{woopID: &woop.ID, matchedSelf: matchedSelf}, nil
}

// SearchingCount returns how many requests are pending in a bucket.
// Cache-first: Redis holds the count for an hour; a miss falls back to the DB
// and refreshes the cache.
func (e *Engine) SearchingCount(ctx context.Context, activity, level string, maxParticipants int) (int64, error) {
	if n, ok, err := e.appCtx.RedisCache.GetSearchingCount(ctx, activity, level, maxParticipants); err == nil && ok {
		return n, nil
	}

	n, err := e.requests.CountPending(ctx, activity, level, maxParticipants)
	if err != nil {
		return 0, err
	}

	_ = e.appCtx.RedisCache.UpdateSearchingCount(ctx, activity, level, maxParticipants, n)

	return n, nil
}
