package match

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/db"
	svcErr "github.com/woopit/woopit-server/internal/errors"
	"github.com/woopit/woopit-server/internal/server"
)

type submitRequest struct {
	Activity        string   `json:"activity" binding:"required"`
	Level           string   `json:"level" binding:"required,skilllevel"`
	Gender          string   `json:"gender" binding:"required,genderpref"`
	MaxParticipants int      `json:"max_participants" binding:"required,gte=2"`
	RadiusKm        float64  `json:"radius_km" binding:"required,gt=0"`
	Latitude        *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude       *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

type submitResponse struct {
	Matched   bool    `json:"matched"`
	RequestID uint64  `json:"request_id"`
	WoopID    *uint64 `json:"woop_id,omitempty"`
}

// SubmitHandler handles POST /api/matchrequests: validates the submission and
// runs it through the engine. Nothing is persisted on a validation failure.
func (e *Engine) SubmitHandler(c *gin.Context) {
	userID := server.UserID(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.AbortInvalid(c, "invalid match request: "+err.Error())
		return
	}

	result, err := e.Submit(c.Request.Context(), userID, SubmitInput{
		Activity:        req.Activity,
		Level:           req.Level,
		Gender:          req.Gender,
		MaxParticipants: req.MaxParticipants,
		RadiusKm:        req.RadiusKm,
		Latitude:        *req.Latitude,
		Longitude:       *req.Longitude,
	})
	if err != nil {
		e.appCtx.Logger.Error("match submission failed", "user_id", userID, "err", err)
		svcErr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, submitResponse{
		Matched:   result.Matched,
		RequestID: result.RequestID,
		WoopID:    result.WoopID,
	})
}

// RequestHandler handles GET /api/matchrequests/:id: the status of one of the
// caller's own requests, for polling after a not-yet-matched submission.
func (e *Engine) RequestHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		svcErr.AbortInvalid(c, "id must be a valid uint64")
		return
	}

	req, err := e.requests.GetByID(c.Request.Context(), id)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	if req.UserID != server.UserID(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "not your match request"})
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		Matched:   req.Status == db.MatchStatusMatched,
		RequestID: req.ID,
		WoopID:    req.WoopID,
	})
}

type searchingQuery struct {
	Activity        string `form:"activity" binding:"required"`
	Level           string `form:"level" binding:"required,skilllevel"`
	MaxParticipants int    `form:"max_participants" binding:"required,gte=2"`
}

// SearchingHandler handles GET /api/matchrequests/searching: how many people
// are currently waiting in a bucket.
func (e *Engine) SearchingHandler(c *gin.Context) {
	var q searchingQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		svcErr.AbortInvalid(c, "invalid query: "+err.Error())
		return
	}

	count, err := e.SearchingCount(c.Request.Context(), q.Activity, q.Level, q.MaxParticipants)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}
