package user

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/app"
	"github.com/woopit/woopit-server/internal/cache"
	svcErr "github.com/woopit/woopit-server/internal/errors"
	"github.com/woopit/woopit-server/internal/repository"
	"github.com/woopit/woopit-server/internal/server"
)

// Service exposes users, their interests and the static activity list.
type Service struct {
	appCtx *app.AppContext
	users  *repository.UserRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx: appCtx,
		users:  repository.NewUserRepository(appCtx.DB),
	}
}

// ListHandler handles GET /api/users: all users with their interests.
func (s *Service) ListHandler(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	out := make([]gin.H, len(users))
	for i, u := range users {
		interests := make([]string, len(u.Activities))
		for j, a := range u.Activities {
			interests[j] = a.Name
		}
		out[i] = gin.H{
			"id":         u.ID,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"age":        u.Age,
			"email":      u.Email,
			"bio":        u.Bio,
			"interests":  interests,
		}
	}

	c.JSON(http.StatusOK, gin.H{"users": out})
}

// GetHandler handles GET /api/users/:id: one user's profile with interests.
func (s *Service) GetHandler(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		svcErr.AbortInvalid(c, "id must be a valid uint64")
		return
	}

	u, err := s.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	interests, err := s.users.Interests(c.Request.Context(), userID)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"age":        u.Age,
		"email":      u.Email,
		"bio":        u.Bio,
		"interests":  interests,
	})
}

// InterestsHandler handles GET /api/users/:id/interests.
func (s *Service) InterestsHandler(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		svcErr.AbortInvalid(c, "id must be a valid uint64")
		return
	}

	interests, err := s.users.Interests(c.Request.Context(), userID)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"interests": interests})
}

type setInterestsRequest struct {
	Interests []string `json:"interests" binding:"required"`
}

// SetInterestsHandler handles POST /api/users/:id/interests. Callers may only
// update their own interests.
func (s *Service) SetInterestsHandler(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		svcErr.AbortInvalid(c, "id must be a valid uint64")
		return
	}
	if userID != server.UserID(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "cannot update another user's interests"})
		return
	}

	var req setInterestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.AbortInvalid(c, "interests must be an array of activity names")
		return
	}

	if err := s.users.SetInterests(c.Request.Context(), userID, req.Interests); err != nil {
		svcErr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ActivitiesHandler handles GET /api/activities. The list is static reference
// data, so it is served from Redis when possible.
func (s *Service) ActivitiesHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := s.appCtx.RedisCache.Get(ctx, cache.KeyActivities); err == nil && cached != "" {
		var names []string
		if json.Unmarshal([]byte(cached), &names) == nil {
			c.JSON(http.StatusOK, gin.H{"activities": names})
			return
		}
	}

	activities, err := s.users.Activities(ctx)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	names := make([]string, len(activities))
	for i, a := range activities {
		names[i] = a.Name
	}

	if encoded, err := json.Marshal(names); err == nil {
		_ = s.appCtx.RedisCache.Set(ctx, cache.KeyActivities, encoded, 24*time.Hour)
	}

	c.JSON(http.StatusOK, gin.H{"activities": names})
}
