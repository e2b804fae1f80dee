package woop

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/app"
	"github.com/woopit/woopit-server/internal/db"
	svcErr "github.com/woopit/woopit-server/internal/errors"
	"github.com/woopit/woopit-server/internal/repository"
	"github.com/woopit/woopit-server/internal/server"
)

const defaultPageSize = 20

// Service exposes the woop lifecycle outside the matching engine: manual
// creation, browsing, joining/leaving, completion and chat.
type Service struct {
	appCtx   *app.AppContext
	woops    *repository.WoopRepository
	messages *repository.MessageRepository
	ideas    *repository.CommunityIdeaRepository
}

func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		woops:    repository.NewWoopRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
		ideas:    repository.NewCommunityIdeaRepository(appCtx.DB),
	}
}

// ListHandler handles GET /api/woops: non-mock woops, newest first, with
// cursor pagination.
func (s *Service) ListHandler(c *gin.Context) {
	var token *string
	if t := c.Query("page_token"); t != "" {
		token = &t
	}

	woops, nextToken, err := s.woops.List(c.Request.Context(), token, defaultPageSize)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	out := make([]gin.H, len(woops))
	for i, w := range woops {
		out[i] = gin.H{
			"id":          w.ID,
			"title":       w.Title,
			"description": w.Description,
			"user_id":     w.UserID,
			"status":      w.Status,
			"created_at":  w.CreatedAt,
		}
	}

	resp := gin.H{"woops": out}
	if nextToken != nil {
		resp["next_page_token"] = *nextToken
	}
	c.JSON(http.StatusOK, resp)
}

type createRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateHandler handles POST /api/woops: manual woop creation; the creator is
// seated immediately.
func (s *Service) CreateHandler(c *gin.Context) {
	userID := server.UserID(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.AbortInvalid(c, "title is required")
		return
	}

	w := &db.Woop{
		Title:       req.Title,
		Description: req.Description,
		UserID:      &userID,
		Status:      db.WoopStatusActive,
	}
	if err := s.woops.Create(c.Request.Context(), w, userID); err != nil {
		s.appCtx.Logger.Error("woop creation failed", "user_id", userID, "err", err)
		svcErr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": w.ID, "message": "woop created"})
}

// JoinHandler handles POST /api/woops/:id/join.
func (s *Service) JoinHandler(c *gin.Context) {
	woopID, ok := woopParam(c)
	if !ok {
		return
	}

	if err := s.woops.Join(c.Request.Context(), woopID, server.UserID(c)); err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// LeaveHandler handles POST /api/woops/:id/leave.
func (s *Service) LeaveHandler(c *gin.Context) {
	woopID, ok := woopParam(c)
	if !ok {
		return
	}

	if err := s.woops.Leave(c.Request.Context(), woopID, server.UserID(c)); err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CompleteHandler handles POST /api/woops/:id/complete.
func (s *Service) CompleteHandler(c *gin.Context) {
	woopID, ok := woopParam(c)
	if !ok {
		return
	}

	if err := s.woops.Complete(c.Request.Context(), woopID); err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ParticipantsHandler handles GET /api/woops/:id/participants.
func (s *Service) ParticipantsHandler(c *gin.Context) {
	woopID, ok := woopParam(c)
	if !ok {
		return
	}

	users, err := s.woops.Participants(c.Request.Context(), woopID)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	out := make([]gin.H, len(users))
	for i, u := range users {
		out[i] = gin.H{
			"id":         u.ID,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
		}
	}
	c.JSON(http.StatusOK, out)
}

type messageRequest struct {
	Text string `json:"text" binding:"required"`
}

// PostMessageHandler handles POST /api/woops/:id/messages.
func (s *Service) PostMessageHandler(c *gin.Context) {
	woopID, ok := woopParam(c)
	if !ok {
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.AbortInvalid(c, "text is required")
		return
	}

	msg := &db.Message{
		WoopID: woopID,
		UserID: server.UserID(c),
		Text:   req.Text,
	}
	if err := s.messages.Save(c.Request.Context(), msg); err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// MessagesHandler handles GET /api/woops/:id/messages.
func (s *Service) MessagesHandler(c *gin.Context) {
	woopID, ok := woopParam(c)
	if !ok {
		return
	}

	messages, err := s.messages.ListByWoop(c.Request.Context(), woopID)
	if err != nil {
		svcErr.Abort(c, err)
		return
	}

	out := make([]gin.H, len(messages))
	for i, m := range messages {
		out[i] = gin.H{
			"id":         m.ID,
			"woop_id":    m.WoopID,
			"user_id":    m.UserID,
			"text":       m.Text,
			"created_at": m.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

// IdeasHandler handles GET /api/community-ideas: all ideas with their
// authors, newest first.
func (s *Service) IdeasHandler(c *gin.Context) {
	ideas, err := s.ideas.List(c.Request.Context())
	if err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideas": ideas})
}

type ideaRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// PostIdeaHandler handles POST /api/community-ideas.
func (s *Service) PostIdeaHandler(c *gin.Context) {
	var req ideaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		svcErr.AbortInvalid(c, "title and description are required")
		return
	}

	idea := &db.CommunityIdea{
		UserID:      server.UserID(c),
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.ideas.Save(c.Request.Context(), idea); err != nil {
		svcErr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": idea.ID, "message": "idea created"})
}

// woopParam parses the :id path param, aborting with a 400 when invalid.
func woopParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		svcErr.AbortInvalid(c, "id must be a valid uint64")
		return 0, false
	}
	return id, true
}
