package woop

import (
	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/app"
)

// Registrar ties the woop endpoints into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the woop, chat and community idea routes to the /api group.
func (r *Registrar) Register(api *gin.RouterGroup, authRequired gin.HandlerFunc) {
	service := NewService(r.appCtx)

	api.GET("/woops", service.ListHandler)
	api.GET("/community-ideas", service.IdeasHandler)
	api.POST("/community-ideas", authRequired, service.PostIdeaHandler)

	grp := api.Group("/woops", authRequired)
	grp.POST("", service.CreateHandler)
	grp.POST("/:id/join", service.JoinHandler)
	grp.POST("/:id/leave", service.LeaveHandler)
	grp.POST("/:id/complete", service.CompleteHandler)
	grp.GET("/:id/participants", service.ParticipantsHandler)
	grp.POST("/:id/messages", service.PostMessageHandler)
	grp.GET("/:id/messages", service.MessagesHandler)
}
