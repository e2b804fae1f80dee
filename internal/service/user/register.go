package user

import (
	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/app"
)

// Registrar ties the user endpoints into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the user and activity routes to the /api group.
func (r *Registrar) Register(api *gin.RouterGroup, authRequired gin.HandlerFunc) {
	service := NewService(r.appCtx)

	api.GET("/users", service.ListHandler)
	api.GET("/users/:id", service.GetHandler)
	api.GET("/users/:id/interests", authRequired, service.InterestsHandler)
	api.POST("/users/:id/interests", authRequired, service.SetInterestsHandler)
	api.GET("/activities", authRequired, service.ActivitiesHandler)
}
