package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/app"
)

// Registrar ties the auth endpoints into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the public auth routes to the /api group.
func (r *Registrar) Register(api *gin.RouterGroup, _ gin.HandlerFunc) {
	service := NewService(r.appCtx)

	api.POST("/register", service.RegisterHandler)
	api.POST("/login", service.LoginHandler)
}
