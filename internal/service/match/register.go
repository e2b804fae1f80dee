package match

import (
	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/app"
)

// Registrar ties the matching engine into the HTTP router.
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the matching endpoints.
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the matching routes to the /api group.
func (r *Registrar) Register(api *gin.RouterGroup, authRequired gin.HandlerFunc) {
	engine := NewEngine(r.appCtx)

	grp := api.Group("/matchrequests", authRequired)
	grp.POST("", engine.SubmitHandler)
	grp.GET("/searching", engine.SearchingHandler)
	grp.GET("/:id", engine.RequestHandler)
}
