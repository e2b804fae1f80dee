package server

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/woopit/woopit-server/internal/config"
)

// NewRouter builds the gin engine, wires middleware and validators, and lets
// every registrar attach its routes under /api.
func NewRouter(cfg *config.Config, registrars ...Registrar) *gin.Engine {
	if cfg.App.ENV == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	RegisterValidators()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	authRequired := AuthRequired(cfg)
	for _, r := range registrars {
		r.Register(api, authRequired)
	}

	return router
}

// StartHTTPServer boots the HTTP server on the configured address.
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	router := NewRouter(cfg, registrars...)
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return router.Run(addr)
}
