package server

import "github.com/gin-gonic/gin"

// Registrar is a common interface for all HTTP route registrars. Each service
// package attaches its routes to the shared /api group; authRequired is the
// middleware protecting authenticated routes.
type Registrar interface {
	Register(api *gin.RouterGroup, authRequired gin.HandlerFunc)
}
