package router

import "github.com/gin-gonic/gin"

// Module is a feature slice (users, sessions, debug) that mounts its routes,
// limiters and auth on the /api group handed to it by the Registry.
type Module interface {
	Register(rg *gin.RouterGroup)
}
