package projects_testing

import "github.com/gin-gonic/gin"

type ControllerInterface interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// PublicControllerInterface marks controllers that also expose routes
// reachable without a session.
type PublicControllerInterface interface {
	RegisterPublicRoutes(router *gin.RouterGroup)
}
