package apierror

import (
	"net/http"

	"bugtrail/internal/config"
	env_utils "bugtrail/internal/util/env"
	"bugtrail/internal/util/logger"

	"github.com/gin-gonic/gin"
)

// Internal writes a 500 response. The underlying error is logged; it is
// included in the body only in development mode.
func Internal(ctx *gin.Context, err error) {
	logger.GetLogger().Error("request failed",
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
		"error", err,
	)

	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
