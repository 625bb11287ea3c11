package users_middleware

import (
	"net/http"

	users_models "bugtrail/internal/features/users/models"
	users_services "bugtrail/internal/features/users/services"

	"github.com/gin-gonic/gin"
)

const SessionCookieName = "bugtrail_session"

// AuthMiddleware validates the session and adds the user to the context.
// The token is read from the httpOnly session cookie; an Authorization
// bearer header is accepted as a fallback for non-browser clients.
func AuthMiddleware(userService *users_services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := extractToken(ctx)
		if token == "" {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			ctx.Abort()
			return
		}

		user, err := userService.GetUserFromToken(token)
		if err != nil {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			ctx.Abort()
			return
		}

		ctx.Set("user", user)
		ctx.Next()
	}
}

// OptionalAuthMiddleware resolves the user when a session is present but
// lets anonymous requests through. Public project reads depend on it.
func OptionalAuthMiddleware(userService *users_services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := extractToken(ctx)
		if token != "" {
			if user, err := userService.GetUserFromToken(token); err == nil {
				ctx.Set("user", user)
			}
		}

		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) string {
	if cookie, err := ctx.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	header := ctx.GetHeader("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}

	return ""
}

// GetUserFromContext helper function to extract user from gin context
func GetUserFromContext(ctx *gin.Context) (*users_models.User, bool) {
	userInterface, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}

	user, ok := userInterface.(*users_models.User)

	return user, ok
}
