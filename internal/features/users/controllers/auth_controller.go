package users_controllers

import (
	"errors"
	"net/http"

	"bugtrail/internal/config"
	users_dto "bugtrail/internal/features/users/dto"
	users_middleware "bugtrail/internal/features/users/middleware"
	users_services "bugtrail/internal/features/users/services"
	"bugtrail/internal/util/apierror"
	env_utils "bugtrail/internal/util/env"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const sessionMaxAgeSeconds = 7 * 24 * 60 * 60

type AuthController struct {
	userService  *users_services.UserService
	loginLimiter *rate.Limiter
}

func (c *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/auth/signup", c.SignUp)
	router.POST("/auth/login", c.Login)
	router.POST("/auth/logout", c.Logout)
}

func (c *AuthController) RegisterProtectedRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", c.Me)
	router.PUT("/auth/profile", c.UpdateProfile)
	router.DELETE("/auth/profile", c.DeleteAccount)
}

// SignUp
// @Summary Register a new user
// @Description Register with email, password and display name. Pending project invitations matching the email are accepted automatically.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body users_dto.SignUpRequestDTO true "Signup data"
// @Success 201 {object} users_dto.SignUpResponseDTO
// @Failure 400 {object} map[string]string
// @Router /auth/signup [post]
func (c *AuthController) SignUp(ctx *gin.Context) {
	var request users_dto.SignUpRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	response, err := c.userService.SignUp(&request)
	if err != nil {
		if errors.Is(err, users_services.ErrEmailAlreadyExists) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		apierror.Internal(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

// Login
// @Summary Authenticate a user
// @Description Authenticate with email and password; sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body users_dto.SignInRequestDTO true "Login data"
// @Success 200 {object} users_dto.SignInResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	// We use rate limiter to prevent brute force attacks
	if !c.loginLimiter.Allow() {
		ctx.JSON(
			http.StatusTooManyRequests,
			gin.H{"error": "Rate limit exceeded. Please try again later."},
		)
		return
	}

	var request users_dto.SignInRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	response, err := c.userService.SignIn(&request)
	if err != nil {
		if errors.Is(err, users_services.ErrUnknownEmail) || errors.Is(err, users_services.ErrWrongPassword) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		apierror.Internal(ctx, err)
		return
	}

	c.setSessionCookie(ctx, response.Token, sessionMaxAgeSeconds)

	ctx.JSON(http.StatusOK, response)
}

// Logout
// @Summary End the current session
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setSessionCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me
// @Summary Get the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users_dto.UserResponseDTO
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ctx.JSON(http.StatusOK, c.userService.ToResponseDTO(user))
}

// UpdateProfile
// @Summary Update profile fields
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body users_dto.UpdateProfileRequestDTO true "Profile fields"
// @Success 200 {object} users_dto.UserResponseDTO
// @Failure 401 {object} map[string]string
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request users_dto.UpdateProfileRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	response, err := c.userService.UpdateProfile(user, &request)
	if err != nil {
		apierror.Internal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// DeleteAccount
// @Summary Delete the authenticated user's account
// @Description Deletes the account. Projects the user owns are removed with everything in them; bugs the user reported in other projects are kept with the reporter cleared.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/profile [delete]
func (c *AuthController) DeleteAccount(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := c.userService.DeleteUser(user.ID); err != nil {
		apierror.Internal(ctx, err)
		return
	}

	c.setSessionCookie(ctx, "", -1)

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

func (c *AuthController) setSessionCookie(ctx *gin.Context, token string, maxAge int) {
	secure := config.GetEnv().EnvMode == env_utils.EnvModeProduction

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(users_middleware.SessionCookieName, token, maxAge, "/", "", secure, true)
}
