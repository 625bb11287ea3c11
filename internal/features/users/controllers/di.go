package users_controllers

import (
	users_services "bugtrail/internal/features/users/services"

	"golang.org/x/time/rate"
)

var authController = &AuthController{
	userService:  users_services.GetUserService(),
	loginLimiter: rate.NewLimiter(rate.Limit(3), 3), // 3 RPS with burst of 3
}

func GetAuthController() *AuthController {
	return authController
}
