package users_services

import (
	"time"

	users_models "bugtrail/internal/features/users/models"
	users_repositories "bugtrail/internal/features/users/repositories"
	"bugtrail/internal/util/memcache"
)

var userRepository = &users_repositories.UserRepository{}
var secretKeyRepository = &users_repositories.SecretKeyRepository{}

var userService = NewUserService(
	userRepository,
	secretKeyRepository,
	memcache.New[users_models.User](1024, 5*time.Minute),
)

func GetUserService() *UserService {
	return userService
}
