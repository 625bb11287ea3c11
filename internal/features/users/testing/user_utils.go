package users_testing

import (
	"fmt"
	"strings"
	"time"

	users_dto "bugtrail/internal/features/users/dto"
	users_models "bugtrail/internal/features/users/models"
	users_repositories "bugtrail/internal/features/users/repositories"
	users_services "bugtrail/internal/features/users/services"

	"github.com/google/uuid"
)

// CreateTestUser inserts a user straight through the repository and
// returns a signed-in session for it. The password hash is a stub, so
// these users cannot log in through the API.
func CreateTestUser() *users_dto.SignInResponseDTO {
	id := uuid.New()
	email := fmt.Sprintf("user-%s@test.com", id.String()[:8])

	return CreateTestUserWithEmail(email)
}

func CreateTestUserWithEmail(email string) *users_dto.SignInResponseDTO {
	id := uuid.New()

	user := &users_models.User{
		ID:             id,
		Email:          strings.ToLower(email),
		HashedPassword: "$2a$10$test",
		Name:           "Test User " + id.String()[:8],
		CreatedAt:      time.Now().UTC(),
	}

	userRepository := &users_repositories.UserRepository{}
	if err := userRepository.CreateUser(user); err != nil {
		panic(err)
	}

	userService := users_services.GetUserService()

	token, err := userService.GenerateAccessToken(user)
	if err != nil {
		panic(err)
	}

	return &users_dto.SignInResponseDTO{
		User:  *userService.ToResponseDTO(user),
		Token: token,
	}
}
