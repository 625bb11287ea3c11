package users_dto

import (
	"time"

	"github.com/google/uuid"
)

type SignUpRequestDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name"     binding:"required"`
}

type SignInRequestDTO struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequestDTO struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

type UserResponseDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatarUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type SignUpResponseDTO struct {
	User                UserResponseDTO `json:"user"`
	InvitationsAccepted int             `json:"invitationsAccepted"`
}

type SignInResponseDTO struct {
	User  UserResponseDTO `json:"user"`
	Token string          `json:"token"`
}
