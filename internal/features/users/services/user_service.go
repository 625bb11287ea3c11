package users_services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	users_dto "bugtrail/internal/features/users/dto"
	users_interfaces "bugtrail/internal/features/users/interfaces"
	users_models "bugtrail/internal/features/users/models"
	users_repositories "bugtrail/internal/features/users/repositories"
	"bugtrail/internal/util/memcache"
)

var (
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrUnknownEmail       = errors.New("user with this email does not exist")
	ErrWrongPassword      = errors.New("password is incorrect")
)

const tokenLifetime = 7 * 24 * time.Hour

type UserService struct {
	userRepository      *users_repositories.UserRepository
	secretKeyRepository *users_repositories.SecretKeyRepository

	// Bounded identity lookup cache keyed by user id; a just-updated
	// profile may be served stale for the TTL window.
	identityCache *memcache.MemCache[users_models.User]

	// set by DI, never nil at runtime
	auditLogWriter     users_interfaces.AuditLogWriter
	invitationAcceptor users_interfaces.InvitationAcceptor
}

func NewUserService(
	userRepository *users_repositories.UserRepository,
	secretKeyRepository *users_repositories.SecretKeyRepository,
	identityCache *memcache.MemCache[users_models.User],
) *UserService {
	return &UserService{
		userRepository:      userRepository,
		secretKeyRepository: secretKeyRepository,
		identityCache:       identityCache,
	}
}

func (s *UserService) SetAuditLogWriter(writer users_interfaces.AuditLogWriter) {
	s.auditLogWriter = writer
}

func (s *UserService) SetInvitationAcceptor(acceptor users_interfaces.InvitationAcceptor) {
	s.invitationAcceptor = acceptor
}

func (s *UserService) SignUp(request *users_dto.SignUpRequestDTO) (*users_dto.SignUpResponseDTO, error) {
	email := strings.TrimSpace(strings.ToLower(request.Email))

	existingUser, err := s.userRepository.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &users_models.User{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: string(hashedPassword),
		Name:           request.Name,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.userRepository.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	invitationsAccepted := 0
	if s.invitationAcceptor != nil {
		count, err := s.invitationAcceptor.AcceptPendingForUser(user)
		if err != nil {
			return nil, fmt.Errorf("failed to process pending invitations: %w", err)
		}
		invitationsAccepted = count
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("User registered with email: %s", user.Email),
		&user.ID,
		nil,
	)

	return &users_dto.SignUpResponseDTO{
		User:                *s.ToResponseDTO(user),
		InvitationsAccepted: invitationsAccepted,
	}, nil
}

func (s *UserService) SignIn(request *users_dto.SignInRequestDTO) (*users_dto.SignInResponseDTO, error) {
	user, err := s.userRepository.GetUserByEmail(request.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUnknownEmail
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(request.Password)); err != nil {
		return nil, ErrWrongPassword
	}

	token, err := s.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	s.auditLogWriter.WriteAuditLog(
		fmt.Sprintf("User signed in with email: %s", user.Email),
		&user.ID,
		nil,
	)

	return &users_dto.SignInResponseDTO{
		User:  *s.ToResponseDTO(user),
		Token: token,
	}, nil
}

func (s *UserService) GetUserFromToken(token string) (*users_models.User, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey()
	if err != nil {
		return nil, fmt.Errorf("failed to get secret key: %w", err)
	}

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("invalid token claims")
	}

	if cached, ok := s.identityCache.Get(userID.String()); ok {
		return &cached, nil
	}

	user, err := s.userRepository.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	s.identityCache.Set(userID.String(), *user)

	return user, nil
}

func (s *UserService) GenerateAccessToken(user *users_models.User) (string, error) {
	secretKey, err := s.secretKeyRepository.GetSecretKey()
	if err != nil {
		return "", fmt.Errorf("failed to get secret key: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID.String(),
		"exp": time.Now().UTC().Add(tokenLifetime).Unix(),
		"iat": time.Now().UTC().Unix(),
	})

	tokenString, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

func (s *UserService) UpdateProfile(
	user *users_models.User,
	request *users_dto.UpdateProfileRequestDTO,
) (*users_dto.UserResponseDTO, error) {
	if request.Name != nil {
		user.Name = *request.Name
	}
	if request.AvatarURL != nil {
		user.AvatarURL = request.AvatarURL
	}

	if err := s.userRepository.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.identityCache.Invalidate(user.ID.String())

	return s.ToResponseDTO(user), nil
}

func (s *UserService) DeleteUser(userID uuid.UUID) error {
	if err := s.userRepository.DeleteUser(userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.identityCache.Invalidate(userID.String())

	return nil
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*users_models.User, error) {
	return s.userRepository.GetUserByID(userID)
}

func (s *UserService) GetUserByEmail(email string) (*users_models.User, error) {
	return s.userRepository.GetUserByEmail(email)
}

func (s *UserService) ToResponseDTO(user *users_models.User) *users_dto.UserResponseDTO {
	return &users_dto.UserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}
