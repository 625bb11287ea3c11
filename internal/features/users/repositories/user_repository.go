package users_repositories

import (
	"time"

	users_models "bugtrail/internal/features/users/models"
	"bugtrail/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct{}

func (r *UserRepository) CreateUser(user *users_models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(user).Error
}

// GetUserByEmail matches case-insensitively. Returns nil, nil when no
// user exists with this email.
func (r *UserRepository) GetUserByEmail(email string) (*users_models.User, error) {
	var user users_models.User

	if err := storage.GetDb().Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}

		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) GetUserByID(userID uuid.UUID) (*users_models.User, error) {
	var user users_models.User

	if err := storage.GetDb().Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) UpdateUser(user *users_models.User) error {
	return storage.GetDb().Save(user).Error
}

// DeleteUser removes a user. Owned projects are deleted first so their
// bugs, memberships, requests and widget config go with them; the
// remaining references (authored bugs, reviews, invitations sent) are
// nulled or removed by the foreign key actions on those tables.
func (r *UserRepository) DeleteUser(userID uuid.UUID) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM projects WHERE owner_id = ?", userID).Error; err != nil {
			return err
		}

		return tx.Exec("DELETE FROM users WHERE id = ?", userID).Error
	})
}
