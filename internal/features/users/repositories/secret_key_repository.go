package users_repositories

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	users_models "bugtrail/internal/features/users/models"
	"bugtrail/internal/storage"

	"gorm.io/gorm"
)

// SecretKeyRepository persists the JWT signing secret so sessions
// survive restarts. The secret is generated on first use.
type SecretKeyRepository struct {
	mu     sync.Mutex
	cached string
}

func (r *SecretKeyRepository) GetSecretKey() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cached != "" {
		return r.cached, nil
	}

	var key users_models.SecretKey

	err := storage.GetDb().First(&key).Error
	if err == nil {
		r.cached = key.Secret
		return key.Secret, nil
	}

	if err != gorm.ErrRecordNotFound {
		return "", fmt.Errorf("failed to load secret key: %w", err)
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}

	key = users_models.SecretKey{Secret: hex.EncodeToString(secretBytes)}
	if err := storage.GetDb().Create(&key).Error; err != nil {
		return "", fmt.Errorf("failed to store secret key: %w", err)
	}

	r.cached = key.Secret

	return key.Secret, nil
}
