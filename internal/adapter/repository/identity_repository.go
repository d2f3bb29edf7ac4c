package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainErrors "github.com/fundilink/verification-service/internal/domain/errors"
	"github.com/fundilink/verification-service/internal/domain/model"
	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

type identityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a read-only view over the shared users table
func NewIdentityRepository(db *gorm.DB) domainRepo.IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &user, nil
}
