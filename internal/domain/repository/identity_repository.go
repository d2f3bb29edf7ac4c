package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fundilink/verification-service/internal/domain/model"
)

// IdentityRepository reads provider records from the shared identity store.
// Writes to the verified flag never go through here directly; they happen
// inside the activation and revocation transactions.
type IdentityRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
