package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fundilink/verification-service/internal/adapter/repository"
	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

// Repositories holds all repository instances
type Repositories struct {
	VerificationRequest domainRepo.VerificationRequestRepository
	PaymentAttempt      domainRepo.PaymentAttemptRepository
	Activation          domainRepo.ActivationRepository
	Identity            domainRepo.IdentityRepository
	CallbackEvent       domainRepo.CallbackEventRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		VerificationRequest: repository.NewVerificationRequestRepository(db, logger),
		PaymentAttempt:      repository.NewPaymentAttemptRepository(db, logger),
		Activation:          repository.NewActivationRepository(db, logger),
		Identity:            repository.NewIdentityRepository(db),
		CallbackEvent:       repository.NewCallbackEventRepository(db, logger),
	}
}
