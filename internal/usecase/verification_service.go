package usecase

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/fundilink/verification-service/internal/domain/errors"
	"github.com/fundilink/verification-service/internal/domain/model"
	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

// VerificationService owns the verification request lifecycle: provider
// submission, admin review and revocation. It never activates a request;
// the approved→active transition belongs exclusively to the ActivationGate,
// so approval alone can never produce a verified badge.
type VerificationService struct {
	verificationRepo domainRepo.VerificationRequestRepository
	identityRepo     domainRepo.IdentityRepository
	logger           *zap.Logger
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	verificationRepo domainRepo.VerificationRequestRepository,
	identityRepo domainRepo.IdentityRepository,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		verificationRepo: verificationRepo,
		identityRepo:     identityRepo,
		logger:           logger,
	}
}

// Submit records a new pending verification request for the provider.
// Fails when the provider is unknown or already has a pending request.
func (s *VerificationService) Submit(ctx context.Context, providerID uuid.UUID, documentURLs []string, planTier string) (*model.VerificationRequest, error) {
	if len(documentURLs) == 0 {
		return nil, &domainErrors.VerificationError{
			Type:       domainErrors.ErrTypeInvalidState,
			Message:    "at least one document is required",
			ProviderID: providerID.String(),
		}
	}
	if planTier == "" {
		return nil, &domainErrors.VerificationError{
			Type:       domainErrors.ErrTypeInvalidState,
			Message:    "plan tier is required",
			ProviderID: providerID.String(),
		}
	}

	if _, err := s.identityRepo.GetByID(ctx, providerID); err != nil {
		return nil, err
	}

	pending, err := s.verificationRepo.GetPendingByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, domainErrors.NewDuplicatePendingRequestError(providerID.String())
	}

	req := &model.VerificationRequest{
		ID:           uuid.New(),
		ProviderID:   providerID,
		DocumentURLs: documentURLs,
		PlanTier:     planTier,
		Status:       model.VerificationStatusPending,
	}

	if err := s.verificationRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("Verification request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("provider_id", providerID.String()),
		zap.String("plan_tier", planTier))

	return req, nil
}

// Approve marks a pending request as document-approved. The verified badge
// stays off until the fee is confirmed received.
func (s *VerificationService) Approve(ctx context.Context, requestID, reviewerID uuid.UUID) (*model.VerificationRequest, error) {
	req, err := s.verificationRepo.Review(ctx, requestID, model.VerificationStatusApproved, reviewerID, nil)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Verification request approved",
		zap.String("request_id", requestID.String()),
		zap.String("reviewer_id", reviewerID.String()))

	return req, nil
}

// Reject marks a pending request as rejected with the reviewer's reason.
func (s *VerificationService) Reject(ctx context.Context, requestID, reviewerID uuid.UUID, reason string) (*model.VerificationRequest, error) {
	req, err := s.verificationRepo.Review(ctx, requestID, model.VerificationStatusRejected, reviewerID, &reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Verification request rejected",
		zap.String("request_id", requestID.String()),
		zap.String("reviewer_id", reviewerID.String()),
		zap.String("reason", reason))

	return req, nil
}

// Revoke deactivates the provider's current active verification and clears
// the identity verified flag. This is the one deactivation path outside the
// ActivationGate since no payment is involved.
func (s *VerificationService) Revoke(ctx context.Context, providerID uuid.UUID, reason string) error {
	active, err := s.verificationRepo.GetActiveByProvider(ctx, providerID)
	if err != nil {
		return err
	}
	if active == nil {
		return domainErrors.NewVerificationNotFoundError(providerID.String(), "")
	}

	return s.verificationRepo.Revoke(ctx, active.ID, reason)
}

// Current returns the provider's most recent request together with the
// identity record, nil request when the provider never submitted one.
func (s *VerificationService) Current(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, *model.User, error) {
	user, err := s.identityRepo.GetByID(ctx, providerID)
	if err != nil {
		return nil, nil, err
	}

	req, err := s.verificationRepo.GetLatestByProvider(ctx, providerID)
	if err != nil {
		return nil, nil, err
	}

	return req, user, nil
}

// List returns requests filtered by status for the admin console.
func (s *VerificationService) List(ctx context.Context, status model.VerificationStatus, limit, offset int) ([]*model.VerificationRequest, error) {
	return s.verificationRepo.ListByStatus(ctx, status, limit, offset)
}
