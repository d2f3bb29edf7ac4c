package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/fundilink/verification-service/internal/domain/errors"
	"github.com/fundilink/verification-service/internal/domain/model"
)

func TestVerificationService_Submit(t *testing.T) {
	logger := zap.NewNop()
	providerID := uuid.New()

	tests := []struct {
		name          string
		documentURLs  []string
		planTier      string
		mockSetup     func(*MockVerificationRequestRepository, *MockIdentityRepository)
		expectedError bool
		errorType     string
	}{
		{
			name:         "successful submission",
			documentURLs: []string{"https://docs.example.com/id.pdf"},
			planTier:     "standard",
			mockSetup: func(repo *MockVerificationRequestRepository, identity *MockIdentityRepository) {
				identity.On("GetByID", mock.Anything, providerID).
					Return(&model.User{ID: providerID}, nil)
				repo.On("GetPendingByProvider", mock.Anything, providerID).
					Return(nil, nil)
				repo.On("Create", mock.Anything, mock.MatchedBy(func(req *model.VerificationRequest) bool {
					return req.ProviderID == providerID &&
						req.Status == model.VerificationStatusPending &&
						req.PlanTier == "standard"
				})).Return(nil)
			},
		},
		{
			name:          "no documents",
			documentURLs:  nil,
			planTier:      "standard",
			mockSetup:     func(*MockVerificationRequestRepository, *MockIdentityRepository) {},
			expectedError: true,
			errorType:     domainErrors.ErrTypeInvalidState,
		},
		{
			name:          "missing plan tier",
			documentURLs:  []string{"https://docs.example.com/id.pdf"},
			planTier:      "",
			mockSetup:     func(*MockVerificationRequestRepository, *MockIdentityRepository) {},
			expectedError: true,
			errorType:     domainErrors.ErrTypeInvalidState,
		},
		{
			name:         "unknown provider",
			documentURLs: []string{"https://docs.example.com/id.pdf"},
			planTier:     "standard",
			mockSetup: func(repo *MockVerificationRequestRepository, identity *MockIdentityRepository) {
				identity.On("GetByID", mock.Anything, providerID).
					Return(nil, domainErrors.ErrProviderNotFound)
			},
			expectedError: true,
		},
		{
			name:         "duplicate pending request",
			documentURLs: []string{"https://docs.example.com/id.pdf"},
			planTier:     "standard",
			mockSetup: func(repo *MockVerificationRequestRepository, identity *MockIdentityRepository) {
				identity.On("GetByID", mock.Anything, providerID).
					Return(&model.User{ID: providerID}, nil)
				repo.On("GetPendingByProvider", mock.Anything, providerID).
					Return(&model.VerificationRequest{ID: uuid.New(), ProviderID: providerID, Status: model.VerificationStatusPending}, nil)
			},
			expectedError: true,
			errorType:     domainErrors.ErrTypeDuplicatePendingRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockVerificationRequestRepository)
			identity := new(MockIdentityRepository)
			tt.mockSetup(repo, identity)

			service := NewVerificationService(repo, identity, logger)
			req, err := service.Submit(context.Background(), providerID, tt.documentURLs, tt.planTier)

			if tt.expectedError {
				require.Error(t, err)
				assert.Nil(t, req)
				if tt.errorType != "" {
					var verErr *domainErrors.VerificationError
					require.ErrorAs(t, err, &verErr)
					assert.Equal(t, tt.errorType, verErr.Type)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, req)
				assert.NotEqual(t, uuid.Nil, req.ID)
				assert.Equal(t, model.VerificationStatusPending, req.Status)
			}

			repo.AssertExpectations(t)
			identity.AssertExpectations(t)
		})
	}
}

func TestVerificationService_Approve(t *testing.T) {
	logger := zap.NewNop()
	requestID := uuid.New()
	reviewerID := uuid.New()

	repo := new(MockVerificationRequestRepository)
	identity := new(MockIdentityRepository)

	approved := &model.VerificationRequest{
		ID:     requestID,
		Status: model.VerificationStatusApproved,
	}
	repo.On("Review", mock.Anything, requestID, model.VerificationStatusApproved, reviewerID, (*string)(nil)).
		Return(approved, nil)

	service := NewVerificationService(repo, identity, logger)
	req, err := service.Approve(context.Background(), requestID, reviewerID)

	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusApproved, req.Status)

	// Approval must never touch the identity store; the verified flag
	// stays off until the fee is confirmed.
	identity.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestVerificationService_Approve_NotPending(t *testing.T) {
	logger := zap.NewNop()
	requestID := uuid.New()
	reviewerID := uuid.New()

	repo := new(MockVerificationRequestRepository)
	repo.On("Review", mock.Anything, requestID, model.VerificationStatusApproved, reviewerID, (*string)(nil)).
		Return(nil, domainErrors.NewInvalidStateError(requestID.String(), "rejected", "pending"))

	service := NewVerificationService(repo, new(MockIdentityRepository), logger)
	_, err := service.Approve(context.Background(), requestID, reviewerID)

	var verErr *domainErrors.VerificationError
	require.ErrorAs(t, err, &verErr)
	assert.Equal(t, domainErrors.ErrTypeInvalidState, verErr.Type)
}

func TestVerificationService_Reject(t *testing.T) {
	logger := zap.NewNop()
	requestID := uuid.New()
	reviewerID := uuid.New()
	reason := "document illegible"

	repo := new(MockVerificationRequestRepository)
	rejected := &model.VerificationRequest{
		ID:     requestID,
		Status: model.VerificationStatusRejected,
	}
	repo.On("Review", mock.Anything, requestID, model.VerificationStatusRejected, reviewerID, &reason).
		Return(rejected, nil)

	service := NewVerificationService(repo, new(MockIdentityRepository), logger)
	req, err := service.Reject(context.Background(), requestID, reviewerID, reason)

	require.NoError(t, err)
	assert.Equal(t, model.VerificationStatusRejected, req.Status)
	repo.AssertExpectations(t)
}

func TestVerificationService_Revoke(t *testing.T) {
	logger := zap.NewNop()
	providerID := uuid.New()
	requestID := uuid.New()

	t.Run("revokes the active verification", func(t *testing.T) {
		repo := new(MockVerificationRequestRepository)
		repo.On("GetActiveByProvider", mock.Anything, providerID).
			Return(&model.VerificationRequest{ID: requestID, ProviderID: providerID, Status: model.VerificationStatusActive}, nil)
		repo.On("Revoke", mock.Anything, requestID, "policy violation").Return(nil)

		service := NewVerificationService(repo, new(MockIdentityRepository), logger)
		err := service.Revoke(context.Background(), providerID, "policy violation")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("no active verification", func(t *testing.T) {
		repo := new(MockVerificationRequestRepository)
		repo.On("GetActiveByProvider", mock.Anything, providerID).Return(nil, nil)

		service := NewVerificationService(repo, new(MockIdentityRepository), logger)
		err := service.Revoke(context.Background(), providerID, "policy violation")

		var verErr *domainErrors.VerificationError
		require.ErrorAs(t, err, &verErr)
		assert.Equal(t, domainErrors.ErrTypeVerificationNotFound, verErr.Type)
		repo.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVerificationService_Current(t *testing.T) {
	logger := zap.NewNop()
	providerID := uuid.New()

	t.Run("provider with history", func(t *testing.T) {
		repo := new(MockVerificationRequestRepository)
		identity := new(MockIdentityRepository)

		identity.On("GetByID", mock.Anything, providerID).
			Return(&model.User{ID: providerID, Verified: true}, nil)
		repo.On("GetLatestByProvider", mock.Anything, providerID).
			Return(&model.VerificationRequest{ID: uuid.New(), ProviderID: providerID, Status: model.VerificationStatusActive}, nil)

		service := NewVerificationService(repo, identity, logger)
		req, user, err := service.Current(context.Background(), providerID)

		require.NoError(t, err)
		require.NotNil(t, req)
		assert.True(t, user.Verified)
	})

	t.Run("provider never submitted", func(t *testing.T) {
		repo := new(MockVerificationRequestRepository)
		identity := new(MockIdentityRepository)

		identity.On("GetByID", mock.Anything, providerID).
			Return(&model.User{ID: providerID}, nil)
		repo.On("GetLatestByProvider", mock.Anything, providerID).Return(nil, nil)

		service := NewVerificationService(repo, identity, logger)
		req, user, err := service.Current(context.Background(), providerID)

		require.NoError(t, err)
		assert.Nil(t, req)
		assert.False(t, user.Verified)
	})

	t.Run("identity lookup fails", func(t *testing.T) {
		repo := new(MockVerificationRequestRepository)
		identity := new(MockIdentityRepository)

		identity.On("GetByID", mock.Anything, providerID).
			Return(nil, errors.New("connection refused"))

		service := NewVerificationService(repo, identity, logger)
		_, _, err := service.Current(context.Background(), providerID)

		assert.Error(t, err)
		repo.AssertNotCalled(t, "GetLatestByProvider", mock.Anything, mock.Anything)
	})
}
