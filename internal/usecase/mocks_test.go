package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fundilink/verification-service/internal/domain/gateway"
	"github.com/fundilink/verification-service/internal/domain/model"
	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

// MockVerificationRequestRepository is a mock implementation of VerificationRequestRepository
type MockVerificationRequestRepository struct {
	mock.Mock
}

func (m *MockVerificationRequestRepository) Create(ctx context.Context, req *model.VerificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockVerificationRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.VerificationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRequestRepository) GetPendingByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRequestRepository) GetLatestByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRequestRepository) GetActiveByProvider(ctx context.Context, providerID uuid.UUID) (*model.VerificationRequest, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRequestRepository) ListByStatus(ctx context.Context, status model.VerificationStatus, limit, offset int) ([]*model.VerificationRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRequestRepository) Review(ctx context.Context, id uuid.UUID, status model.VerificationStatus, reviewerID uuid.UUID, note *string) (*model.VerificationRequest, error) {
	args := m.Called(ctx, id, status, reviewerID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VerificationRequest), args.Error(1)
}

func (m *MockVerificationRequestRepository) Revoke(ctx context.Context, id uuid.UUID, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

func (m *MockVerificationRequestRepository) ListExpiredActive(ctx context.Context, asOf time.Time, limit int) ([]*model.VerificationRequest, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.VerificationRequest), args.Error(1)
}

// MockPaymentAttemptRepository is a mock implementation of PaymentAttemptRepository
type MockPaymentAttemptRepository struct {
	mock.Mock
}

func (m *MockPaymentAttemptRepository) Create(ctx context.Context, attempt *model.PaymentAttempt) (*model.PaymentAttempt, bool, error) {
	args := m.Called(ctx, attempt)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Bool(1), args.Error(2)
}

func (m *MockPaymentAttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PaymentAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Error(1)
}

func (m *MockPaymentAttemptRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*model.PaymentAttempt, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Error(1)
}

func (m *MockPaymentAttemptRepository) GetPendingByRequest(ctx context.Context, verificationRequestID uuid.UUID) (*model.PaymentAttempt, error) {
	args := m.Called(ctx, verificationRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Error(1)
}

func (m *MockPaymentAttemptRepository) SetCorrelationIDs(ctx context.Context, id uuid.UUID, merchantRequestID, checkoutRequestID string) error {
	args := m.Called(ctx, id, merchantRequestID, checkoutRequestID)
	return args.Error(0)
}

func (m *MockPaymentAttemptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPaymentAttemptRepository) MarkTerminal(ctx context.Context, id uuid.UUID, status model.PaymentAttemptStatus, resultCode, resultDesc string) (*model.PaymentAttempt, error) {
	args := m.Called(ctx, id, status, resultCode, resultDesc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentAttempt), args.Error(1)
}

// MockActivationRepository is a mock implementation of ActivationRepository
type MockActivationRepository struct {
	mock.Mock
}

func (m *MockActivationRepository) Activate(ctx context.Context, params domainRepo.ActivationParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

// MockIdentityRepository is a mock implementation of IdentityRepository
type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockCallbackEventRepository is a mock implementation of CallbackEventRepository
type MockCallbackEventRepository struct {
	mock.Mock
}

func (m *MockCallbackEventRepository) Save(ctx context.Context, event *model.GatewayCallbackEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCallbackEventRepository) MarkProcessed(ctx context.Context, id int64, status model.CallbackStatus, lastError *string) error {
	args := m.Called(ctx, id, status, lastError)
	return args.Error(0)
}

func (m *MockCallbackEventRepository) ListByCheckoutRequestID(ctx context.Context, checkoutRequestID string) ([]*model.GatewayCallbackEvent, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.GatewayCallbackEvent), args.Error(1)
}

// MockPushGateway is a mock implementation of PushGateway
type MockPushGateway struct {
	mock.Mock
}

func (m *MockPushGateway) InitiatePush(ctx context.Context, req *gateway.PushRequest) (*gateway.PushResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PushResponse), args.Error(1)
}

func (m *MockPushGateway) QueryStatus(ctx context.Context, checkoutRequestID string) (*gateway.StatusResponse, error) {
	args := m.Called(ctx, checkoutRequestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.StatusResponse), args.Error(1)
}
