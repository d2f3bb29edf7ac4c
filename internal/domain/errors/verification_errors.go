package errors

import (
	"fmt"
)

// VerificationError represents errors related to verification lifecycle operations
type VerificationError struct {
	Type       string
	Message    string
	ProviderID string
	RequestID  string
	Cause      error
}

func (e *VerificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (provider: %s, request: %s) - %v",
			e.Type, e.Message, e.ProviderID, e.RequestID, e.Cause)
	}
	return fmt.Sprintf("%s: %s (provider: %s, request: %s)",
		e.Type, e.Message, e.ProviderID, e.RequestID)
}

func (e *VerificationError) Unwrap() error {
	return e.Cause
}

// Verification error types
const (
	ErrTypeVerificationNotFound    = "VERIFICATION_NOT_FOUND"
	ErrTypeDuplicatePendingRequest = "DUPLICATE_PENDING_REQUEST"
	ErrTypeInvalidState            = "INVALID_STATE"
	ErrTypeVerificationNotApproved = "VERIFICATION_NOT_APPROVED"
	ErrTypeNotRequestOwner         = "NOT_REQUEST_OWNER"
)

// NewVerificationNotFoundError creates a new verification not found error
func NewVerificationNotFoundError(providerID, requestID string) *VerificationError {
	return &VerificationError{
		Type:       ErrTypeVerificationNotFound,
		Message:    "verification request not found",
		ProviderID: providerID,
		RequestID:  requestID,
	}
}

// NewDuplicatePendingRequestError creates a new duplicate pending request error
func NewDuplicatePendingRequestError(providerID string) *VerificationError {
	return &VerificationError{
		Type:       ErrTypeDuplicatePendingRequest,
		Message:    "provider already has a pending verification request",
		ProviderID: providerID,
	}
}

// NewInvalidStateError creates a new invalid state error for a disallowed transition
func NewInvalidStateError(requestID, current, wanted string) *VerificationError {
	return &VerificationError{
		Type:      ErrTypeInvalidState,
		Message:   fmt.Sprintf("request is %s, expected %s", current, wanted),
		RequestID: requestID,
	}
}

// NewVerificationNotApprovedError creates the error returned when payment is
// initiated before the documents have been approved
func NewVerificationNotApprovedError(providerID, requestID string) *VerificationError {
	return &VerificationError{
		Type:       ErrTypeVerificationNotApproved,
		Message:    "verification request is not in approved state",
		ProviderID: providerID,
		RequestID:  requestID,
	}
}

// NewNotRequestOwnerError creates the error returned when a provider acts on
// a request that belongs to someone else
func NewNotRequestOwnerError(providerID, requestID string) *VerificationError {
	return &VerificationError{
		Type:       ErrTypeNotRequestOwner,
		Message:    "verification request does not belong to this provider",
		ProviderID: providerID,
		RequestID:  requestID,
	}
}
