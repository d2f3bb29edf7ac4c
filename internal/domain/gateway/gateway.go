package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// PushGateway defines the interface to the external mobile-money gateway.
// InitiatePush triggers exactly one payment prompt on the payer's device;
// QueryStatus has no side effects.
type PushGateway interface {
	// InitiatePush requests a payment prompt on the payer's device and
	// returns the gateway correlation ids on acceptance.
	InitiatePush(ctx context.Context, req *PushRequest) (*PushResponse, error)

	// QueryStatus returns the current outcome of a previously initiated push.
	QueryStatus(ctx context.Context, checkoutRequestID string) (*StatusResponse, error)
}

// PushRequest represents a push-payment initiation request. PhoneNumber
// must already be in canonical international form (see NormalizePhone).
type PushRequest struct {
	PhoneNumber      string
	Amount           decimal.Decimal
	AccountReference string
	Description      string
}

// PushResponse carries the correlation ids returned by the gateway on accept
type PushResponse struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseDescription string
}

// StatusResponse is the gateway's view of a push's outcome
type StatusResponse struct {
	ResultCode string
	ResultDesc string
}

// Gateway result codes. "0" is success; cancelled and prompt-timeout are
// the only codes that terminate an attempt as failed. Every other non-zero
// code means the prompt is still open on the device.
const (
	ResultCodeSuccess         = "0"
	ResultCodeCancelledByUser = "1032"
	ResultCodePromptTimeout   = "1037"
)

// IsSuccess reports whether a result code denotes a completed payment
func IsSuccess(code string) bool {
	return code == ResultCodeSuccess
}

// IsFinalFailure reports whether a result code terminates the attempt
func IsFinalFailure(code string) bool {
	return code == ResultCodeCancelledByUser || code == ResultCodePromptTimeout
}

// GatewayError represents a failed gateway interaction. Transient errors
// (network, 5xx, rate limits) may be retried or treated as still-pending;
// non-transient errors mean the gateway explicitly rejected the request.
type GatewayError struct {
	Code      string
	Message   string
	Details   string
	Transient bool
}

func (e *GatewayError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("gateway error %s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("gateway error %s: %s", e.Code, e.Message)
}
