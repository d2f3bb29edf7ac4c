package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domainErrors "github.com/fundilink/verification-service/internal/domain/errors"
	"github.com/fundilink/verification-service/internal/domain/gateway"
	"github.com/fundilink/verification-service/internal/domain/model"
	domainRepo "github.com/fundilink/verification-service/internal/domain/repository"
)

// Reconciler drives a payment attempt from initiation to a terminal
// outcome. Two independent paths feed it the gateway result: the bounded
// poll loop started by PayForVerification and the asynchronous callback
// handled by HandleCallback. Both converge on the same branching logic and
// rely on the payment ledger's idempotent terminal write rather than any
// lock, so whichever path observes the result first wins and the other
// no-ops.
type Reconciler struct {
	verificationRepo domainRepo.VerificationRequestRepository
	attemptRepo      domainRepo.PaymentAttemptRepository
	callbackRepo     domainRepo.CallbackEventRepository
	gateway          gateway.PushGateway
	gate             *ActivationGate

	feeAmount    decimal.Decimal
	feeCurrency  string
	pollInterval time.Duration
	pollCeiling  time.Duration

	logger *zap.Logger
}

// NewReconciler creates a new payment reconciler
func NewReconciler(
	verificationRepo domainRepo.VerificationRequestRepository,
	attemptRepo domainRepo.PaymentAttemptRepository,
	callbackRepo domainRepo.CallbackEventRepository,
	pushGateway gateway.PushGateway,
	gate *ActivationGate,
	feeAmount decimal.Decimal,
	feeCurrency string,
	pollInterval time.Duration,
	pollCeiling time.Duration,
	logger *zap.Logger,
) *Reconciler {
	return &Reconciler{
		verificationRepo: verificationRepo,
		attemptRepo:      attemptRepo,
		callbackRepo:     callbackRepo,
		gateway:          pushGateway,
		gate:             gate,
		feeAmount:        feeAmount,
		feeCurrency:      feeCurrency,
		pollInterval:     pollInterval,
		pollCeiling:      pollCeiling,
		logger:           logger,
	}
}

// PayForVerification initiates the verification fee payment for an approved
// request and polls the gateway until a terminal result or the ceiling.
// Retries and double-clicks resume the existing pending attempt instead of
// prompting the payer twice. A ceiling timeout returns
// ErrPaymentStillProcessing with the attempt left pending, since the
// gateway callback may still arrive and must be honored.
func (r *Reconciler) PayForVerification(ctx context.Context, providerID, requestID uuid.UUID, rawPhone string) (*model.PaymentAttempt, error) {
	// Malformed numbers fail fast before any row or network call.
	phone, err := gateway.NormalizePhone(rawPhone)
	if err != nil {
		return nil, err
	}

	req, err := r.verificationRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ProviderID != providerID {
		return nil, domainErrors.NewNotRequestOwnerError(providerID.String(), requestID.String())
	}
	if req.Status != model.VerificationStatusApproved {
		return nil, domainErrors.NewVerificationNotApprovedError(providerID.String(), requestID.String())
	}

	attempt, created, err := r.attemptRepo.Create(ctx, &model.PaymentAttempt{
		ID:                    uuid.New(),
		ProviderID:            providerID,
		VerificationRequestID: requestID,
		PhoneNumber:           phone,
		Amount:                r.feeAmount,
		Currency:              r.feeCurrency,
		Status:                model.PaymentAttemptStatusPending,
	})
	if err != nil {
		return nil, err
	}

	if !created {
		// A resumed row without correlation ids belongs to another initiation
		// that is still between its push and the id write. Pushing again would
		// prompt the payer twice, so report still-processing and let the owner
		// finish.
		if attempt.CheckoutRequestID == nil {
			r.logger.Info("Pending attempt is mid-initiation, not re-pushing",
				zap.String("attempt_id", attempt.ID.String()),
				zap.String("verification_request_id", requestID.String()))
			return attempt, domainErrors.ErrPaymentStillProcessing
		}
		r.logger.Info("Resuming existing pending payment attempt",
			zap.String("attempt_id", attempt.ID.String()),
			zap.String("verification_request_id", requestID.String()))
	}

	// Only the caller that created the row pushes, and only it may roll the
	// row back on failure.
	if created {
		resp, err := r.gateway.InitiatePush(ctx, &gateway.PushRequest{
			PhoneNumber:      phone,
			Amount:           r.feeAmount,
			AccountReference: accountReference(requestID),
			Description:      "Provider verification fee",
		})
		if err != nil {
			// Leave no pending attempt behind so a retry starts clean.
			if delErr := r.attemptRepo.Delete(ctx, attempt.ID); delErr != nil {
				r.logger.Error("Failed to roll back attempt after initiation failure",
					zap.String("attempt_id", attempt.ID.String()),
					zap.Error(delErr))
			}
			return nil, err
		}

		if err := r.attemptRepo.SetCorrelationIDs(ctx, attempt.ID, resp.MerchantRequestID, resp.CheckoutRequestID); err != nil {
			return nil, err
		}
		attempt.MerchantRequestID = &resp.MerchantRequestID
		attempt.CheckoutRequestID = &resp.CheckoutRequestID
	}

	return r.poll(ctx, attempt)
}

// poll queries the gateway at a fixed interval until a terminal result or
// the wall-clock ceiling. Transient query errors and unknown result codes
// count as still-pending. Cancellation of the parent context stops the loop
// the same way the ceiling does.
func (r *Reconciler) poll(ctx context.Context, attempt *model.PaymentAttempt) (*model.PaymentAttempt, error) {
	pollCtx, cancel := context.WithTimeout(ctx, r.pollCeiling)
	defer cancel()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-pollCtx.Done():
			r.logger.Info("Poll ceiling reached with payment still pending",
				zap.String("attempt_id", attempt.ID.String()),
				zap.Duration("ceiling", r.pollCeiling))
			return attempt, domainErrors.ErrPaymentStillProcessing

		case <-ticker.C:
			status, err := r.gateway.QueryStatus(pollCtx, *attempt.CheckoutRequestID)
			if err != nil {
				// The only place transient gateway errors are swallowed:
				// an open prompt often reports as a query error.
				r.logger.Debug("Status query inconclusive, continuing to poll",
					zap.String("attempt_id", attempt.ID.String()),
					zap.Error(err))
				continue
			}

			updated, done, err := r.applyResult(pollCtx, attempt, status.ResultCode, status.ResultDesc, "", nil)
			if err != nil {
				return attempt, err
			}
			if done {
				return updated, nil
			}
		}
	}
}

// HandleCallback processes the gateway's asynchronous result notification.
// It journals the raw event, then applies the same terminal branching as
// the poll loop; the idempotent ledger write makes a duplicate of an
// already-observed result a no-op.
func (r *Reconciler) HandleCallback(ctx context.Context, envelope *gateway.CallbackEnvelope, raw []byte) error {
	result := envelope.Result()

	var payload model.JSONB
	if err := json.Unmarshal(raw, &payload); err != nil {
		payload = model.JSONB{}
	}

	event := &model.GatewayCallbackEvent{
		MerchantRequestID: result.MerchantRequestID,
		CheckoutRequestID: result.CheckoutRequestID,
		ResultCode:        result.ResultCode,
		ResultDesc:        result.ResultDesc,
		Payload:           payload,
		Status:            model.CallbackStatusPending,
	}
	if err := r.callbackRepo.Save(ctx, event); err != nil {
		// The journal is for audit; a failed insert must not drop the signal.
		r.logger.Error("Failed to journal callback event",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.Error(err))
	}

	attempt, err := r.attemptRepo.GetByCheckoutRequestID(ctx, result.CheckoutRequestID)
	if err != nil {
		r.finishEvent(ctx, event, model.CallbackStatusFailed, err)
		return fmt.Errorf("callback for unknown checkout id %s: %w", result.CheckoutRequestID, err)
	}

	_, done, err := r.applyResult(ctx, attempt, result.ResultCode, result.ResultDesc, result.ReceiptNumber, result.TransactedAt)
	if err != nil {
		r.finishEvent(ctx, event, model.CallbackStatusFailed, err)
		return err
	}

	if !done {
		r.logger.Info("Callback carried no terminal transition",
			zap.String("checkout_request_id", result.CheckoutRequestID),
			zap.String("result_code", result.ResultCode))
	}
	r.finishEvent(ctx, event, model.CallbackStatusCompleted, nil)
	return nil
}

// PaymentStatus returns the attempt status for UI polling by the provider.
func (r *Reconciler) PaymentStatus(ctx context.Context, providerID uuid.UUID, checkoutRequestID string) (model.PaymentAttemptStatus, error) {
	attempt, err := r.attemptRepo.GetByCheckoutRequestID(ctx, checkoutRequestID)
	if err != nil {
		return "", err
	}
	if attempt.ProviderID != providerID {
		return "", domainErrors.ErrAttemptNotFound
	}
	return attempt.Status, nil
}

// applyResult branches on one observed gateway result. Success activates
// through the gate; final-failure codes mark the attempt failed; everything
// else is still-pending. done reports whether the attempt reached a
// terminal state during this call (or had already reached one).
func (r *Reconciler) applyResult(ctx context.Context, attempt *model.PaymentAttempt, resultCode, resultDesc, receiptNumber string, paidAt *time.Time) (*model.PaymentAttempt, bool, error) {
	switch {
	case gateway.IsSuccess(resultCode):
		err := r.gate.Activate(ctx, attempt.ID, resultCode, resultDesc, receiptNumber, paidAt)
		if err != nil {
			// A conflicting activation rolls back and leaves the attempt
			// pending; the next poll tick or callback retries it. An attempt
			// that already failed keeps its stored outcome.
			if err == domainErrors.ErrAttemptAlreadyFailed {
				stored, getErr := r.attemptRepo.GetByID(ctx, attempt.ID)
				if getErr != nil {
					return attempt, false, getErr
				}
				return stored, true, nil
			}
			r.logger.Warn("Activation deferred, treating payment as still pending",
				zap.String("attempt_id", attempt.ID.String()),
				zap.Error(err))
			return attempt, false, nil
		}

		updated, err := r.attemptRepo.GetByID(ctx, attempt.ID)
		if err != nil {
			return attempt, true, nil
		}
		return updated, true, nil

	case gateway.IsFinalFailure(resultCode):
		updated, err := r.attemptRepo.MarkTerminal(ctx, attempt.ID, model.PaymentAttemptStatusFailed, resultCode, resultDesc)
		if err != nil {
			return attempt, false, err
		}
		r.logger.Info("Payment attempt failed terminally",
			zap.String("attempt_id", attempt.ID.String()),
			zap.String("result_code", resultCode),
			zap.String("result_desc", resultDesc))
		return updated, true, nil

	default:
		return attempt, false, nil
	}
}

func (r *Reconciler) finishEvent(ctx context.Context, event *model.GatewayCallbackEvent, status model.CallbackStatus, cause error) {
	if event.ID == 0 {
		return
	}
	var lastError *string
	if cause != nil {
		msg := cause.Error()
		lastError = &msg
	}
	if err := r.callbackRepo.MarkProcessed(ctx, event.ID, status, lastError); err != nil {
		r.logger.Error("Failed to mark callback event processed",
			zap.Int64("event_id", event.ID),
			zap.Error(err))
	}
}

// accountReference labels the prompt on the payer's device. The gateway
// caps it at 12 characters, so only a request id prefix fits.
func accountReference(requestID uuid.UUID) string {
	s := requestID.String()
	return "VRF-" + s[:8]
}
