package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	domainErrors "github.com/fundilink/verification-service/internal/domain/errors"
	"github.com/fundilink/verification-service/internal/middleware/auth"
	"github.com/fundilink/verification-service/internal/usecase"
)

type PaymentHandler struct {
	reconciler *usecase.Reconciler
	logger     *zap.Logger
}

func NewPaymentHandler(reconciler *usecase.Reconciler, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

type initiatePaymentRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// Initiate pushes the verification fee prompt to the provider's phone and
// waits for the outcome up to the poll ceiling. A 202 means the prompt is
// still open; the client should poll the status endpoint.
func (h *PaymentHandler) Initiate(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	providerID, err := uuid.Parse(user.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid provider id"})
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid verification request id"})
	}

	var req initiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	attempt, err := h.reconciler.PayForVerification(c.Request().Context(), providerID, requestID, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, domainErrors.ErrPaymentStillProcessing) {
			return c.JSON(http.StatusAccepted, echo.Map{
				"status":              "pending",
				"message":             "Payment still processing, check back shortly",
				"checkout_request_id": attempt.CheckoutRequestID,
			})
		}
		h.logger.Warn("Payment initiation failed",
			zap.String("provider_id", providerID.String()),
			zap.String("verification_request_id", requestID.String()),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, attempt)
}

// Status returns pending|completed|failed for UI polling
func (h *PaymentHandler) Status(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	providerID, err := uuid.Parse(user.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid provider id"})
	}

	checkoutID := c.Param("checkoutId")
	status, err := h.reconciler.PaymentStatus(c.Request().Context(), providerID, checkoutID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"checkout_request_id": checkoutID,
		"status":              status,
	})
}
