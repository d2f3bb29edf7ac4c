package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fundilink/verification-service/internal/domain/gateway"
	"github.com/fundilink/verification-service/internal/usecase"
)

// CallbackHandler receives asynchronous payment results from the gateway.
// The gateway retries on non-2xx responses, so the handler acknowledges
// every structurally valid callback even when processing fails; the raw
// payload is journaled first and can be replayed.
type CallbackHandler struct {
	reconciler *usecase.Reconciler
	logger     *zap.Logger
}

func NewCallbackHandler(reconciler *usecase.Reconciler, logger *zap.Logger) *CallbackHandler {
	return &CallbackHandler{
		reconciler: reconciler,
		logger:     logger,
	}
}

// Receive handles POST /callbacks/gateway
func (h *CallbackHandler) Receive(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Failed to read callback body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"ResultCode": 1,
			"ResultDesc": "Unreadable payload",
		})
	}

	var envelope gateway.CallbackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		h.logger.Warn("Malformed gateway callback",
			zap.Error(err),
			zap.Int("payload_size", len(raw)))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"ResultCode": 1,
			"ResultDesc": "Malformed payload",
		})
	}

	if envelope.Body.StkCallback.CheckoutRequestID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"ResultCode": 1,
			"ResultDesc": "Missing CheckoutRequestID",
		})
	}

	if err := h.reconciler.HandleCallback(c.Request().Context(), &envelope, raw); err != nil {
		h.logger.Error("Failed to process gateway callback",
			zap.String("checkout_request_id", envelope.Body.StkCallback.CheckoutRequestID),
			zap.Error(err))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"ResultCode": 0,
		"ResultDesc": "Accepted",
	})
}
