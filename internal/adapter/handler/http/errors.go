package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	domainErrors "github.com/fundilink/verification-service/internal/domain/errors"
	"github.com/fundilink/verification-service/internal/domain/gateway"
)

// errorResponse maps domain errors onto HTTP responses. Gateway failures
// surface their code so the client can distinguish "send failed" from
// "send succeeded, outcome unknown yet".
func errorResponse(c echo.Context, err error) error {
	var verr *domainErrors.VerificationError
	if errors.As(err, &verr) {
		status := http.StatusConflict
		switch verr.Type {
		case domainErrors.ErrTypeVerificationNotFound:
			status = http.StatusNotFound
		case domainErrors.ErrTypeNotRequestOwner:
			status = http.StatusForbidden
		}
		return c.JSON(status, echo.Map{
			"error": verr.Message,
			"code":  verr.Type,
		})
	}

	var gwErr *gateway.GatewayError
	if errors.As(err, &gwErr) {
		status := http.StatusBadGateway
		if !gwErr.Transient {
			status = http.StatusUnprocessableEntity
		}
		return c.JSON(status, echo.Map{
			"error": gwErr.Message,
			"code":  gwErr.Code,
		})
	}

	switch {
	case errors.Is(err, gateway.ErrInvalidPhoneNumber):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid phone number",
			"code":  "INVALID_PHONE_NUMBER",
		})
	case errors.Is(err, domainErrors.ErrPaymentStillProcessing):
		// Not a failure: the prompt may still be answered and the callback
		// will finish the job.
		return c.JSON(http.StatusAccepted, echo.Map{
			"status":  "pending",
			"message": "Payment still processing, check back shortly",
		})
	case errors.Is(err, domainErrors.ErrAttemptNotFound),
		errors.Is(err, domainErrors.ErrProviderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error": "Internal server error",
	})
}
