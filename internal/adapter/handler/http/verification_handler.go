package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fundilink/verification-service/internal/middleware/auth"
	"github.com/fundilink/verification-service/internal/usecase"
)

type VerificationHandler struct {
	verifications *usecase.VerificationService
	logger        *zap.Logger
}

func NewVerificationHandler(verifications *usecase.VerificationService, logger *zap.Logger) *VerificationHandler {
	return &VerificationHandler{
		verifications: verifications,
		logger:        logger,
	}
}

type submitVerificationRequest struct {
	DocumentURLs []string `json:"document_urls" validate:"required,min=1,dive,required"`
	PlanTier     string   `json:"plan_tier" validate:"required"`
}

// Submit records a new verification request for the authenticated provider
func (h *VerificationHandler) Submit(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	providerID, err := uuid.Parse(user.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid provider id"})
	}

	var req submitVerificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	created, err := h.verifications.Submit(c.Request().Context(), providerID, req.DocumentURLs, req.PlanTier)
	if err != nil {
		h.logger.Warn("Verification submission rejected",
			zap.String("provider_id", providerID.String()),
			zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, created)
}

// Current returns the provider's most recent request and verified state
func (h *VerificationHandler) Current(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return err
	}

	providerID, err := uuid.Parse(user.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid provider id"})
	}

	req, identity, err := h.verifications.Current(c.Request().Context(), providerID)
	if err != nil {
		return errorResponse(c, err)
	}

	resp := echo.Map{
		"verified":       identity.Verified,
		"verified_until": identity.VerifiedUntil,
	}
	if req != nil {
		resp["request"] = req
	}

	return c.JSON(http.StatusOK, resp)
}
