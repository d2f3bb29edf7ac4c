package http

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fundilink/verification-service/internal/domain/model"
	"github.com/fundilink/verification-service/internal/middleware/auth"
	"github.com/fundilink/verification-service/internal/usecase"
)

// AdminHandler exposes the review console operations. The capability to
// call these at all is asserted upstream; handlers only record which
// reviewer acted.
type AdminHandler struct {
	verifications *usecase.VerificationService
	logger        *zap.Logger
}

func NewAdminHandler(verifications *usecase.VerificationService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		verifications: verifications,
		logger:        logger,
	}
}

// List returns verification requests filtered by status
func (h *AdminHandler) List(c echo.Context) error {
	if _, err := auth.RequireAuth(c); err != nil {
		return err
	}

	status := model.VerificationStatus(c.QueryParam("status"))

	limit := 50
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid limit parameter"})
		}
		if parsed > 200 {
			parsed = 200
		}
		limit = parsed
	}

	offset := 0
	if offsetStr := c.QueryParam("offset"); offsetStr != "" {
		parsed, err := strconv.Atoi(offsetStr)
		if err != nil || parsed < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid offset parameter"})
		}
		offset = parsed
	}

	reqs, err := h.verifications.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list verification requests", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"requests": reqs,
		"count":    len(reqs),
	})
}

// Approve transitions a pending request to approved
func (h *AdminHandler) Approve(c echo.Context) error {
	reviewer, requestID, err := h.reviewParams(c)
	if err != nil {
		return err
	}

	req, err := h.verifications.Approve(c.Request().Context(), requestID, reviewer)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, req)
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Reject transitions a pending request to rejected with a reason
func (h *AdminHandler) Reject(c echo.Context) error {
	reviewer, requestID, err := h.reviewParams(c)
	if err != nil {
		return err
	}

	var body rejectRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	req, err := h.verifications.Reject(c.Request().Context(), requestID, reviewer, body.Reason)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, req)
}

type revokeRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Revoke deactivates a provider's active verification and clears the
// verified flag immediately
func (h *AdminHandler) Revoke(c echo.Context) error {
	if _, err := auth.RequireAuth(c); err != nil {
		return err
	}

	providerID, err := uuid.Parse(c.Param("providerId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid provider id"})
	}

	var body revokeRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if err := h.verifications.Revoke(c.Request().Context(), providerID, body.Reason); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"revoked": true})
}

func (h *AdminHandler) reviewParams(c echo.Context) (reviewerID, requestID uuid.UUID, err error) {
	user, err := auth.RequireAuth(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	reviewerID, parseErr := uuid.Parse(user.UserID)
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid reviewer id")
	}

	requestID, parseErr = uuid.Parse(c.Param("id"))
	if parseErr != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid verification request id")
	}

	return reviewerID, requestID, nil
}
