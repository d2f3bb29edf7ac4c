package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	handlers "github.com/fundilink/verification-service/internal/adapter/handler/http"
	"github.com/fundilink/verification-service/internal/config"
	"github.com/fundilink/verification-service/internal/domain/gateway"
	"github.com/fundilink/verification-service/internal/infrastructure/database"
	"github.com/fundilink/verification-service/internal/middleware/auth"
	"github.com/fundilink/verification-service/internal/usecase"
)

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	echo    *echo.Echo
	repos   *database.Repositories
	gateway gateway.PushGateway
}

// requestValidator adapts go-playground/validator to echo's Validator interface
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func NewServer(cfg *config.Config, logger *zap.Logger, repos *database.Repositories, pushGateway gateway.PushGateway) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.Service.ClientURL},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE},
	}))

	return &Server{
		config:  cfg,
		logger:  logger,
		echo:    e,
		repos:   repos,
		gateway: pushGateway,
	}
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	// Usecases
	verificationService := usecase.NewVerificationService(s.repos.VerificationRequest, s.repos.Identity, s.logger)
	activationGate := usecase.NewActivationGate(s.repos.Activation, s.config.Verification.ActivePeriod(), s.logger)
	reconciler := usecase.NewReconciler(
		s.repos.VerificationRequest,
		s.repos.PaymentAttempt,
		s.repos.CallbackEvent,
		s.gateway,
		activationGate,
		s.config.Verification.Fee(),
		s.config.Verification.FeeCurrency,
		s.config.Reconciler.PollInterval.Std(),
		s.config.Reconciler.PollCeiling.Std(),
		s.logger,
	)

	// Handlers
	verificationHandler := handlers.NewVerificationHandler(verificationService, s.logger)
	paymentHandler := handlers.NewPaymentHandler(reconciler, s.logger)
	adminHandler := handlers.NewAdminHandler(verificationService, s.logger)
	callbackHandler := handlers.NewCallbackHandler(reconciler, s.logger)

	// JWT middleware configuration
	jwtConfig := auth.JWTConfig{
		Secret: s.config.JWT.Secret,
		Logger: s.logger,
		SkipPaths: []string{
			"/health",
			"/callbacks/gateway",
		},
	}

	// API v1 routes, all behind authentication
	v1 := s.echo.Group("/api/v1", auth.JWTMiddleware(jwtConfig))

	// Provider-facing verification routes
	verifications := v1.Group("/verifications")
	verifications.POST("", verificationHandler.Submit)
	verifications.GET("/current", verificationHandler.Current)
	verifications.POST("/:id/payments", paymentHandler.Initiate)

	v1.GET("/payments/:checkoutId", paymentHandler.Status)

	// Review console routes
	admin := v1.Group("/admin")
	admin.GET("/verifications", adminHandler.List)
	admin.POST("/verifications/:id/approve", adminHandler.Approve)
	admin.POST("/verifications/:id/reject", adminHandler.Reject)
	admin.POST("/providers/:providerId/revoke", adminHandler.Revoke)

	// Gateway callback route (outside API versioning, authenticated by
	// payload correlation rather than JWT)
	s.echo.POST("/callbacks/gateway", callbackHandler.Receive)
}
