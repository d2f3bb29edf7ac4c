package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fundilink/verification-service/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := createExtensions(db); err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	// Custom types must exist before GORM creates columns that use them
	if err := createCustomTypes(db); err != nil {
		logger.Error("Failed to create custom types", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.User{},
		&model.VerificationRequest{},
		&model.PaymentAttempt{},
		&model.GatewayCallbackEvent{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return err
	}
	return nil
}

// createCustomTypes creates custom PostgreSQL types
func createCustomTypes(db *gorm.DB) error {
	var exists bool

	db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'verification_status')`).Scan(&exists)
	if !exists {
		if err := db.Exec(`CREATE TYPE verification_status AS ENUM ('pending', 'approved', 'rejected', 'active', 'revoked')`).Error; err != nil {
			return err
		}
	}

	db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'payment_attempt_status')`).Scan(&exists)
	if !exists {
		if err := db.Exec(`CREATE TYPE payment_attempt_status AS ENUM ('pending', 'completed', 'failed')`).Error; err != nil {
			return err
		}
	}

	db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'callback_status')`).Scan(&exists)
	if !exists {
		if err := db.Exec(`CREATE TYPE callback_status AS ENUM ('pending', 'completed', 'failed')`).Error; err != nil {
			return err
		}
	}

	return nil
}

// createCustomIndexes creates partial indexes that GORM tags cannot express.
// The two partial unique indexes carry the single-pending invariants: one
// open verification request per provider, one in-flight payment attempt per
// request.
func createCustomIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_pending_request_per_provider ON verification_requests (provider_id) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_pending_attempt_per_request ON payment_attempts (verification_request_id) WHERE status = 'pending'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_verification_requests_expired ON verification_requests (active_until) WHERE status = 'active'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_callback_events_unprocessed ON gateway_callback_events (created_at) WHERE status IN ('pending', 'failed')`).Error; err != nil {
		return err
	}

	return nil
}
