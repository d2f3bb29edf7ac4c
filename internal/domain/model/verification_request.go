package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// VerificationStatus represents the lifecycle state of a verification request
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
	VerificationStatusActive   VerificationStatus = "active"
	VerificationStatusRevoked  VerificationStatus = "revoked"
)

// Scan implements sql.Scanner interface
func (s *VerificationStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s = VerificationStatus(v)
	case []byte:
		*s = VerificationStatus(v)
	default:
		*s = VerificationStatusPending
	}
	return nil
}

// Value implements driver.Valuer interface
func (s VerificationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Terminal reports whether no further automatic transition applies.
// Rejected and revoked requests re-enter the flow only via a new request.
func (s VerificationStatus) Terminal() bool {
	return s == VerificationStatusRejected || s == VerificationStatusRevoked
}

// VerificationRequest represents one provider's attempt to earn the
// verified badge. A provider may accumulate many historical requests but
// holds at most one pending request at a time (partial unique index).
// Requests are never hard-deleted; prior reviewer and timestamps are kept.
type VerificationRequest struct {
	ID           uuid.UUID          `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ProviderID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"provider_id"`
	DocumentURLs StringList         `gorm:"type:jsonb;not null;default:'[]'" json:"document_urls"`
	PlanTier     string             `gorm:"size:50;not null" json:"plan_tier"`
	Status       VerificationStatus `gorm:"type:verification_status;not null;default:'pending';index" json:"status"`
	ReviewedBy   *uuid.UUID         `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time         `json:"reviewed_at,omitempty"`
	Note         *string            `json:"note,omitempty"`
	ActiveUntil  *time.Time         `json:"active_until,omitempty"`
	CreatedAt    time.Time          `gorm:"default:now()" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (VerificationRequest) TableName() string {
	return "verification_requests"
}
