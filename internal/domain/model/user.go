package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity-store record for a service provider. The table is
// shared with the rest of the application; this service only ever writes
// the verified flag and its expiry, always inside a transaction with the
// corresponding ledger update.
type User struct {
	ID            uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	PhoneNumber   string     `gorm:"size:20" json:"phone_number"`
	Verified      bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedUntil *time.Time `json:"verified_until,omitempty"`
	CreatedAt     time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
