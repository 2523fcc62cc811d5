package model

import (
	"time"

	"github.com/google/uuid"
)

// Document verification statuses. A freshly uploaded document always starts
// at pending; only an admin actor moves it off pending.
const (
	DocPending  = "pending"
	DocVerified = "verified"
	DocRejected = "rejected"
	DocExpired  = "expired"
)

// VendorDocument is one uploaded file evidencing a registration's claims,
// adjudicated independently of the registration's own status.
type VendorDocument struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RegistrationID uuid.UUID `gorm:"type:uuid;index;not null"`

	DocumentType string `gorm:"type:varchar(40);not null"`
	DocumentName string `gorm:"not null"`
	// DocumentURL is an opaque pointer into the external file store.
	DocumentURL string `gorm:"not null"`
	FileSize    int64  `gorm:"not null"`
	MimeType    string `gorm:"type:varchar(100);not null"`
	ExpiryDate  *time.Time

	VerificationStatus string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	VerifiedBy         *uuid.UUID `gorm:"type:uuid"`
	VerifiedAt         *time.Time
	VerificationNotes  *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (VendorDocument) TableName() string { return "vendor_documents" }
