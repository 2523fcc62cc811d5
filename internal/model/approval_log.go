package model

import (
	"time"

	"github.com/google/uuid"
)

// Canonical log actions. Document-level events reference the parent
// registration so the history view can interleave them with status events.
const (
	ActionSubmitted        = "submitted"
	ActionApproved         = "approved"
	ActionRejected         = "rejected"
	ActionDocumentVerified = "document_verified"
	ActionDocumentRejected = "document_rejected"
	ActionDocumentExpired  = "document_expired"
	ActionStatusChanged    = "status_changed"
)

// VendorApprovalLog is the append-only audit trail of status-changing actions.
// Rows are immutable once created — there is no update or delete path.
type VendorApprovalLog struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RegistrationID uuid.UUID `gorm:"type:uuid;index;not null"`

	Action      string     `gorm:"type:varchar(40);not null"`
	PerformedBy *uuid.UUID `gorm:"type:uuid"`
	Notes       *string    `gorm:"type:text"`
	// For document-level events these carry the document's status change.
	PreviousStatus string `gorm:"type:varchar(30);not null"`
	NewStatus      string `gorm:"type:varchar(30);not null"`
	// DocumentID is set only on document-level events.
	DocumentID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
}

func (VendorApprovalLog) TableName() string { return "vendor_approval_logs" }
