package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Registration workflow statuses. The transition graph is enforced by
// service.WorkflowService — nothing else may write the Status column.
const (
	StatusDraft               = "draft"
	StatusSubmitted           = "submitted"
	StatusUnderReview         = "under_review"
	StatusDocumentsPending    = "documents_pending"
	StatusVerificationPending = "verification_pending"
	StatusApproved            = "approved"
	StatusRejected            = "rejected"
	StatusSuspended           = "suspended"
	StatusBlacklisted         = "blacklisted"
)

// VendorRegistration is one vendor's onboarding application and its current
// approval status.
//
// Invariants:
//   - RejectionReason is non-empty iff Status == rejected.
//   - ApprovedAt / ApproverID are set iff Status == approved.
//   - A draft has not been submitted and is invisible to reviewers.
type VendorRegistration struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// Business facts
	BusinessName        string  `gorm:"not null"`
	BrandName           *string
	EntityType          string `gorm:"type:varchar(30)"`
	YearEstablished     *int
	EmployeeCountBucket *string `gorm:"type:varchar(20)"`
	TurnoverBucket      *string `gorm:"type:varchar(30)"`

	// Statutory identifiers
	PAN        *string `gorm:"type:varchar(10);column:pan"`
	GST        *string `gorm:"type:varchar(15);column:gst"`
	MSMENumber *string `gorm:"column:msme_number"`
	FSSAINum   *string `gorm:"column:fssai_number"`
	CIN        *string `gorm:"column:cin"`

	// Primary contact
	ContactName        string `gorm:"not null;default:''"`
	ContactDesignation *string
	ContactEmail       string `gorm:"not null;default:''"`
	ContactPhone       string `gorm:"not null;default:''"`
	ContactWhatsApp    *string

	// Optional secondary contact
	SecondaryContactName  *string
	SecondaryContactEmail *string
	SecondaryContactPhone *string

	// Addresses
	RegisteredStreet  *string
	RegisteredCity    *string
	RegisteredState   *string
	RegisteredPincode *string `gorm:"type:varchar(10)"`
	OperationalStreet  *string
	OperationalCity    *string
	OperationalState   *string
	OperationalPincode *string `gorm:"type:varchar(10)"`

	// Service profile
	Categories         datatypes.JSON `gorm:"type:jsonb"` // []string from catalog.VendorCategories
	ServiceDescription *string        `gorm:"type:text"`
	ServiceCities      datatypes.JSON `gorm:"type:jsonb"` // []string
	ServiceStates      datatypes.JSON `gorm:"type:jsonb"` // []string
	PanIndia           bool           `gorm:"not null;default:false"`
	PricingTier        *string        `gorm:"type:varchar(20)"`
	MinimumBudget      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	AverageEventValue  *decimal.Decimal `gorm:"type:decimal(12,2)"`

	// Banking — kept for payouts, never read by the approval workflow
	BankName      *string
	BankBranch    *string
	AccountNumber *string `gorm:"type:varchar(30)"`
	IFSC          *string `gorm:"type:varchar(11);column:ifsc"`
	UPI           *string `gorm:"column:upi"`

	// Online presence
	WebsiteURL   *string
	InstagramURL *string
	FacebookURL  *string
	YouTubeURL   *string `gorm:"column:youtube_url"`

	// Declarations
	NoPendingLitigation   bool `gorm:"not null;default:false"`
	NeverBlacklisted      bool `gorm:"not null;default:false"`
	HasLiabilityInsurance bool `gorm:"not null;default:false"`
	AgreesToTerms         bool `gorm:"not null;default:false"`

	// Workflow state
	Status          string     `gorm:"type:varchar(30);not null;default:'draft';index"`
	RejectionReason *string    `gorm:"type:text"`
	SubmittedAt     *time.Time
	ReviewedAt      *time.Time
	ApprovedAt      *time.Time
	ReviewerID      *uuid.UUID `gorm:"type:uuid"`
	ApproverID      *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Documents []VendorDocument `gorm:"foreignKey:RegistrationID"`
}

func (VendorRegistration) TableName() string { return "vendor_registrations" }
