package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddressInput struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Pincode *string `json:"pincode" validate:"omitempty,len=6,numeric"`
}

type ContactInput struct {
	Name        *string `json:"name"`
	Designation *string `json:"designation"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	WhatsApp    *string `json:"whatsapp"`
}

// RegistrationDraftRequest is the full-snapshot payload used by both
// POST /v1/registrations and PATCH /v1/registrations/:id. The applicant's
// autosave pushes the complete set of fields it knows each time, so
// last-write-wins merging is safe.
type RegistrationDraftRequest struct {
	BusinessName        *string `json:"business_name"`
	BrandName           *string `json:"brand_name"`
	EntityType          *string `json:"entity_type"`
	YearEstablished     *int    `json:"year_established" validate:"omitempty,min=1900,max=2100"`
	EmployeeCountBucket *string `json:"employee_count_bucket"`
	TurnoverBucket      *string `json:"turnover_bucket"`

	PAN        *string `json:"pan"`
	GST        *string `json:"gst"`
	MSMENumber *string `json:"msme_number"`
	FSSAINum   *string `json:"fssai_number"`
	CIN        *string `json:"cin"`

	PrimaryContact   *ContactInput `json:"primary_contact"`
	SecondaryContact *ContactInput `json:"secondary_contact"`

	RegisteredAddress  *AddressInput `json:"registered_address"`
	OperationalAddress *AddressInput `json:"operational_address"`

	Categories         []string `json:"categories"`
	ServiceDescription *string  `json:"service_description"`
	ServiceCities      []string `json:"service_cities"`
	ServiceStates      []string `json:"service_states"`
	PanIndia           *bool    `json:"pan_india"`
	PricingTier        *string  `json:"pricing_tier"`
	MinimumBudget      *decimal.Decimal `json:"minimum_budget" validate:"omitempty"`
	AverageEventValue  *decimal.Decimal `json:"average_event_value" validate:"omitempty"`

	BankName      *string `json:"bank_name"`
	BankBranch    *string `json:"bank_branch"`
	AccountNumber *string `json:"account_number"`
	IFSC          *string `json:"ifsc"`
	UPI           *string `json:"upi"`

	WebsiteURL   *string `json:"website_url" validate:"omitempty,url"`
	InstagramURL *string `json:"instagram_url" validate:"omitempty,url"`
	FacebookURL  *string `json:"facebook_url" validate:"omitempty,url"`
	YouTubeURL   *string `json:"youtube_url" validate:"omitempty,url"`

	NoPendingLitigation   *bool `json:"no_pending_litigation"`
	NeverBlacklisted      *bool `json:"never_blacklisted"`
	HasLiabilityInsurance *bool `json:"has_liability_insurance"`
	AgreesToTerms         *bool `json:"agrees_to_terms"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

// RegistrationFilter is bound from the query string of the admin review queue.
type RegistrationFilter struct {
	Status   string `form:"status"`   // workflow status; empty = all non-draft
	Category string `form:"category"` // one catalog category
	Search   string `form:"search"`   // matches business name / contact email
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type RegistrationListItem struct {
	ID           string   `json:"id"`
	BusinessName string   `json:"business_name"`
	EntityType   string   `json:"entity_type"`
	ContactName  string   `json:"contact_name"`
	ContactEmail string   `json:"contact_email"`
	Categories   []string `json:"categories"`
	Status       string   `json:"status"`
	SubmittedAt  *string  `json:"submitted_at,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

type RegistrationListResponse struct {
	Data  []RegistrationListItem `json:"data"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AddressResponse struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	Pincode *string `json:"pincode"`
}

type ContactResponse struct {
	Name        string  `json:"name"`
	Designation *string `json:"designation,omitempty"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	WhatsApp    *string `json:"whatsapp,omitempty"`
}

type RegistrationResponse struct {
	ID                  string  `json:"id"`
	BusinessName        string  `json:"business_name"`
	BrandName           *string `json:"brand_name,omitempty"`
	EntityType          string  `json:"entity_type"`
	YearEstablished     *int    `json:"year_established,omitempty"`
	EmployeeCountBucket *string `json:"employee_count_bucket,omitempty"`
	TurnoverBucket      *string `json:"turnover_bucket,omitempty"`

	PAN        *string `json:"pan,omitempty"`
	GST        *string `json:"gst,omitempty"`
	MSMENumber *string `json:"msme_number,omitempty"`
	FSSAINum   *string `json:"fssai_number,omitempty"`
	CIN        *string `json:"cin,omitempty"`

	PrimaryContact   ContactResponse  `json:"primary_contact"`
	SecondaryContact *ContactResponse `json:"secondary_contact,omitempty"`

	RegisteredAddress  AddressResponse `json:"registered_address"`
	OperationalAddress AddressResponse `json:"operational_address"`

	Categories         []string `json:"categories"`
	ServiceDescription *string  `json:"service_description,omitempty"`
	ServiceCities      []string `json:"service_cities"`
	ServiceStates      []string `json:"service_states"`
	PanIndia           bool     `json:"pan_india"`
	PricingTier        *string  `json:"pricing_tier,omitempty"`
	MinimumBudget      *decimal.Decimal `json:"minimum_budget,omitempty"`
	AverageEventValue  *decimal.Decimal `json:"average_event_value,omitempty"`

	WebsiteURL   *string `json:"website_url,omitempty"`
	InstagramURL *string `json:"instagram_url,omitempty"`
	FacebookURL  *string `json:"facebook_url,omitempty"`
	YouTubeURL   *string `json:"youtube_url,omitempty"`

	NoPendingLitigation   bool `json:"no_pending_litigation"`
	NeverBlacklisted      bool `json:"never_blacklisted"`
	HasLiabilityInsurance bool `json:"has_liability_insurance"`
	AgreesToTerms         bool `json:"agrees_to_terms"`

	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	SubmittedAt     *string `json:"submitted_at,omitempty"`
	ReviewedAt      *string `json:"reviewed_at,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
	ReviewerID      *string `json:"reviewer_id,omitempty"`
	ApproverID      *string `json:"approver_id,omitempty"`
	CreatedAt       string  `json:"created_at"`

	Documents []DocumentResponse `json:"documents,omitempty"`
}
