package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/catalog"
	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/model"
	"github.com/ninjaskull/dacreation-sub001/internal/repository"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Statutory identifier formats. PAN: 5 letters, 4 digits, 1 letter.
// GST: 15 characters — state code, embedded PAN, entity digit, Z, checksum.
var (
	panRegex = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
)

// Statuses in which the applicant may still edit their registration.
// documents_pending is included so the applicant can respond to a document
// request; everything past that is locked.
var editableStatuses = []string{
	model.StatusDraft,
	model.StatusSubmitted,
	model.StatusDocumentsPending,
}

func isEditable(status string) bool {
	for _, s := range editableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type RegistrationService interface {
	CreateDraft(ctx context.Context, req dto.RegistrationDraftRequest) (*dto.RegistrationResponse, error)
	UpdateDraft(ctx context.Context, id uuid.UUID, req dto.RegistrationDraftRequest) (*dto.RegistrationResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.RegistrationResponse, error)
	// GetForReview is the admin read path: drafts are invisible to reviewers
	// and come back as not found.
	GetForReview(ctx context.Context, id uuid.UUID) (*dto.RegistrationResponse, error)
	List(ctx context.Context, filter dto.RegistrationFilter) (*dto.RegistrationListResponse, error)
	// ValidateForSubmit checks every mandatory field and reports all problems
	// at once. Called by the workflow engine before the draft→submitted
	// transition.
	ValidateForSubmit(reg *model.VendorRegistration) error
}

type registrationService struct {
	repo repository.RegistrationRepository
}

func NewRegistrationService(repo repository.RegistrationRepository) RegistrationService {
	return &registrationService{repo: repo}
}

func (s *registrationService) CreateDraft(ctx context.Context, req dto.RegistrationDraftRequest) (*dto.RegistrationResponse, error) {
	reg := &model.VendorRegistration{Status: model.StatusDraft}
	if err := applyDraft(reg, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, err
	}
	return RegistrationToResponse(reg), nil
}

func (s *registrationService) UpdateDraft(ctx context.Context, id uuid.UUID, req dto.RegistrationDraftRequest) (*dto.RegistrationResponse, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isEditable(reg.Status) {
		return nil, ErrImmutableState
	}
	if err := applyDraft(reg, req); err != nil {
		return nil, err
	}
	rows, err := s.repo.UpdateDraft(ctx, reg, editableStatuses)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// A reviewer moved the registration past editing between our read
		// and this write.
		return nil, ErrImmutableState
	}
	return RegistrationToResponse(reg), nil
}

func (s *registrationService) GetByID(ctx context.Context, id uuid.UUID) (*dto.RegistrationResponse, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return RegistrationToResponse(reg), nil
}

func (s *registrationService) GetForReview(ctx context.Context, id uuid.UUID) (*dto.RegistrationResponse, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reg.Status == model.StatusDraft {
		return nil, ErrNotFound
	}
	return RegistrationToResponse(reg), nil
}

func (s *registrationService) List(ctx context.Context, filter dto.RegistrationFilter) (*dto.RegistrationListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	regs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RegistrationListItem, 0, len(regs))
	for i := range regs {
		items = append(items, *registrationToListItem(&regs[i]))
	}
	return &dto.RegistrationListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ValidateForSubmit reports every missing or malformed mandatory field.
func (s *registrationService) ValidateForSubmit(reg *model.VendorRegistration) error {
	fields := map[string]string{}
	if reg.BusinessName == "" {
		fields["business_name"] = "required"
	}
	if reg.EntityType == "" {
		fields["entity_type"] = "required"
	}
	if reg.ContactName == "" {
		fields["contact_name"] = "required"
	}
	if reg.ContactEmail == "" {
		fields["contact_email"] = "required"
	}
	if reg.ContactPhone == "" {
		fields["contact_phone"] = "required"
	}
	if !reg.AgreesToTerms {
		fields["agrees_to_terms"] = "must be true"
	}
	if len(JSONToStrings(reg.Categories)) == 0 {
		fields["categories"] = "at least one category required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// applyDraft merges the non-nil fields of a full-snapshot draft payload into
// the registration. Format and vocabulary checks only — required-field
// validation happens at submit time.
func applyDraft(reg *model.VendorRegistration, req dto.RegistrationDraftRequest) error {
	fields := map[string]string{}

	if req.BusinessName != nil {
		reg.BusinessName = *req.BusinessName
	}
	if req.BrandName != nil {
		reg.BrandName = req.BrandName
	}
	if req.EntityType != nil {
		if !catalog.IsEntityType(*req.EntityType) {
			fields["entity_type"] = "unknown entity type"
		} else {
			reg.EntityType = *req.EntityType
		}
	}
	if req.YearEstablished != nil {
		reg.YearEstablished = req.YearEstablished
	}
	if req.EmployeeCountBucket != nil {
		if !catalog.IsEmployeeCountBucket(*req.EmployeeCountBucket) {
			fields["employee_count_bucket"] = "unknown bucket"
		} else {
			reg.EmployeeCountBucket = req.EmployeeCountBucket
		}
	}
	if req.TurnoverBucket != nil {
		if !catalog.IsTurnoverBucket(*req.TurnoverBucket) {
			fields["turnover_bucket"] = "unknown bucket"
		} else {
			reg.TurnoverBucket = req.TurnoverBucket
		}
	}

	if req.PAN != nil {
		if *req.PAN != "" && !panRegex.MatchString(*req.PAN) {
			fields["pan"] = "invalid PAN format"
		} else {
			reg.PAN = req.PAN
		}
	}
	if req.GST != nil {
		if *req.GST != "" && !gstRegex.MatchString(*req.GST) {
			fields["gst"] = "invalid GST format"
		} else {
			reg.GST = req.GST
		}
	}
	if req.MSMENumber != nil {
		reg.MSMENumber = req.MSMENumber
	}
	if req.FSSAINum != nil {
		reg.FSSAINum = req.FSSAINum
	}
	if req.CIN != nil {
		reg.CIN = req.CIN
	}

	if c := req.PrimaryContact; c != nil {
		if c.Name != nil {
			reg.ContactName = *c.Name
		}
		if c.Designation != nil {
			reg.ContactDesignation = c.Designation
		}
		if c.Email != nil {
			reg.ContactEmail = *c.Email
		}
		if c.Phone != nil {
			reg.ContactPhone = *c.Phone
		}
		if c.WhatsApp != nil {
			reg.ContactWhatsApp = c.WhatsApp
		}
	}
	if c := req.SecondaryContact; c != nil {
		reg.SecondaryContactName = c.Name
		reg.SecondaryContactEmail = c.Email
		reg.SecondaryContactPhone = c.Phone
	}

	if a := req.RegisteredAddress; a != nil {
		if a.State != nil && *a.State != "" && !catalog.IsIndianState(*a.State) {
			fields["registered_address.state"] = "unknown state"
		}
		reg.RegisteredStreet = a.Street
		reg.RegisteredCity = a.City
		reg.RegisteredState = a.State
		reg.RegisteredPincode = a.Pincode
	}
	if a := req.OperationalAddress; a != nil {
		if a.State != nil && *a.State != "" && !catalog.IsIndianState(*a.State) {
			fields["operational_address.state"] = "unknown state"
		}
		reg.OperationalStreet = a.Street
		reg.OperationalCity = a.City
		reg.OperationalState = a.State
		reg.OperationalPincode = a.Pincode
	}

	if req.Categories != nil {
		for _, cat := range req.Categories {
			if !catalog.IsVendorCategory(cat) {
				fields["categories"] = "unknown category: " + cat
			}
		}
		if _, bad := fields["categories"]; !bad {
			reg.Categories = StringsToJSON(req.Categories)
		}
	}
	if req.ServiceDescription != nil {
		reg.ServiceDescription = req.ServiceDescription
	}
	if req.ServiceCities != nil {
		reg.ServiceCities = StringsToJSON(req.ServiceCities)
	}
	if req.ServiceStates != nil {
		for _, st := range req.ServiceStates {
			if !catalog.IsIndianState(st) {
				fields["service_states"] = "unknown state: " + st
			}
		}
		if _, bad := fields["service_states"]; !bad {
			reg.ServiceStates = StringsToJSON(req.ServiceStates)
		}
	}
	if req.PanIndia != nil {
		reg.PanIndia = *req.PanIndia
	}
	if req.PricingTier != nil {
		if !catalog.IsPricingTier(*req.PricingTier) {
			fields["pricing_tier"] = "unknown tier"
		} else {
			reg.PricingTier = req.PricingTier
		}
	}
	if req.MinimumBudget != nil {
		reg.MinimumBudget = req.MinimumBudget
	}
	if req.AverageEventValue != nil {
		reg.AverageEventValue = req.AverageEventValue
	}

	if req.BankName != nil {
		reg.BankName = req.BankName
	}
	if req.BankBranch != nil {
		reg.BankBranch = req.BankBranch
	}
	if req.AccountNumber != nil {
		reg.AccountNumber = req.AccountNumber
	}
	if req.IFSC != nil {
		reg.IFSC = req.IFSC
	}
	if req.UPI != nil {
		reg.UPI = req.UPI
	}

	if req.WebsiteURL != nil {
		reg.WebsiteURL = req.WebsiteURL
	}
	if req.InstagramURL != nil {
		reg.InstagramURL = req.InstagramURL
	}
	if req.FacebookURL != nil {
		reg.FacebookURL = req.FacebookURL
	}
	if req.YouTubeURL != nil {
		reg.YouTubeURL = req.YouTubeURL
	}

	if req.NoPendingLitigation != nil {
		reg.NoPendingLitigation = *req.NoPendingLitigation
	}
	if req.NeverBlacklisted != nil {
		reg.NeverBlacklisted = *req.NeverBlacklisted
	}
	if req.HasLiabilityInsurance != nil {
		reg.HasLiabilityInsurance = *req.HasLiabilityInsurance
	}
	if req.AgreesToTerms != nil {
		reg.AgreesToTerms = *req.AgreesToTerms
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ── JSON column helpers ──────────────────────────────────────────────────────

func JSONToStrings(j datatypes.JSON) []string {
	if len(j) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(j, &out); err != nil {
		return nil
	}
	return out
}

func StringsToJSON(s []string) datatypes.JSON {
	if s == nil {
		s = []string{}
	}
	b, _ := json.Marshal(s)
	return datatypes.JSON(b)
}

// ── Response mapping ─────────────────────────────────────────────────────────

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func registrationToListItem(r *model.VendorRegistration) *dto.RegistrationListItem {
	return &dto.RegistrationListItem{
		ID:           r.ID.String(),
		BusinessName: r.BusinessName,
		EntityType:   r.EntityType,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		Categories:   JSONToStrings(r.Categories),
		Status:       r.Status,
		SubmittedAt:  formatTimePtr(r.SubmittedAt),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}

func RegistrationToResponse(r *model.VendorRegistration) *dto.RegistrationResponse {
	resp := &dto.RegistrationResponse{
		ID:                  r.ID.String(),
		BusinessName:        r.BusinessName,
		BrandName:           r.BrandName,
		EntityType:          r.EntityType,
		YearEstablished:     r.YearEstablished,
		EmployeeCountBucket: r.EmployeeCountBucket,
		TurnoverBucket:      r.TurnoverBucket,
		PAN:                 r.PAN,
		GST:                 r.GST,
		MSMENumber:          r.MSMENumber,
		FSSAINum:            r.FSSAINum,
		CIN:                 r.CIN,
		PrimaryContact: dto.ContactResponse{
			Name:        r.ContactName,
			Designation: r.ContactDesignation,
			Email:       r.ContactEmail,
			Phone:       r.ContactPhone,
			WhatsApp:    r.ContactWhatsApp,
		},
		RegisteredAddress: dto.AddressResponse{
			Street: r.RegisteredStreet, City: r.RegisteredCity,
			State: r.RegisteredState, Pincode: r.RegisteredPincode,
		},
		OperationalAddress: dto.AddressResponse{
			Street: r.OperationalStreet, City: r.OperationalCity,
			State: r.OperationalState, Pincode: r.OperationalPincode,
		},
		Categories:            JSONToStrings(r.Categories),
		ServiceDescription:    r.ServiceDescription,
		ServiceCities:         JSONToStrings(r.ServiceCities),
		ServiceStates:         JSONToStrings(r.ServiceStates),
		PanIndia:              r.PanIndia,
		PricingTier:           r.PricingTier,
		MinimumBudget:         r.MinimumBudget,
		AverageEventValue:     r.AverageEventValue,
		WebsiteURL:            r.WebsiteURL,
		InstagramURL:          r.InstagramURL,
		FacebookURL:           r.FacebookURL,
		YouTubeURL:            r.YouTubeURL,
		NoPendingLitigation:   r.NoPendingLitigation,
		NeverBlacklisted:      r.NeverBlacklisted,
		HasLiabilityInsurance: r.HasLiabilityInsurance,
		AgreesToTerms:         r.AgreesToTerms,
		Status:                r.Status,
		RejectionReason:       r.RejectionReason,
		SubmittedAt:           formatTimePtr(r.SubmittedAt),
		ReviewedAt:            formatTimePtr(r.ReviewedAt),
		ApprovedAt:            formatTimePtr(r.ApprovedAt),
		ReviewerID:            uuidPtrToString(r.ReviewerID),
		ApproverID:            uuidPtrToString(r.ApproverID),
		CreatedAt:             r.CreatedAt.Format(time.RFC3339),
	}
	if r.SecondaryContactName != nil || r.SecondaryContactEmail != nil || r.SecondaryContactPhone != nil {
		sec := &dto.ContactResponse{}
		if r.SecondaryContactName != nil {
			sec.Name = *r.SecondaryContactName
		}
		if r.SecondaryContactEmail != nil {
			sec.Email = *r.SecondaryContactEmail
		}
		if r.SecondaryContactPhone != nil {
			sec.Phone = *r.SecondaryContactPhone
		}
		resp.SecondaryContact = sec
	}
	for i := range r.Documents {
		resp.Documents = append(resp.Documents, *DocumentToResponse(&r.Documents[i]))
	}
	return resp
}
