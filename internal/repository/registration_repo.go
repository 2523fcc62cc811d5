package repository

import (
	"context"

	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(ctx context.Context, r *model.VendorRegistration) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VendorRegistration, error)
	// UpdateDraft persists the applicant-editable columns only, and only
	// while the registration status is one of statuses. Workflow columns
	// (status, decision stamps) are never written here, so an autosave can
	// never clobber a concurrently committed transition. Returns the number
	// of rows affected: 0 means the registration left the editable window
	// between the caller's read and this write.
	UpdateDraft(ctx context.Context, r *model.VendorRegistration, statuses []string) (int64, error)
	// UpdateStatusTx conditionally applies updates WHERE status = fromStatus.
	// Returns the number of rows affected: 0 means another writer got there
	// first (or the status was never legal) and the caller must fail the
	// transition.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, fromStatus string, updates map[string]interface{}) (int64, error)
	List(ctx context.Context, filter dto.RegistrationFilter) ([]model.VendorRegistration, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

// applicantColumns are the only columns the draft autosave may write. The
// workflow columns (status, rejection_reason, the *_at stamps, reviewer_id,
// approver_id) are deliberately absent: service.WorkflowService is their
// sole writer.
var applicantColumns = []string{
	"business_name", "brand_name", "entity_type", "year_established",
	"employee_count_bucket", "turnover_bucket",
	"pan", "gst", "msme_number", "fssai_number", "cin",
	"contact_name", "contact_designation", "contact_email", "contact_phone", "contact_whats_app",
	"secondary_contact_name", "secondary_contact_email", "secondary_contact_phone",
	"registered_street", "registered_city", "registered_state", "registered_pincode",
	"operational_street", "operational_city", "operational_state", "operational_pincode",
	"categories", "service_description", "service_cities", "service_states",
	"pan_india", "pricing_tier", "minimum_budget", "average_event_value",
	"bank_name", "bank_branch", "account_number", "ifsc", "upi",
	"website_url", "instagram_url", "facebook_url", "youtube_url",
	"no_pending_litigation", "never_blacklisted", "has_liability_insurance", "agrees_to_terms",
}

type registrationRepo struct{ db *gorm.DB }

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) DB() *gorm.DB { return r.db }

func (r *registrationRepo) Create(ctx context.Context, reg *model.VendorRegistration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VendorRegistration, error) {
	var reg model.VendorRegistration
	err := r.db.WithContext(ctx).Preload("Documents").First(&reg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepo) UpdateDraft(ctx context.Context, reg *model.VendorRegistration, statuses []string) (int64, error) {
	// Select forces the applicant columns through even at their zero values;
	// the status condition makes the write race-safe against a concurrent
	// transition in the same way UpdateStatusTx is.
	res := r.db.WithContext(ctx).Model(&model.VendorRegistration{}).
		Select(applicantColumns).
		Where("id = ? AND status IN ?", reg.ID, statuses).
		Updates(reg)
	return res.RowsAffected, res.Error
}

func (r *registrationRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, fromStatus string, updates map[string]interface{}) (int64, error) {
	res := tx.Model(&model.VendorRegistration{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *registrationRepo) List(ctx context.Context, filter dto.RegistrationFilter) ([]model.VendorRegistration, int64, error) {
	var regs []model.VendorRegistration
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.VendorRegistration{})

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	} else {
		// Drafts are invisible to reviewers
		q = q.Where("status <> ?", model.StatusDraft)
	}
	if filter.Category != "" {
		q = q.Where("categories @> ?", `["`+filter.Category+`"]`)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where("business_name ILIKE ? OR contact_email ILIKE ?", like, like)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("submitted_at DESC NULLS LAST, created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&regs).Error

	return regs, total, err
}
