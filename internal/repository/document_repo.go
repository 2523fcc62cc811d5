package repository

import (
	"context"
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository interface {
	Create(ctx context.Context, d *model.VendorDocument) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.VendorDocument, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]model.VendorDocument, error)
	// UpdateStatusTx conditionally applies updates WHERE verification_status =
	// fromStatus. 0 rows affected means the document was adjudicated by
	// another actor in the meantime.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, fromStatus string, updates map[string]interface{}) (int64, error)
	// ListVerifiedExpiring returns verified documents whose expiry date has
	// passed, for the expiry sweep.
	ListVerifiedExpiring(ctx context.Context, now time.Time, limit int) ([]model.VendorDocument, error)
	DB() *gorm.DB
}

type documentRepo struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) DocumentRepository { return &documentRepo{db: db} }

func (r *documentRepo) DB() *gorm.DB { return r.db }

func (r *documentRepo) Create(ctx context.Context, d *model.VendorDocument) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *documentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VendorDocument, error) {
	var d model.VendorDocument
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]model.VendorDocument, error) {
	var docs []model.VendorDocument
	err := r.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at ASC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, fromStatus string, updates map[string]interface{}) (int64, error) {
	res := tx.Model(&model.VendorDocument{}).
		Where("id = ? AND verification_status = ?", id, fromStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *documentRepo) ListVerifiedExpiring(ctx context.Context, now time.Time, limit int) ([]model.VendorDocument, error) {
	var docs []model.VendorDocument
	err := r.db.WithContext(ctx).
		Where("verification_status = ? AND expiry_date IS NOT NULL AND expiry_date < ?", model.DocVerified, now).
		Order("expiry_date ASC").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}
