package repository

import (
	"context"

	"github.com/ninjaskull/dacreation-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalLogRepository is intentionally append-only: there is no update or
// delete method, and none should ever be added.
type ApprovalLogRepository interface {
	CreateTx(tx *gorm.DB, entry *model.VendorApprovalLog) error
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]model.VendorApprovalLog, error)
}

type approvalLogRepo struct{ db *gorm.DB }

func NewApprovalLogRepository(db *gorm.DB) ApprovalLogRepository {
	return &approvalLogRepo{db: db}
}

func (r *approvalLogRepo) CreateTx(tx *gorm.DB, entry *model.VendorApprovalLog) error {
	return tx.Create(entry).Error
}

func (r *approvalLogRepo) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]model.VendorApprovalLog, error) {
	var entries []model.VendorApprovalLog
	err := r.db.WithContext(ctx).
		Where("registration_id = ?", registrationID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
