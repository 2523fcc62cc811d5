package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/catalog"
	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/infra"
	"github.com/ninjaskull/dacreation-sub001/internal/model"
	"github.com/ninjaskull/dacreation-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// UploadInput carries the multipart file metadata alongside its content.
type UploadInput struct {
	DocumentType string
	Filename     string
	MimeType     string
	Size         int64
	ExpiryDate   *time.Time
	Content      io.Reader
}

type DocumentService interface {
	Upload(ctx context.Context, registrationID uuid.UUID, in UploadInput) (*dto.DocumentResponse, error)
	Verify(ctx context.Context, documentID, actorID uuid.UUID, notes *string) (*dto.DocumentResponse, error)
	Reject(ctx context.Context, documentID, actorID uuid.UUID, notes string) (*dto.DocumentResponse, error)
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]dto.DocumentResponse, error)
	// ExpireOverdue marks verified documents whose expiry date has passed as
	// expired, one audited transaction per document. Returns how many were
	// expired. Called by the background sweep.
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error)
}

type documentService struct {
	docs          repository.DocumentRepository
	registrations repository.RegistrationRepository
	logs          repository.ApprovalLogRepository
	files         infra.FileStore
	maxSizeBytes  int64
}

func NewDocumentService(
	docs repository.DocumentRepository,
	registrations repository.RegistrationRepository,
	logs repository.ApprovalLogRepository,
	files infra.FileStore,
	maxSizeMB int,
) DocumentService {
	return &documentService{
		docs:          docs,
		registrations: registrations,
		logs:          logs,
		files:         files,
		maxSizeBytes:  int64(maxSizeMB) * 1024 * 1024,
	}
}

func (s *documentService) Upload(ctx context.Context, registrationID uuid.UUID, in UploadInput) (*dto.DocumentResponse, error) {
	// Everything is checked before any row or file is created.
	if !catalog.IsDocumentType(in.DocumentType) {
		return nil, NewValidationError("document_type", "unknown document type")
	}
	if !catalog.IsAcceptedMimeType(in.MimeType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, in.MimeType)
	}
	if in.Size > s.maxSizeBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, in.Size, s.maxSizeBytes)
	}
	if _, err := s.registrations.FindByID(ctx, registrationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	stored, err := s.files.Store(registrationID, in.Filename, in.MimeType, in.Content)
	if err != nil {
		// No row is created when the file store fails — nothing to clean up.
		return nil, fmt.Errorf("%w: file store: %v", ErrDependency, err)
	}

	doc := &model.VendorDocument{
		RegistrationID:     registrationID,
		DocumentType:       in.DocumentType,
		DocumentName:       in.Filename,
		DocumentURL:        stored.URL,
		FileSize:           stored.Size,
		MimeType:           stored.MimeType,
		ExpiryDate:         in.ExpiryDate,
		VerificationStatus: model.DocPending,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	return DocumentToResponse(doc), nil
}

func (s *documentService) Verify(ctx context.Context, documentID, actorID uuid.UUID, notes *string) (*dto.DocumentResponse, error) {
	return s.adjudicate(ctx, documentID, actorID, model.DocVerified, model.ActionDocumentVerified, notes)
}

func (s *documentService) Reject(ctx context.Context, documentID, actorID uuid.UUID, notes string) (*dto.DocumentResponse, error) {
	if notes == "" {
		return nil, NewValidationError("notes", "rejection notes are required")
	}
	return s.adjudicate(ctx, documentID, actorID, model.DocRejected, model.ActionDocumentRejected, &notes)
}

// adjudicate moves a document off pending, atomically with its log row.
// The conditional update serializes concurrent adjudications: the loser sees
// zero rows affected and fails with ErrInvalidTransition.
func (s *documentService) adjudicate(ctx context.Context, documentID, actorID uuid.UUID, newStatus, action string, notes *string) (*dto.DocumentResponse, error) {
	doc, err := s.docs.FindByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if doc.VerificationStatus != model.DocPending {
		return nil, fmt.Errorf("%w: document is %s", ErrInvalidTransition, doc.VerificationStatus)
	}

	now := time.Now()
	txErr := runTx(ctx, s.docs.DB(), func(tx *gorm.DB) error {
		rows, err := s.docs.UpdateStatusTx(tx, documentID, model.DocPending, map[string]interface{}{
			"verification_status": newStatus,
			"verified_by":         actorID,
			"verified_at":         now,
			"verification_notes":  notes,
		})
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: document already adjudicated", ErrInvalidTransition)
		}
		docID := documentID
		return s.logs.CreateTx(tx, &model.VendorApprovalLog{
			RegistrationID: doc.RegistrationID,
			Action:         action,
			PerformedBy:    &actorID,
			Notes:          notes,
			PreviousStatus: model.DocPending,
			NewStatus:      newStatus,
			DocumentID:     &docID,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	doc.VerificationStatus = newStatus
	doc.VerifiedBy = &actorID
	doc.VerifiedAt = &now
	doc.VerificationNotes = notes
	return DocumentToResponse(doc), nil
}

func (s *documentService) ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]dto.DocumentResponse, error) {
	if _, err := s.registrations.FindByID(ctx, registrationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	docs, err := s.docs.ListByRegistration(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, *DocumentToResponse(&docs[i]))
	}
	return out, nil
}

func (s *documentService) ExpireOverdue(ctx context.Context, now time.Time, limit int) (int, error) {
	docs, err := s.docs.ListVerifiedExpiring(ctx, now, limit)
	if err != nil {
		return 0, err
	}
	expired := 0
	for i := range docs {
		doc := &docs[i]
		applied := false
		txErr := runTx(ctx, s.docs.DB(), func(tx *gorm.DB) error {
			rows, err := s.docs.UpdateStatusTx(tx, doc.ID, model.DocVerified, map[string]interface{}{
				"verification_status": model.DocExpired,
			})
			if err != nil {
				return err
			}
			if rows == 0 {
				// Adjudicated again between list and update — skip quietly.
				return nil
			}
			applied = true
			docID := doc.ID
			note := "document expired on " + doc.ExpiryDate.Format("2006-01-02")
			return s.logs.CreateTx(tx, &model.VendorApprovalLog{
				RegistrationID: doc.RegistrationID,
				Action:         model.ActionDocumentExpired,
				Notes:          &note,
				PreviousStatus: model.DocVerified,
				NewStatus:      model.DocExpired,
				DocumentID:     &docID,
			})
		})
		if txErr != nil {
			log.Error().Err(txErr).Str("document_id", doc.ID.String()).Msg("expiry sweep: failed to expire document")
			continue
		}
		if applied {
			expired++
		}
	}
	return expired, nil
}

func DocumentToResponse(d *model.VendorDocument) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:                 d.ID.String(),
		RegistrationID:     d.RegistrationID.String(),
		DocumentType:       d.DocumentType,
		DocumentName:       d.DocumentName,
		DocumentURL:        d.DocumentURL,
		FileSize:           d.FileSize,
		MimeType:           d.MimeType,
		VerificationStatus: d.VerificationStatus,
		VerifiedBy:         uuidPtrToString(d.VerifiedBy),
		VerifiedAt:         formatTimePtr(d.VerifiedAt),
		VerificationNotes:  d.VerificationNotes,
		CreatedAt:          d.CreatedAt.Format(time.RFC3339),
	}
	if d.ExpiryDate != nil {
		s := d.ExpiryDate.Format("2006-01-02")
		resp.ExpiryDate = &s
	}
	return resp
}
