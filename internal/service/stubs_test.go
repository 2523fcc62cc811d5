package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/infra"
	"github.com/ninjaskull/dacreation-sub001/internal/model"
	"github.com/ninjaskull/dacreation-sub001/internal/repository"
	"github.com/ninjaskull/dacreation-sub001/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubRegistrationRepo is an in-memory RegistrationRepository for testing.
// forceConflict makes the next conditional update report zero rows, which is
// how a lost concurrent race looks to the service layer. afterFind, when set,
// runs once after the next FindByID — a hook for interleaving a concurrent
// write between a service's read and its write.
type stubRegistrationRepo struct {
	regs          map[uuid.UUID]*model.VendorRegistration
	forceConflict bool
	afterFind     func()
}

func newStubRegistrationRepo() *stubRegistrationRepo {
	return &stubRegistrationRepo{regs: make(map[uuid.UUID]*model.VendorRegistration)}
}

func (r *stubRegistrationRepo) Create(_ context.Context, reg *model.VendorRegistration) error {
	if reg.ID == uuid.Nil {
		reg.ID = uuid.New()
	}
	reg.CreatedAt = time.Now()
	r.regs[reg.ID] = reg
	return nil
}

func (r *stubRegistrationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.VendorRegistration, error) {
	reg, ok := r.regs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	snapshot := *reg
	if r.afterFind != nil {
		hook := r.afterFind
		r.afterFind = nil
		hook()
	}
	return &snapshot, nil
}

// UpdateDraft mirrors the real repository contract: applicant columns only,
// written only while the stored status is still in statuses.
func (r *stubRegistrationRepo) UpdateDraft(_ context.Context, reg *model.VendorRegistration, statuses []string) (int64, error) {
	cur, ok := r.regs[reg.ID]
	if !ok {
		return 0, nil
	}
	allowed := false
	for _, s := range statuses {
		if cur.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return 0, nil
	}
	next := *reg
	next.Status = cur.Status
	next.RejectionReason = cur.RejectionReason
	next.SubmittedAt = cur.SubmittedAt
	next.ReviewedAt = cur.ReviewedAt
	next.ApprovedAt = cur.ApprovedAt
	next.ReviewerID = cur.ReviewerID
	next.ApproverID = cur.ApproverID
	r.regs[reg.ID] = &next
	return 1, nil
}

func (r *stubRegistrationRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, fromStatus string, updates map[string]interface{}) (int64, error) {
	if r.forceConflict {
		r.forceConflict = false
		return 0, nil
	}
	reg, ok := r.regs[id]
	if !ok || reg.Status != fromStatus {
		return 0, nil
	}
	for k, v := range updates {
		switch k {
		case "status":
			reg.Status = v.(string)
		case "rejection_reason":
			s := v.(string)
			reg.RejectionReason = &s
		case "submitted_at":
			t := v.(time.Time)
			reg.SubmittedAt = &t
		case "reviewed_at":
			t := v.(time.Time)
			reg.ReviewedAt = &t
		case "approved_at":
			t := v.(time.Time)
			reg.ApprovedAt = &t
		case "reviewer_id":
			u := v.(uuid.UUID)
			reg.ReviewerID = &u
		case "approver_id":
			u := v.(uuid.UUID)
			reg.ApproverID = &u
		}
	}
	return 1, nil
}

func (r *stubRegistrationRepo) List(_ context.Context, filter dto.RegistrationFilter) ([]model.VendorRegistration, int64, error) {
	var out []model.VendorRegistration
	for _, reg := range r.regs {
		if filter.Status != "" && filter.Status != "all" {
			if reg.Status != filter.Status {
				continue
			}
		} else if reg.Status == model.StatusDraft {
			continue
		}
		out = append(out, *reg)
	}
	return out, int64(len(out)), nil
}

func (r *stubRegistrationRepo) DB() *gorm.DB { return nil }

var _ repository.RegistrationRepository = (*stubRegistrationRepo)(nil)

// stubDocumentRepo is an in-memory DocumentRepository.
type stubDocumentRepo struct {
	docs map[uuid.UUID]*model.VendorDocument
}

func newStubDocumentRepo() *stubDocumentRepo {
	return &stubDocumentRepo{docs: make(map[uuid.UUID]*model.VendorDocument)}
}

func (r *stubDocumentRepo) Create(_ context.Context, d *model.VendorDocument) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.docs[d.ID] = d
	return nil
}

func (r *stubDocumentRepo) FindByID(_ context.Context, id uuid.UUID) (*model.VendorDocument, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *stubDocumentRepo) ListByRegistration(_ context.Context, registrationID uuid.UUID) ([]model.VendorDocument, error) {
	var out []model.VendorDocument
	for _, d := range r.docs {
		if d.RegistrationID == registrationID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDocumentRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, fromStatus string, updates map[string]interface{}) (int64, error) {
	d, ok := r.docs[id]
	if !ok || d.VerificationStatus != fromStatus {
		return 0, nil
	}
	for k, v := range updates {
		switch k {
		case "verification_status":
			d.VerificationStatus = v.(string)
		case "verified_by":
			u := v.(uuid.UUID)
			d.VerifiedBy = &u
		case "verified_at":
			t := v.(time.Time)
			d.VerifiedAt = &t
		case "verification_notes":
			d.VerificationNotes = v.(*string)
		}
	}
	return 1, nil
}

func (r *stubDocumentRepo) ListVerifiedExpiring(_ context.Context, now time.Time, limit int) ([]model.VendorDocument, error) {
	var out []model.VendorDocument
	for _, d := range r.docs {
		if d.VerificationStatus == model.DocVerified && d.ExpiryDate != nil && d.ExpiryDate.Before(now) {
			out = append(out, *d)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *stubDocumentRepo) DB() *gorm.DB { return nil }

var _ repository.DocumentRepository = (*stubDocumentRepo)(nil)

// stubLogRepo records appended audit entries for assertion.
type stubLogRepo struct {
	entries []model.VendorApprovalLog
}

func (r *stubLogRepo) CreateTx(_ *gorm.DB, entry *model.VendorApprovalLog) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubLogRepo) ListByRegistration(_ context.Context, registrationID uuid.UUID) ([]model.VendorApprovalLog, error) {
	var out []model.VendorApprovalLog
	for _, e := range r.entries {
		if e.RegistrationID == registrationID {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ repository.ApprovalLogRepository = (*stubLogRepo)(nil)

// stubFileStore keeps uploads in memory; fail simulates an outage.
type stubFileStore struct {
	fail   bool
	stored map[string][]byte
}

func newStubFileStore() *stubFileStore {
	return &stubFileStore{stored: make(map[string][]byte)}
}

func (s *stubFileStore) Store(registrationID uuid.UUID, filename, mimeType string, r io.Reader) (*infra.StoredFile, error) {
	if s.fail {
		return nil, errors.New("storage unavailable")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	url := "file://test/" + registrationID.String() + "/" + filename
	s.stored[url] = data
	return &infra.StoredFile{URL: url, Size: int64(len(data)), MimeType: mimeType}, nil
}

func (s *stubFileStore) Fetch(url string) (io.ReadCloser, error) {
	data, ok := s.stored[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var _ infra.FileStore = (*stubFileStore)(nil)

// ── Shared fixtures ──────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }

// seedRegistration stores a registration that would pass submit validation.
func seedRegistration(repo *stubRegistrationRepo, status string) *model.VendorRegistration {
	reg := &model.VendorRegistration{
		BusinessName:  "Shaadi Caterers",
		EntityType:    "partnership",
		ContactName:   "Asha Rao",
		ContactEmail:  "asha@shaadicaterers.in",
		ContactPhone:  "+919812345678",
		AgreesToTerms: true,
		Categories:    service.StringsToJSON([]string{"catering"}),
		Status:        status,
	}
	_ = repo.Create(context.Background(), reg)
	return reg
}

func buildWorkflowSvc() (service.WorkflowService, *stubRegistrationRepo, *stubLogRepo) {
	regRepo := newStubRegistrationRepo()
	logRepo := &stubLogRepo{}
	regSvc := service.NewRegistrationService(regRepo)
	svc := service.NewWorkflowService(regRepo, logRepo, regSvc, nil)
	return svc, regRepo, logRepo
}

func buildDocumentSvc(maxMB int) (service.DocumentService, *stubDocumentRepo, *stubRegistrationRepo, *stubLogRepo, *stubFileStore) {
	docRepo := newStubDocumentRepo()
	regRepo := newStubRegistrationRepo()
	logRepo := &stubLogRepo{}
	files := newStubFileStore()
	svc := service.NewDocumentService(docRepo, regRepo, logRepo, files, maxMB)
	return svc, docRepo, regRepo, logRepo, files
}
