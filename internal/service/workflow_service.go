package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/model"
	"github.com/ninjaskull/dacreation-sub001/internal/repository"
	"github.com/ninjaskull/dacreation-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// legalTransitions is the complete status graph. Any (from, to) pair not
// present here is illegal and fails with ErrInvalidTransition.
var legalTransitions = map[string][]string{
	model.StatusDraft:               {model.StatusSubmitted},
	model.StatusSubmitted:           {model.StatusUnderReview, model.StatusApproved, model.StatusRejected},
	model.StatusUnderReview:         {model.StatusDocumentsPending, model.StatusVerificationPending, model.StatusApproved, model.StatusRejected},
	model.StatusDocumentsPending:    {model.StatusUnderReview},
	model.StatusVerificationPending: {model.StatusApproved, model.StatusRejected},
	model.StatusApproved:            {model.StatusSuspended, model.StatusBlacklisted},
}

func transitionAllowed(from, to string) bool {
	for _, t := range legalTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// WorkflowService is the only component that changes VendorRegistration.Status
// and the only writer of registration-level approval log rows. Every
// transition commits the conditional status update and its log row in one
// transaction — both or neither.
type WorkflowService interface {
	Submit(ctx context.Context, id uuid.UUID) (*dto.TransitionResponse, error)
	BeginReview(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error)
	RequestDocuments(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error)
	RequestVerification(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error)
	ResumeReview(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error)
	Approve(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error)
	Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (*dto.TransitionResponse, error)
	Suspend(ctx context.Context, id, actorID uuid.UUID, reason string) (*dto.TransitionResponse, error)
	Blacklist(ctx context.Context, id, actorID uuid.UUID, reason string) (*dto.TransitionResponse, error)
	History(ctx context.Context, id uuid.UUID) ([]dto.ApprovalLogEntry, error)
}

type workflowService struct {
	registrations repository.RegistrationRepository
	logs          repository.ApprovalLogRepository
	validator     RegistrationService
	dispatcher    *worker.Dispatcher
}

func NewWorkflowService(
	registrations repository.RegistrationRepository,
	logs repository.ApprovalLogRepository,
	validator RegistrationService,
	dispatcher *worker.Dispatcher,
) WorkflowService {
	return &workflowService{
		registrations: registrations,
		logs:          logs,
		validator:     validator,
		dispatcher:    dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// transition applies one step of the status graph.
//
// The update is conditioned on the status observed before the transaction:
// when two actors race on the same registration, exactly one conditional
// update matches and the loser fails with ErrInvalidTransition, leaving no
// log row behind. This also makes repeated calls non-idempotent on purpose —
// approving an approved registration fails instead of silently succeeding,
// which protects the audit log from duplicate entries.
func (s *workflowService) transition(
	ctx context.Context,
	id uuid.UUID,
	to, action string,
	actorID *uuid.UUID,
	notes *string,
	extra map[string]interface{},
) (*model.VendorRegistration, string, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}

	from := reg.Status
	if !transitionAllowed(from, to) {
		return nil, "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	txErr := runTx(ctx, s.registrations.DB(), func(tx *gorm.DB) error {
		rows, err := s.registrations.UpdateStatusTx(tx, id, from, updates)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Lost the race — another actor transitioned first.
			return fmt.Errorf("%w: registration is no longer %s", ErrInvalidTransition, from)
		}
		return s.logs.CreateTx(tx, &model.VendorApprovalLog{
			RegistrationID: id,
			Action:         action,
			PerformedBy:    actorID,
			Notes:          notes,
			PreviousStatus: from,
			NewStatus:      to,
		})
	})
	if txErr != nil {
		return nil, "", txErr
	}
	return reg, from, nil
}

func (s *workflowService) Submit(ctx context.Context, id uuid.UUID) (*dto.TransitionResponse, error) {
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reg.Status != model.StatusDraft {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reg.Status, model.StatusSubmitted)
	}
	if err := s.validator.ValidateForSubmit(reg); err != nil {
		return nil, err
	}

	now := time.Now()
	_, from, err := s.transition(ctx, id, model.StatusSubmitted, model.ActionSubmitted, nil, nil,
		map[string]interface{}{"submitted_at": now})
	if err != nil {
		return nil, err
	}
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusSubmitted}, nil
}

func (s *workflowService) BeginReview(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error) {
	// under_review is also reachable from documents_pending, but only via
	// ResumeReview — starting a review is legal from submitted alone.
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reg.Status != model.StatusSubmitted {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reg.Status, model.StatusUnderReview)
	}
	now := time.Now()
	_, from, err := s.transition(ctx, id, model.StatusUnderReview, model.ActionStatusChanged, &actorID, notes,
		map[string]interface{}{"reviewed_at": now, "reviewer_id": actorID})
	if err != nil {
		return nil, err
	}
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusUnderReview}, nil
}

func (s *workflowService) RequestDocuments(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error) {
	_, from, err := s.transition(ctx, id, model.StatusDocumentsPending, model.ActionStatusChanged, &actorID, notes, nil)
	if err != nil {
		return nil, err
	}
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusDocumentsPending}, nil
}

func (s *workflowService) RequestVerification(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error) {
	_, from, err := s.transition(ctx, id, model.StatusVerificationPending, model.ActionStatusChanged, &actorID, notes, nil)
	if err != nil {
		return nil, err
	}
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusVerificationPending}, nil
}

func (s *workflowService) ResumeReview(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error) {
	// documents_pending -> under_review, typically after new documents arrive.
	reg, err := s.registrations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reg.Status != model.StatusDocumentsPending {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, reg.Status, model.StatusUnderReview)
	}
	_, from, err := s.transition(ctx, id, model.StatusUnderReview, model.ActionStatusChanged, &actorID, notes, nil)
	if err != nil {
		return nil, err
	}
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusUnderReview}, nil
}

func (s *workflowService) Approve(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error) {
	now := time.Now()
	reg, from, err := s.transition(ctx, id, model.StatusApproved, model.ActionApproved, &actorID, notes,
		map[string]interface{}{"approved_at": now, "approver_id": actorID})
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, reg, "approved", "")
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusApproved}, nil
}

func (s *workflowService) Reject(ctx context.Context, id, actorID uuid.UUID, reason string) (*dto.TransitionResponse, error) {
	if reason == "" {
		return nil, NewValidationError("reason", "rejection reason is required")
	}
	reg, from, err := s.transition(ctx, id, model.StatusRejected, model.ActionRejected, &actorID, &reason,
		map[string]interface{}{"rejection_reason": reason})
	if err != nil {
		return nil, err
	}
	s.notifyDecision(ctx, reg, "rejected", reason)
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusRejected}, nil
}

func (s *workflowService) Suspend(ctx context.Context, id, actorID uuid.UUID, reason string) (*dto.TransitionResponse, error) {
	if reason == "" {
		return nil, NewValidationError("reason", "suspension reason is required")
	}
	_, from, err := s.transition(ctx, id, model.StatusSuspended, model.ActionStatusChanged, &actorID, &reason, nil)
	if err != nil {
		return nil, err
	}
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusSuspended}, nil
}

func (s *workflowService) Blacklist(ctx context.Context, id, actorID uuid.UUID, reason string) (*dto.TransitionResponse, error) {
	if reason == "" {
		return nil, NewValidationError("reason", "blacklist reason is required")
	}
	_, from, err := s.transition(ctx, id, model.StatusBlacklisted, model.ActionStatusChanged, &actorID, &reason, nil)
	if err != nil {
		return nil, err
	}
	return &dto.TransitionResponse{ID: id.String(), PreviousStatus: from, Status: model.StatusBlacklisted}, nil
}

func (s *workflowService) History(ctx context.Context, id uuid.UUID) ([]dto.ApprovalLogEntry, error) {
	if _, err := s.registrations.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	entries, err := s.logs.ListByRegistration(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ApprovalLogEntry, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		out = append(out, dto.ApprovalLogEntry{
			ID:             e.ID.String(),
			RegistrationID: e.RegistrationID.String(),
			Action:         e.Action,
			PerformedBy:    uuidPtrToString(e.PerformedBy),
			Notes:          e.Notes,
			PreviousStatus: e.PreviousStatus,
			NewStatus:      e.NewStatus,
			DocumentID:     uuidPtrToString(e.DocumentID),
			CreatedAt:      e.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// notifyDecision enqueues the applicant email after the transaction commits.
// Best-effort: a dead queue never rolls back a decision.
func (s *workflowService) notifyDecision(ctx context.Context, reg *model.VendorRegistration, event, reason string) {
	if s.dispatcher == nil || reg.ContactEmail == "" {
		return
	}
	payload := worker.NotificationPayload{
		Event:          event,
		RegistrationID: reg.ID.String(),
		ToEmail:        reg.ContactEmail,
		BusinessName:   reg.BusinessName,
		ContactName:    reg.ContactName,
		Categories:     JSONToStrings(reg.Categories),
		Reason:         reason,
	}
	if err := s.dispatcher.EnqueueNotification(ctx, payload); err != nil {
		log.Error().Err(err).
			Str("registration_id", reg.ID.String()).
			Str("event", event).
			Msg("failed to enqueue decision notification")
	}
}
