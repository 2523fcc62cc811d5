package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ApproveRequest — notes are optional on approval.
type ApproveRequest struct {
	Notes *string `json:"notes"`
}

// DecisionReasonRequest covers reject / suspend / blacklist — all of which
// require an explicit reason.
type DecisionReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=3"`
}

// TransitionNoteRequest covers the pure review transitions (begin review,
// request documents, request verification, resume review).
type TransitionNoteRequest struct {
	Notes *string `json:"notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransitionResponse struct {
	ID             string `json:"id"`
	PreviousStatus string `json:"previous_status"`
	Status         string `json:"status"`
}

type ApprovalLogEntry struct {
	ID             string  `json:"id"`
	RegistrationID string  `json:"registration_id"`
	Action         string  `json:"action"`
	PerformedBy    *string `json:"performed_by,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	PreviousStatus string  `json:"previous_status"`
	NewStatus      string  `json:"new_status"`
	DocumentID     *string `json:"document_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
