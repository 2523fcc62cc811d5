package handler

import (
	"context"
	"net/http"

	"github.com/ninjaskull/dacreation-sub001/internal/apierror"
	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/middleware"
	"github.com/ninjaskull/dacreation-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WorkflowHandler serves the admin review queue and every status transition.
type WorkflowHandler struct {
	regs     service.RegistrationService
	docs     service.DocumentService
	workflow service.WorkflowService
}

func NewWorkflowHandler(regs service.RegistrationService, docs service.DocumentService, workflow service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{regs: regs, docs: docs, workflow: workflow}
}

func actorID(c *gin.Context) uuid.UUID {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return id
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

// List godoc
// @Summary      Admin review queue
// @Description  Paginated registrations filtered by status, category, and search text. Drafts are never listed.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status   query string false "Workflow status"
// @Param        category query string false "Catalog category"
// @Param        search   query string false "Business name / contact email"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Per page (default 50)"
// @Success      200 {object} dto.RegistrationListResponse
// @Router       /v1/admin/registrations [get]
func (h *WorkflowHandler) List(c *gin.Context) {
	var filter dto.RegistrationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.regs.List(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns the full registration for the review screen. Drafts 404 here —
// they belong to the applicant until submitted.
func (h *WorkflowHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.regs.GetForReview(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// History returns the interleaved registration- and document-level audit trail.
func (h *WorkflowHandler) History(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := h.workflow.History(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// transitionNote binds the optional-notes body shared by review transitions.
// An empty body is fine.
func transitionNote(c *gin.Context) (*string, bool) {
	if c.Request.ContentLength == 0 {
		return nil, true
	}
	var req dto.TransitionNoteRequest
	if !bindAndValidate(c, &req) {
		return nil, false
	}
	return req.Notes, true
}

type noteTransitionFn func(ctx context.Context, id, actorID uuid.UUID, notes *string) (*dto.TransitionResponse, error)

func (h *WorkflowHandler) noteTransition(c *gin.Context, fn noteTransitionFn) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	notes, ok := transitionNote(c)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), id, actorID(c), notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type reasonTransitionFn func(ctx context.Context, id, actorID uuid.UUID, reason string) (*dto.TransitionResponse, error)

func (h *WorkflowHandler) reasonTransition(c *gin.Context, fn reasonTransitionFn) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.DecisionReasonRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := fn(c.Request.Context(), id, actorID(c), req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BeginReview moves submitted → under_review.
func (h *WorkflowHandler) BeginReview(c *gin.Context) {
	h.noteTransition(c, h.workflow.BeginReview)
}

// RequestDocuments moves under_review → documents_pending.
func (h *WorkflowHandler) RequestDocuments(c *gin.Context) {
	h.noteTransition(c, h.workflow.RequestDocuments)
}

// RequestVerification moves under_review → verification_pending.
func (h *WorkflowHandler) RequestVerification(c *gin.Context) {
	h.noteTransition(c, h.workflow.RequestVerification)
}

// ResumeReview moves documents_pending → under_review.
func (h *WorkflowHandler) ResumeReview(c *gin.Context) {
	h.noteTransition(c, h.workflow.ResumeReview)
}

// Approve godoc
// @Summary      Approve a registration
// @Description  Legal from submitted, under_review, or verification_pending. Sends the applicant a notification email asynchronously.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Registration UUID"
// @Param        body body dto.TransitionNoteRequest false "Optional notes"
// @Success      200  {object} dto.TransitionResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/admin/registrations/{id}/approve [post]
func (h *WorkflowHandler) Approve(c *gin.Context) {
	h.noteTransition(c, h.workflow.Approve)
}

// Reject godoc
// @Summary      Reject a registration
// @Description  Requires a non-empty reason. Legal from the same states as approve.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Registration UUID"
// @Param        body body dto.DecisionReasonRequest true "Rejection reason"
// @Success      200  {object} dto.TransitionResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/admin/registrations/{id}/reject [post]
func (h *WorkflowHandler) Reject(c *gin.Context) {
	h.reasonTransition(c, h.workflow.Reject)
}

// Suspend downgrades an approved vendor; requires a reason.
func (h *WorkflowHandler) Suspend(c *gin.Context) {
	h.reasonTransition(c, h.workflow.Suspend)
}

// Blacklist downgrades an approved vendor; requires a reason.
func (h *WorkflowHandler) Blacklist(c *gin.Context) {
	h.reasonTransition(c, h.workflow.Blacklist)
}

// VerifyDocument marks a pending document verified.
func (h *WorkflowHandler) VerifyDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.VerifyDocumentRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.docs.Verify(c.Request.Context(), id, actorID(c), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RejectDocument marks a pending document rejected; notes are mandatory.
func (h *WorkflowHandler) RejectDocument(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.RejectDocumentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.docs.Reject(c.Request.Context(), id, actorID(c), req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
