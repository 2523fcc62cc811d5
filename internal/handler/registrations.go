package handler

import (
	"net/http"
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/apierror"
	"github.com/ninjaskull/dacreation-sub001/internal/dto"
	"github.com/ninjaskull/dacreation-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegistrationsHandler serves the applicant-facing intake endpoints:
// draft create/autosave, submit, and document upload.
type RegistrationsHandler struct {
	regs     service.RegistrationService
	docs     service.DocumentService
	workflow service.WorkflowService
}

func NewRegistrationsHandler(regs service.RegistrationService, docs service.DocumentService, workflow service.WorkflowService) *RegistrationsHandler {
	return &RegistrationsHandler{regs: regs, docs: docs, workflow: workflow}
}

// CreateDraft godoc
// @Summary      Create a registration draft
// @Description  Creates a vendor registration in draft status. Only format checks apply; required fields are enforced at submit.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        body body dto.RegistrationDraftRequest true "Draft fields"
// @Success      201  {object} dto.RegistrationResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/registrations [post]
func (h *RegistrationsHandler) CreateDraft(c *gin.Context) {
	var req dto.RegistrationDraftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.regs.CreateDraft(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateDraft godoc
// @Summary      Update a registration draft
// @Description  Merges a full-snapshot payload into an editable registration (autosave). Last write wins.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        id   path string                       true "Registration UUID"
// @Param        body body dto.RegistrationDraftRequest true "Draft fields"
// @Success      200  {object} dto.RegistrationResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/registrations/{id} [patch]
func (h *RegistrationsHandler) UpdateDraft(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid registration id"))
		return
	}
	var req dto.RegistrationDraftRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.regs.UpdateDraft(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Submit godoc
// @Summary      Submit a registration
// @Description  Validates all mandatory fields (reporting every problem at once) and moves draft → submitted.
// @Tags         registrations
// @Produce      json
// @Param        id path string true "Registration UUID"
// @Success      200  {object} dto.TransitionResponse
// @Failure      422  {object} apierror.ValidationError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/registrations/{id}/submit [post]
func (h *RegistrationsHandler) Submit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid registration id"))
		return
	}
	resp, err := h.workflow.Submit(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns a single registration with its documents.
func (h *RegistrationsHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid registration id"))
		return
	}
	resp, err := h.regs.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadDocument godoc
// @Summary      Upload a verification document
// @Description  Stores the file and creates a pending document row. Multipart form: file + document_type (+ optional expiry_date).
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path     string true "Registration UUID"
// @Param        file          formData file   true "Document file"
// @Param        document_type formData string true "Document type from the catalog"
// @Success      201  {object} dto.DocumentResponse
// @Failure      413  {object} apierror.APIError
// @Failure      415  {object} apierror.APIError
// @Router       /v1/registrations/{id}/documents [post]
func (h *RegistrationsHandler) UploadDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid registration id"))
		return
	}

	var form dto.UploadDocumentForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid form: "+err.Error()))
		return
	}
	if err := validate.Struct(&form); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Missing file part"))
		return
	}

	var expiry *time.Time
	if form.ExpiryDate != nil && *form.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", *form.ExpiryDate)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"expiry_date": "expected YYYY-MM-DD"}))
			return
		}
		expiry = &t
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Unreadable file part"))
		return
	}
	defer f.Close()

	resp, err := h.docs.Upload(c.Request.Context(), id, service.UploadInput{
		DocumentType: form.DocumentType,
		Filename:     fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		ExpiryDate:   expiry,
		Content:      f,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListDocuments returns all documents of a registration.
func (h *RegistrationsHandler) ListDocuments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid registration id"))
		return
	}
	resp, err := h.docs.ListByRegistration(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
