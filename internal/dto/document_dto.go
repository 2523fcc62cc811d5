package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// UploadDocumentForm is bound from the multipart form of
// POST /v1/registrations/:id/documents (the file part travels separately).
type UploadDocumentForm struct {
	DocumentType string  `form:"document_type" validate:"required"`
	ExpiryDate   *string `form:"expiry_date"` // YYYY-MM-DD
}

type VerifyDocumentRequest struct {
	Notes *string `json:"notes"`
}

type RejectDocumentRequest struct {
	Notes string `json:"notes" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DocumentResponse struct {
	ID                 string  `json:"id"`
	RegistrationID     string  `json:"registration_id"`
	DocumentType       string  `json:"document_type"`
	DocumentName       string  `json:"document_name"`
	DocumentURL        string  `json:"document_url"`
	FileSize           int64   `json:"file_size"`
	MimeType           string  `json:"mime_type"`
	ExpiryDate         *string `json:"expiry_date,omitempty"`
	VerificationStatus string  `json:"verification_status"`
	VerifiedBy         *string `json:"verified_by,omitempty"`
	VerifiedAt         *string `json:"verified_at,omitempty"`
	VerificationNotes  *string `json:"verification_notes,omitempty"`
	CreatedAt          string  `json:"created_at"`
}
