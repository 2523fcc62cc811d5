package infra

// pdf.go — approval letter generation using go-pdf/fpdf.
// When a registration is approved, the email worker generates a one-page
// letter and attaches it to the notification mail. The output file is saved
// to storagePath/approval_{registrationID}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// ApprovalLetterData carries everything the letter template needs.
type ApprovalLetterData struct {
	RegistrationID string
	BusinessName   string
	ContactName    string
	Categories     []string
	ApprovedAt     time.Time
}

// GenerateApprovalLetter writes the letter PDF and returns its absolute path.
func GenerateApprovalLetter(data ApprovalLetterData, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("approval_%s.pdf", data.RegistrationID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 40

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, "DA Creation", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, "Vendor Registration Approval", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	// ── Body ─────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, data.ApprovedAt.Format("2 January 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.MultiCell(contentW, 6, fmt.Sprintf("Dear %s,", data.ContactName), "", "L", false)
	pdf.Ln(2)
	pdf.MultiCell(contentW, 6, fmt.Sprintf(
		"We are pleased to inform you that the vendor registration for %s "+
			"(reference %s) has been approved. Your business is now part of the "+
			"DA Creation vendor network.",
		data.BusinessName, data.RegistrationID), "", "L", false)
	pdf.Ln(4)

	if len(data.Categories) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Approved service categories", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, cat := range data.Categories {
			pdf.CellFormat(contentW, 5, "  - "+cat, "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdf.MultiCell(contentW, 6,
		"Our vendor relations team will contact you with next steps for "+
			"onboarding, listing, and payout setup.", "", "L", false)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "This letter is generated electronically and does not require a signature.", "", 1, "L", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write letter: %w", err)
	}
	return filePath, nil
}
