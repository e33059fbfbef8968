package services

import (
	"bytes"
	"fmt"
	"time"

	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the review step of the verification wizard as a PDF.
type DocsService struct {
	RequestID string
	Now       func() time.Time
}

func (s DocsService) GenerateReviewSummary(p models.WizardProgress) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "docs", "generate_review_summary", fmt.Sprintf("driver_id=%d", p.DriverID))
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return buildReviewPDF(p, now)
}

func buildReviewPDF(p models.WizardProgress, generatedAt time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Driver Verification Review", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "DRIVER VERIFICATION REVIEW")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated : "+utils.FormatDateTime(generatedAt))
	pdf.Ln(10)

	personal := p.FormData.Personal
	section(pdf, "Personal Information", []string{
		fmt.Sprintf("Full Name     : %s", utils.Fallback(personal.FullName, "-")),
		fmt.Sprintf("Phone Number  : %s", utils.Fallback(personal.PhoneNumber, "-")),
		fmt.Sprintf("Address       : %s", utils.Fallback(personal.Address, "-")),
		fmt.Sprintf("Date of Birth : %s", utils.Fallback(personal.DateOfBirth, "-")),
	})

	vehicle := p.FormData.Vehicle
	section(pdf, "Vehicle Information", []string{
		fmt.Sprintf("Vehicle       : %s %s %s", utils.Fallback(vehicle.Year, "-"), utils.Fallback(vehicle.Make, "-"), utils.Fallback(vehicle.Model, "-")),
		fmt.Sprintf("Color         : %s", utils.Fallback(vehicle.Color, "-")),
		fmt.Sprintf("License Plate : %s", utils.Fallback(vehicle.LicensePlate, "-")),
	})

	docs := make([]string, 0, len(models.DocumentSlots()))
	for _, slot := range models.DocumentSlots() {
		state := "Missing"
		if ref := p.FormData.Documents.Get(slot); ref != nil {
			state = "Uploaded (" + utils.Fallback(ref.FileName, "file") + ")"
		}
		docs = append(docs, fmt.Sprintf("%-22s: %s", slot.Label(), state))
	}
	section(pdf, "Documents", docs)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "By submitting, you confirm that all information provided is accurate and complete.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("VERIFICATION_%d_%s.pdf", p.DriverID, utils.SafeFilenamePart(personal.FullName))
	return buf.Bytes(), filename, nil
}

func section(pdf *gofpdf.Fpdf, title string, lines []string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, l := range lines {
		pdf.Cell(0, 6, l)
		pdf.Ln(6)
	}
	pdf.Ln(4)
}
