package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"speed-backend/internal/domain/models"
)

func TestDocsServiceGenerateReviewSummary(t *testing.T) {
	p := models.NewWizardProgress(42, "Adebayo Ogundimu", "+234 803 123 4567")
	p.FormData.Vehicle = models.VehicleInfoFields{Make: "Toyota", Model: "Camry", Year: "2020", Color: "Black", LicensePlate: "LAG-123-AB"}
	p.FormData.Documents.Set(models.SlotDriversLicense, &models.DocumentRef{FileName: "license.jpg"})

	svc := DocsService{Now: func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) }}
	pdf, filename, err := svc.GenerateReviewSummary(p)
	if err != nil {
		t.Fatalf("GenerateReviewSummary returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("output is not a PDF")
	}
	if !strings.HasPrefix(filename, "VERIFICATION_42_Adebayo_Ogundimu") || !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("unexpected filename %q", filename)
	}
}
