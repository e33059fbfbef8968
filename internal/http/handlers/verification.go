package handlers

import (
	"net/http"

	"speed-backend/internal/domain/models"
	"speed-backend/internal/http/middleware"
	"speed-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// multipart overhead allowed on top of the document size limit
const uploadSlack = 1 << 20

func progressPayload(p models.WizardProgress) gin.H {
	return gin.H{"progress": p, "steps": p.StepsWithStatus()}
}

// GET /api/driver/verification/steps
func GetVerificationSteps(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	steps, err := verificationService(c).StepStatuses(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": steps})
}

// GET /api/driver/verification
func GetVerification(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := verificationService(c).Start(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressPayload(p))
}

// PATCH /api/driver/verification/fields
func PatchVerificationFields(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	var patch map[string]string
	if !BindJSONOrError(c, &patch) {
		return
	}
	p, err := verificationService(c).EditFields(c.Request.Context(), rc.UserID, patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressPayload(p))
}

// PUT /api/driver/verification/documents/:slot (multipart field "file")
func PutVerificationDocument(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	slot := models.DocumentSlot(c.Param("slot"))
	if !slot.Valid() {
		respondError(c, http.StatusBadRequest, "invalid_slot", "dokumen tidak dikenal", gin.H{"slots": models.DocumentSlots()})
		return
	}

	limit := current().Env.MaxUploadBytes
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+uploadSlack)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "file_required", "file wajib diunggah", err.Error())
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "file_unreadable", "file tidak dapat dibaca", err.Error())
		return
	}
	defer f.Close()

	p, err := verificationService(c).AttachDocument(c.Request.Context(), rc.UserID, slot, fh.Filename, f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressPayload(p))
}

// DELETE /api/driver/verification/documents/:slot
func DeleteVerificationDocument(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := verificationService(c).DetachDocument(c.Request.Context(), rc.UserID, models.DocumentSlot(c.Param("slot")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressPayload(p))
}

// POST /api/driver/verification/next
func PostVerificationNext(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := verificationService(c).Advance(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressPayload(p))
}

// POST /api/driver/verification/previous
func PostVerificationPrevious(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := verificationService(c).Retreat(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, progressPayload(p))
}

// POST /api/driver/verification/submit
func PostVerificationSubmit(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	st, err := verificationService(c).Submit(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "verifikasi berhasil dikirim", "status": st, "redirect": "/dashboard"})
}

// GET /api/driver/verification/status
func GetVerificationStatus(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	st, err := verificationService(c).Status(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st})
}

// GET /api/driver/verification/review.pdf returns the review summary (inline).
func GetVerificationReviewPDF(c *gin.Context) {
	rc, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := verificationService(c).Start(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	pdfBytes, filename, err := services.DocsService{RequestID: middleware.GetRequestID(c)}.GenerateReviewSummary(p)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "pdf_failed", "gagal membuat PDF", err.Error())
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
