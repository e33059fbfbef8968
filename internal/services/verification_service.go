package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"time"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"

	"github.com/go-playground/validator/v10"
)

// DefaultSubmitDelay simulates the review backend before the status record
// is written.
const DefaultSubmitDelay = 2 * time.Second

var stepValidator = newStepValidator()

func newStepValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("field")
	})
	return v
}

// MissingFields lists the required fields of step that are still empty.
// The review step has no fields and is always complete.
func MissingFields(form models.FormData, step models.StepIndex) []string {
	section := form.Section(step)
	if section == nil {
		return nil
	}
	err := stepValidator.Struct(section)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

// VerificationService drives the four step driver verification wizard.
type VerificationService struct {
	Store       VerificationStore
	Users       UserLookup
	Notifier    Notifier
	Documents   DocumentStore
	SubmitDelay time.Duration
	RequestID   string
}

func (s VerificationService) Steps() []models.VerificationStep {
	return models.VerificationSteps()
}

// StepStatuses annotates the steps for driverID without creating progress.
func (s VerificationService) StepStatuses(ctx context.Context, driverID int64) ([]models.VerificationStep, error) {
	if p, err := s.Store.LoadProgress(ctx, driverID); err == nil {
		return p.StepsWithStatus(), nil
	}
	st, err := s.Status(ctx, driverID)
	if err != nil {
		return nil, err
	}
	var p models.WizardProgress
	if st.IsVerified {
		p.CompletedSteps = st.CompletedSteps
	}
	return p.StepsWithStatus(), nil
}

// Start returns the driver's saved progress, creating it with the name and
// phone of the account when none exists. A corrupt record is discarded and
// the wizard restarts from defaults.
func (s VerificationService) Start(ctx context.Context, driverID int64) (models.WizardProgress, error) {
	if err := s.ensureNotVerified(ctx, driverID); err != nil {
		return models.WizardProgress{}, err
	}

	p, err := s.Store.LoadProgress(ctx, driverID)
	switch {
	case err == nil:
		return p, nil
	case domain.IsNotFound(err):
	case domain.IsCorruptRecord(err):
		utils.LogWarn(s.RequestID, "verification", "load_progress", fmt.Sprintf("driver_id=%d discarding unreadable progress", driverID), err)
		if err := s.Store.ClearProgress(ctx, driverID); err != nil {
			return models.WizardProgress{}, domain.InternalError{Msg: "failed to reset verification progress", Err: err}
		}
		notify(ctx, s.Notifier, s.RequestID, driverID, models.NotificationWarning, "Progress Reset",
			"Your saved verification progress could not be read. Please start again.")
	default:
		return models.WizardProgress{}, domain.InternalError{Msg: "failed to load verification progress", Err: err}
	}

	var fullName, phone string
	if s.Users != nil {
		if u, err := s.Users.GetByID(ctx, driverID); err == nil {
			fullName, phone = u.Name, u.Phone
		}
	}
	p = models.NewWizardProgress(driverID, fullName, phone)
	if err := s.save(ctx, &p); err != nil {
		return models.WizardProgress{}, err
	}
	utils.LogEvent(s.RequestID, "verification", "start", fmt.Sprintf("driver_id=%d", driverID))
	return p, nil
}

// EditFields sets text fields of the current step. Fields that belong to
// another step or are unknown are rejected without saving anything.
func (s VerificationService) EditFields(ctx context.Context, driverID int64, patch map[string]string) (models.WizardProgress, error) {
	if len(patch) == 0 {
		return models.WizardProgress{}, domain.ValidationError{Msg: "no fields to update"}
	}
	p, err := s.Start(ctx, driverID)
	if err != nil {
		return models.WizardProgress{}, err
	}

	for name := range patch {
		step, ok := models.FieldStep(name)
		if !ok {
			return p, domain.ValidationError{Field: name, Msg: "unknown field"}
		}
		if step != p.CurrentStep {
			return p, domain.ValidationError{Field: name, Msg: "field is not editable on the current step"}
		}
	}
	for name, value := range patch {
		p.FormData.SetField(name, value)
	}
	if err := s.save(ctx, &p); err != nil {
		return models.WizardProgress{}, err
	}
	return p, nil
}

// AttachDocument stores an upload into slot, replacing any earlier file.
func (s VerificationService) AttachDocument(ctx context.Context, driverID int64, slot models.DocumentSlot, filename string, r io.Reader) (models.WizardProgress, error) {
	if !slot.Valid() {
		return models.WizardProgress{}, domain.ValidationError{Field: string(slot), Msg: "unknown document"}
	}
	p, err := s.Start(ctx, driverID)
	if err != nil {
		return models.WizardProgress{}, err
	}
	if p.CurrentStep != models.StepDocuments {
		return p, domain.ConflictError{Resource: "document", Msg: "documents can only be changed on the document upload step"}
	}
	if s.Documents == nil {
		return p, domain.InternalError{Msg: "document storage is not configured"}
	}

	ref, err := s.Documents.Save(ctx, driverID, slot, filename, r)
	if err != nil {
		return p, err
	}
	previous := p.FormData.Documents.Get(slot)
	p.FormData.Documents.Set(slot, &ref)
	if err := s.save(ctx, &p); err != nil {
		s.removeDocument(ctx, ref)
		return models.WizardProgress{}, err
	}
	if previous != nil && previous.Path != ref.Path {
		s.removeDocument(ctx, *previous)
	}
	utils.LogEvent(s.RequestID, "verification", "attach_document", fmt.Sprintf("driver_id=%d slot=%s size=%d", driverID, slot, ref.Size))
	return p, nil
}

func (s VerificationService) DetachDocument(ctx context.Context, driverID int64, slot models.DocumentSlot) (models.WizardProgress, error) {
	if !slot.Valid() {
		return models.WizardProgress{}, domain.ValidationError{Field: string(slot), Msg: "unknown document"}
	}
	p, err := s.Start(ctx, driverID)
	if err != nil {
		return models.WizardProgress{}, err
	}
	if p.CurrentStep != models.StepDocuments {
		return p, domain.ConflictError{Resource: "document", Msg: "documents can only be changed on the document upload step"}
	}
	previous := p.FormData.Documents.Get(slot)
	if previous == nil {
		return p, nil
	}
	p.FormData.Documents.Set(slot, nil)
	if err := s.save(ctx, &p); err != nil {
		return models.WizardProgress{}, err
	}
	s.removeDocument(ctx, *previous)
	return p, nil
}

// Advance validates the current step, marks it completed and moves forward.
// An incomplete step leaves the stored progress untouched.
func (s VerificationService) Advance(ctx context.Context, driverID int64) (models.WizardProgress, error) {
	p, err := s.Start(ctx, driverID)
	if err != nil {
		return models.WizardProgress{}, err
	}

	if missing := MissingFields(p.FormData, p.CurrentStep); len(missing) > 0 {
		notify(ctx, s.Notifier, s.RequestID, driverID, models.NotificationError, "Incomplete Information",
			"Please fill in all required fields before proceeding")
		return p, domain.ValidationError{Fields: missing, Msg: "required fields are missing"}
	}

	p.MarkCompleted(p.CurrentStep)
	if !p.CurrentStep.Last() {
		p.CurrentStep++
	}
	if err := s.save(ctx, &p); err != nil {
		return models.WizardProgress{}, err
	}
	utils.LogEvent(s.RequestID, "verification", "advance", fmt.Sprintf("driver_id=%d step=%d", driverID, p.CurrentStep))
	return p, nil
}

// Retreat moves one step back without validating. At the first step it does
// nothing.
func (s VerificationService) Retreat(ctx context.Context, driverID int64) (models.WizardProgress, error) {
	p, err := s.Start(ctx, driverID)
	if err != nil {
		return models.WizardProgress{}, err
	}
	if p.CurrentStep == models.StepPersonal {
		return p, nil
	}
	p.CurrentStep--
	if err := s.save(ctx, &p); err != nil {
		return models.WizardProgress{}, err
	}
	return p, nil
}

// Submit finalizes the wizard from the review step. After the simulated
// delay the status record is written and progress removed in one step; the
// delay and the write are not aborted when the caller goes away.
func (s VerificationService) Submit(ctx context.Context, driverID int64) (models.VerificationStatus, error) {
	p, err := s.Start(ctx, driverID)
	if err != nil {
		return models.VerificationStatus{}, err
	}
	if p.CurrentStep != models.StepReview {
		return models.VerificationStatus{}, domain.ConflictError{Resource: "verification", Msg: "submission is only possible from the review step"}
	}
	for _, step := range models.AllSteps() {
		if missing := MissingFields(p.FormData, step); len(missing) > 0 {
			return models.VerificationStatus{}, domain.ValidationError{Fields: missing, Msg: "required fields are missing"}
		}
	}

	ctx = context.WithoutCancel(ctx)
	if s.SubmitDelay > 0 {
		time.Sleep(s.SubmitDelay)
	}

	now := utils.NowUTC()
	st := models.VerificationStatus{
		DriverID:       driverID,
		IsVerified:     true,
		CompletedSteps: models.AllSteps(),
		SubmittedAt:    &now,
		CompletedAt:    &now,
	}
	if err := s.Store.Finalize(ctx, st); err != nil {
		if domain.IsConflict(err) {
			return models.VerificationStatus{}, err
		}
		utils.LogWarn(s.RequestID, "verification", "submit", fmt.Sprintf("driver_id=%d", driverID), err)
		notify(ctx, s.Notifier, s.RequestID, driverID, models.NotificationError, "Submission Failed",
			"We could not submit your verification. Please try again.")
		return models.VerificationStatus{}, domain.InternalError{Msg: "failed to submit verification", Err: err}
	}

	notify(ctx, s.Notifier, s.RequestID, driverID, models.NotificationSuccess, "Verification Submitted",
		"Verification completed! You can now go online and start earning.")
	utils.LogEvent(s.RequestID, "verification", "submit", fmt.Sprintf("driver_id=%d", driverID))
	return st, nil
}

// Status returns the final record; a driver without one is not verified.
func (s VerificationService) Status(ctx context.Context, driverID int64) (models.VerificationStatus, error) {
	st, err := s.Store.GetStatus(ctx, driverID)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.VerificationStatus{DriverID: driverID, CompletedSteps: []models.StepIndex{}}, nil
		}
		return models.VerificationStatus{}, domain.InternalError{Msg: "failed to load verification status", Err: err}
	}
	return st, nil
}

// ResumeStep is the step a driver returns to, 0 when nothing is saved.
func (s VerificationService) ResumeStep(ctx context.Context, driverID int64) models.StepIndex {
	p, err := s.Store.LoadProgress(ctx, driverID)
	if err != nil {
		return models.StepPersonal
	}
	return p.CurrentStep
}

func (s VerificationService) ensureNotVerified(ctx context.Context, driverID int64) error {
	st, err := s.Status(ctx, driverID)
	if err != nil {
		return err
	}
	if st.IsVerified {
		return domain.ConflictError{Resource: "verification", Msg: "driver already verified"}
	}
	return nil
}

func (s VerificationService) save(ctx context.Context, p *models.WizardProgress) error {
	if err := s.Store.SaveProgress(ctx, p); err != nil {
		if domain.IsConflict(err) {
			return err
		}
		return domain.InternalError{Msg: "failed to save verification progress", Err: err}
	}
	return nil
}

func (s VerificationService) removeDocument(ctx context.Context, ref models.DocumentRef) {
	if s.Documents == nil {
		return
	}
	if err := s.Documents.Remove(ctx, ref); err != nil {
		utils.LogWarn(s.RequestID, "verification", "remove_document", ref.Path, err)
	}
}
