package models

import (
	"slices"
	"time"
)

// StepIndex is the position of a wizard step, 0 through 3.
type StepIndex int

const (
	StepPersonal StepIndex = iota
	StepVehicle
	StepDocuments
	StepReview
)

// StepCount is the number of wizard steps.
const StepCount = 4

// ProgressVersion is the schema version written for new progress records.
const ProgressVersion = 1

func (s StepIndex) Valid() bool { return s >= StepPersonal && s <= StepReview }

func (s StepIndex) Last() bool { return s == StepReview }

// VerificationStep is the static definition of one wizard step.
type VerificationStep struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredFields []string  `json:"requiredFields"`
	Order          StepIndex `json:"order"`
	Status         string    `json:"status,omitempty"`
}

const (
	StepStatusPending   = "pending"
	StepStatusCompleted = "completed"
)

var verificationSteps = [StepCount]VerificationStep{
	{
		ID:             "personal",
		Title:          "Personal Information",
		Description:    "Provide your personal details and contact information",
		RequiredFields: []string{FieldFullName, FieldPhoneNumber, FieldAddress, FieldDateOfBirth},
		Order:          StepPersonal,
	},
	{
		ID:             "vehicle",
		Title:          "Vehicle Information",
		Description:    "Enter details about your vehicle",
		RequiredFields: []string{FieldVehicleMake, FieldVehicleModel, FieldVehicleYear, FieldVehicleColor, FieldLicensePlate},
		Order:          StepVehicle,
	},
	{
		ID:             "documents",
		Title:          "Document Upload",
		Description:    "Upload required documents for verification",
		RequiredFields: []string{string(SlotDriversLicense), string(SlotVehicleRegistration), string(SlotInsurance), string(SlotProfilePhoto)},
		Order:          StepDocuments,
	},
	{
		ID:          "review",
		Title:       "Review & Submit",
		Description: "Review your information and submit for approval",
		Order:       StepReview,
	},
}

// VerificationSteps returns a fresh copy of the four step definitions.
func VerificationSteps() []VerificationStep {
	out := make([]VerificationStep, 0, StepCount)
	for _, s := range verificationSteps {
		s.RequiredFields = slices.Clone(s.RequiredFields)
		out = append(out, s)
	}
	return out
}

// WizardProgress is the durable snapshot of an in-progress verification.
type WizardProgress struct {
	DriverID       int64       `json:"driverId"`
	Version        int         `json:"version"`
	Revision       int64       `json:"revision"`
	CurrentStep    StepIndex   `json:"currentStep"`
	FormData       FormData    `json:"formData"`
	CompletedSteps []StepIndex `json:"completedSteps"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// NewWizardProgress builds the default record for a driver entering the
// wizard for the first time.
func NewWizardProgress(driverID int64, fullName, phone string) WizardProgress {
	return WizardProgress{
		DriverID: driverID,
		Version:  ProgressVersion,
		FormData: FormData{
			Personal: PersonalInfoFields{FullName: fullName, PhoneNumber: phone},
		},
		CompletedSteps: []StepIndex{},
	}
}

func (p WizardProgress) IsCompleted(step StepIndex) bool {
	return slices.Contains(p.CompletedSteps, step)
}

// MarkCompleted records step as done. Calling it twice is a no-op.
func (p *WizardProgress) MarkCompleted(step StepIndex) {
	if p.IsCompleted(step) {
		return
	}
	p.CompletedSteps = append(p.CompletedSteps, step)
}

// StepsWithStatus returns the step definitions annotated for this progress.
func (p WizardProgress) StepsWithStatus() []VerificationStep {
	steps := VerificationSteps()
	for i := range steps {
		steps[i].Status = StepStatusPending
		if p.IsCompleted(steps[i].Order) {
			steps[i].Status = StepStatusCompleted
		}
	}
	return steps
}

// Normalize repairs the structural invariants of a decoded record: the step
// is clamped into range and completed steps are deduplicated and bounded.
func (p *WizardProgress) Normalize() {
	if p.CurrentStep < StepPersonal {
		p.CurrentStep = StepPersonal
	}
	if p.CurrentStep > StepReview {
		p.CurrentStep = StepReview
	}
	seen := make(map[StepIndex]bool, StepCount)
	out := make([]StepIndex, 0, len(p.CompletedSteps))
	for _, s := range p.CompletedSteps {
		if !s.Valid() || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	p.CompletedSteps = out
}

// VerificationStatus is the final approval record read by the availability
// gate. The zero value means "not verified".
type VerificationStatus struct {
	DriverID       int64       `json:"driverId"`
	IsVerified     bool        `json:"isVerified"`
	CompletedSteps []StepIndex `json:"completedSteps"`
	SubmittedAt    *time.Time  `json:"submittedAt,omitempty"`
	CompletedAt    *time.Time  `json:"completedAt,omitempty"`
}

// AllSteps lists every step index in order.
func AllSteps() []StepIndex {
	return []StepIndex{StepPersonal, StepVehicle, StepDocuments, StepReview}
}
