package repositories

import (
	"encoding/json"
	"fmt"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
)

const recordProgress = "verification progress"

// legacyProgress is the unversioned browser-era format: one flat formData
// map and bare step indices.
type legacyProgress struct {
	CurrentStep    int            `json:"currentStep"`
	FormData       map[string]any `json:"formData"`
	CompletedSteps []int          `json:"completedSteps"`
}

func encodeProgress(p models.WizardProgress) ([]byte, error) {
	p.Version = models.ProgressVersion
	return json.Marshal(p)
}

// decodeProgress parses a stored payload of the given schema version into
// the current model. Unknown versions and malformed payloads yield
// domain.CorruptRecordError.
func decodeProgress(driverID int64, version int, raw []byte) (models.WizardProgress, error) {
	var p models.WizardProgress
	switch version {
	case 0:
		migrated, err := migrateLegacyProgress(raw)
		if err != nil {
			return p, domain.CorruptRecordError{Record: recordProgress, Version: version, Err: err}
		}
		p = migrated
	case models.ProgressVersion:
		if err := json.Unmarshal(raw, &p); err != nil {
			return p, domain.CorruptRecordError{Record: recordProgress, Version: version, Err: err}
		}
	default:
		return p, domain.CorruptRecordError{Record: recordProgress, Version: version, Err: fmt.Errorf("unsupported version")}
	}

	p.DriverID = driverID
	p.Version = models.ProgressVersion
	if p.CompletedSteps == nil {
		p.CompletedSteps = []models.StepIndex{}
	}
	p.Normalize()
	return p, nil
}

// migrateLegacyProgress lifts a version 0 record. File handles from that era
// were never persisted, so the documents step is reopened.
func migrateLegacyProgress(raw []byte) (models.WizardProgress, error) {
	var legacy legacyProgress
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return models.WizardProgress{}, err
	}

	p := models.WizardProgress{CurrentStep: models.StepIndex(legacy.CurrentStep)}
	for name, v := range legacy.FormData {
		s, ok := v.(string)
		if !ok {
			continue
		}
		p.FormData.SetField(name, s)
	}
	for _, s := range legacy.CompletedSteps {
		step := models.StepIndex(s)
		if step >= models.StepDocuments {
			continue
		}
		p.MarkCompleted(step)
	}
	if p.CurrentStep > models.StepDocuments {
		p.CurrentStep = models.StepDocuments
	}
	return p, nil
}
