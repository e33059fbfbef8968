package repositories

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"
)

type memoryProgressRow struct {
	version  int
	revision int64
	payload  []byte
}

// MemoryVerificationStore keeps progress and status records in process
// memory. Records are stored encoded so reads never alias caller state.
type MemoryVerificationStore struct {
	mu       sync.Mutex
	progress map[int64]memoryProgressRow
	status   map[int64][]byte

	// FailFinalize, when set, makes Finalize return it without writing.
	FailFinalize error
}

func NewMemoryVerificationStore() *MemoryVerificationStore {
	return &MemoryVerificationStore{
		progress: map[int64]memoryProgressRow{},
		status:   map[int64][]byte{},
	}
}

func (s *MemoryVerificationStore) LoadProgress(_ context.Context, driverID int64) (models.WizardProgress, error) {
	s.mu.Lock()
	row, ok := s.progress[driverID]
	s.mu.Unlock()
	if !ok {
		return models.WizardProgress{}, domain.NotFoundError{Resource: recordProgress}
	}
	p, err := decodeProgress(driverID, row.version, row.payload)
	if err != nil {
		return models.WizardProgress{}, err
	}
	p.Revision = row.revision
	return p, nil
}

func (s *MemoryVerificationStore) SaveProgress(_ context.Context, p *models.WizardProgress) error {
	next := *p
	next.Revision = p.Revision + 1
	next.UpdatedAt = utils.NowUTC()
	payload, err := encodeProgress(next)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	row, exists := s.progress[p.DriverID]
	switch {
	case p.Revision == 0 && exists:
		return staleProgress(nil)
	case p.Revision != 0 && (!exists || row.revision != p.Revision):
		return staleProgress(nil)
	}
	s.progress[p.DriverID] = memoryProgressRow{version: models.ProgressVersion, revision: next.Revision, payload: payload}

	next.Version = models.ProgressVersion
	*p = next
	return nil
}

func (s *MemoryVerificationStore) ClearProgress(_ context.Context, driverID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, driverID)
	return nil
}

func (s *MemoryVerificationStore) GetStatus(_ context.Context, driverID int64) (models.VerificationStatus, error) {
	s.mu.Lock()
	raw, ok := s.status[driverID]
	s.mu.Unlock()
	if !ok {
		return models.VerificationStatus{}, domain.NotFoundError{Resource: "verification status"}
	}
	var st models.VerificationStatus
	if err := json.Unmarshal(raw, &st); err != nil {
		return models.VerificationStatus{}, domain.CorruptRecordError{Record: "verification status", Version: models.ProgressVersion, Err: err}
	}
	return st, nil
}

func (s *MemoryVerificationStore) Finalize(_ context.Context, st models.VerificationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFinalize != nil {
		return s.FailFinalize
	}
	if _, exists := s.status[st.DriverID]; exists {
		return domain.ConflictError{Resource: "verification status", Msg: "driver already verified"}
	}
	st.CompletedSteps = slices.Clone(st.CompletedSteps)
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	s.status[st.DriverID] = raw
	delete(s.progress, st.DriverID)
	return nil
}

// PutRawProgress stores payload verbatim under version, bypassing encoding.
// Used to load records written by older clients.
func (s *MemoryVerificationStore) PutRawProgress(driverID int64, version int, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.progress[driverID]
	s.progress[driverID] = memoryProgressRow{version: version, revision: row.revision + 1, payload: slices.Clone(payload)}
}

// HasProgress reports whether a progress record exists for driverID.
func (s *MemoryVerificationStore) HasProgress(driverID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.progress[driverID]
	return ok
}
