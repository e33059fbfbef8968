package services

import (
	"context"
	"fmt"
	"io"
	"sync"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/repositories"
)

type fakeDocuments struct {
	mu      sync.Mutex
	saved   map[string][]byte
	removed []string
	failErr error
}

func newFakeDocuments() *fakeDocuments {
	return &fakeDocuments{saved: map[string][]byte{}}
}

func (f *fakeDocuments) Save(_ context.Context, driverID int64, slot models.DocumentSlot, filename string, r io.Reader) (models.DocumentRef, error) {
	if f.failErr != nil {
		return models.DocumentRef{}, f.failErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return models.DocumentRef{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path := fmt.Sprintf("%d/%s_%d", driverID, slot, len(f.saved))
	f.saved[path] = data
	return models.DocumentRef{FileName: filename, ContentType: "image/jpeg", Size: int64(len(data)), Path: path}, nil
}

func (f *fakeDocuments) Remove(_ context.Context, ref models.DocumentRef) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, ref.Path)
	f.removed = append(f.removed, ref.Path)
	return nil
}

type fakeTracker struct {
	mu      sync.Mutex
	started map[int64]models.Location
	stopped []int64
}

func (t *fakeTracker) Start(driverID int64, origin models.Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started == nil {
		t.started = map[int64]models.Location{}
	}
	t.started[driverID] = origin
}

func (t *fakeTracker) Stop(driverID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.started, driverID)
	t.stopped = append(t.stopped, driverID)
}

type fixture struct {
	store    *repositories.MemoryVerificationStore
	users    *repositories.MemoryUserRepository
	roster   *repositories.MemoryDriverRepository
	notifier *MemoryNotifier
	docs     *fakeDocuments
	tracker  *fakeTracker
	driverID int64
}

func newFixture() *fixture {
	store := repositories.NewMemoryVerificationStore()
	users := repositories.NewMemoryUserRepository()
	f := &fixture{
		store:    store,
		users:    users,
		roster:   repositories.NewMemoryDriverRepository(users, store),
		notifier: NewMemoryNotifier(DefaultNotificationTTL),
		docs:     newFakeDocuments(),
		tracker:  &fakeTracker{},
	}
	u := models.User{Name: "A B", Email: "ab@speed.ng", Phone: "+1", UserType: domain.UserTypeDriver}
	if err := users.Create(context.Background(), &u); err != nil {
		panic(err)
	}
	f.driverID = u.ID
	return f
}

func (f *fixture) verification() VerificationService {
	return VerificationService{Store: f.store, Users: f.users, Notifier: f.notifier, Documents: f.docs}
}

func (f *fixture) availability() AvailabilityService {
	return AvailabilityService{Statuses: f.store, Roster: f.roster, Notifier: f.notifier, Tracker: f.tracker}
}

func (f *fixture) titles() []string {
	notes, _ := f.notifier.List(context.Background(), f.driverID)
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}
