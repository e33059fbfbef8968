package services

import (
	"context"
	"io"

	"speed-backend/internal/domain/models"
)

// ProgressStore persists wizard progress per driver.
type ProgressStore interface {
	LoadProgress(ctx context.Context, driverID int64) (models.WizardProgress, error)
	SaveProgress(ctx context.Context, p *models.WizardProgress) error
	ClearProgress(ctx context.Context, driverID int64) error
}

// StatusStore reads the final verification record.
type StatusStore interface {
	GetStatus(ctx context.Context, driverID int64) (models.VerificationStatus, error)
}

// VerificationStore is implemented by repositories.VerificationRepository
// and repositories.MemoryVerificationStore. Finalize writes the status and
// clears progress as one unit.
type VerificationStore interface {
	ProgressStore
	StatusStore
	Finalize(ctx context.Context, st models.VerificationStatus) error
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (models.User, error)
}

// Roster is the set of drivers with their online flag and location.
type Roster interface {
	SetOnlineStatus(ctx context.Context, driverID int64, online bool) error
	SetLocation(ctx context.Context, driverID int64, loc models.Location) error
	GetByID(ctx context.Context, driverID int64) (models.Driver, error)
	ListOnline(ctx context.Context) ([]models.Driver, error)
}

type Notifier interface {
	Post(ctx context.Context, userID int64, kind, title, message string) (models.Notification, error)
	List(ctx context.Context, userID int64) ([]models.Notification, error)
	Dismiss(ctx context.Context, userID int64, id string) error
}

type Tracker interface {
	Start(driverID int64, origin models.Location)
	Stop(driverID int64)
}

// DocumentStore keeps uploaded verification documents.
type DocumentStore interface {
	Save(ctx context.Context, driverID int64, slot models.DocumentSlot, filename string, r io.Reader) (models.DocumentRef, error)
	Remove(ctx context.Context, ref models.DocumentRef) error
}
