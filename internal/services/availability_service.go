package services

import (
	"context"
	"fmt"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"
)

// AvailabilityService is the gate between a driver and the online roster.
// Only an approved verification record lets a driver go online.
type AvailabilityService struct {
	Statuses  StatusStore
	Roster    Roster
	Notifier  Notifier
	Tracker   Tracker
	Origin    *models.Location
	RequestID string
}

// AttemptGoOnline returns domain.NotVerifiedError when the driver has no
// approved verification record.
func (s AvailabilityService) AttemptGoOnline(ctx context.Context, driverID int64) (models.Driver, error) {
	st, err := s.Statuses.GetStatus(ctx, driverID)
	if err != nil && !domain.IsNotFound(err) {
		return models.Driver{}, domain.InternalError{Msg: "failed to load verification status", Err: err}
	}
	if err != nil || !st.IsVerified {
		notify(ctx, s.Notifier, s.RequestID, driverID, models.NotificationWarning, "Verification Required",
			"Complete your verification to go online")
		utils.LogEvent(s.RequestID, "availability", "go_online_rejected", fmt.Sprintf("driver_id=%d", driverID))
		return models.Driver{}, domain.NotVerifiedError{DriverID: driverID}
	}

	if err := s.Roster.SetOnlineStatus(ctx, driverID, true); err != nil {
		return models.Driver{}, domain.InternalError{Msg: "failed to update online status", Err: err}
	}
	if s.Tracker != nil {
		s.Tracker.Start(driverID, s.origin(ctx, driverID))
	}
	notify(ctx, s.Notifier, s.RequestID, driverID, models.NotificationSuccess, "Now Online",
		"You can now receive trip requests")
	utils.LogEvent(s.RequestID, "availability", "go_online", fmt.Sprintf("driver_id=%d", driverID))
	return s.current(ctx, driverID)
}

// GoOffline is never gated.
func (s AvailabilityService) GoOffline(ctx context.Context, driverID int64) (models.Driver, error) {
	if s.Tracker != nil {
		s.Tracker.Stop(driverID)
	}
	if err := s.Roster.SetOnlineStatus(ctx, driverID, false); err != nil {
		return models.Driver{}, domain.InternalError{Msg: "failed to update online status", Err: err}
	}
	notify(ctx, s.Notifier, s.RequestID, driverID, models.NotificationSuccess, "Gone Offline",
		"You will not receive trip requests")
	utils.LogEvent(s.RequestID, "availability", "go_offline", fmt.Sprintf("driver_id=%d", driverID))
	return s.current(ctx, driverID)
}

func (s AvailabilityService) ListOnline(ctx context.Context) ([]models.Driver, error) {
	drivers, err := s.Roster.ListOnline(ctx)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to list online drivers", Err: err}
	}
	return drivers, nil
}

// origin resumes from the last known location, else the configured origin.
func (s AvailabilityService) origin(ctx context.Context, driverID int64) models.Location {
	if d, err := s.Roster.GetByID(ctx, driverID); err == nil && d.Location != nil {
		return *d.Location
	}
	if s.Origin != nil {
		return *s.Origin
	}
	return DefaultOrigin
}

func (s AvailabilityService) current(ctx context.Context, driverID int64) (models.Driver, error) {
	d, err := s.Roster.GetByID(ctx, driverID)
	if err != nil {
		return models.Driver{}, domain.InternalError{Msg: "failed to load driver", Err: err}
	}
	return d, nil
}
