package repositories

import (
	"context"
	"testing"
	"time"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestDriverRepositorySetOnlineStatusUpserts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO drivers").
		WithArgs(9, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (DriverRepository{DB: db}).SetOnlineStatus(context.Background(), 9, true); err != nil {
		t.Fatalf("SetOnlineStatus error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDriverRepositorySetLocationUnknownDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE drivers SET lat").
		WithArgs(6.5, 3.3, sqlmock.AnyArg(), 9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM drivers d").WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "is_online", "lat", "lng", "updated_at"}))

	err = (DriverRepository{DB: db}).SetLocation(context.Background(), 9, models.Location{Lat: 6.5, Lng: 3.3})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDriverRepositoryListOnline(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("JOIN verification_status s").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "phone", "is_online", "lat", "lng", "updated_at"}).
			AddRow(1, "Fatima Abdullahi", "+234 805 987 6543", true, 6.4698, 3.6002, now).
			AddRow(2, "Emeka Okafor", "", true, nil, nil, now))

	drivers, err := (DriverRepository{DB: db}).ListOnline(context.Background())
	if err != nil {
		t.Fatalf("ListOnline error: %v", err)
	}
	if len(drivers) != 2 {
		t.Fatalf("expected 2 drivers, got %d", len(drivers))
	}
	if drivers[0].Location == nil || drivers[0].Location.Lng != 3.6002 {
		t.Fatalf("location not scanned: %+v", drivers[0])
	}
	if drivers[1].Location != nil {
		t.Fatalf("null coordinates must leave location nil")
	}
}
