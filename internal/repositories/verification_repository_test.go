package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func newMockRepo(t *testing.T) (VerificationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return VerificationRepository{DB: db}, mock
}

func sampleProgress() models.WizardProgress {
	p := models.NewWizardProgress(7, "A B", "+1")
	p.FormData.Personal.Address = "X"
	p.FormData.Personal.DateOfBirth = "2000-01-01"
	p.CurrentStep = models.StepVehicle
	p.MarkCompleted(models.StepPersonal)
	return p
}

func TestLoadProgressDecodesCurrentVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	payload, err := encodeProgress(sampleProgress())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	mock.ExpectQuery("SELECT version, revision, payload").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"version", "revision", "payload"}).AddRow(1, 3, payload))

	p, err := repo.LoadProgress(context.Background(), 7)
	if err != nil {
		t.Fatalf("LoadProgress error: %v", err)
	}
	if p.Revision != 3 || p.CurrentStep != models.StepVehicle || p.FormData.Personal.Address != "X" {
		t.Fatalf("unexpected progress: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoadProgressMissingIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT version, revision, payload").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"version", "revision", "payload"}))

	_, err := repo.LoadProgress(context.Background(), 7)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLoadProgressMigratesLegacyRecord(t *testing.T) {
	repo, mock := newMockRepo(t)
	legacy := []byte(`{"currentStep":3,"formData":{"fullName":"A B","phoneNumber":"+1","address":"X","dateOfBirth":"2000-01-01","vehicleMake":"Toyota","driversLicense":{}},"completedSteps":[0,1,2]}`)
	mock.ExpectQuery("SELECT version, revision, payload").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"version", "revision", "payload"}).AddRow(0, 5, legacy))

	p, err := repo.LoadProgress(context.Background(), 7)
	if err != nil {
		t.Fatalf("LoadProgress error: %v", err)
	}
	if p.Version != models.ProgressVersion || p.Revision != 5 {
		t.Fatalf("unexpected version/revision: %d/%d", p.Version, p.Revision)
	}
	if p.CurrentStep != models.StepDocuments {
		t.Fatalf("documents step must be reopened, got %d", p.CurrentStep)
	}
	if p.IsCompleted(models.StepDocuments) || !p.IsCompleted(models.StepVehicle) {
		t.Fatalf("unexpected completed steps: %v", p.CompletedSteps)
	}
	if p.FormData.Vehicle.Make != "Toyota" || p.FormData.Documents.DriversLicense != nil {
		t.Fatalf("unexpected form data: %+v", p.FormData)
	}
}

func TestLoadProgressRejectsUnknownVersion(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT version, revision, payload").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"version", "revision", "payload"}).AddRow(42, 1, []byte(`{}`)))

	_, err := repo.LoadProgress(context.Background(), 7)
	if !domain.IsCorruptRecord(err) {
		t.Fatalf("expected corrupt record, got %v", err)
	}
}

func TestSaveProgressInsertsFirstRevision(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO verification_progress").
		WithArgs(7, models.ProgressVersion, 1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := sampleProgress()
	if err := repo.SaveProgress(context.Background(), &p); err != nil {
		t.Fatalf("SaveProgress error: %v", err)
	}
	if p.Revision != 1 || p.UpdatedAt.IsZero() {
		t.Fatalf("revision/updatedAt not advanced: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveProgressDuplicateInsertIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO verification_progress").
		WillReturnError(&mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"})

	p := sampleProgress()
	err := repo.SaveProgress(context.Background(), &p)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if p.Revision != 0 {
		t.Fatalf("revision must not change on failure")
	}
}

func TestSaveProgressStaleRevisionIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE verification_progress").
		WithArgs(models.ProgressVersion, 5, sqlmock.AnyArg(), sqlmock.AnyArg(), 7, 4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := sampleProgress()
	p.Revision = 4
	err := repo.SaveProgress(context.Background(), &p)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestSaveProgressUpdatesMatchingRevision(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("UPDATE verification_progress").
		WithArgs(models.ProgressVersion, 5, sqlmock.AnyArg(), sqlmock.AnyArg(), 7, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := sampleProgress()
	p.Revision = 4
	if err := repo.SaveProgress(context.Background(), &p); err != nil {
		t.Fatalf("SaveProgress error: %v", err)
	}
	if p.Revision != 5 {
		t.Fatalf("expected revision 5, got %d", p.Revision)
	}
}

func TestGetStatusMissingIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("FROM verification_status").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"driver_id", "is_verified", "completed_steps", "submitted_at", "completed_at"}))

	_, err := repo.GetStatus(context.Background(), 7)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetStatusReadsRecord(t *testing.T) {
	repo, mock := newMockRepo(t)
	at := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FROM verification_status").WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"driver_id", "is_verified", "completed_steps", "submitted_at", "completed_at"}).
			AddRow(7, true, []byte(`[0,1,2,3]`), at, at))

	st, err := repo.GetStatus(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetStatus error: %v", err)
	}
	if !st.IsVerified || len(st.CompletedSteps) != models.StepCount {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.SubmittedAt == nil || !st.SubmittedAt.Equal(at) || st.CompletedAt == nil {
		t.Fatalf("timestamps not read: %+v", st)
	}
}

func verifiedStatus() models.VerificationStatus {
	now := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	return models.VerificationStatus{
		DriverID:       7,
		IsVerified:     true,
		CompletedSteps: models.AllSteps(),
		SubmittedAt:    &now,
		CompletedAt:    &now,
	}
}

func TestFinalizeCommitsStatusAndClearsProgress(t *testing.T) {
	repo, mock := newMockRepo(t)
	steps, _ := json.Marshal(models.AllSteps())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO verification_status").
		WithArgs(7, true, steps, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM verification_progress").WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Finalize(context.Background(), verifiedStatus()); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFinalizeRollsBackWhenClearFails(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO verification_status").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM verification_progress").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	if err := repo.Finalize(context.Background(), verifiedStatus()); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFinalizeAlreadyVerifiedIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO verification_status").
		WillReturnError(&mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"})
	mock.ExpectRollback()

	err := repo.Finalize(context.Background(), verifiedStatus())
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
