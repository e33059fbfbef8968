package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	intconfig "speed-backend/internal/config"
	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

// VerificationRepository persists wizard progress and the final status
// record in MySQL.
type VerificationRepository struct {
	DB *sql.DB
}

func (r VerificationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// LoadProgress returns domain.NotFoundError when the driver has no saved
// progress and domain.CorruptRecordError when the stored payload is unusable.
func (r VerificationRepository) LoadProgress(ctx context.Context, driverID int64) (models.WizardProgress, error) {
	var (
		version  int
		revision int64
		payload  []byte
	)
	err := r.db().QueryRowContext(ctx, `
		SELECT version, revision, payload
		FROM verification_progress
		WHERE driver_id = ?
		LIMIT 1
	`, driverID).Scan(&version, &revision, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.WizardProgress{}, domain.NotFoundError{Resource: recordProgress}
		}
		return models.WizardProgress{}, fmt.Errorf("load progress: %w", err)
	}

	p, err := decodeProgress(driverID, version, payload)
	if err != nil {
		return models.WizardProgress{}, err
	}
	p.Revision = revision
	return p, nil
}

// SaveProgress writes p using optimistic concurrency on Revision. A record
// with Revision 0 is inserted; otherwise the stored revision must still match.
// On success p.Revision holds the new value.
func (r VerificationRepository) SaveProgress(ctx context.Context, p *models.WizardProgress) error {
	next := *p
	next.Revision = p.Revision + 1
	next.UpdatedAt = utils.NowUTC()
	payload, err := encodeProgress(next)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	db := r.db()
	if p.Revision == 0 {
		_, err := db.ExecContext(ctx, `
			INSERT INTO verification_progress (driver_id, version, revision, payload, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`, next.DriverID, models.ProgressVersion, next.Revision, payload, next.UpdatedAt)
		if err != nil {
			if isDuplicateEntry(err) {
				return staleProgress(err)
			}
			return fmt.Errorf("insert progress: %w", err)
		}
	} else {
		res, err := db.ExecContext(ctx, `
			UPDATE verification_progress
			SET version = ?, revision = ?, payload = ?, updated_at = ?
			WHERE driver_id = ? AND revision = ?
		`, models.ProgressVersion, next.Revision, payload, next.UpdatedAt, next.DriverID, p.Revision)
		if err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return staleProgress(nil)
		}
	}

	next.Version = models.ProgressVersion
	*p = next
	return nil
}

func (r VerificationRepository) ClearProgress(ctx context.Context, driverID int64) error {
	if _, err := r.db().ExecContext(ctx, `DELETE FROM verification_progress WHERE driver_id = ?`, driverID); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// GetStatus returns domain.NotFoundError when no status record exists.
func (r VerificationRepository) GetStatus(ctx context.Context, driverID int64) (models.VerificationStatus, error) {
	var (
		st          models.VerificationStatus
		steps       []byte
		submittedAt sql.NullTime
		completedAt sql.NullTime
	)
	err := r.db().QueryRowContext(ctx, `
		SELECT driver_id, is_verified, completed_steps, submitted_at, completed_at
		FROM verification_status
		WHERE driver_id = ?
		LIMIT 1
	`, driverID).Scan(&st.DriverID, &st.IsVerified, &steps, &submittedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.VerificationStatus{}, domain.NotFoundError{Resource: "verification status"}
		}
		return models.VerificationStatus{}, fmt.Errorf("load status: %w", err)
	}
	if err := json.Unmarshal(steps, &st.CompletedSteps); err != nil {
		return models.VerificationStatus{}, domain.CorruptRecordError{Record: "verification status", Version: models.ProgressVersion, Err: err}
	}
	if submittedAt.Valid {
		t := submittedAt.Time.UTC()
		st.SubmittedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		st.CompletedAt = &t
	}
	return st, nil
}

// Finalize writes the status record and deletes the driver's progress in one
// transaction: either both happen or neither does.
func (r VerificationRepository) Finalize(ctx context.Context, st models.VerificationStatus) (err error) {
	steps, err := json.Marshal(st.CompletedSteps)
	if err != nil {
		return fmt.Errorf("encode completed steps: %w", err)
	}

	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin finalize: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO verification_status (driver_id, is_verified, completed_steps, submitted_at, completed_at)
		VALUES (?, ?, ?, ?, ?)
	`, st.DriverID, st.IsVerified, steps, st.SubmittedAt, st.CompletedAt); err != nil {
		if isDuplicateEntry(err) {
			return domain.ConflictError{Resource: "verification status", Msg: "driver already verified", Err: err}
		}
		return fmt.Errorf("insert status: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM verification_progress WHERE driver_id = ?`, st.DriverID); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit finalize: %w", err)
	}
	return nil
}

func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

func staleProgress(err error) error {
	return domain.ConflictError{Resource: recordProgress, Msg: "progress was changed in another session, reload and try again", Err: err}
}
