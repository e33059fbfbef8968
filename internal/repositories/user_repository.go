package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intconfig "speed-backend/internal/config"
	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"
)

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, name, email, COALESCE(phone, ''), password_hash, user_type, created_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.UserType, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.NotFoundError{Resource: "user"}
		}
		return models.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	return scanUser(r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id))
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.db().QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email))
}

// Create inserts u and fills in its ID and CreatedAt.
func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.CreatedAt = utils.NowUTC()
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (name, email, phone, password_hash, user_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.Name, u.Email, u.Phone, u.PasswordHash, u.UserType, u.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			return domain.ConflictError{Resource: "user", Msg: "email sudah terdaftar", Err: err}
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user id: %w", err)
	}
	u.ID = id
	return nil
}

func (r UserRepository) UpdateUserType(ctx context.Context, id int64, userType string) error {
	// MySQL reports changed rows, so an unchanged type affects zero rows.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if _, err := r.db().ExecContext(ctx, `UPDATE users SET user_type = ? WHERE id = ?`, userType, id); err != nil {
		return fmt.Errorf("update user type: %w", err)
	}
	return nil
}
