package repositories

import (
	"context"
	"testing"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestUserRepositoryCreateNormalizesEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("Ada", "ada@speed.ng", "", "hash", domain.UserTypePassenger, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(12, 1))

	u := models.User{Name: "Ada", Email: "  Ada@Speed.NG ", PasswordHash: "hash", UserType: domain.UserTypePassenger}
	if err := (UserRepository{DB: db}).Create(context.Background(), &u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID != 12 || u.Email != "ada@speed.ng" {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry"})

	u := models.User{Name: "Ada", Email: "ada@speed.ng"}
	err = (UserRepository{DB: db}).Create(context.Background(), &u)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUserRepositoryGetByEmailMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM users WHERE email").WithArgs("nobody@speed.ng").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "phone", "password_hash", "user_type", "created_at"}))

	_, err = (UserRepository{DB: db}).GetByEmail(context.Background(), "Nobody@speed.ng")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
