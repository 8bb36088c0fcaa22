package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice@example.com", "hash", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice@example.com", "hash", "Alice").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Create(context.Background(), User{Email: "alice@example.com", PasswordHash: "hash"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err = repo.Create(context.Background(), User{Email: "alice@example.com", PasswordHash: "hash", Name: "Alice"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT email, password_hash, name, created_at").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "password_hash", "name", "created_at"}).
			AddRow("alice@example.com", "hash", nil, now))
	mock.ExpectQuery("SELECT email, password_hash, name, created_at").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"email", "password_hash", "name", "created_at"}))

	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if user.PasswordHash != "hash" || user.Name != "" {
		t.Fatalf("unexpected user %+v", user)
	}
	if _, err := repo.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
