package users

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

// Create inserts a user. An existing email yields ErrAlreadyExists.
func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (email, password_hash, name, created_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (email) DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query,
		user.Email,
		user.PasswordHash,
		nullableString(user.Name),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `
SELECT email, password_hash, name, created_at
FROM users
WHERE email = $1
LIMIT 1`
	var user User
	var name sql.NullString
	err := r.DB.QueryRowContext(ctx, query, email).Scan(
		&user.Email,
		&user.PasswordHash,
		&name,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	if name.Valid {
		user.Name = name.String
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
