package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chiyaghar/pos-go/internal/domain"
	"github.com/chiyaghar/pos-go/internal/repository"
)

type UserRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *UserRepo) With(db DB) *UserRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *UserRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const userColumns = `id, username, email, password_hash, role, profile,
	is_active, last_login, created_at, updated_at`

// Bootstrap creates the users table when it does not exist yet. The schema
// is synced on startup the same way every other collection is seeded.
func (r *UserRepo) Bootstrap(ctx context.Context) error {
	const op = "postgres.UserRepo.Bootstrap"

	_, err := r.handle().Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			username      VARCHAR(50)  NOT NULL UNIQUE,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role          VARCHAR(20)  NOT NULL DEFAULT 'staff',
			profile       JSONB        NOT NULL DEFAULT '{}'::jsonb,
			is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
			last_login    TIMESTAMPTZ,
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Create inserts a new user.
//
// Returns:
//   - error: repository.ErrConflict when the username or email is taken.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	const op = "postgres.UserRepo.Create"

	profile, err := json.Marshal(u.Profile)
	if err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	_, err = r.handle().Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, profile,
			is_active, last_login, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role, profile,
		u.Active, u.LastLogin, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// ExistsByUsernameOrEmail reports whether a user already claims either the
// username or the email.
func (r *UserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	const op = "postgres.UserRepo.ExistsByUsernameOrEmail"

	var exists bool
	err := r.handle().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 OR email = $2)`,
		username, email,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

// ExistsByEmail reports whether any user other than excludeID owns the email.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	const op = "postgres.UserRepo.ExistsByEmail"

	var exists bool
	err := r.handle().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		email, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}

// ByID fetches a user by primary key.
//
// Returns:
//   - error: repository.ErrNotFound when no user has the id.
func (r *UserRepo) ByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const op = "postgres.UserRepo.ByID"

	u, err := scanUser(r.handle().QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return u, nil
}

// ByLogin fetches a user whose username or email matches login.
func (r *UserRepo) ByLogin(ctx context.Context, login string) (*domain.User, error) {
	const op = "postgres.UserRepo.ByLogin"

	u, err := scanUser(r.handle().QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1`, login))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return u, nil
}

// UpdateProfile overwrites the profile blob and, when email is non-empty,
// the email. Returns the updated row.
func (r *UserRepo) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	email string,
	profile domain.UserProfile,
) (*domain.User, error) {
	const op = "postgres.UserRepo.UpdateProfile"

	blob, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	u, err := scanUser(r.handle().QueryRow(ctx, `
		UPDATE users
		SET email = CASE WHEN $2 = '' THEN email ELSE $2 END,
		    profile = $3,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, email, blob,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return u, nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	const op = "postgres.UserRepo.UpdatePassword"

	tag, err := r.handle().Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	const op = "postgres.UserRepo.UpdateLastLogin"

	_, err := r.handle().Exec(ctx,
		`UPDATE users SET last_login = $2, updated_at = now() WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// SetActive flips the activation flag and returns the updated row.
func (r *UserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.User, error) {
	const op = "postgres.UserRepo.SetActive"

	u, err := scanUser(r.handle().QueryRow(ctx, `
		UPDATE users SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		id, active,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return u, nil
}

// List returns a page of users ordered by creation time, newest first.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const op = "postgres.UserRepo.List"

	rows, err := r.handle().Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return users, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	const op = "postgres.UserRepo.Count"

	var n int64
	if err := r.handle().QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u       domain.User
		profile []byte
	)

	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &profile,
		&u.Active, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &u.Profile); err != nil {
			return nil, err
		}
	}

	return &u, nil
}
