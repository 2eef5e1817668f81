package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snaplink/snaplink/internal/database"
	"github.com/snaplink/snaplink/internal/models"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	// Create inserts a new account. Returns models.ErrUsernameTaken or
	// models.ErrEmailTaken when the corresponding unique constraint fires.
	Create(ctx context.Context, create *models.UserCreate, passwordHash string) (*models.User, error)

	// GetByID retrieves an account by primary key.
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername retrieves an account by username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByEmail retrieves an account by email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// Delete removes an account. The owned URLs and their clicks go with
	// it through the foreign key cascade.
	Delete(ctx context.Context, id int64) error
}

const userColumns = `id, username, email, password_hash, created_at, updated_at`

// PostgresUserRepository implements UserRepository using PostgreSQL.
type PostgresUserRepository struct {
	pool *database.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL-backed user repository.
func NewPostgresUserRepository(pool *database.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create inserts a new account.
func (r *PostgresUserRepository) Create(ctx context.Context, create *models.UserCreate, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, create.Username, create.Email, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			switch constraintName(err) {
			case "users_username_key":
				return nil, models.ErrUsernameTaken
			case "users_email_key":
				return nil, models.ErrEmailTaken
			}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves an account by primary key.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves an account by username.
func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves an account by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// Delete removes an account and, via cascade, everything it owns.
func (r *PostgresUserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
