package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"fomosite/api/models"
)

// ErrAdminNotFound is returned when no admin account matches the lookup.
var ErrAdminNotFound = errors.New("admin not found")

type AdminStore struct {
	db *sql.DB
}

// NewAdminStore creates a new AdminStore instance.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

// EnsureSchema creates the admins table if it does not exist yet.
func (s *AdminStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS admins (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			hashed_password BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure admins table: %w", err)
	}
	return nil
}

// CreateAdmin inserts a new admin account.
func (s *AdminStore) CreateAdmin(ctx context.Context, email string, hashedPassword []byte) (*models.Admin, error) {
	admin := &models.Admin{}
	query := `
		INSERT INTO admins (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, email, created_at, updated_at;
	`
	err := s.db.QueryRowContext(ctx, query, email, hashedPassword).Scan(
		&admin.ID,
		&admin.Email,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return nil, fmt.Errorf("admin with email '%s' already exists", email)
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Printf("Admin account created: ID=%d, Email=%s", admin.ID, admin.Email)
	return admin, nil
}

// GetAdminByEmail fetches an admin account by email. Returns
// ErrAdminNotFound when no such account exists.
func (s *AdminStore) GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	admin := &models.Admin{}
	query := `
		SELECT id, email, hashed_password, created_at, updated_at
		FROM admins
		WHERE email = $1;
	`
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&admin.ID,
		&admin.Email,
		&admin.HashedPassword,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return admin, nil
}
