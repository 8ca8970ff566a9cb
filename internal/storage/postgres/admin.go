package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finexpress/storefront/internal/domain/admin"
)

const (
	adminColumns = `id, username, email, password_hash, role, created_at`

	createAdminSQL = `INSERT INTO admins (id, username, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	getAdminByIDSQL = `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`

	findAdminByEmailSQL = `SELECT ` + adminColumns + ` FROM admins WHERE email = $1`

	updateAdminPasswordSQL = `UPDATE admins SET password_hash = $2 WHERE id = $1`
)

// uniqueViolation is the PostgreSQL error code for unique constraint breaches.
const uniqueViolation = "23505"

var _ admin.Repository = (*AdminRepository)(nil)

// AdminRepository implements admin.Repository backed by PostgreSQL.
type AdminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository returns an AdminRepository that uses the given pool.
func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

// Create persists a new admin account. Returns admin.ErrDuplicateAccount
// when the username or email is already taken.
func (r *AdminRepository) Create(ctx context.Context, a *admin.Account) error {
	_, err := r.pool.Exec(ctx, createAdminSQL,
		a.ID, a.Username, strings.ToLower(a.Email), a.PasswordHash, string(a.Role), a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return admin.ErrDuplicateAccount
		}
		return fmt.Errorf("creating admin %q: %w", a.Username, err)
	}
	return nil
}

// GetByID returns an admin account by its identifier.
func (r *AdminRepository) GetByID(ctx context.Context, id string) (*admin.Account, error) {
	return r.getOne(ctx, getAdminByIDSQL, id)
}

// FindByEmail returns an admin account by email (case-insensitive).
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*admin.Account, error) {
	return r.getOne(ctx, findAdminByEmailSQL, strings.ToLower(email))
}

// UpdatePasswordHash replaces the stored password hash for an account.
func (r *AdminRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	tag, err := r.pool.Exec(ctx, updateAdminPasswordSQL, id, hash)
	if err != nil {
		return fmt.Errorf("updating password for admin %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return admin.ErrNotFound
	}
	return nil
}

func (r *AdminRepository) getOne(ctx context.Context, query, arg string) (*admin.Account, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("querying admin: %w", err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, admin.ErrNotFound
		}
		return nil, fmt.Errorf("querying admin: %w", err)
	}
	return &a, nil
}

func scanAdmin(row pgx.CollectableRow) (admin.Account, error) {
	var (
		a    admin.Account
		role string
	)
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.CreatedAt)
	a.Role = admin.Role(role)
	return a, err
}
