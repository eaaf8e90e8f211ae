// internal/repository/users.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"roommate-finder/internal/models"
)

const userColumns = `id, name, email, password_hash, preferences, budget_min, budget_max, location, created_at`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u          models.User
		prefs, loc []byte
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &prefs,
		&u.Budget.Min, &u.Budget.Max, &loc, &u.CreatedAt); err != nil {
		return nil, err
	}

	var p models.UserPreferences
	if ok, err := decodeJSON(prefs, &p); err != nil {
		return nil, fmt.Errorf("decode preferences for user %s: %w", u.ID, err)
	} else if ok {
		u.Preferences = &p
	}

	var l models.UserLocation
	if ok, err := decodeJSON(loc, &l); err != nil {
		return nil, fmt.Errorf("decode location for user %s: %w", u.ID, err)
	} else if ok {
		u.Location = &l
	}
	return &u, nil
}

// Create inserts a user, assigning ID and CreatedAt. Emails are stored lower-cased.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, u.Email).Scan(&exists); err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if exists {
		return ErrDuplicateEmail
	}

	prefs, err := nullJSON(u.Preferences, u.Preferences == nil)
	if err != nil {
		return err
	}
	loc, err := nullJSON(u.Location, u.Location == nil)
	if err != nil {
		return err
	}

	u.ID = uuid.New().String()
	u.CreatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Name, u.Email, u.PasswordHash, prefs, u.Budget.Min, u.Budget.Max, loc, u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetByEmail is used by login and returns the password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// UpdateProfile persists name, preferences, budget and location.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *models.User) error {
	prefs, err := nullJSON(u.Preferences, u.Preferences == nil)
	if err != nil {
		return err
	}
	loc, err := nullJSON(u.Location, u.Location == nil)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = $2, preferences = $3, budget_min = $4, budget_max = $5, location = $6
		WHERE id = $1`,
		u.ID, u.Name, prefs, u.Budget.Min, u.Budget.Max, loc)
	if err != nil {
		return fmt.Errorf("update user %s: %w", u.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
