package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roommate-finder/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

var userCols = []string{"id", "name", "email", "password_hash", "preferences", "budget_min", "budget_max", "location", "created_at"}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func createTestUser() *models.User {
	return &models.User{
		Name:         "Dana",
		Email:        " Dana@Example.com ",
		PasswordHash: "$2a$10$hash",
		Budget:       models.Budget{Min: 800, Max: 1200},
		Preferences:  &models.UserPreferences{Gender: models.GenderFemale, Pets: models.PetsNo},
		Location:     &models.UserLocation{City: "Austin", State: "TX"},
	}
}

// ==========================
// Create
// ==========================

func TestUserRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "Dana", "dana@example.com", "$2a$10$hash", sqlmock.AnyArg(),
			800.0, 1200.0, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	u := createTestUser()
	require.NoError(t, repo.Create(context.Background(), u))

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "dana@example.com", u.Email)
	assert.False(t, u.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	t.Run("existing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := NewUserRepository(db).Create(context.Background(), createTestUser())
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("unique violation race", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})

		err := NewUserRepository(db).Create(context.Background(), createTestUser())
		assert.ErrorIs(t, err, ErrDuplicateEmail)
	})
}

// ==========================
// Reads
// ==========================

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, preferences, budget_min, budget_max, location, created_at FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			"user-1", "Dana", "dana@example.com", "hash",
			[]byte(`{"gender":"female","lifestyle":"quiet"}`), 800.0, 1200.0, nil, created,
		))

	u, err := NewUserRepository(db).GetByID(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "Dana", u.Name)
	require.NotNil(t, u.Preferences)
	assert.Equal(t, models.LifestyleQuiet, u.Preferences.Lifestyle)
	assert.Nil(t, u.Location)
	assert.Equal(t, models.Budget{Min: 800, Max: 1200}, u.Budget)
	assert.Equal(t, created, u.CreatedAt)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := NewUserRepository(db).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_GetByEmail_Normalizes(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("dana@example.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(
			"user-1", "Dana", "dana@example.com", "hash", nil, 0.0, 100000.0, nil, time.Now(),
		))

	u, err := NewUserRepository(db).GetByEmail(context.Background(), "DANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Nil(t, u.Preferences)
}

// ==========================
// Update
// ==========================

func TestUserRepository_UpdateProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(`UPDATE users SET name = \$2`).
		WithArgs("user-1", "Dana", sqlmock.AnyArg(), 800.0, 1200.0, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET name = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	u := createTestUser()
	u.ID = "user-1"
	require.NoError(t, repo.UpdateProfile(context.Background(), u))

	u.ID = "ghost"
	assert.ErrorIs(t, repo.UpdateProfile(context.Background(), u), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
