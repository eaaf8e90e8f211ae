// internal/workers/matching/calculate-compatibility/handler_test.go
package calculatecompatibility

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/common/validation"
	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
	"roommate-finder/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

type stubProfiles struct {
	users map[string]*models.User
	err   error
	calls int
}

func (s *stubProfiles) Get(ctx context.Context, userID string) (*models.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

// GetByID lets the stub stand behind a real ProfileCache.
func (s *stubProfiles) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return s.Get(ctx, userID)
}

func createTestUser() *models.User {
	return &models.User{
		ID:     "user-1",
		Name:   "Jane",
		Budget: models.Budget{Min: 800, Max: 1200},
		Location: &models.UserLocation{
			City:  "Austin",
			State: "TX",
		},
		Preferences: &models.UserPreferences{
			Gender:    models.GenderFemale,
			Smoking:   models.SmokingNo,
			Pets:      models.PetsNo,
			Lifestyle: models.LifestyleQuiet,
		},
	}
}

func createTestListing() models.Listing {
	return models.Listing{
		ID:         "listing-1",
		RentAmount: 1000,
		Location:   &models.ListingLocation{City: "austin", State: "TX"},
		Preferences: &models.ListingPreferences{
			Gender:    models.GenderFemale,
			Smoking:   models.SmokingNo,
			Pets:      models.PetsNo,
			Lifestyle: models.LifestyleQuiet,
		},
	}
}

func newTestHandler(t *testing.T, profiles ProfileSource) *Handler {
	schemas := validation.NewValidator()
	reg, err := registry.Default()
	require.NoError(t, err)
	require.NoError(t, reg.RegisterSchemas(schemas))

	return NewHandler(&Config{Timeout: time.Second, Schemas: schemas}, profiles, logger.NewTestLogger(t))
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_InlineProfile(t *testing.T) {
	profiles := &stubProfiles{}
	h := newTestHandler(t, profiles)

	output, err := h.Execute(context.Background(), &Input{
		UserProfile: createTestUser(),
		Listing:     createTestListing(),
	})

	require.NoError(t, err)
	assert.Equal(t, 100, output.Compatibility.Score)
	assert.Equal(t, 0, profiles.calls)
}

func TestHandler_Execute_FetchesProfileByID(t *testing.T) {
	profiles := &stubProfiles{users: map[string]*models.User{"user-1": createTestUser()}}
	h := newTestHandler(t, profiles)

	listing := createTestListing()
	listing.RentAmount = 1500

	output, err := h.Execute(context.Background(), &Input{UserID: "user-1", Listing: listing})

	require.NoError(t, err)
	assert.Equal(t, 1, profiles.calls)
	assert.Equal(t, 78, output.Compatibility.Score)
	assert.Equal(t, 30, output.Compatibility.Breakdown.Budget)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		profiles *stubProfiles
		input    *Input
		wantCode errors.ErrorCode
	}{
		{
			name:     "no user given",
			profiles: &stubProfiles{},
			input:    &Input{Listing: createTestListing()},
			wantCode: errors.ErrCodeValidationFailed,
		},
		{
			name:     "unknown user",
			profiles: &stubProfiles{users: map[string]*models.User{}},
			input:    &Input{UserID: "ghost", Listing: createTestListing()},
			wantCode: errors.ErrCodeUserNotFound,
		},
		{
			name:     "store down",
			profiles: &stubProfiles{err: stderrors.New("connection refused")},
			input:    &Input{UserID: "user-1", Listing: createTestListing()},
			wantCode: errors.ErrCodeDatabaseConnectionFailed,
		},
		{
			name:     "store timeout",
			profiles: &stubProfiles{err: context.DeadlineExceeded},
			input:    &Input{UserID: "user-1", Listing: createTestListing()},
			wantCode: errors.ErrCodeQueryTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, tt.profiles)
			_, err := h.Execute(context.Background(), tt.input)

			stdErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, stdErr.Code)
		})
	}
}

func TestHandler_Execute_ThroughProfileCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	loader := &stubProfiles{users: map[string]*models.User{"user-1": createTestUser()}}
	cache := repository.NewProfileCache(rdb, loader, time.Minute, logger.NewNoOpLogger())
	h := newTestHandler(t, cache)

	for i := 0; i < 3; i++ {
		output, err := h.Execute(context.Background(), &Input{UserID: "user-1", Listing: createTestListing()})
		require.NoError(t, err)
		assert.Equal(t, 100, output.Compatibility.Score)
	}

	assert.Equal(t, 1, loader.calls)
	assert.True(t, mr.Exists(repository.ProfileKey("user-1")))
}

// ==========================
// Input schema
// ==========================

func TestHandler_ValidateVariables(t *testing.T) {
	h := newTestHandler(t, &stubProfiles{})

	assert.NoError(t, h.validateVariables(`{"userId":"user-1","listing":{"rentAmount":900}}`))
	assert.Error(t, h.validateVariables(`{"userId":"user-1"}`))
	assert.Error(t, h.validateVariables(`{"listing":{"rentAmount":900}}`))
	assert.Error(t, h.validateVariables(`{"userId":"","listing":{"rentAmount":900}}`))
}
