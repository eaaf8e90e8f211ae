package matching

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"roommate-finder/internal/models"
)

// rent for a budget-only score against budgetOnly(800, 1200): score = 100 - (rent-1200)/4
func listingWithScore(id string, score int) models.Listing {
	return models.Listing{ID: id, RentAmount: 1200 + float64(100-score)*4, IsActive: true}
}

func ids(ranked []RankedListing) []string {
	out := make([]string, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].ID
	}
	return out
}

func scores(ranked []RankedListing) []int {
	out := make([]int, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Compatibility.Score
	}
	return out
}

// ==========================
// Ordering
// ==========================

func TestRank_SortsDescending(t *testing.T) {
	listings := []models.Listing{
		listingWithScore("b", 70),
		listingWithScore("c", 40),
		listingWithScore("a", 90),
	}

	ranked := Rank(budgetOnly(800, 1200), listings)

	require.Len(t, ranked, 3)
	assert.Equal(t, []int{90, 70, 40}, scores(ranked))
	assert.Equal(t, []string{"a", "b", "c"}, ids(ranked))
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	listings := []models.Listing{
		listingWithScore("newest", 70),
		listingWithScore("top-1", 90),
		listingWithScore("older", 70),
		listingWithScore("top-2", 90),
		listingWithScore("oldest", 70),
	}

	ranked := Rank(budgetOnly(800, 1200), listings)

	assert.Equal(t, []string{"top-1", "top-2", "newest", "older", "oldest"}, ids(ranked))
}

func TestRank_EmptyInput(t *testing.T) {
	ranked := Rank(createTestUser(), nil)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)

	ranked = NewRanker(4).Rank(context.Background(), createTestUser(), []models.Listing{})
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRank_AttachesCompatibility(t *testing.T) {
	listing := *createTestListing()

	ranked := Rank(createTestUser(), []models.Listing{listing})

	require.Len(t, ranked, 1)
	assert.Equal(t, listing.ID, ranked[0].ID)
	assert.Equal(t, Score(createTestUser(), &listing), ranked[0].Compatibility)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	listings := []models.Listing{
		listingWithScore("x", 10),
		listingWithScore("y", 95),
	}
	before := append([]models.Listing(nil), listings...)

	_ = Rank(budgetOnly(800, 1200), listings)

	assert.Equal(t, before, listings)
}

// ==========================
// Parallel Scoring
// ==========================

func TestRanker_ParallelMatchesSequential(t *testing.T) {
	user := createTestUser()
	lifestyles := []models.Lifestyle{models.LifestyleQuiet, models.LifestyleModerate, models.LifestyleSocial, models.LifestyleParty}
	cities := []string{"Austin", "Dallas", "Portland"}

	listings := make([]models.Listing, 0, 300)
	for i := 0; i < 300; i++ {
		l := *createTestListing()
		l.ID = fmt.Sprintf("listing-%03d", i)
		l.RentAmount = float64(600 + (i*37)%900)
		l.Location = &models.ListingLocation{City: cities[i%len(cities)], State: "TX"}
		l.Preferences = &models.ListingPreferences{
			Gender:    models.GenderNoPreference,
			Smoking:   models.SmokingNo,
			Pets:      models.PetsNegotiable,
			Lifestyle: lifestyles[i%len(lifestyles)],
		}
		listings = append(listings, l)
	}

	sequential := Rank(user, listings)
	for _, parallelism := range []int{2, 7, 16} {
		parallel := NewRanker(parallelism).Rank(context.Background(), user, listings)
		assert.Equal(t, sequential, parallel, "parallelism %d", parallelism)
	}
}

// ==========================
// Tracing
// ==========================

func TestRanker_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	r := NewRanker(1)
	r.tracer = provider.Tracer("test")

	r.Rank(context.Background(), budgetOnly(800, 1200), []models.Listing{
		listingWithScore("a", 50),
		listingWithScore("b", 80),
	})

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "matching.Rank", spans[0].Name())

	attrs := map[string]int64{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInt64()
	}
	assert.Equal(t, int64(2), attrs["listings.count"])
	assert.Equal(t, int64(80), attrs["score.top"])
}
