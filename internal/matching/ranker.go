// internal/matching/ranker.go
package matching

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"roommate-finder/internal/common/metrics"
	"roommate-finder/internal/models"
)

const tracerName = "roommate-finder/internal/matching"

// parallelThreshold is the candidate count below which scoring stays on the calling goroutine.
const parallelThreshold = 64

// RankedListing is a listing annotated with its compatibility for the ranking user.
type RankedListing struct {
	models.Listing
	Compatibility Result `json:"compatibility" yaml:"compatibility"`
}

// Ranker scores candidate listings for a user and orders them best first.
// It is safe for concurrent use.
type Ranker struct {
	parallelism int
	tracer      trace.Tracer
}

// NewRanker returns a ranker that scores with up to parallelism goroutines.
// Values below 2 score sequentially.
func NewRanker(parallelism int) *Ranker {
	return &Ranker{
		parallelism: parallelism,
		tracer:      otel.Tracer(tracerName),
	}
}

// Rank scores listings in input order then sorts by score descending.
// Equal scores keep their input order.
func Rank(user *models.User, listings []models.Listing) []RankedListing {
	return scoreAll(user, listings, 1)
}

func (r *Ranker) Rank(ctx context.Context, user *models.User, listings []models.Listing) []RankedListing {
	_, span := r.tracer.Start(ctx, "matching.Rank", trace.WithAttributes(
		attribute.Int("listings.count", len(listings)),
		attribute.Int("parallelism", r.parallelism),
	))
	defer span.End()

	start := time.Now()
	ranked := scoreAll(user, listings, r.parallelism)

	metrics.RankingDuration.Observe(time.Since(start).Seconds())
	metrics.RankedCandidates.Observe(float64(len(listings)))
	for i := range ranked {
		metrics.CompatibilityScores.Observe(float64(ranked[i].Compatibility.Score))
	}

	if len(ranked) > 0 {
		span.SetAttributes(attribute.Int("score.top", ranked[0].Compatibility.Score))
	}
	return ranked
}

func scoreAll(user *models.User, listings []models.Listing, parallelism int) []RankedListing {
	ranked := make([]RankedListing, len(listings))
	if len(listings) == 0 {
		return ranked
	}

	if parallelism < 2 || len(listings) < parallelThreshold {
		for i := range listings {
			ranked[i] = RankedListing{Listing: listings[i], Compatibility: Score(user, &listings[i])}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(parallelism)
		chunk := (len(listings) + parallelism - 1) / parallelism
		for lo := 0; lo < len(listings); lo += chunk {
			hi := lo + chunk
			if hi > len(listings) {
				hi = len(listings)
			}
			lo, hi := lo, hi
			g.Go(func() error {
				for i := lo; i < hi; i++ {
					ranked[i] = RankedListing{Listing: listings[i], Compatibility: Score(user, &listings[i])}
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Compatibility.Score > ranked[j].Compatibility.Score
	})
	return ranked
}
