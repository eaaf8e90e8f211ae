// internal/workers/data-access/query-postgresql/queries/listing.go
package queries

import (
	"context"
	"errors"
	"time"

	apperrors "roommate-finder/internal/common/errors"
	"roommate-finder/internal/repository"
	"roommate-finder/internal/search"
)

func ListingDetails(ctx context.Context, store *repository.Store, params map[string]interface{}) (interface{}, int, int64, error) {
	listingID, err := requireString(params, "listingId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()
	listing, err := store.Listings.GetByID(ctx, listingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, 0, elapsed(start), apperrors.NewListingNotFoundError(listingID)
	}
	if err != nil {
		return nil, 0, elapsed(start), err
	}
	return listing, 1, elapsed(start), nil
}

func ActiveListings(ctx context.Context, store *repository.Store, _ map[string]interface{}) (interface{}, int, int64, error) {
	start := time.Now()
	listings, err := store.Listings.ListActive(ctx)
	if err != nil {
		return nil, 0, elapsed(start), err
	}
	return listings, len(listings), elapsed(start), nil
}

// MatchCandidates is every active listing the user does not own.
func MatchCandidates(ctx context.Context, store *repository.Store, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, err := requireString(params, "userId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()
	listings, err := store.Listings.ListActiveExcludingOwner(ctx, userID)
	if err != nil {
		return nil, 0, elapsed(start), err
	}
	return listings, len(listings), elapsed(start), nil
}

// ListingSearch parses loosely typed filters before querying.
func ListingSearch(ctx context.Context, store *repository.Store, params map[string]interface{}) (interface{}, int, int64, error) {
	raw, _ := params["filters"].(map[string]interface{})
	filters, err := search.ParseFilters(raw)
	if err != nil {
		return nil, 0, 0, apperrors.NewInvalidFilterFormatError(err.Error())
	}
	if userID, ok := params["userId"].(string); ok {
		filters.ExcludeUserID = userID
	}

	start := time.Now()
	listings, err := store.Listings.Search(ctx, *filters)
	if err != nil {
		return nil, 0, elapsed(start), err
	}
	return listings, len(listings), elapsed(start), nil
}

func UserListings(ctx context.Context, store *repository.Store, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, err := requireString(params, "userId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()
	listings, err := store.Listings.ListByOwner(ctx, userID)
	if err != nil {
		return nil, 0, elapsed(start), err
	}
	return listings, len(listings), elapsed(start), nil
}
