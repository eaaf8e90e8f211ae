// internal/workers/data-access/query-postgresql/queries/registry.go
package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
)

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, store *repository.Store, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeUserProfile:     UserProfile,
	models.QueryTypeListingDetails:  ListingDetails,
	models.QueryTypeActiveListings:  ActiveListings,
	models.QueryTypeMatchCandidates: MatchCandidates,
	models.QueryTypeListingSearch:   ListingSearch,
	models.QueryTypeUserListings:    UserListings,
	models.QueryTypeUnreadCount:     UnreadCount,
}

func Execute(ctx context.Context, store *repository.Store, queryType models.QueryType, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, store, params)
}

func requireString(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingParam, key)
	}
	return v, nil
}

func elapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
