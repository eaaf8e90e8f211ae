// internal/workers/data-access/query-postgresql/queries/user.go
package queries

import (
	"context"
	"errors"
	"time"

	apperrors "roommate-finder/internal/common/errors"
	"roommate-finder/internal/repository"
)

func UserProfile(ctx context.Context, store *repository.Store, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, err := requireString(params, "userId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()
	user, err := store.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, 0, elapsed(start), apperrors.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, 0, elapsed(start), err
	}
	return user, 1, elapsed(start), nil
}
