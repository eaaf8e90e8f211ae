// internal/workers/data-access/query-postgresql/queries/message.go
package queries

import (
	"context"
	"time"

	"roommate-finder/internal/repository"
)

func UnreadCount(ctx context.Context, store *repository.Store, params map[string]interface{}) (interface{}, int, int64, error) {
	userID, err := requireString(params, "userId")
	if err != nil {
		return nil, 0, 0, err
	}

	start := time.Now()
	n, err := store.Messages.UnreadCount(ctx, userID)
	if err != nil {
		return nil, 0, elapsed(start), err
	}
	return map[string]interface{}{"count": n}, 1, elapsed(start), nil
}
