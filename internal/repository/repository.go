// internal/repository/repository.go
package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
)

var (
	ErrNotFound         = errors.New("NOT_FOUND")
	ErrDuplicateEmail   = errors.New("DUPLICATE_EMAIL")
	ErrMissingReference = errors.New("MISSING_REFERENCE")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store groups the repositories over one connection pool.
type Store struct {
	Users    *UserRepository
	Listings *ListingRepository
	Messages *MessageRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		Users:    NewUserRepository(db),
		Listings: NewListingRepository(db),
		Messages: NewMessageRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// escapeLike quotes the LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// nullJSON encodes v for a nullable JSONB column.
func nullJSON(v interface{}, isNil bool) (interface{}, error) {
	if isNil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// decodeJSON decodes a nullable JSONB column into dst, reporting whether a value was present.
func decodeJSON(raw []byte, dst interface{}) (bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}
