// internal/repository/listings.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"roommate-finder/internal/models"
)

var listingColumns = []string{
	"l.id", "l.user_id", "l.title", "l.description", "l.property_type", "l.rent_amount",
	"l.address", "l.city", "l.state", "l.zip_code", "l.amenities",
	"l.bedrooms", "l.bathrooms", "l.furnished", "l.available_from",
	"l.preferences", "l.images", "l.is_active", "l.created_at",
	"u.name", "u.email",
}

type ListingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func selectListings() sq.SelectBuilder {
	return psql.Select(listingColumns...).
		From("listings l").
		Join("users u ON u.id = l.user_id")
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var (
		l          models.Listing
		loc        models.ListingLocation
		prefs      []byte
		ownerName  string
		ownerEmail string
	)
	if err := row.Scan(
		&l.ID, &l.UserID, &l.Title, &l.Description, &l.PropertyType, &l.RentAmount,
		&loc.Address, &loc.City, &loc.State, &loc.ZipCode, pq.Array(&l.Amenities),
		&l.RoomDetails.Bedrooms, &l.RoomDetails.Bathrooms, &l.RoomDetails.Furnished, &l.RoomDetails.AvailableFrom,
		&prefs, pq.Array(&l.Images), &l.IsActive, &l.CreatedAt,
		&ownerName, &ownerEmail,
	); err != nil {
		return nil, err
	}

	l.Location = &loc
	l.Owner = &models.PublicUser{ID: l.UserID, Name: ownerName, Email: ownerEmail}

	var p models.ListingPreferences
	if ok, err := decodeJSON(prefs, &p); err != nil {
		return nil, fmt.Errorf("decode preferences for listing %s: %w", l.ID, err)
	} else if ok {
		l.Preferences = &p
	}

	if l.Amenities == nil {
		l.Amenities = []string{}
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	return &l, nil
}

func (r *ListingRepository) query(ctx context.Context, q sq.SelectBuilder) ([]models.Listing, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build listing query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	defer rows.Close()

	listings := make([]models.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan listing: %w", err)
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

// ListActive returns every active listing, newest first.
func (r *ListingRepository) ListActive(ctx context.Context) ([]models.Listing, error) {
	return r.query(ctx, selectListings().
		Where(sq.Eq{"l.is_active": true}).
		OrderBy("l.created_at DESC"))
}

// ListActiveExcludingOwner is the match candidate set for a user.
func (r *ListingRepository) ListActiveExcludingOwner(ctx context.Context, userID string) ([]models.Listing, error) {
	return r.Search(ctx, models.ListingSearch{ExcludeUserID: userID})
}

func (r *ListingRepository) ListByOwner(ctx context.Context, userID string) ([]models.Listing, error) {
	return r.query(ctx, selectListings().
		Where(sq.Eq{"l.user_id": userID}).
		OrderBy("l.created_at DESC"))
}

func (r *ListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query, args, err := selectListings().Where(sq.Eq{"l.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build listing query: %w", err)
	}
	l, err := scanListing(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return l, nil
}

// Search applies the structured filters to active listings, newest first.
func (r *ListingRepository) Search(ctx context.Context, f models.ListingSearch) ([]models.Listing, error) {
	return r.query(ctx, applySearch(selectListings(), f).OrderBy("l.created_at DESC"))
}

func applySearch(q sq.SelectBuilder, f models.ListingSearch) sq.SelectBuilder {
	q = q.Where(sq.Eq{"l.is_active": true})

	if f.ExcludeUserID != "" {
		q = q.Where(sq.NotEq{"l.user_id": f.ExcludeUserID})
	}
	if f.City != "" {
		q = q.Where(sq.ILike{"l.city": "%" + escapeLike(f.City) + "%"})
	}
	if f.State != "" {
		q = q.Where(sq.ILike{"l.state": "%" + escapeLike(f.State) + "%"})
	}
	if f.MinRent != nil {
		q = q.Where(sq.GtOrEq{"l.rent_amount": *f.MinRent})
	}
	if f.MaxRent != nil {
		q = q.Where(sq.LtOrEq{"l.rent_amount": *f.MaxRent})
	}
	if f.PropertyType != "" {
		q = q.Where(sq.Eq{"l.property_type": string(f.PropertyType)})
	}
	if f.Bedrooms != nil {
		q = q.Where(sq.Eq{"l.bedrooms": *f.Bedrooms})
	}
	if f.Bathrooms != nil {
		q = q.Where(sq.Eq{"l.bathrooms": *f.Bathrooms})
	}
	if f.Furnished != nil {
		q = q.Where(sq.Eq{"l.furnished": *f.Furnished})
	}
	if f.Pets != "" {
		q = q.Where(sq.Eq{"l.preferences->>'pets'": string(f.Pets)})
	}
	if f.Smoking != "" {
		q = q.Where(sq.Eq{"l.preferences->>'smoking'": string(f.Smoking)})
	}
	if f.AvailableFrom != nil {
		q = q.Where(sq.LtOrEq{"l.available_from": *f.AvailableFrom})
	}
	return q
}

// Create inserts a listing, assigning ID and CreatedAt.
func (r *ListingRepository) Create(ctx context.Context, l *models.Listing) error {
	prefs, err := nullJSON(l.Preferences, l.Preferences == nil)
	if err != nil {
		return err
	}
	if l.Location == nil {
		l.Location = &models.ListingLocation{}
	}

	l.ID = uuid.New().String()
	l.CreatedAt = time.Now().UTC()

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO listings (
			id, user_id, title, description, property_type, rent_amount,
			address, city, state, zip_code, amenities,
			bedrooms, bathrooms, furnished, available_from,
			preferences, images, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		l.ID, l.UserID, l.Title, l.Description, string(l.PropertyType), l.RentAmount,
		l.Location.Address, l.Location.City, l.Location.State, l.Location.ZipCode, pq.Array(nonNil(l.Amenities)),
		l.RoomDetails.Bedrooms, l.RoomDetails.Bathrooms, l.RoomDetails.Furnished, l.RoomDetails.AvailableFrom,
		prefs, pq.Array(nonNil(l.Images)), l.IsActive, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a listing.
func (r *ListingRepository) Update(ctx context.Context, l *models.Listing) error {
	prefs, err := nullJSON(l.Preferences, l.Preferences == nil)
	if err != nil {
		return err
	}
	if l.Location == nil {
		l.Location = &models.ListingLocation{}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET
			title = $2, description = $3, property_type = $4, rent_amount = $5,
			address = $6, city = $7, state = $8, zip_code = $9, amenities = $10,
			bedrooms = $11, bathrooms = $12, furnished = $13, available_from = $14,
			preferences = $15, images = $16, is_active = $17
		WHERE id = $1`,
		l.ID, l.Title, l.Description, string(l.PropertyType), l.RentAmount,
		l.Location.Address, l.Location.City, l.Location.State, l.Location.ZipCode, pq.Array(nonNil(l.Amenities)),
		l.RoomDetails.Bedrooms, l.RoomDetails.Bathrooms, l.RoomDetails.Furnished, l.RoomDetails.AvailableFrom,
		prefs, pq.Array(nonNil(l.Images)), l.IsActive)
	if err != nil {
		return fmt.Errorf("update listing %s: %w", l.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
