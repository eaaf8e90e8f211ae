// internal/httpapi/listings.go
package httpapi

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
	"roommate-finder/internal/search"
)

const indexTimeout = 5 * time.Second

func (s *Server) handleListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.deps.Listings.ListActive(r.Context())
	if err != nil {
		s.writeError(w, r, errors.NewQueryExecutionFailedError("active_listings", err))
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse(listings, len(listings)))
}

// handleSearchListings scores and ranks results for an authenticated caller
// and leaves them newest first otherwise.
func (s *Server) handleSearchListings(w http.ResponseWriter, r *http.Request) {
	filters, err := search.ParseFilters(search.FromQuery(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, errors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	userID := userIDFrom(r.Context())
	filters.ExcludeUserID = userID

	listings, err := s.deps.Listings.Search(r.Context(), *filters)
	if err != nil {
		s.writeError(w, r, errors.NewQueryExecutionFailedError("listing_search", err))
		return
	}

	if userID == "" {
		writeJSON(w, http.StatusOK, models.ListResponse(listings, len(listings)))
		return
	}

	user, err := s.profile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ranked := s.deps.Ranker.Rank(r.Context(), user, listings)
	writeJSON(w, http.StatusOK, models.ListResponse(ranked, len(ranked)))
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	listing, err := s.loadListing(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, listing)
}

func (s *Server) handleCreateListing(w http.ResponseWriter, r *http.Request) {
	listing := models.Listing{IsActive: true}
	if err := s.decodeBody(r, schemaListing, &listing); err != nil {
		s.writeError(w, r, err)
		return
	}
	listing.UserID = userIDFrom(r.Context())
	listing.Owner = nil

	if err := s.deps.Listings.Create(r.Context(), &listing); err != nil {
		s.writeError(w, r, errors.NewDatabaseConnectionFailedError(err))
		return
	}

	s.logger.Info("listing created", map[string]interface{}{
		"listingId": listing.ID,
		"userId":    listing.UserID,
	})
	s.index(r.Context(), &listing)
	writeData(w, http.StatusCreated, listing)
}

func (s *Server) handleMyListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.deps.Listings.ListByOwner(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, errors.NewQueryExecutionFailedError("user_listings", err))
		return
	}
	writeJSON(w, http.StatusOK, models.ListResponse(listings, len(listings)))
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	user, err := s.profile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	listings, err := s.deps.Listings.ListActiveExcludingOwner(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, errors.NewQueryExecutionFailedError("match_candidates", err))
		return
	}

	ranked := s.deps.Ranker.Rank(r.Context(), user, listings)
	writeJSON(w, http.StatusOK, models.ListResponse(ranked, len(ranked)))
}

// handleUpdateListing merges the body over the stored listing, so omitted
// fields keep their values.
func (s *Server) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	current, err := s.ownedListing(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	updated := *current
	if err := s.decodeBody(r, schemaPatch, &updated); err != nil {
		s.writeError(w, r, err)
		return
	}
	updated.ID = current.ID
	updated.UserID = current.UserID
	updated.Owner = current.Owner
	updated.CreatedAt = current.CreatedAt

	if err := s.deps.Listings.Update(r.Context(), &updated); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			s.writeError(w, r, errors.NewListingNotFoundError(current.ID))
			return
		}
		s.writeError(w, r, errors.NewDatabaseConnectionFailedError(err))
		return
	}

	s.index(r.Context(), &updated)
	writeData(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	listing, err := s.ownedListing(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.deps.Listings.Delete(r.Context(), listing.ID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			s.writeError(w, r, errors.NewListingNotFoundError(listing.ID))
			return
		}
		s.writeError(w, r, errors.NewDatabaseConnectionFailedError(err))
		return
	}

	s.unindex(r.Context(), listing.ID)
	writeData(w, http.StatusOK, map[string]interface{}{})
}

func (s *Server) loadListing(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.deps.Listings.GetByID(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewListingNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	return listing, nil
}

// ownedListing loads the listing in the path and rejects callers other than its owner.
func (s *Server) ownedListing(r *http.Request) (*models.Listing, error) {
	listing, err := s.loadListing(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if listing.UserID != userIDFrom(r.Context()) {
		return nil, errors.NewNotAuthorizedError("caller does not own listing " + listing.ID)
	}
	return listing, nil
}

// profile prefers the profile cache and falls back to the user store.
func (s *Server) profile(ctx context.Context, userID string) (*models.User, error) {
	if s.deps.Profiles == nil {
		return s.loadUser(ctx, userID)
	}
	user, err := s.deps.Profiles.Get(ctx, userID)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	return user, nil
}

// index mirrors a listing into the search index. Failures are logged only;
// the database stays the source of truth.
func (s *Server) index(ctx context.Context, l *models.Listing) {
	if s.deps.Indexer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
	defer cancel()
	if err := s.deps.Indexer.IndexDocument(ctx, s.deps.Options.ListingIndex, l.ID, l); err != nil {
		s.logger.Warn("failed to index listing", map[string]interface{}{
			"listingId": l.ID,
			"error":     err.Error(),
		})
	}
}

func (s *Server) unindex(ctx context.Context, id string) {
	if s.deps.Indexer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), indexTimeout)
	defer cancel()
	if err := s.deps.Indexer.DeleteDocument(ctx, s.deps.Options.ListingIndex, id); err != nil {
		s.logger.Warn("failed to remove listing from index", map[string]interface{}{
			"listingId": id,
			"error":     err.Error(),
		})
	}
}
