// internal/httpapi/auth.go
package httpapi

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"roommate-finder/internal/common/auth"
	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
)

type authResult struct {
	Token     string      `json:"token"`
	ExpiresAt string      `json:"expiresAt"`
	User      models.User `json:"user"`
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

func tokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func withIdentity(ctx context.Context, userID, token string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, tokenKey, token)
}

// authenticate resolves the bearer token and checks the user still exists.
func (s *Server) authenticate(r *http.Request) (string, string, error) {
	token := auth.BearerToken(r.Header.Get("Authorization"))
	userID, err := s.deps.Sessions.Authenticate(r.Context(), token)
	if err != nil {
		if stderrors.Is(err, auth.ErrMissingToken) || stderrors.Is(err, auth.ErrInvalidToken) {
			return "", "", err
		}
		return "", "", errors.NewCacheUnavailableError(err)
	}
	if _, err := s.deps.Users.GetByID(r.Context(), userID); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return "", "", auth.ErrInvalidToken
		}
		return "", "", errors.NewDatabaseConnectionFailedError(err)
	}
	return userID, token, nil
}

func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, token, err := s.authenticate(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(withIdentity(r.Context(), userID, token)))
	})
}

// optionalAuth identifies the caller when a valid token is present and
// otherwise serves the request anonymously.
func (s *Server) optionalAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next(w, r)
			return
		}
		userID, token, err := s.authenticate(r)
		if err != nil {
			s.logger.Debug("ignoring invalid token", map[string]interface{}{
				"error":     err.Error(),
				"requestId": RequestIDFrom(r.Context()),
			})
			next(w, r)
			return
		}
		next(w, r.WithContext(withIdentity(r.Context(), userID, token)))
	})
}

func (s *Server) issue(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	session, err := s.deps.Sessions.Issue(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, errors.NewCacheUnavailableError(err))
		return
	}
	writeData(w, status, authResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		User:      *user,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := s.decodeBody(r, schemaRegister, &reg); err != nil {
		s.writeError(w, r, err)
		return
	}

	hash, err := auth.HashPassword(reg.Password, s.deps.Options.BcryptCost)
	if err != nil {
		s.writeError(w, r, errors.NewInternalError(err))
		return
	}

	user := &models.User{
		Name:         strings.TrimSpace(reg.Name),
		Email:        reg.Email,
		PasswordHash: hash,
		Preferences:  reg.Preferences,
		Budget:       models.DefaultBudget(),
		Location:     reg.Location,
	}
	if reg.Budget != nil {
		user.Budget = *reg.Budget
	}

	if err := s.deps.Users.Create(r.Context(), user); err != nil {
		if stderrors.Is(err, repository.ErrDuplicateEmail) {
			s.writeError(w, r, errors.NewDuplicateEmailError(user.Email))
			return
		}
		s.writeError(w, r, errors.NewDatabaseConnectionFailedError(err))
		return
	}

	s.logger.Info("user registered", map[string]interface{}{"userId": user.ID})
	s.issue(w, r, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decodeBody(r, schemaLogin, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.deps.Users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil && !stderrors.Is(err, repository.ErrNotFound) {
		s.writeError(w, r, errors.NewDatabaseConnectionFailedError(err))
		return
	}
	if user == nil || auth.CheckPassword(user.PasswordHash, req.Password) != nil {
		stdErr := errors.NewAuthenticationError("invalid credentials")
		stdErr.Message = "Invalid email or password"
		s.writeError(w, r, stdErr)
		return
	}

	s.issue(w, r, http.StatusOK, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.loadUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update models.ProfileUpdate
	if err := s.decodeBody(r, schemaProfile, &update); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.loadUser(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	user.Apply(update)

	if err := s.deps.Users.UpdateProfile(r.Context(), user); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			s.writeError(w, r, errors.NewUserNotFoundError(user.ID))
			return
		}
		s.writeError(w, r, errors.NewDatabaseConnectionFailedError(err))
		return
	}
	if s.deps.Profiles != nil {
		s.deps.Profiles.Invalidate(r.Context(), user.ID)
	}
	writeData(w, http.StatusOK, user)
}

// handleUserProfile is public; the password hash never serialises.
func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.loadUser(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Sessions.Revoke(r.Context(), tokenFrom(r.Context())); err != nil {
		s.writeError(w, r, errors.NewCacheUnavailableError(err))
		return
	}
	writeJSON(w, http.StatusOK, models.Response{Success: true, Message: "Logged out"})
}

func (s *Server) loadUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.deps.Users.GetByID(ctx, id)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewUserNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
	return user, nil
}
