// internal/httpapi/respond.go
package httpapi

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"roommate-finder/internal/common/auth"
	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/common/validation"
	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
)

const maxBodyBytes = 1 << 20

// ruled is implemented by the request models carrying ozzo rules.
type ruled interface {
	Validate() error
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, models.DataResponse(data, nil))
}

// toStandard maps package sentinels onto API error codes.
func toStandard(err error) *errors.StandardError {
	if stdErr, ok := errors.As(err); ok {
		return stdErr
	}
	switch {
	case stderrors.Is(err, auth.ErrMissingToken):
		return errors.NewAuthenticationError("missing bearer token")
	case stderrors.Is(err, auth.ErrInvalidToken):
		return errors.NewAuthenticationError("token failed")
	case stderrors.Is(err, repository.ErrDuplicateEmail):
		return errors.NewDuplicateEmailError("")
	}
	return errors.Normalize(err)
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := toStandard(err)
	writeJSON(w, errors.HTTPStatus(stdErr.Code),
		models.ErrorResponse(string(stdErr.Code), stdErr.Message, RequestIDFrom(r.Context())))
}

// writeError logs server-side failures before responding.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr := toStandard(err)
	if errors.HTTPStatus(stdErr.Code) >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("request error", map[string]interface{}{
			"code":      string(stdErr.Code),
			"details":   stdErr.Details,
			"path":      r.URL.Path,
			"requestId": RequestIDFrom(r.Context()),
		})
	}
	writeErrorResponse(w, r, stdErr)
}

// decodeBody reads a JSON body, checks it against the named schema and
// then against the struct rules of dst.
func (s *Server) decodeBody(r *http.Request, schema string, dst interface{}) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.NewValidationError(fmt.Sprintf("read body: %v", err))
	}
	if len(raw) == 0 {
		return errors.NewValidationError("request body is required")
	}

	result, err := s.schemas.Validate(schema, raw)
	if err != nil {
		return errors.NewValidationError(fmt.Sprintf("invalid JSON: %v", err))
	}
	if !result.Valid {
		return rejected(result)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.NewValidationError(fmt.Sprintf("decode body: %v", err))
	}

	if v, ok := dst.(ruled); ok {
		result, err := validation.FromRules(v.Validate())
		if err != nil {
			return errors.NewInternalError(err)
		}
		if !result.Valid {
			return rejected(result)
		}
	}
	return nil
}

func rejected(result *validation.ValidationResult) *errors.StandardError {
	stdErr := errors.NewValidationError(result.Summary())
	stdErr.Message = result.Summary()
	return stdErr
}
