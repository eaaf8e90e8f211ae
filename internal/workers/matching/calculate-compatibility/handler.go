// internal/workers/matching/calculate-compatibility/handler.go
package calculatecompatibility

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/common/metrics"
	"roommate-finder/internal/matching"
	"roommate-finder/internal/models"
	"roommate-finder/internal/repository"
)

const (
	TaskType = "calculate-compatibility"
)

var (
	ErrMissingUser = stderrors.New("MISSING_USER")
)

// ProfileSource resolves a user profile by id, typically through the profile cache.
type ProfileSource interface {
	Get(ctx context.Context, userID string) (*models.User, error)
}

type Handler struct {
	config   *Config
	profiles ProfileSource
	errors   *errors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, profiles ProfileSource, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		profiles: profiles,
		errors:   errors.NewErrorHandler(l),
		logger:   l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	if err := h.validateVariables(job.Variables); err != nil {
		h.failJob(client, job, string(errors.ErrCodeValidationFailed), err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) validateVariables(variables string) error {
	result, err := h.config.Schemas.Validate(TaskType, []byte(variables))
	if err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("input does not match schema: %s", result.Summary())
	}
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	user, err := h.resolveUser(ctx, input)
	if err != nil {
		return nil, err
	}

	result := matching.Score(user, &input.Listing)
	metrics.CompatibilityScores.Observe(float64(result.Score))

	h.logger.Info("compatibility calculated", map[string]interface{}{
		"userId":    user.ID,
		"listingId": input.Listing.ID,
		"score":     result.Score,
		"breakdown": result.Breakdown,
	})

	return &Output{Compatibility: result}, nil
}

// resolveUser prefers an inline profile and falls back to the cache-aside lookup.
func (h *Handler) resolveUser(ctx context.Context, input *Input) (*models.User, error) {
	if input.UserProfile != nil {
		return input.UserProfile, nil
	}
	if input.UserID == "" {
		return nil, errors.NewValidationError(ErrMissingUser.Error())
	}

	user, err := h.profiles.Get(ctx, input.UserID)
	switch {
	case err == nil:
		return user, nil
	case stderrors.Is(err, repository.ErrNotFound):
		return nil, errors.NewUserNotFoundError(input.UserID)
	case stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.NewQueryTimeoutError("user_profile")
	default:
		return nil, errors.NewDatabaseConnectionFailedError(err)
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, errorCode).Inc()

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
