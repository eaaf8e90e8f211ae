// internal/workers/infrastructure/build-response/handler.go
package buildresponse

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/common/metrics"
	"roommate-finder/internal/models"
	"roommate-finder/pkg/registry"
)

const TaskType = "build-response"

type Handler struct {
	config *Config
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		errors: errors.NewErrorHandler(l),
		logger: l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job",
		map[string]interface{}{
			"jobKey":      job.Key,
			"workflowKey": job.ProcessInstanceKey,
		})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return
	}

	result, err := h.config.Schemas.Validate(TaskType, []byte(job.Variables))
	if err == nil && !result.Valid {
		err = fmt.Errorf("input does not match schema: %s", result.Summary())
	}
	if err != nil {
		h.failJob(client, job, string(errors.ErrCodeValidationFailed), err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.Execute(ctx, &input)
	if err != nil {
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
}

// Execute wraps the workflow result in the public envelope and checks it
// against the registered output schema.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationError("input cannot be nil")
	}

	response := models.DataResponse(input.Data, input.Count)
	response.Message = input.Message
	if response.Count == nil {
		if items, ok := input.Data.([]interface{}); ok {
			n := len(items)
			response.Count = &n
		}
	}

	output := &Output{Response: response}
	if err := h.validateOutput(output); err != nil {
		h.logger.Error("response failed schema validation", map[string]interface{}{
			"error": err,
		})
		return nil, err
	}
	return output, nil
}

func (h *Handler) validateOutput(output *Output) error {
	raw, err := json.Marshal(output)
	if err != nil {
		return errors.NewInternalError(fmt.Errorf("encode response: %w", err))
	}

	result, err := h.config.Schemas.Validate(registry.OutputSchemaName(TaskType), raw)
	if err != nil {
		return errors.NewSchemaValidationError(err.Error())
	}
	if !result.Valid {
		return errors.NewSchemaValidationError(result.Summary())
	}
	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed",
		map[string]interface{}{
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
		h.logger.Error("failed to throw error", map[string]interface{}{"error": err})
	}
}
