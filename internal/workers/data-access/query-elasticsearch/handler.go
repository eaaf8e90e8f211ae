// internal/workers/data-access/query-elasticsearch/handler.go
package queryelasticsearch

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"roommate-finder/internal/common/errors"
	"roommate-finder/internal/common/logger"
	"roommate-finder/internal/common/metrics"
	"roommate-finder/internal/search"
	"roommate-finder/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	errors *errors.ErrorHandler
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config: config,
		client: client,
		errors: errors.NewErrorHandler(l),
		logger: l,
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

	output, err := h.execute(ctx, &input)
	if err != nil {
		stdErr := errors.Normalize(err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
		h.errors.HandleJobError(context.Background(), client, job, stdErr)
		return
	}

	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.NewValidationError("input cannot be nil")
	}

	filters, err := search.ParseFilters(input.Filters)
	if err != nil {
		return nil, errors.NewInvalidFilterFormatError(err.Error())
	}
	if input.UserID != "" {
		filters.ExcludeUserID = input.UserID
	}

	q := queries.SearchQuery{
		Index:     input.IndexName,
		QueryType: input.QueryType,
		Keywords:  keywords(input.Filters),
		Filters:   filters,
		ListingID: input.ListingID,
		From:      input.Pagination.From,
		Size:      input.Pagination.Size,
	}
	if q.Index == "" {
		q.Index = h.config.Index
	}

	result, err := queries.Execute(ctx, h.client, q)
	if err != nil {
		return nil, h.classify(ctx, q, err)
	}

	h.logger.Info("search executed", map[string]interface{}{
		"queryType": q.QueryType,
		"index":     q.Index,
		"totalHits": result.TotalHits,
		"tookMs":    result.Took,
	})

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
	}, nil
}

// keywords reads the free-text part of the filters, accepting "keywords" or "q".
func keywords(filters map[string]interface{}) string {
	for _, key := range []string{"keywords", "q"} {
		if s, ok := filters[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func (h *Handler) classify(ctx context.Context, q queries.SearchQuery, err error) error {
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewSearchTimeoutError(q.QueryType)
	}

	var respErr *queries.ResponseError
	switch {
	case stderrors.Is(err, queries.ErrUnknownQueryType):
		return errors.NewInvalidQueryTypeError(q.QueryType)
	case stderrors.Is(err, queries.ErrMissingIndex), stderrors.Is(err, queries.ErrMissingListingID):
		return errors.NewValidationError(err.Error())
	case stderrors.Is(err, queries.ErrTransport):
		return errors.NewElasticsearchConnectionFailedError(err)
	case stderrors.As(err, &respErr) && respErr.IndexMissing():
		return errors.NewIndexNotFoundError(q.Index)
	default:
		return errors.NewSearchQueryFailedError(q.QueryType, err)
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
