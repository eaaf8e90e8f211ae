package observability

import (
	"context"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNew_SpansAreRecorded(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	obs, err := New("roommate-test",
		WithRegisterer(promclient.NewRegistry()),
		WithSpanProcessor(recorder),
	)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	ctx, parent := obs.StartSpan(context.Background(), "parent")
	_, child := obs.StartSpan(ctx, "child", attribute.String("listing.id", "l-1"))
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "child", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Contains(t, spans[0].Attributes(), attribute.String("listing.id", "l-1"))
}

func TestNew_JobMetricsExported(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New("roommate-test", WithRegisterer(reg))
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	obs.RecordJobProcessed(context.Background(), "rank-matches", "completed")
	obs.RecordJobDuration(context.Background(), "rank-matches", 12*time.Millisecond, "completed")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "jobs_processed_total")
	assert.Contains(t, names, "jobs_duration_milliseconds")
}

func TestZeroValue_IsSafe(t *testing.T) {
	var obs Observability
	_, span := obs.StartSpan(context.Background(), "noop")
	span.End()
	obs.RecordJobProcessed(context.Background(), "x", "failed")
	assert.NoError(t, obs.Shutdown(context.Background()))
}
