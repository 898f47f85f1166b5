package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/config"
	"github.com/spec-kit/service-desk/internal/events"
)

func TestMetrics_RecordRequestAndError(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/tickets/:id", "GET", 404, 3*time.Millisecond)
	m.RecordRequest("/tickets/:id", "GET", 404, time.Millisecond)
	m.RecordError("/tickets/:id", "GET", "NOT_FOUND")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/tickets/:id", "GET", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("/tickets/:id", "GET", "NOT_FOUND")))
}

func TestMetrics_RegistryExposesSeriesPerMethod(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets/:id", "GET", 404, time.Millisecond)
	m.RecordRequest("/tickets/:id", "PUT", 404, time.Millisecond)

	count, err := testutil.GatherAndCount(m.Registry(), "service_desk_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_NilIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.ObservePool(nil)
	assert.NoError(t, m.CountTicketEvent(context.Background(), events.Event{}))
}

func TestSubscribeTicketEvents_CountsByType(t *testing.T) {
	m := NewMetrics()
	d := events.NewInMemoryDispatcher()
	SubscribeTicketEvents(d, zap.NewNop(), m)

	ctx := context.Background()
	require.NoError(t, d.Publish(ctx, events.Event{Type: events.EventTicketCreated, TicketID: 1}))
	require.NoError(t, d.Publish(ctx, events.Event{Type: events.EventTicketCreated, TicketID: 2}))
	require.NoError(t, d.Publish(ctx, events.Event{Type: events.EventTicketDeleted, TicketID: 1}))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticketEvents.WithLabelValues("ticket_created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticketEvents.WithLabelValues("ticket_deleted")))
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
