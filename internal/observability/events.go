package observability

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/service-desk/internal/events"
)

// SubscribeTicketEvents wires lifecycle events into the metrics and the
// debug log.
func SubscribeTicketEvents(d events.Dispatcher, logger *zap.Logger, metrics *Metrics) {
	if d == nil {
		return
	}
	events.SubscribeAll(d, metrics.CountTicketEvent)
	events.SubscribeAll(d, func(_ context.Context, event events.Event) error {
		logger.Debug("ticket event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
			zap.Any("payload", event.Payload))
		return nil
	})
}
