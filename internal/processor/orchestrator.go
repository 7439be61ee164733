package processor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/wavelinehq/notifier/internal/domain"
	"github.com/wavelinehq/notifier/internal/metrics"
)

// Orchestrator drives one batch of rows through mapping and dispatch.
type Orchestrator struct {
	deps *Deps
}

// NewOrchestrator creates an Orchestrator over the given collaborators.
func NewOrchestrator(deps *Deps) *Orchestrator {
	return &Orchestrator{deps: deps}
}

// Process maps the rows and invokes each processor sequentially, awaiting
// one before starting the next. A failing processor is logged and counted
// but never aborts the rest of the batch.
func (o *Orchestrator) Process(ctx context.Context, rows []domain.NotificationRow) {
	if len(rows) == 0 {
		return
	}

	batchID := uuid.NewString()
	start := time.Now()

	processors := Map(o.deps, rows)

	var failed int
	for _, p := range processors {
		row := p.Row()
		if err := p.PushNotification(ctx); err != nil {
			failed++
			o.deps.Metrics.RowsProcessed.WithLabelValues(row.Type, metrics.StatusFailed).Inc()
			log.Error().Err(err).
				Str("batch_id", batchID).
				Int64("row_id", row.ID).
				Str("type", row.Type).
				Msg("notification processing failed")
			continue
		}
		o.deps.Metrics.RowsProcessed.WithLabelValues(row.Type, metrics.StatusOK).Inc()
	}

	o.deps.Metrics.BatchDuration.Observe(time.Since(start).Seconds())

	log.Info().
		Str("batch_id", batchID).
		Int("rows", len(rows)).
		Int("mapped", len(processors)).
		Int("failed", failed).
		Dur("took", time.Since(start)).
		Msg("notification batch processed")
}
