// Package processor turns raw notification rows into typed variant
// processors and drives their delivery. Each variant file registers its
// constructor via init(), so adding a notification kind never touches
// the mapper or the orchestrator.
package processor

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/wavelinehq/notifier/internal/domain"
	"github.com/wavelinehq/notifier/internal/email"
	"github.com/wavelinehq/notifier/internal/metrics"
)

// Processor is the typed, in-memory projection of one row. It lives for
// one processing pass and is discarded after dispatch.
type Processor interface {
	// Row returns the raw row this processor was mapped from.
	Row() domain.NotificationRow

	// PushNotification resolves data, checks settings, and dispatches to
	// the configured channels.
	PushNotification(ctx context.Context) error

	// ResourcesForEmail declares the entity ids the digest renderer must
	// prefetch before calling FormatEmailProps.
	ResourcesForEmail() email.ResourceIDs

	// FormatEmailProps shapes prefetched resources into template props.
	FormatEmailProps(res email.Resources) email.Props
}

// Constructor builds a variant processor from a row.
type Constructor func(deps *Deps, row domain.NotificationRow) (Processor, error)

// ErrUnknownType marks rows whose discriminant has no registered variant.
var ErrUnknownType = errors.New("no processor registered for row type")

var constructors = map[string]Constructor{}

// register binds a constructor to a row type discriminant. Called from
// each variant file's init(). Panics on duplicates to catch wiring
// mistakes at startup.
func register(rowType string, c Constructor) {
	if _, exists := constructors[rowType]; exists {
		panic("processor: duplicate constructor registered for type: " + rowType)
	}
	constructors[rowType] = c
}

// New maps a single row to its variant processor.
func New(deps *Deps, row domain.NotificationRow) (Processor, error) {
	c, ok := constructors[row.Type]
	if !ok {
		return nil, ErrUnknownType
	}
	return c(deps, row)
}

// Map converts a batch of rows into processors, preserving input order.
// Rows with an unknown type or an undecodable payload are skipped with a
// warning; they never abort the batch.
func Map(deps *Deps, rows []domain.NotificationRow) []Processor {
	processors := make([]Processor, 0, len(rows))
	for _, row := range rows {
		p, err := New(deps, row)
		if err != nil {
			log.Warn().Err(err).
				Int64("row_id", row.ID).
				Str("type", row.Type).
				Msg("skipping unmappable notification row")
			deps.Metrics.RowsProcessed.WithLabelValues(row.Type, metrics.StatusSkipped).Inc()
			continue
		}
		processors = append(processors, p)
	}
	return processors
}
