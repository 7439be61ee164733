package processor

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wavelinehq/notifier/internal/domain"
	"github.com/wavelinehq/notifier/internal/metrics"
)

func makeRow(id int64, rowType string, data any, userIDs ...int32) domain.NotificationRow {
	raw, _ := json.Marshal(data)
	return domain.NotificationRow{ID: id, Type: rowType, Data: raw, UserIDs: userIDs}
}

func registryDeps() *Deps {
	return &Deps{
		Entities: &fakeEntityStore{},
		Settings: &fakeSettingsStore{},
		Push:     &fakePushSink{},
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}
}

func TestMapPreservesRowOrder(t *testing.T) {
	rows := []domain.NotificationRow{
		makeRow(1, domain.TypeFollow, map[string]any{"follower_user_id": 2, "followee_user_id": 1}, 1),
		makeRow(2, domain.TypeSave, map[string]any{"save_item_id": 9, "type": "track", "user_id": 2}, 1),
		makeRow(3, domain.TypeTierChange, map[string]any{"new_tier": "gold"}, 1),
	}

	processors := Map(registryDeps(), rows)

	if len(processors) != 3 {
		t.Fatalf("expected 3 processors, got %d", len(processors))
	}
	for i, p := range processors {
		if p.Row().ID != rows[i].ID {
			t.Fatalf("processor %d maps row %d, want %d", i, p.Row().ID, rows[i].ID)
		}
	}
}

func TestMapSkipsUnknownTypes(t *testing.T) {
	rows := []domain.NotificationRow{
		makeRow(1, "mystery_event", map[string]any{}, 1),
		makeRow(2, domain.TypeFollow, map[string]any{"follower_user_id": 2, "followee_user_id": 1}, 1),
	}

	processors := Map(registryDeps(), rows)

	if len(processors) != 1 {
		t.Fatalf("expected unknown type to be dropped, got %d processors", len(processors))
	}
	if processors[0].Row().ID != 2 {
		t.Fatalf("surviving processor maps row %d, want 2", processors[0].Row().ID)
	}
}

func TestMapSkipsRowsWithoutUserIDs(t *testing.T) {
	rows := []domain.NotificationRow{
		makeRow(1, domain.TypeSave, map[string]any{"save_item_id": 9, "type": "track", "user_id": 2}),
	}

	if processors := Map(registryDeps(), rows); len(processors) != 0 {
		t.Fatalf("expected malformed row to be dropped, got %d processors", len(processors))
	}
}

func TestNewUnknownTypeReturnsError(t *testing.T) {
	_, err := New(registryDeps(), makeRow(1, "mystery_event", map[string]any{}, 1))
	if err != ErrUnknownType {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on duplicate registration")
		}
	}()
	register(domain.TypeSave, func(_ *Deps, _ domain.NotificationRow) (Processor, error) { return nil, nil })
}
