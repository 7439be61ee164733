package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavelinehq/notifier/internal/domain"
)

func TestProcessContinuesPastFailingRow(t *testing.T) {
	entities := &fakeEntityStore{
		users: map[int32]domain.UserSnapshot{
			1: {UserID: 1, Name: "Ada"},
			2: {UserID: 2, Name: "Bea"},
			3: {UserID: 3, Name: "Cal"},
		},
	}
	settings := &fakeSettingsStore{
		settings: map[int32]domain.UserNotificationSettings{
			3: mobileProfile(3, 0, map[string]bool{domain.SettingFollowers: true}, "arn:cal"),
		},
		errFor: map[int32]error{1: errors.New("identity db down")},
	}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	rows := []domain.NotificationRow{
		makeRow(1, domain.TypeFollow, map[string]any{"follower_user_id": 2, "followee_user_id": 1}, 1),
		makeRow(2, domain.TypeFollow, map[string]any{"follower_user_id": 2, "followee_user_id": 3}, 3),
	}

	NewOrchestrator(deps).Process(context.Background(), rows)

	// Row 1 fails at the settings fetch, but row 2 still dispatches.
	calls := push.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "arn:cal", calls[0].target.TargetARN)
}

func TestProcessEmptyBatchIsNoop(t *testing.T) {
	entities := &fakeEntityStore{}
	settings := &fakeSettingsStore{}
	push := &fakePushSink{}

	NewOrchestrator(newTestDeps(entities, settings, push)).Process(context.Background(), nil)

	assert.Zero(t, entities.userQueries)
	assert.Zero(t, settings.getCalls)
	assert.Empty(t, push.calls())
}
