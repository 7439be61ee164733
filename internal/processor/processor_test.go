package processor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavelinehq/notifier/internal/domain"
)

func row(t *testing.T, id int64, rowType string, data any, userIDs ...int32) domain.NotificationRow {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return domain.NotificationRow{ID: id, Type: rowType, Data: raw, UserIDs: userIDs}
}

func saveRow(t *testing.T) domain.NotificationRow {
	return row(t, 1, domain.TypeSave, map[string]any{
		"save_item_id": 42,
		"type":         "track",
		"user_id":      7,
	}, 5)
}

func TestSaveSendsToEveryDeviceOnce(t *testing.T) {
	entities := &fakeEntityStore{users: map[int32]domain.UserSnapshot{
		5: {UserID: 5, Name: "ray"},
		7: {UserID: 7, Name: "kim"},
	}}
	settings := &fakeSettingsStore{settings: map[int32]domain.UserNotificationSettings{
		5: mobileProfile(5, 3, map[string]bool{domain.SettingFavorites: true}, "arn:a", "arn:b"),
	}}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, saveRow(t))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	calls := push.calls()
	require.Len(t, calls, 2)
	for _, call := range calls {
		assert.Equal(t, "Favorite", call.msg.Title)
		assert.Equal(t, "", call.msg.Body)
		assert.Equal(t, 3, call.target.BadgeCount)
	}
	assert.Equal(t, 1, settings.increments[5], "badge incremented once per user, not per device")
}

func TestSaveRespectsFavoritesOptOut(t *testing.T) {
	entities := &fakeEntityStore{users: map[int32]domain.UserSnapshot{
		5: {UserID: 5, Name: "ray"},
		7: {UserID: 7, Name: "kim"},
	}}
	settings := &fakeSettingsStore{settings: map[int32]domain.UserNotificationSettings{
		5: mobileProfile(5, 3, map[string]bool{domain.SettingFavorites: false}, "arn:a", "arn:b"),
	}}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, saveRow(t))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	assert.Empty(t, push.calls())
	assert.Zero(t, settings.increments[5])
}

func TestDeactivatedReceiverShortCircuits(t *testing.T) {
	entities := &fakeEntityStore{users: map[int32]domain.UserSnapshot{
		5: {UserID: 5, Name: "ray", IsDeactivated: true},
		7: {UserID: 7, Name: "kim"},
	}}
	settings := &fakeSettingsStore{}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, saveRow(t))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	assert.Equal(t, 1, entities.userQueries, "only the initial user lookup runs")
	assert.Zero(t, settings.getCalls, "settings are never fetched for a deactivated receiver")
	assert.Empty(t, push.calls())
}

func TestPushFailureSkipsBadgeIncrementButNotOtherDevices(t *testing.T) {
	entities := &fakeEntityStore{users: map[int32]domain.UserSnapshot{
		5: {UserID: 5, Name: "ray"},
		7: {UserID: 7, Name: "kim"},
	}}
	settings := &fakeSettingsStore{settings: map[int32]domain.UserNotificationSettings{
		5: mobileProfile(5, 0, map[string]bool{domain.SettingFavorites: true}, "arn:good", "arn:bad"),
	}}
	push := &fakePushSink{failARNs: map[string]error{"arn:bad": errors.New("endpoint disabled")}}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, saveRow(t))
	require.NoError(t, err)
	err = p.PushNotification(context.Background())
	require.Error(t, err)

	assert.Len(t, push.calls(), 2, "the healthy device is still attempted")
	assert.Zero(t, settings.increments[5], "no badge increment on failure")
}

func TestTastemakerBadgeQuirk(t *testing.T) {
	entities := &fakeEntityStore{
		users: map[int32]domain.UserSnapshot{
			5: {UserID: 5, Name: "ray"},
			8: {UserID: 8, Name: "kim"},
			9: {UserID: 9, Name: "lee"},
		},
		tracks: map[int32]domain.Track{
			42: {TrackID: 42, Title: "Night Drive", OwnerID: 9},
		},
	}
	settings := &fakeSettingsStore{settings: map[int32]domain.UserNotificationSettings{
		5: mobileProfile(5, 3, nil, "arn:a"),
	}}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, row(t, 2, domain.TypeTastemaker, map[string]any{
		"tastemaker_item_id":       42,
		"tastemaker_item_owner_id": 9,
		"tastemaker_item_type":     "track",
		"tastemaker_user_id":       8,
	}, 5))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	calls := push.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 4, calls[0].target.BadgeCount, "payload carries stored badge + 1")
	assert.Equal(t, "You're a Taste Maker!", calls[0].msg.Title)
	assert.Contains(t, calls[0].msg.Body, "Night Drive")
	assert.Equal(t, 1, settings.increments[5], "store increment still runs after dispatch")
}

func TestReactionIgnoresCategoryFlags(t *testing.T) {
	entities := &fakeEntityStore{users: map[int32]domain.UserSnapshot{
		3: {UserID: 3, Name: "nina"},
		4: {UserID: 4, Name: "omar"},
	}}
	// Every flag off: the reaction variant dispatches regardless.
	settings := &fakeSettingsStore{settings: map[int32]domain.UserNotificationSettings{
		4: mobileProfile(4, 0, map[string]bool{
			domain.SettingFavorites: false,
			domain.SettingReposts:   false,
			domain.SettingFollowers: false,
			domain.SettingRemixes:   false,
		}, "arn:a"),
	}}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, row(t, 3, domain.TypeReaction, map[string]any{
		"reacted_to":       "tip:abc",
		"reaction_type":    "heart",
		"reaction_value":   1,
		"receiver_user_id": 3,
		"sender_user_id":   4,
		"tip_amount":       "5000000000000000000",
	}, 3))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	calls := push.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Nina reacted", calls[0].msg.Title)
	assert.Equal(t, "Nina reacted to your tip of 5 $WAVE", calls[0].msg.Body)
}

func TestReactionShortCircuitsOnDeactivatedSender(t *testing.T) {
	entities := &fakeEntityStore{users: map[int32]domain.UserSnapshot{
		3: {UserID: 3, Name: "nina"},
		4: {UserID: 4, Name: "omar", IsDeactivated: true},
	}}
	settings := &fakeSettingsStore{}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, row(t, 3, domain.TypeReaction, map[string]any{
		"receiver_user_id": 3,
		"sender_user_id":   4,
		"tip_amount":       "1000000000000000000",
	}, 3))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	assert.Zero(t, settings.getCalls)
	assert.Empty(t, push.calls())
}

func TestRepostOfRepostGatesOnRepostsFlagAndNamesAlbums(t *testing.T) {
	entities := &fakeEntityStore{
		users: map[int32]domain.UserSnapshot{
			5: {UserID: 5, Name: "ray"},
			7: {UserID: 7, Name: "kim"},
		},
		playlists: map[int32]domain.Playlist{
			11: {PlaylistID: 11, Name: "Summer Mix", IsAlbum: true},
		},
	}
	settings := &fakeSettingsStore{settings: map[int32]domain.UserNotificationSettings{
		5: mobileProfile(5, 0, map[string]bool{domain.SettingReposts: true}, "arn:a"),
	}}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, row(t, 4, domain.TypeRepostOfRepost, map[string]any{
		"repost_of_repost_item_id": 11,
		"type":                     "playlist",
		"user_id":                  7,
	}, 5))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	calls := push.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "New Repost", calls[0].msg.Title)
	assert.Equal(t, "kim reposted your repost of Summer Mix", calls[0].msg.Body)

	// Flag off: nothing goes out.
	settings.settings[5] = mobileProfile(5, 0, map[string]bool{domain.SettingReposts: false}, "arn:a")
	p, err = New(deps, row(t, 5, domain.TypeRepostOfRepost, map[string]any{
		"repost_of_repost_item_id": 11,
		"type":                     "playlist",
		"user_id":                  7,
	}, 5))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))
	assert.Len(t, push.calls(), 1)
}

func TestFollowGatesOnFollowersFlag(t *testing.T) {
	entities := &fakeEntityStore{users: map[int32]domain.UserSnapshot{
		5: {UserID: 5, Name: "ray"},
		7: {UserID: 7, Name: "kim"},
	}}
	settings := &fakeSettingsStore{settings: map[int32]domain.UserNotificationSettings{
		5: mobileProfile(5, 0, map[string]bool{domain.SettingFollowers: true}, "arn:a"),
	}}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)

	p, err := New(deps, row(t, 6, domain.TypeFollow, map[string]any{
		"follower_user_id": 7,
		"followee_user_id": 5,
	}, 5))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	calls := push.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Follow", calls[0].msg.Title)
	assert.Equal(t, "kim followed you", calls[0].msg.Body)
	assert.Equal(t, 1, settings.increments[5])
}

func TestBrowserChannelDeliversWhenOptedIn(t *testing.T) {
	entities := &fakeEntityStore{users: map[int32]domain.UserSnapshot{
		5: {UserID: 5, Name: "ray"},
		7: {UserID: 7, Name: "kim"},
	}}
	browserOnly := domain.UserNotificationSettings{
		Mobile:  map[int32]domain.MobileProfile{},
		Browser: true,
	}
	settings := &fakeSettingsStore{settings: map[int32]domain.UserNotificationSettings{5: browserOnly}}
	push := &fakePushSink{}
	deps := newTestDeps(entities, settings, push)
	browser := deps.Browser.(*fakeBrowserSink)

	p, err := New(deps, saveRow(t))
	require.NoError(t, err)
	require.NoError(t, p.PushNotification(context.Background()))

	assert.Empty(t, push.calls())
	require.Len(t, browser.delivered, 1)
	assert.Equal(t, int32(5), browser.delivered[0].userID)
	assert.Equal(t, "Favorite", browser.delivered[0].msg.Title)
}

func TestEmailPropsReferenceOnlyDeclaredResources(t *testing.T) {
	deps := newTestDeps(&fakeEntityStore{}, &fakeSettingsStore{}, &fakePushSink{})

	p, err := New(deps, saveRow(t))
	require.NoError(t, err)

	ids := p.ResourcesForEmail()
	assert.Contains(t, ids.Users, int32(5))
	assert.Contains(t, ids.Users, int32(7))
	assert.Contains(t, ids.Tracks, int32(42))
	assert.Empty(t, ids.Playlists)
}
