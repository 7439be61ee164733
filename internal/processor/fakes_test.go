package processor

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wavelinehq/notifier/internal/domain"
	"github.com/wavelinehq/notifier/internal/metrics"
)

type fakeEntityStore struct {
	users     map[int32]domain.UserSnapshot
	tracks    map[int32]domain.Track
	playlists map[int32]domain.Playlist

	userQueries     int
	trackQueries    int
	playlistQueries int
}

func (f *fakeEntityStore) UsersByID(_ context.Context, ids []int32) (map[int32]domain.UserSnapshot, error) {
	f.userQueries++
	out := map[int32]domain.UserSnapshot{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (f *fakeEntityStore) TracksByID(_ context.Context, ids []int32) (map[int32]domain.Track, error) {
	f.trackQueries++
	out := map[int32]domain.Track{}
	for _, id := range ids {
		if t, ok := f.tracks[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (f *fakeEntityStore) PlaylistsByID(_ context.Context, ids []int32) (map[int32]domain.Playlist, error) {
	f.playlistQueries++
	out := map[int32]domain.Playlist{}
	for _, id := range ids {
		if p, ok := f.playlists[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeSettingsStore struct {
	settings map[int32]domain.UserNotificationSettings
	errFor   map[int32]error

	getCalls   int
	increments map[int32]int
}

func (f *fakeSettingsStore) GetShouldSendNotification(_ context.Context, userID int32) (domain.UserNotificationSettings, error) {
	f.getCalls++
	if err := f.errFor[userID]; err != nil {
		return domain.UserNotificationSettings{}, err
	}
	return f.settings[userID], nil
}

func (f *fakeSettingsStore) IncrementBadgeCount(_ context.Context, userID int32) error {
	if f.increments == nil {
		f.increments = map[int32]int{}
	}
	f.increments[userID]++
	return nil
}

type pushCall struct {
	target domain.PushTarget
	msg    domain.PushMessage
}

type fakePushSink struct {
	mu       sync.Mutex
	failARNs map[string]error
	sends    []pushCall
}

func (f *fakePushSink) SendPushNotification(_ context.Context, target domain.PushTarget, msg domain.PushMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, pushCall{target: target, msg: msg})
	if err := f.failARNs[target.TargetARN]; err != nil {
		return err
	}
	return nil
}

func (f *fakePushSink) calls() []pushCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]pushCall, len(f.sends))
	copy(out, f.sends)
	return out
}

type fakeBrowserSink struct {
	delivered []struct {
		userID int32
		msg    domain.PushMessage
	}
}

func (f *fakeBrowserSink) Deliver(userID int32, msg domain.PushMessage) {
	f.delivered = append(f.delivered, struct {
		userID int32
		msg    domain.PushMessage
	}{userID, msg})
}

func newTestDeps(entities *fakeEntityStore, settings *fakeSettingsStore, push *fakePushSink) *Deps {
	return &Deps{
		Entities: entities,
		Settings: settings,
		Push:     push,
		Browser:  &fakeBrowserSink{},
		Metrics:  metrics.New(prometheus.NewRegistry()),
	}
}

// mobileProfile builds settings for one user with the given devices and
// flags. Flags not named default to off.
func mobileProfile(userID int32, badge int, flags map[string]bool, arns ...string) domain.UserNotificationSettings {
	devices := make([]domain.Device, 0, len(arns))
	for _, arn := range arns {
		devices = append(devices, domain.Device{Type: "ios", TargetARN: arn})
	}
	if flags == nil {
		flags = map[string]bool{}
	}
	return domain.UserNotificationSettings{
		Mobile: map[int32]domain.MobileProfile{
			userID: {Devices: devices, BadgeCount: badge, Settings: flags},
		},
	}
}
