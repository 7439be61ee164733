package domain

import "context"

// EntityStore is the port for the discovery database. All lookups are
// scoped to is_current = true rows; superseded versions are never
// authoritative. Implementation lives in infrastructure/postgres.
type EntityStore interface {
	// UsersByID fetches user snapshots for the given ids in one query.
	UsersByID(ctx context.Context, ids []int32) (map[int32]UserSnapshot, error)

	// TracksByID fetches current track rows by id.
	TracksByID(ctx context.Context, ids []int32) (map[int32]Track, error)

	// PlaylistsByID fetches current playlist/album rows by id.
	PlaylistsByID(ctx context.Context, ids []int32) (map[int32]Playlist, error)
}

// SettingsStore is the port for the identity database: delivery
// preferences, registered devices, and the badge counter.
type SettingsStore interface {
	// GetShouldSendNotification resolves the recipient's device list,
	// per-category flags, and channel opt-ins.
	GetShouldSendNotification(ctx context.Context, userID int32) (UserNotificationSettings, error)

	// IncrementBadgeCount atomically adds one to the user's unread badge.
	// Called once per delivered notification, never per device.
	IncrementBadgeCount(ctx context.Context, userID int32) error
}

// PushSink delivers one rendered message to one device. Retry and
// per-call timeout policy belong to the implementation.
type PushSink interface {
	SendPushNotification(ctx context.Context, target PushTarget, msg PushMessage) error
}

// BrowserSink is the in-browser delivery extension point. Delivery is
// best-effort; users without a live connection are silently skipped.
type BrowserSink interface {
	Deliver(userID int32, msg PushMessage)
}
