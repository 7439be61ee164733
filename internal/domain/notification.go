package domain

import (
	"encoding/json"
	"time"
)

// Row type discriminants. Closed set: adding a variant means adding a
// constant here plus a processor file that registers itself for it.
const (
	TypeFollow           = "follow"
	TypeRepost           = "repost"
	TypeSave             = "save"
	TypeRemix            = "remix"
	TypeCosign           = "cosign"
	TypeSupporterRankUp  = "supporter_rank_up"
	TypeSupportingRankUp = "supporting_rank_up"
	TypeTierChange       = "tier_change"
	TypeReaction         = "reaction"
	TypeRepostOfRepost   = "repost_of_repost"
	TypeTastemaker       = "tastemaker"
	TypeTipSend          = "tip_send"
	TypeTipReceive       = "tip_receive"
)

// NotificationRow is one raw event produced by the ingestion pipeline.
// Data stays opaque here; each processor decodes the payload it expects.
// UserIDs is ordered and its semantics vary by type — for most variants
// the first entry is the receiving user.
type NotificationRow struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	UserIDs   []int32         `json:"user_ids"`
	Timestamp time.Time       `json:"timestamp"`
}

// EntityType identifies what kind of content a notification refers to.
type EntityType string

const (
	EntityTrack    EntityType = "track"
	EntityPlaylist EntityType = "playlist"
	EntityAlbum    EntityType = "album"
)

// UserSnapshot is the current row of the slowly-changing users table,
// reduced to the fields notification text and gating need.
type UserSnapshot struct {
	UserID        int32
	Name          string
	IsDeactivated bool
}

// Track is the current row of a track, reduced for message text.
type Track struct {
	TrackID  int32
	Title    string
	OwnerID  int32
	CoverArt string
}

// Playlist is the current row of a playlist or album.
type Playlist struct {
	PlaylistID int32
	Name       string
	IsAlbum    bool
	Image      string
}

// Per-category mobile opt-out flags stored in the identity service.
// Variants that gate on a flag name it; variants without a flag dispatch
// whenever devices exist.
const (
	SettingFavorites = "favorites"
	SettingReposts   = "reposts"
	SettingFollowers = "followers"
	SettingRemixes   = "remixes"
)

// Device is one registered mobile push target.
type Device struct {
	Type      string
	TargetARN string
}

// MobileProfile is one user's device list, badge counter, and flags.
type MobileProfile struct {
	Devices    []Device
	BadgeCount int
	Settings   map[string]bool
}

// UserNotificationSettings is the normalized per-recipient delivery policy.
// Mobile is keyed by user id; Browser and Email are coarse channel opt-ins.
type UserNotificationSettings struct {
	Mobile  map[int32]MobileProfile
	Browser bool
	Email   bool
}

// PushTarget parameterizes one device-level push call.
type PushTarget struct {
	DeviceType string
	BadgeCount int
	TargetARN  string
}

// PushMessage is the rendered notification content.
type PushMessage struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}
