package email

import "github.com/wavelinehq/notifier/internal/domain"

// UserRef is a user as the digest template sees it.
type UserRef struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// EntityRef is a track, playlist, or album as the digest template sees it.
type EntityRef struct {
	Type  domain.EntityType `json:"type"`
	Name  string            `json:"name"`
	Image string            `json:"image,omitempty"`
}

// Props is the template-ready shape of one notification inside a digest.
// Variants populate the fields relevant to them and leave the rest zero.
type Props struct {
	Type         string     `json:"type"`
	Users        []UserRef  `json:"users,omitempty"`
	Entity       *EntityRef `json:"entity,omitempty"`
	TrackOwner   *UserRef   `json:"trackOwnerUser,omitempty"`
	ReactingUser *UserRef   `json:"reactingUser,omitempty"`
	Amount       string     `json:"amount,omitempty"`
	Rank         int        `json:"rank,omitempty"`
	Tier         string     `json:"tier,omitempty"`
}
