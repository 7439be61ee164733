package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wavelinehq/notifier/internal/domain"
	"github.com/wavelinehq/notifier/internal/email"
	"github.com/wavelinehq/notifier/internal/messages"
)

func init() {
	register(domain.TypeRemix, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newRemix(deps, row)
	})
}

type remixData struct {
	TrackID       int32 `json:"track_id"`
	ParentTrackID int32 `json:"parent_track_id"`
}

// Remix notifies the owner of a track that someone uploaded a remix of it.
// The remixer is discovered through the remix track's owner, so tracks are
// resolved before the batched user lookup.
type Remix struct {
	base

	receiverUserID int32
	remixTrackID   int32
	parentTrackID  int32
}

func newRemix(deps *Deps, row domain.NotificationRow) (*Remix, error) {
	var data remixData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("remix: decode data: %w", err)
	}
	if len(row.UserIDs) == 0 {
		return nil, fmt.Errorf("remix: row %d has no user ids", row.ID)
	}
	return &Remix{
		base:           base{deps: deps, row: row},
		receiverUserID: row.UserIDs[0],
		remixTrackID:   data.TrackID,
		parentTrackID:  data.ParentTrackID,
	}, nil
}

func (n *Remix) PushNotification(ctx context.Context) error {
	tracks, err := n.deps.Entities.TracksByID(ctx, []int32{n.remixTrackID, n.parentTrackID})
	if err != nil {
		return fmt.Errorf("fetch tracks: %w", err)
	}
	remixTrack := tracks[n.remixTrackID]
	parentTrack := tracks[n.parentTrackID]

	users, err := n.users(ctx, n.receiverUserID, remixTrack.OwnerID)
	if err != nil {
		return err
	}
	if users[n.receiverUserID].IsDeactivated {
		return nil
	}

	settings, err := n.deps.Settings.GetShouldSendNotification(ctx, n.receiverUserID)
	if err != nil {
		return err
	}

	title, body := messages.Remix(parentTrack.Title, users[remixTrack.OwnerID].Name, remixTrack.Title)
	return n.dispatch(ctx, n.receiverUserID, settings, domain.SettingRemixes, domain.PushMessage{Title: title, Body: body})
}

func (n *Remix) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users:  email.NewIDSet(n.receiverUserID),
		Tracks: email.NewIDSet(n.remixTrackID, n.parentTrackID),
	}
}

func (n *Remix) FormatEmailProps(res email.Resources) email.Props {
	remixTrack := res.Tracks[n.remixTrackID]
	remixer := res.Users[remixTrack.OwnerID]
	return email.Props{
		Type:   n.row.Type,
		Users:  []email.UserRef{{Name: remixer.Name}},
		Entity: &email.EntityRef{Type: domain.EntityTrack, Name: remixTrack.Title, Image: remixTrack.CoverArt},
	}
}
