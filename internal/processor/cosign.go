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
	register(domain.TypeCosign, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newCosignRemix(deps, row)
	})
}

type cosignData struct {
	TrackID           int32 `json:"track_id"`
	ParentTrackUserID int32 `json:"parent_track_user_id"`
	TrackOwnerID      int32 `json:"track_owner_id"`
}

// CosignRemix notifies a remixer that the original artist co-signed their
// remix. No per-category opt-out applies.
type CosignRemix struct {
	base

	receiverUserID    int32
	remixTrackID      int32
	parentTrackUserID int32
}

func newCosignRemix(deps *Deps, row domain.NotificationRow) (*CosignRemix, error) {
	var data cosignData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("cosign: decode data: %w", err)
	}
	if len(row.UserIDs) == 0 {
		return nil, fmt.Errorf("cosign: row %d has no user ids", row.ID)
	}
	return &CosignRemix{
		base:              base{deps: deps, row: row},
		receiverUserID:    row.UserIDs[0],
		remixTrackID:      data.TrackID,
		parentTrackUserID: data.ParentTrackUserID,
	}, nil
}

func (n *CosignRemix) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.receiverUserID, n.parentTrackUserID)
	if err != nil {
		return err
	}
	if users[n.receiverUserID].IsDeactivated {
		return nil
	}

	tracks, err := n.deps.Entities.TracksByID(ctx, []int32{n.remixTrackID})
	if err != nil {
		return fmt.Errorf("fetch track %d: %w", n.remixTrackID, err)
	}

	settings, err := n.deps.Settings.GetShouldSendNotification(ctx, n.receiverUserID)
	if err != nil {
		return err
	}

	title, body := messages.Cosign(users[n.parentTrackUserID].Name, tracks[n.remixTrackID].Title)
	return n.dispatch(ctx, n.receiverUserID, settings, "", domain.PushMessage{Title: title, Body: body})
}

func (n *CosignRemix) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users:  email.NewIDSet(n.receiverUserID, n.parentTrackUserID),
		Tracks: email.NewIDSet(n.remixTrackID),
	}
}

func (n *CosignRemix) FormatEmailProps(res email.Resources) email.Props {
	cosigner := res.Users[n.parentTrackUserID]
	track := res.Tracks[n.remixTrackID]
	return email.Props{
		Type:   n.row.Type,
		Users:  []email.UserRef{{Name: cosigner.Name}},
		Entity: &email.EntityRef{Type: domain.EntityTrack, Name: track.Title, Image: track.CoverArt},
	}
}
