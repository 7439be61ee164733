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
	register(domain.TypeSave, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newSave(deps, row)
	})
}

type saveData struct {
	Type       domain.EntityType `json:"type"`
	UserID     int32             `json:"user_id"`
	SaveItemID int32             `json:"save_item_id"`
}

// Save notifies the owner of a track, playlist, or album that someone
// favorited it. The push body is intentionally empty; the saved entity is
// only resolved for the email digest.
type Save struct {
	base

	receiverUserID int32
	saveItemID     int32
	saveType       domain.EntityType
	saverUserID    int32
}

func newSave(deps *Deps, row domain.NotificationRow) (*Save, error) {
	var data saveData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("save: decode data: %w", err)
	}
	if len(row.UserIDs) == 0 {
		return nil, fmt.Errorf("save: row %d has no user ids", row.ID)
	}
	return &Save{
		base:           base{deps: deps, row: row},
		receiverUserID: row.UserIDs[0],
		saveItemID:     data.SaveItemID,
		saveType:       data.Type,
		saverUserID:    data.UserID,
	}, nil
}

func (n *Save) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.receiverUserID, n.saverUserID)
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

	title, body := messages.Favorite()
	return n.dispatch(ctx, n.receiverUserID, settings, domain.SettingFavorites, domain.PushMessage{Title: title, Body: body})
}

func (n *Save) ResourcesForEmail() email.ResourceIDs {
	ids := email.ResourceIDs{
		Users:     email.NewIDSet(n.receiverUserID, n.saverUserID),
		Tracks:    email.NewIDSet(),
		Playlists: email.NewIDSet(),
	}
	if n.saveType == domain.EntityTrack {
		ids.Tracks = email.NewIDSet(n.saveItemID)
	} else {
		ids.Playlists = email.NewIDSet(n.saveItemID)
	}
	return ids
}

func (n *Save) FormatEmailProps(res email.Resources) email.Props {
	saver := res.Users[n.saverUserID]
	var entity email.EntityRef
	if n.saveType == domain.EntityTrack {
		track := res.Tracks[n.saveItemID]
		entity = email.EntityRef{Type: domain.EntityTrack, Name: track.Title, Image: track.CoverArt}
	} else {
		playlist := res.Playlists[n.saveItemID]
		entity = email.EntityRef{Type: domain.EntityPlaylist, Name: playlist.Name, Image: playlist.Image}
	}
	return email.Props{
		Type:   n.row.Type,
		Users:  []email.UserRef{{Name: saver.Name}},
		Entity: &entity,
	}
}
