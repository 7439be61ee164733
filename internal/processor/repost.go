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
	register(domain.TypeRepost, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newRepost(deps, row)
	})
}

type repostData struct {
	Type         domain.EntityType `json:"type"`
	UserID       int32             `json:"user_id"`
	RepostItemID int32             `json:"repost_item_id"`
}

// Repost notifies the owner of a track, playlist, or album that someone
// reposted it.
type Repost struct {
	base

	receiverUserID int32
	repostItemID   int32
	repostType     domain.EntityType
	reposterUserID int32
}

func newRepost(deps *Deps, row domain.NotificationRow) (*Repost, error) {
	var data repostData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("repost: decode data: %w", err)
	}
	if len(row.UserIDs) == 0 {
		return nil, fmt.Errorf("repost: row %d has no user ids", row.ID)
	}
	return &Repost{
		base:           base{deps: deps, row: row},
		receiverUserID: row.UserIDs[0],
		repostItemID:   data.RepostItemID,
		repostType:     data.Type,
		reposterUserID: data.UserID,
	}, nil
}

func (n *Repost) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.receiverUserID, n.reposterUserID)
	if err != nil {
		return err
	}
	if users[n.receiverUserID].IsDeactivated {
		return nil
	}

	entityType, entityName, err := n.resolveEntity(ctx, n.repostType, n.repostItemID)
	if err != nil {
		return err
	}

	settings, err := n.deps.Settings.GetShouldSendNotification(ctx, n.receiverUserID)
	if err != nil {
		return err
	}

	title, body := messages.Repost(users[n.reposterUserID].Name, string(entityType), entityName)
	return n.dispatch(ctx, n.receiverUserID, settings, domain.SettingReposts, domain.PushMessage{Title: title, Body: body})
}

func (n *Repost) ResourcesForEmail() email.ResourceIDs {
	ids := email.ResourceIDs{
		Users:     email.NewIDSet(n.receiverUserID, n.reposterUserID),
		Tracks:    email.NewIDSet(),
		Playlists: email.NewIDSet(),
	}
	if n.repostType == domain.EntityTrack {
		ids.Tracks = email.NewIDSet(n.repostItemID)
	} else {
		ids.Playlists = email.NewIDSet(n.repostItemID)
	}
	return ids
}

func (n *Repost) FormatEmailProps(res email.Resources) email.Props {
	reposter := res.Users[n.reposterUserID]
	var entity email.EntityRef
	if n.repostType == domain.EntityTrack {
		track := res.Tracks[n.repostItemID]
		entity = email.EntityRef{Type: domain.EntityTrack, Name: track.Title, Image: track.CoverArt}
	} else {
		playlist := res.Playlists[n.repostItemID]
		entity = email.EntityRef{Type: domain.EntityPlaylist, Name: playlist.Name, Image: playlist.Image}
	}
	return email.Props{
		Type:   n.row.Type,
		Users:  []email.UserRef{{Name: reposter.Name}},
		Entity: &entity,
	}
}
