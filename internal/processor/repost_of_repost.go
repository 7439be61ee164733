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
	register(domain.TypeRepostOfRepost, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newRepostOfRepost(deps, row)
	})
}

type repostOfRepostData struct {
	Type                 domain.EntityType `json:"type"`
	UserID               int32             `json:"user_id"`
	RepostOfRepostItemID int32             `json:"repost_of_repost_item_id"`
}

// RepostOfRepost notifies a reposter that their repost was itself
// reposted.
type RepostOfRepost struct {
	base

	receiverUserID       int32
	repostOfRepostItemID int32
	repostOfRepostType   domain.EntityType
	reposterUserID       int32
}

func newRepostOfRepost(deps *Deps, row domain.NotificationRow) (*RepostOfRepost, error) {
	var data repostOfRepostData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("repost_of_repost: decode data: %w", err)
	}
	if len(row.UserIDs) == 0 {
		return nil, fmt.Errorf("repost_of_repost: row %d has no user ids", row.ID)
	}
	return &RepostOfRepost{
		base:                 base{deps: deps, row: row},
		receiverUserID:       row.UserIDs[0],
		repostOfRepostItemID: data.RepostOfRepostItemID,
		repostOfRepostType:   data.Type,
		reposterUserID:       data.UserID,
	}, nil
}

func (n *RepostOfRepost) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.receiverUserID, n.reposterUserID)
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

	_, entityName, err := n.resolveEntity(ctx, n.repostOfRepostType, n.repostOfRepostItemID)
	if err != nil {
		return err
	}

	title, body := messages.RepostOfRepost(users[n.reposterUserID].Name, entityName)
	return n.dispatch(ctx, n.receiverUserID, settings, domain.SettingReposts, domain.PushMessage{Title: title, Body: body})
}

func (n *RepostOfRepost) ResourcesForEmail() email.ResourceIDs {
	ids := email.ResourceIDs{
		Users:     email.NewIDSet(n.receiverUserID, n.reposterUserID),
		Tracks:    email.NewIDSet(),
		Playlists: email.NewIDSet(),
	}
	if n.repostOfRepostType == domain.EntityTrack {
		ids.Tracks = email.NewIDSet(n.repostOfRepostItemID)
	} else {
		ids.Playlists = email.NewIDSet(n.repostOfRepostItemID)
	}
	return ids
}

func (n *RepostOfRepost) FormatEmailProps(res email.Resources) email.Props {
	reposter := res.Users[n.reposterUserID]
	var entity email.EntityRef
	if n.repostOfRepostType == domain.EntityTrack {
		track := res.Tracks[n.repostOfRepostItemID]
		entity = email.EntityRef{Type: domain.EntityTrack, Name: track.Title, Image: track.CoverArt}
	} else {
		playlist := res.Playlists[n.repostOfRepostItemID]
		entity = email.EntityRef{Type: domain.EntityPlaylist, Name: playlist.Name, Image: playlist.Image}
	}
	return email.Props{
		Type:   n.row.Type,
		Users:  []email.UserRef{{Name: reposter.Name}},
		Entity: &entity,
	}
}
