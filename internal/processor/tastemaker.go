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
	register(domain.TypeTastemaker, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newTastemaker(deps, row)
	})
}

type tastemakerData struct {
	TastemakerItemID      int32  `json:"tastemaker_item_id"`
	TastemakerItemOwnerID int32  `json:"tastemaker_item_owner_id"`
	TastemakerItemType    string `json:"tastemaker_item_type"`
	TastemakerUserID      int32  `json:"tastemaker_user_id"`
}

// Tastemaker congratulates an early reposter/favoriter of a track that
// went on to trend. No per-category opt-out applies.
//
// Quirk preserved from the legacy pipeline: the push payload carries the
// stored badge count plus one, and the store increment still runs after
// dispatch. Flagged for product sign-off; do not unify with the other
// variants without it.
type Tastemaker struct {
	base

	receiverUserID        int32
	tastemakerItemID      int32
	tastemakerItemOwnerID int32
	tastemakerType        string
	tastemakerUserID      int32
}

func newTastemaker(deps *Deps, row domain.NotificationRow) (*Tastemaker, error) {
	var data tastemakerData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("tastemaker: decode data: %w", err)
	}
	if len(row.UserIDs) == 0 {
		return nil, fmt.Errorf("tastemaker: row %d has no user ids", row.ID)
	}
	return &Tastemaker{
		base:                  base{deps: deps, row: row},
		receiverUserID:        row.UserIDs[0],
		tastemakerItemID:      data.TastemakerItemID,
		tastemakerItemOwnerID: data.TastemakerItemOwnerID,
		tastemakerType:        data.TastemakerItemType,
		tastemakerUserID:      data.TastemakerUserID,
	}, nil
}

func (n *Tastemaker) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.tastemakerUserID, n.receiverUserID, n.tastemakerItemOwnerID)
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

	tracks, err := n.deps.Entities.TracksByID(ctx, []int32{n.tastemakerItemID})
	if err != nil {
		return fmt.Errorf("fetch track %d: %w", n.tastemakerItemID, err)
	}

	title, body := messages.Tastemaker(tracks[n.tastemakerItemID].Title)
	msg := domain.PushMessage{Title: title, Body: body}

	profile, ok := settings.Mobile[n.receiverUserID]
	if ok && len(profile.Devices) > 0 {
		if err := n.sendToDevices(ctx, profile.Devices, profile.BadgeCount+1, msg); err != nil {
			return err
		}
		if err := n.deps.Settings.IncrementBadgeCount(ctx, n.receiverUserID); err != nil {
			return fmt.Errorf("increment badge count for user %d: %w", n.receiverUserID, err)
		}
	}

	if settings.Browser && n.deps.Browser != nil {
		n.deps.Browser.Deliver(n.receiverUserID, msg)
	}
	return nil
}

func (n *Tastemaker) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users:  email.NewIDSet(n.receiverUserID, n.tastemakerItemOwnerID, n.tastemakerUserID),
		Tracks: email.NewIDSet(n.tastemakerItemID),
	}
}

func (n *Tastemaker) FormatEmailProps(res email.Resources) email.Props {
	tastemaker := res.Users[n.tastemakerUserID]
	owner := res.Users[n.tastemakerItemOwnerID]
	track := res.Tracks[n.tastemakerItemID]
	return email.Props{
		Type:       n.row.Type,
		Users:      []email.UserRef{{Name: tastemaker.Name}},
		TrackOwner: &email.UserRef{Name: owner.Name},
		Entity:     &email.EntityRef{Type: domain.EntityTrack, Name: track.Title, Image: track.CoverArt},
	}
}
