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
	register(domain.TypeFollow, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newFollow(deps, row)
	})
}

type followData struct {
	FollowerUserID int32 `json:"follower_user_id"`
	FolloweeUserID int32 `json:"followee_user_id"`
}

// Follow notifies a user that someone followed them.
type Follow struct {
	base

	receiverUserID int32
	followerUserID int32
	followeeUserID int32
}

func newFollow(deps *Deps, row domain.NotificationRow) (*Follow, error) {
	var data followData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("follow: decode data: %w", err)
	}
	if len(row.UserIDs) == 0 {
		return nil, fmt.Errorf("follow: row %d has no user ids", row.ID)
	}
	return &Follow{
		base:           base{deps: deps, row: row},
		receiverUserID: row.UserIDs[0],
		followerUserID: data.FollowerUserID,
		followeeUserID: data.FolloweeUserID,
	}, nil
}

func (n *Follow) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.receiverUserID, n.followerUserID)
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

	title, body := messages.Follow(users[n.followerUserID].Name)
	return n.dispatch(ctx, n.receiverUserID, settings, domain.SettingFollowers, domain.PushMessage{Title: title, Body: body})
}

func (n *Follow) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users: email.NewIDSet(n.receiverUserID, n.followerUserID),
	}
}

func (n *Follow) FormatEmailProps(res email.Resources) email.Props {
	follower := res.Users[n.followerUserID]
	return email.Props{
		Type:  n.row.Type,
		Users: []email.UserRef{{Name: follower.Name}},
	}
}
