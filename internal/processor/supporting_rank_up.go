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
	register(domain.TypeSupportingRankUp, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newSupportingRankUp(deps, row)
	})
}

// SupportingRankUp notifies a supporter that they climbed into a new
// top-supporter rank for an artist. The push goes to the tip sender.
// No per-category opt-out applies.
type SupportingRankUp struct {
	base

	rank           int
	senderUserID   int32
	receiverUserID int32
}

func newSupportingRankUp(deps *Deps, row domain.NotificationRow) (*SupportingRankUp, error) {
	var data rankUpData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("supporting_rank_up: decode data: %w", err)
	}
	return &SupportingRankUp{
		base:           base{deps: deps, row: row},
		rank:           data.Rank,
		senderUserID:   data.SenderUserID,
		receiverUserID: data.ReceiverUserID,
	}, nil
}

func (n *SupportingRankUp) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.receiverUserID, n.senderUserID)
	if err != nil {
		return err
	}
	if users[n.senderUserID].IsDeactivated {
		return nil
	}

	settings, err := n.deps.Settings.GetShouldSendNotification(ctx, n.senderUserID)
	if err != nil {
		return err
	}

	title, body := messages.SupportingRankUp(n.rank, users[n.receiverUserID].Name)
	return n.dispatch(ctx, n.senderUserID, settings, "", domain.PushMessage{Title: title, Body: body})
}

func (n *SupportingRankUp) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users: email.NewIDSet(n.receiverUserID, n.senderUserID),
	}
}

func (n *SupportingRankUp) FormatEmailProps(res email.Resources) email.Props {
	supported := res.Users[n.receiverUserID]
	return email.Props{
		Type:  n.row.Type,
		Users: []email.UserRef{{Name: supported.Name}},
		Rank:  n.rank,
	}
}
