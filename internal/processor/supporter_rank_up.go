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
	register(domain.TypeSupporterRankUp, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newSupporterRankUp(deps, row)
	})
}

type rankUpData struct {
	Rank           int   `json:"rank"`
	SenderUserID   int32 `json:"sender_user_id"`
	ReceiverUserID int32 `json:"receiver_user_id"`
}

// SupporterRankUp notifies an artist that one of their supporters climbed
// into a new top-supporter rank. No per-category opt-out applies.
type SupporterRankUp struct {
	base

	rank           int
	senderUserID   int32
	receiverUserID int32
}

func newSupporterRankUp(deps *Deps, row domain.NotificationRow) (*SupporterRankUp, error) {
	var data rankUpData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("supporter_rank_up: decode data: %w", err)
	}
	return &SupporterRankUp{
		base:           base{deps: deps, row: row},
		rank:           data.Rank,
		senderUserID:   data.SenderUserID,
		receiverUserID: data.ReceiverUserID,
	}, nil
}

func (n *SupporterRankUp) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.receiverUserID, n.senderUserID)
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

	title, body := messages.SupporterRankUp(n.rank, users[n.senderUserID].Name)
	return n.dispatch(ctx, n.receiverUserID, settings, "", domain.PushMessage{Title: title, Body: body})
}

func (n *SupporterRankUp) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users: email.NewIDSet(n.receiverUserID, n.senderUserID),
	}
}

func (n *SupporterRankUp) FormatEmailProps(res email.Resources) email.Props {
	supporter := res.Users[n.senderUserID]
	return email.Props{
		Type:  n.row.Type,
		Users: []email.UserRef{{Name: supporter.Name}},
		Rank:  n.rank,
	}
}
