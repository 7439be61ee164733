package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wavelinehq/notifier/internal/domain"
	"github.com/wavelinehq/notifier/internal/email"
	"github.com/wavelinehq/notifier/internal/format"
	"github.com/wavelinehq/notifier/internal/messages"
)

func init() {
	register(domain.TypeReaction, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newReaction(deps, row)
	})
}

type reactionData struct {
	ReactedTo      string `json:"reacted_to"`
	ReactionType   string `json:"reaction_type"`
	ReactionValue  int    `json:"reaction_value"`
	SenderWallet   string `json:"sender_wallet"`
	ReceiverUserID int32  `json:"receiver_user_id"`
	SenderUserID   int32  `json:"sender_user_id"`
	TipAmount      string `json:"tip_amount"`
}

// Reaction notifies a tip sender that the recipient reacted to their tip.
// The push goes to the tip sender, so the deactivation short-circuit and
// settings lookup are keyed on the sender, not user_ids[0]. Dispatch is
// not gated on a per-category flag; any registered device receives it.
type Reaction struct {
	base

	reactedTo      string
	reactionType   string
	reactionValue  int
	senderWallet   string
	receiverUserID int32
	senderUserID   int32
	tipAmount      string
}

func newReaction(deps *Deps, row domain.NotificationRow) (*Reaction, error) {
	var data reactionData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("reaction: decode data: %w", err)
	}
	return &Reaction{
		base:           base{deps: deps, row: row},
		reactedTo:      data.ReactedTo,
		reactionType:   data.ReactionType,
		reactionValue:  data.ReactionValue,
		senderWallet:   data.SenderWallet,
		receiverUserID: data.ReceiverUserID,
		senderUserID:   data.SenderUserID,
		tipAmount:      data.TipAmount,
	}, nil
}

func (n *Reaction) PushNotification(ctx context.Context) error {
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

	reactingUserName := format.Capitalize(users[n.receiverUserID].Name)
	amount := format.FormatWei(n.tipAmount)

	title, body := messages.Reaction(reactingUserName, amount)
	return n.dispatch(ctx, n.senderUserID, settings, "", domain.PushMessage{Title: title, Body: body})
}

func (n *Reaction) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users: email.NewIDSet(n.senderUserID, n.receiverUserID),
	}
}

func (n *Reaction) FormatEmailProps(res email.Resources) email.Props {
	reactingUser := res.Users[n.receiverUserID]
	return email.Props{
		Type:         n.row.Type,
		ReactingUser: &email.UserRef{Name: reactingUser.Name},
		Amount:       format.FormatWei(n.tipAmount),
	}
}
