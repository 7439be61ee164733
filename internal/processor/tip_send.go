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
	register(domain.TypeTipSend, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newTipSend(deps, row)
	})
}

type tipData struct {
	Amount         json.Number `json:"amount"`
	SenderUserID   int32       `json:"sender_user_id"`
	ReceiverUserID int32       `json:"receiver_user_id"`
}

// TipSend confirms to a tipper that their tip went through. The push goes
// to the tip sender. No per-category opt-out applies.
type TipSend struct {
	base

	amount         string
	senderUserID   int32
	receiverUserID int32
}

func newTipSend(deps *Deps, row domain.NotificationRow) (*TipSend, error) {
	var data tipData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("tip_send: decode data: %w", err)
	}
	return &TipSend{
		base:           base{deps: deps, row: row},
		amount:         data.Amount.String(),
		senderUserID:   data.SenderUserID,
		receiverUserID: data.ReceiverUserID,
	}, nil
}

func (n *TipSend) PushNotification(ctx context.Context) error {
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

	title, body := messages.TipSend(users[n.receiverUserID].Name, format.FormatWei(n.amount))
	return n.dispatch(ctx, n.senderUserID, settings, "", domain.PushMessage{Title: title, Body: body})
}

func (n *TipSend) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users: email.NewIDSet(n.senderUserID, n.receiverUserID),
	}
}

func (n *TipSend) FormatEmailProps(res email.Resources) email.Props {
	receiver := res.Users[n.receiverUserID]
	return email.Props{
		Type:   n.row.Type,
		Users:  []email.UserRef{{Name: receiver.Name}},
		Amount: format.FormatWei(n.amount),
	}
}
