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
	register(domain.TypeTipReceive, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newTipReceive(deps, row)
	})
}

// TipReceive notifies a user that someone sent them a tip. No
// per-category opt-out applies.
type TipReceive struct {
	base

	amount         string
	senderUserID   int32
	receiverUserID int32
}

func newTipReceive(deps *Deps, row domain.NotificationRow) (*TipReceive, error) {
	var data tipData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("tip_receive: decode data: %w", err)
	}
	return &TipReceive{
		base:           base{deps: deps, row: row},
		amount:         data.Amount.String(),
		senderUserID:   data.SenderUserID,
		receiverUserID: data.ReceiverUserID,
	}, nil
}

func (n *TipReceive) PushNotification(ctx context.Context) error {
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

	title, body := messages.TipReceive(users[n.senderUserID].Name, format.FormatWei(n.amount))
	return n.dispatch(ctx, n.receiverUserID, settings, "", domain.PushMessage{Title: title, Body: body})
}

func (n *TipReceive) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users: email.NewIDSet(n.senderUserID, n.receiverUserID),
	}
}

func (n *TipReceive) FormatEmailProps(res email.Resources) email.Props {
	sender := res.Users[n.senderUserID]
	return email.Props{
		Type:   n.row.Type,
		Users:  []email.UserRef{{Name: sender.Name}},
		Amount: format.FormatWei(n.amount),
	}
}
