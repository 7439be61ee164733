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
	register(domain.TypeTierChange, func(deps *Deps, row domain.NotificationRow) (Processor, error) {
		return newTierChange(deps, row)
	})
}

type tierChangeData struct {
	NewTier      string `json:"new_tier"`
	NewTierValue int    `json:"new_tier_value"`
	CurrentValue string `json:"current_value"`
}

// TierChange notifies a user that their token balance unlocked a new VIP
// tier. No per-category opt-out applies.
type TierChange struct {
	base

	receiverUserID int32
	newTier        string
}

func newTierChange(deps *Deps, row domain.NotificationRow) (*TierChange, error) {
	var data tierChangeData
	if err := json.Unmarshal(row.Data, &data); err != nil {
		return nil, fmt.Errorf("tier_change: decode data: %w", err)
	}
	if len(row.UserIDs) == 0 {
		return nil, fmt.Errorf("tier_change: row %d has no user ids", row.ID)
	}
	return &TierChange{
		base:           base{deps: deps, row: row},
		receiverUserID: row.UserIDs[0],
		newTier:        data.NewTier,
	}, nil
}

func (n *TierChange) PushNotification(ctx context.Context) error {
	users, err := n.users(ctx, n.receiverUserID)
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

	title, body := messages.TierChange(format.Capitalize(n.newTier))
	return n.dispatch(ctx, n.receiverUserID, settings, "", domain.PushMessage{Title: title, Body: body})
}

func (n *TierChange) ResourcesForEmail() email.ResourceIDs {
	return email.ResourceIDs{
		Users: email.NewIDSet(n.receiverUserID),
	}
}

func (n *TierChange) FormatEmailProps(res email.Resources) email.Props {
	return email.Props{
		Type: n.row.Type,
		Tier: n.newTier,
	}
}
