package processor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/wavelinehq/notifier/internal/domain"
	"github.com/wavelinehq/notifier/internal/metrics"
)

// Deps is the shared collaborator set injected into every variant:
// entity resolution, settings lookup, and the delivery sinks.
type Deps struct {
	Entities domain.EntityStore
	Settings domain.SettingsStore
	Push     domain.PushSink
	Browser  domain.BrowserSink
	Metrics  *metrics.Metrics
}

// base carries the fields every variant shares. Variants embed it and
// add their extracted payload fields on top.
type base struct {
	deps *Deps
	row  domain.NotificationRow
}

func (b *base) Row() domain.NotificationRow { return b.row }

// users batch-fetches the snapshots for all involved user ids in one
// query against the current rows of the users table.
func (b *base) users(ctx context.Context, ids ...int32) (map[int32]domain.UserSnapshot, error) {
	users, err := b.deps.Entities.UsersByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch users %v: %w", ids, err)
	}
	return users, nil
}

// sendToDevices publishes msg to every device in parallel and joins the
// results. A failed device never prevents dispatch to the others; the
// first failure is returned after all sends complete. badge is the value
// placed in each payload.
func (b *base) sendToDevices(ctx context.Context, devices []domain.Device, badge int, msg domain.PushMessage) error {
	var g errgroup.Group
	for _, device := range devices {
		device := device
		g.Go(func() error {
			err := b.deps.Push.SendPushNotification(ctx, domain.PushTarget{
				DeviceType: device.Type,
				BadgeCount: badge,
				TargetARN:  device.TargetARN,
			}, msg)
			if err != nil {
				b.deps.Metrics.PushFailures.Inc()
				log.Error().Err(err).
					Str("device_type", device.Type).
					Str("target_arn", device.TargetARN).
					Msg("push dispatch failed")
				return err
			}
			b.deps.Metrics.PushesSent.Inc()
			return nil
		})
	}
	return g.Wait()
}

// dispatch runs the standard delivery flow for userID: push to every
// registered device when the category flag (if any) allows it, increment
// the badge once after all devices succeed, then hand the message to the
// browser channel. flag == "" means the variant has no per-category
// opt-out. The email channel is pull-based and handled by the digest
// pipeline, so only the opt-in boolean is consulted here.
func (b *base) dispatch(ctx context.Context, userID int32, settings domain.UserNotificationSettings, flag string, msg domain.PushMessage) error {
	profile, ok := settings.Mobile[userID]
	if ok && len(profile.Devices) > 0 && (flag == "" || profile.Settings[flag]) {
		if err := b.sendToDevices(ctx, profile.Devices, profile.BadgeCount, msg); err != nil {
			return err
		}
		if err := b.deps.Settings.IncrementBadgeCount(ctx, userID); err != nil {
			return fmt.Errorf("increment badge count for user %d: %w", userID, err)
		}
	}

	if settings.Browser && b.deps.Browser != nil {
		b.deps.Browser.Deliver(userID, msg)
	}
	return nil
}
