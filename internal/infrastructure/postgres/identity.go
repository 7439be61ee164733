package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wavelinehq/notifier/internal/domain"
)

// IdentityStore is the pgx implementation of domain.SettingsStore against
// the identity database: registered devices, per-category flags, channel
// opt-ins, and the badge counter.
type IdentityStore struct {
	pool *pgxpool.Pool
}

// NewIdentityStore creates an IdentityStore over the given pool.
func NewIdentityStore(pool *pgxpool.Pool) *IdentityStore {
	return &IdentityStore{pool: pool}
}

// GetShouldSendNotification resolves the full delivery policy for one
// recipient. Users without a mobile_settings row get the default flags
// (everything on); users without devices get no mobile entry at all.
func (s *IdentityStore) GetShouldSendNotification(ctx context.Context, userID int32) (domain.UserNotificationSettings, error) {
	settings := domain.UserNotificationSettings{
		Mobile: map[int32]domain.MobileProfile{},
	}

	devices, err := s.devices(ctx, userID)
	if err != nil {
		return settings, err
	}

	if len(devices) > 0 {
		flags, err := s.mobileFlags(ctx, userID)
		if err != nil {
			return settings, err
		}
		badge, err := s.BadgeCount(ctx, userID)
		if err != nil {
			return settings, err
		}
		settings.Mobile[userID] = domain.MobileProfile{
			Devices:    devices,
			BadgeCount: badge,
			Settings:   flags,
		}
	}

	err = s.pool.QueryRow(ctx, `
		SELECT browser_push_enabled, email_digest_enabled
		FROM user_settings
		WHERE user_id = $1
	`, userID).Scan(&settings.Browser, &settings.Email)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return settings, fmt.Errorf("query user settings for %d: %w", userID, err)
	}

	return settings, nil
}

func (s *IdentityStore) devices(ctx context.Context, userID int32) ([]domain.Device, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT device_type, aws_arn
		FROM device_tokens
		WHERE user_id = $1 AND enabled = TRUE
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query devices for %d: %w", userID, err)
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.Type, &d.TargetARN); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (s *IdentityStore) mobileFlags(ctx context.Context, userID int32) (map[string]bool, error) {
	// Defaults mirror what the mobile app writes on first launch.
	flags := map[string]bool{
		domain.SettingFavorites: true,
		domain.SettingReposts:   true,
		domain.SettingFollowers: true,
		domain.SettingRemixes:   true,
	}

	var favorites, reposts, followers, remixes bool
	err := s.pool.QueryRow(ctx, `
		SELECT favorites, reposts, followers, remixes
		FROM mobile_settings
		WHERE user_id = $1
	`, userID).Scan(&favorites, &reposts, &followers, &remixes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return flags, nil
		}
		return nil, fmt.Errorf("query mobile settings for %d: %w", userID, err)
	}

	flags[domain.SettingFavorites] = favorites
	flags[domain.SettingReposts] = reposts
	flags[domain.SettingFollowers] = followers
	flags[domain.SettingRemixes] = remixes
	return flags, nil
}

// BadgeCount returns the stored unread badge for a user, zero when the
// user has never been counted.
func (s *IdentityStore) BadgeCount(ctx context.Context, userID int32) (int, error) {
	var badge int
	err := s.pool.QueryRow(ctx, `
		SELECT badge_count FROM badge_counts WHERE user_id = $1
	`, userID).Scan(&badge)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("query badge count for %d: %w", userID, err)
	}
	return badge, nil
}

// IncrementBadgeCount atomically adds one to the user's badge counter.
// The increment happens in the database, never read-modify-write in the
// worker, so concurrent batches cannot lose updates.
func (s *IdentityStore) IncrementBadgeCount(ctx context.Context, userID int32) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO badge_counts (user_id, badge_count, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (user_id)
		DO UPDATE SET badge_count = badge_counts.badge_count + 1, updated_at = now()
	`, userID)
	if err != nil {
		return fmt.Errorf("increment badge count for %d: %w", userID, err)
	}
	return nil
}
