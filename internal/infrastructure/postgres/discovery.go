// Package postgres implements the store ports against the discovery and
// identity databases.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wavelinehq/notifier/internal/domain"
)

// DiscoveryStore is the pgx implementation of domain.EntityStore. Every
// query filters on is_current = true: the tables are slowly-changing and
// only the current row of an entity is authoritative.
type DiscoveryStore struct {
	pool *pgxpool.Pool
}

// NewDiscoveryStore creates a DiscoveryStore over the given pool.
func NewDiscoveryStore(pool *pgxpool.Pool) *DiscoveryStore {
	return &DiscoveryStore{pool: pool}
}

// UsersByID fetches current user snapshots for the given ids in one query.
func (s *DiscoveryStore) UsersByID(ctx context.Context, ids []int32) (map[int32]domain.UserSnapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, name, is_deactivated
		FROM users
		WHERE is_current = TRUE AND user_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make(map[int32]domain.UserSnapshot, len(ids))
	for rows.Next() {
		var u domain.UserSnapshot
		if err := rows.Scan(&u.UserID, &u.Name, &u.IsDeactivated); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users[u.UserID] = u
	}
	return users, rows.Err()
}

// TracksByID fetches current track rows by id.
func (s *DiscoveryStore) TracksByID(ctx context.Context, ids []int32) (map[int32]domain.Track, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT track_id, title, owner_id, COALESCE(cover_art_url, '')
		FROM tracks
		WHERE is_current = TRUE AND track_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	tracks := make(map[int32]domain.Track, len(ids))
	for rows.Next() {
		var t domain.Track
		if err := rows.Scan(&t.TrackID, &t.Title, &t.OwnerID, &t.CoverArt); err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		tracks[t.TrackID] = t
	}
	return tracks, rows.Err()
}

// PlaylistsByID fetches current playlist/album rows by id.
func (s *DiscoveryStore) PlaylistsByID(ctx context.Context, ids []int32) (map[int32]domain.Playlist, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT playlist_id, playlist_name, is_album, COALESCE(playlist_image_url, '')
		FROM playlists
		WHERE is_current = TRUE AND playlist_id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	defer rows.Close()

	playlists := make(map[int32]domain.Playlist, len(ids))
	for rows.Next() {
		var p domain.Playlist
		if err := rows.Scan(&p.PlaylistID, &p.Name, &p.IsAlbum, &p.Image); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists[p.PlaylistID] = p
	}
	return playlists, rows.Err()
}
