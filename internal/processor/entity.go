package processor

import (
	"context"
	"fmt"

	"github.com/wavelinehq/notifier/internal/domain"
)

// resolveEntity fetches the display name and concrete type of a referenced
// track or playlist by a single id lookup. Playlists flagged is_album are
// reported as albums so message text reads correctly.
func (b *base) resolveEntity(ctx context.Context, entityType domain.EntityType, id int32) (domain.EntityType, string, error) {
	if entityType == domain.EntityTrack {
		tracks, err := b.deps.Entities.TracksByID(ctx, []int32{id})
		if err != nil {
			return entityType, "", fmt.Errorf("fetch track %d: %w", id, err)
		}
		return domain.EntityTrack, tracks[id].Title, nil
	}

	playlists, err := b.deps.Entities.PlaylistsByID(ctx, []int32{id})
	if err != nil {
		return entityType, "", fmt.Errorf("fetch playlist %d: %w", id, err)
	}
	playlist := playlists[id]
	if playlist.IsAlbum {
		return domain.EntityAlbum, playlist.Name, nil
	}
	return domain.EntityPlaylist, playlist.Name, nil
}
