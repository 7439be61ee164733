// Package email implements the pull side of the digest pipeline: each
// processor declares which entities its email rendering needs, the
// prefetcher resolves the union in batched queries, and the renderer
// (an external collaborator) shapes props from the result.
package email

import (
	"context"
	"fmt"
	"sort"

	"github.com/wavelinehq/notifier/internal/domain"
)

// IDSet is a set of entity ids.
type IDSet map[int32]struct{}

// NewIDSet builds a set from the given ids.
func NewIDSet(ids ...int32) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Sorted returns the ids in ascending order, for deterministic queries.
func (s IDSet) Sorted() []int32 {
	ids := make([]int32, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ResourceIDs declares, by category, the entities a processor's email
// rendering depends on.
type ResourceIDs struct {
	Users     IDSet
	Tracks    IDSet
	Playlists IDSet
}

// Merge folds other into r.
func (r *ResourceIDs) Merge(other ResourceIDs) {
	if r.Users == nil {
		r.Users = IDSet{}
	}
	if r.Tracks == nil {
		r.Tracks = IDSet{}
	}
	if r.Playlists == nil {
		r.Playlists = IDSet{}
	}
	for id := range other.Users {
		r.Users[id] = struct{}{}
	}
	for id := range other.Tracks {
		r.Tracks[id] = struct{}{}
	}
	for id := range other.Playlists {
		r.Playlists[id] = struct{}{}
	}
}

// Resources is the resolved entity data shared across one digest batch.
type Resources struct {
	Users     map[int32]domain.UserSnapshot
	Tracks    map[int32]domain.Track
	Playlists map[int32]domain.Playlist
}

// Declarer is the slice of the processor capability set the prefetcher
// needs.
type Declarer interface {
	ResourcesForEmail() ResourceIDs
}

// Prefetch unions the declared resource sets of many processors and
// resolves each category in a single query, so the digest renderer never
// queries per notification. Tracks are resolved before users so that
// track owners (referenced by remix props but only discoverable through
// the track row) land in the user map as well.
func Prefetch(ctx context.Context, store domain.EntityStore, declarers []Declarer) (Resources, error) {
	var ids ResourceIDs
	for _, d := range declarers {
		ids.Merge(d.ResourcesForEmail())
	}

	res := Resources{
		Users:     map[int32]domain.UserSnapshot{},
		Tracks:    map[int32]domain.Track{},
		Playlists: map[int32]domain.Playlist{},
	}

	var err error
	if len(ids.Tracks) > 0 {
		if res.Tracks, err = store.TracksByID(ctx, ids.Tracks.Sorted()); err != nil {
			return Resources{}, fmt.Errorf("prefetch tracks: %w", err)
		}
		for _, track := range res.Tracks {
			ids.Users[track.OwnerID] = struct{}{}
		}
	}
	if len(ids.Playlists) > 0 {
		if res.Playlists, err = store.PlaylistsByID(ctx, ids.Playlists.Sorted()); err != nil {
			return Resources{}, fmt.Errorf("prefetch playlists: %w", err)
		}
	}
	if len(ids.Users) > 0 {
		if res.Users, err = store.UsersByID(ctx, ids.Users.Sorted()); err != nil {
			return Resources{}, fmt.Errorf("prefetch users: %w", err)
		}
	}
	return res, nil
}
