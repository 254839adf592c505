package spotify

import (
	"context"
	"net/url"
	"strings"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/batch"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/paging"
)

// Track fetches a single track.
func (s *Service) Track(ctx context.Context, id string) (*Track, error) {
	var track Track
	if err := s.getJSON(ctx, "/tracks/"+id, nil, &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// Tracks fetches several tracks, batching the lookups by the endpoint
// maximum. Results follow the deduplicated, sorted id order.
func (s *Service) Tracks(ctx context.Context, ids []string) ([]Track, error) {
	var tracks []Track
	err := batch.Run(ctx, ids, batch.MaxTrackIDs, nil, func(ctx context.Context, chunk []string) error {
		var body struct {
			Tracks []Track `json:"tracks"`
		}
		query := url.Values{"ids": {strings.Join(chunk, ",")}}
		if err := s.getJSON(ctx, "/tracks", query, &body); err != nil {
			return err
		}
		tracks = append(tracks, body.Tracks...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tracks, nil
}

// SavedTracks returns a page fetcher over the user's saved tracks.
func (s *Service) SavedTracks() paging.PageFetcher[SavedTrack] {
	return pageFetcher[SavedTrack](s, "/me/tracks", nil)
}

// SaveTracks adds tracks to the user's library in sequential chunks.
// progress may be nil.
func (s *Service) SaveTracks(ctx context.Context, ids []string, progress batch.ProgressFunc) error {
	return batch.Run(ctx, ids, batch.MaxTrackIDs, progress, func(ctx context.Context, chunk []string) error {
		_, err := s.c.Put(ctx, "/me/tracks", nil, idsBody{IDs: chunk})
		return err
	})
}

// RemoveSavedTracks removes tracks from the user's library in sequential
// chunks. progress may be nil.
func (s *Service) RemoveSavedTracks(ctx context.Context, ids []string, progress batch.ProgressFunc) error {
	return batch.Run(ctx, ids, batch.MaxTrackIDs, progress, func(ctx context.Context, chunk []string) error {
		_, err := s.c.Delete(ctx, "/me/tracks", nil, idsBody{IDs: chunk})
		return err
	})
}
