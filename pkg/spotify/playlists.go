package spotify

import (
	"context"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/batch"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/paging"
)

// PlaylistItems returns a page fetcher over a playlist's track listing.
func (s *Service) PlaylistItems(playlistID string) paging.PageFetcher[PlaylistItem] {
	return pageFetcher[PlaylistItem](s, "/playlists/"+playlistID+"/tracks", nil)
}

type snapshotResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// AddItemsToPlaylist appends track URIs to a playlist in sequential
// chunks, preserving the given order, and returns the final snapshot ID.
// progress may be nil.
func (s *Service) AddItemsToPlaylist(ctx context.Context, playlistID string, uris []string, progress batch.ProgressFunc) (string, error) {
	path := "/playlists/" + playlistID + "/tracks"

	var snapshot string
	// Split, not Chunks: playlist additions are positional, so the URIs
	// must stay in caller order and duplicates must survive.
	err := batch.RunChunks(ctx, batch.Split(uris, batch.MaxPlaylistItems), progress,
		func(ctx context.Context, chunk []string) error {
			body := struct {
				URIs []string `json:"uris"`
			}{URIs: chunk}

			resp, err := s.c.Post(ctx, path, nil, body)
			if err != nil {
				return err
			}
			var sr snapshotResponse
			if err := resp.JSON(&sr); err != nil {
				return err
			}
			snapshot = sr.SnapshotID
			return nil
		})
	if err != nil {
		return "", err
	}
	return snapshot, nil
}

// RemoveItemsFromPlaylist removes track URIs from a playlist in
// sequential chunks and returns the final snapshot ID. Each chunk sends
// the snapshot produced by the previous one, starting from snapshotID
// (pass "" to target the current state). progress may be nil.
func (s *Service) RemoveItemsFromPlaylist(ctx context.Context, playlistID string, uris []string, snapshotID string, progress batch.ProgressFunc) (string, error) {
	path := "/playlists/" + playlistID + "/tracks"

	type uriRef struct {
		URI string `json:"uri"`
	}

	snapshot := snapshotID
	err := batch.RunChunks(ctx, batch.Chunks(uris, batch.MaxPlaylistItems), progress,
		func(ctx context.Context, chunk []string) error {
			body := struct {
				Tracks     []uriRef `json:"tracks"`
				SnapshotID string   `json:"snapshot_id,omitempty"`
			}{SnapshotID: snapshot}
			for _, uri := range chunk {
				body.Tracks = append(body.Tracks, uriRef{URI: uri})
			}

			resp, err := s.c.Delete(ctx, path, nil, body)
			if err != nil {
				return err
			}
			var sr snapshotResponse
			if err := resp.JSON(&sr); err != nil {
				return err
			}
			snapshot = sr.SnapshotID
			return nil
		})
	if err != nil {
		return "", err
	}
	return snapshot, nil
}
