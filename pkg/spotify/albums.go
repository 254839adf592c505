package spotify

import (
	"context"
	"net/url"
	"strings"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/batch"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/paging"
)

// Album fetches a single album.
func (s *Service) Album(ctx context.Context, id string) (*Album, error) {
	var album Album
	if err := s.getJSON(ctx, "/albums/"+id, nil, &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// Albums fetches several albums, batching the lookups by the endpoint
// maximum. Results follow the deduplicated, sorted id order.
func (s *Service) Albums(ctx context.Context, ids []string) ([]Album, error) {
	var albums []Album
	err := batch.Run(ctx, ids, batch.MaxAlbumIDs, nil, func(ctx context.Context, chunk []string) error {
		var body struct {
			Albums []Album `json:"albums"`
		}
		query := url.Values{"ids": {strings.Join(chunk, ",")}}
		if err := s.getJSON(ctx, "/albums", query, &body); err != nil {
			return err
		}
		albums = append(albums, body.Albums...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return albums, nil
}

// SavedAlbums returns a page fetcher over the user's saved albums, for
// use with paging.CollectAll or paging.StreamItems.
func (s *Service) SavedAlbums() paging.PageFetcher[SavedAlbum] {
	return pageFetcher[SavedAlbum](s, "/me/albums", nil)
}

// SaveAlbums adds albums to the user's library in sequential chunks,
// reporting progress before each chunk. progress may be nil.
func (s *Service) SaveAlbums(ctx context.Context, ids []string, progress batch.ProgressFunc) error {
	return batch.Run(ctx, ids, batch.MaxAlbumIDs, progress, func(ctx context.Context, chunk []string) error {
		_, err := s.c.Put(ctx, "/me/albums", nil, idsBody{IDs: chunk})
		return err
	})
}

// RemoveSavedAlbums removes albums from the user's library in sequential
// chunks, reporting progress before each chunk. progress may be nil.
func (s *Service) RemoveSavedAlbums(ctx context.Context, ids []string, progress batch.ProgressFunc) error {
	return batch.Run(ctx, ids, batch.MaxAlbumIDs, progress, func(ctx context.Context, chunk []string) error {
		_, err := s.c.Delete(ctx, "/me/albums", nil, idsBody{IDs: chunk})
		return err
	})
}
