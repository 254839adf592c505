package spotify

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/paging"
)

// Artist fetches a single artist.
func (s *Service) Artist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	if err := s.getJSON(ctx, "/artists/"+id, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// ArtistAlbums returns a page fetcher over an artist's albums.
func (s *Service) ArtistAlbums(artistID string) paging.PageFetcher[Album] {
	return pageFetcher[Album](s, "/artists/"+artistID+"/albums", nil)
}

// FollowedArtists returns a cursor fetcher over the artists the user
// follows. The collection is forward-only; there is no total.
func (s *Service) FollowedArtists() paging.CursorFetcher[Artist] {
	return func(ctx context.Context, limit int, after string) (*paging.CursorPage[Artist], error) {
		query := url.Values{
			"type":  {"artist"},
			"limit": {strconv.Itoa(limit)},
		}
		if after != "" {
			query.Set("after", after)
		}

		var body struct {
			Artists paging.CursorPage[Artist] `json:"artists"`
		}
		if err := s.getJSON(ctx, "/me/following", query, &body); err != nil {
			return nil, err
		}
		return &body.Artists, nil
	}
}
