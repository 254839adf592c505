package spotify

import (
	"context"
	"net/url"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/paging"
)

// NewReleases returns a page fetcher over newly released albums.
func (s *Service) NewReleases() paging.PageFetcher[Album] {
	return func(ctx context.Context, limit, offset int) (*paging.Page[Album], error) {
		var body struct {
			Albums paging.Page[Album] `json:"albums"`
		}
		if err := s.getJSON(ctx, "/browse/new-releases", pagedQuery(nil, limit, offset), &body); err != nil {
			return nil, err
		}
		return &body.Albums, nil
	}
}

// SearchArtists returns a page fetcher over artists matching the query.
// The query supports the API's field filters, e.g. "genre:idm".
func (s *Service) SearchArtists(query string) paging.PageFetcher[Artist] {
	return func(ctx context.Context, limit, offset int) (*paging.Page[Artist], error) {
		q := url.Values{
			"q":    {query},
			"type": {"artist"},
		}

		var body struct {
			Artists paging.Page[Artist] `json:"artists"`
		}
		if err := s.getJSON(ctx, "/search", pagedQuery(q, limit, offset), &body); err != nil {
			return nil, err
		}
		return &body.Artists, nil
	}
}
