// Package spotify is the typed endpoint layer over the request pipeline.
// It covers a representative slice of the Web API: single and batched
// lookups, saved-library mutations with batch progress, and page or
// cursor fetchers that plug into the paging package.
package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/client"
	"github.com/dh85/SpotifyWebAPI-sub002/pkg/paging"
)

// Service exposes the endpoint wrappers. All calls go through the
// underlying client's retry, deduplication, and pacing pipeline.
type Service struct {
	c *client.Client
}

// New wraps an API client.
func New(c *client.Client) *Service {
	return &Service{c: c}
}

func (s *Service) getJSON(ctx context.Context, path string, query url.Values, v any) error {
	resp, err := s.c.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if err := resp.JSON(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// pagedQuery copies query and stamps the window parameters onto it.
func pagedQuery(query url.Values, limit, offset int) url.Values {
	q := url.Values{}
	for k, vs := range query {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return q
}

// pageFetcher serves endpoints whose response body is the paging object
// itself, such as /me/albums.
func pageFetcher[T any](s *Service, path string, query url.Values) paging.PageFetcher[T] {
	return func(ctx context.Context, limit, offset int) (*paging.Page[T], error) {
		var page paging.Page[T]
		if err := s.getJSON(ctx, path, pagedQuery(query, limit, offset), &page); err != nil {
			return nil, err
		}
		return &page, nil
	}
}

type idsBody struct {
	IDs []string `json:"ids"`
}
