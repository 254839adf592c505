package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/dh85/SpotifyWebAPI-sub002/pkg/paging"
)

// envelopePagedHandler serves a paging object wrapped under key, the way
// /browse/new-releases and /search respond.
func envelopePagedHandler(key string, items []map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		total := len(items)
		page := []map[string]any{}
		if offset < total {
			end := offset + limit
			if end > total {
				end = total
			}
			page = items[offset:end]
		}

		paged := map[string]any{
			"items":  page,
			"limit":  limit,
			"offset": offset,
			"total":  total,
			"next":   nil,
		}
		if offset+len(page) < total {
			paged["next"] = fmt.Sprintf("?offset=%d", offset+limit)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{key: paged})
	}
}

func TestNewReleases(t *testing.T) {
	svc, api := newTestService(t)

	albums := make([]map[string]any, 5)
	for i := range albums {
		albums[i] = map[string]any{"id": fmt.Sprintf("release-%d", i), "name": fmt.Sprintf("Release %d", i)}
	}
	api.SetHandler("/browse/new-releases", envelopePagedHandler("albums", albums))

	got, err := paging.CollectAll(context.Background(), svc.NewReleases(), 2, paging.Unlimited)
	if err != nil {
		t.Fatalf("CollectAll failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d releases, want 5", len(got))
	}
	if got[0].ID != "release-0" {
		t.Errorf("first release = %q", got[0].ID)
	}
	if n := api.GetPathCount("/browse/new-releases"); n != 3 {
		t.Errorf("fetch count = %d, want 3", n)
	}
}

func TestSearchArtists(t *testing.T) {
	svc, api := newTestService(t)

	var gotQuery, gotType string
	api.SetHandler("/search", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotType = r.URL.Query().Get("type")
		envelopePagedHandler("artists", []map[string]any{
			{"id": "artist-1", "name": "Aphex Twin", "genres": []string{"idm"}},
		})(w, r)
	})

	artists, err := paging.CollectAll(context.Background(), svc.SearchArtists("genre:idm"), 50, paging.Unlimited)
	if err != nil {
		t.Fatalf("CollectAll failed: %v", err)
	}
	if gotQuery != "genre:idm" {
		t.Errorf("q = %q", gotQuery)
	}
	if gotType != "artist" {
		t.Errorf("type = %q", gotType)
	}
	if len(artists) != 1 || artists[0].Name != "Aphex Twin" {
		t.Errorf("artists = %+v", artists)
	}
	if len(artists) == 1 && len(artists[0].Genres) != 1 {
		t.Errorf("Genres = %v", artists[0].Genres)
	}
}

func TestFollowedArtistsCursor(t *testing.T) {
	svc, api := newTestService(t)

	pages := map[string]map[string]any{
		"": {
			"items":   []map[string]any{{"id": "a1", "name": "First"}, {"id": "a2", "name": "Second"}},
			"cursors": map[string]any{"after": "a2"},
		},
		"a2": {
			"items":   []map[string]any{{"id": "a3", "name": "Third"}},
			"cursors": map[string]any{"after": ""},
		},
	}

	var types []string
	api.SetHandler("/me/following", func(w http.ResponseWriter, r *http.Request) {
		types = append(types, r.URL.Query().Get("type"))
		page := pages[r.URL.Query().Get("after")]
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"artists": page})
	})

	artists, err := paging.CollectAllCursor(context.Background(), svc.FollowedArtists(), 2, paging.Unlimited)
	if err != nil {
		t.Fatalf("CollectAllCursor failed: %v", err)
	}
	if len(artists) != 3 {
		t.Fatalf("got %d artists, want 3", len(artists))
	}
	if artists[2].Name != "Third" {
		t.Errorf("last artist = %q", artists[2].Name)
	}
	if n := api.GetPathCount("/me/following"); n != 2 {
		t.Errorf("fetch count = %d, want 2", n)
	}
	for i, typ := range types {
		if typ != "artist" {
			t.Errorf("request %d type = %q, want artist", i, typ)
		}
	}
}

func TestArtistAlbumsPaging(t *testing.T) {
	svc, api := newTestService(t)

	items := make([]any, 4)
	for i := range items {
		items[i] = map[string]any{"id": fmt.Sprintf("alb-%d", i), "name": fmt.Sprintf("Alb %d", i)}
	}
	api.SetPagedCollection("/artists/art1/albums", items)

	stream := paging.StreamPages(context.Background(), svc.ArtistAlbums("art1"), 2, paging.Unlimited)
	pages := 0
	for stream.Next() {
		pages++
		if got := len(stream.Page().Items); got != 2 {
			t.Errorf("page %d has %d items, want 2", pages, got)
		}
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("stream failed: %v", err)
	}
	if pages != 2 {
		t.Errorf("got %d pages, want 2", pages)
	}
}
