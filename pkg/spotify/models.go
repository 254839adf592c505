package spotify

import "time"

// Models carry the fields this library reads, not the full wire schema.

type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Followers struct {
	Total int `json:"total"`
}

// SimpleArtist is the abbreviated artist object embedded in albums and
// tracks.
type SimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type Artist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URI        string    `json:"uri"`
	Genres     []string  `json:"genres"`
	Popularity int       `json:"popularity"`
	Followers  Followers `json:"followers"`
	Images     []Image   `json:"images"`
}

type Album struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	AlbumType   string         `json:"album_type"`
	ReleaseDate string         `json:"release_date"`
	TotalTracks int            `json:"total_tracks"`
	URI         string         `json:"uri"`
	Artists     []SimpleArtist `json:"artists"`
	Images      []Image        `json:"images"`
}

// SavedAlbum is an album in the user's library with its save timestamp.
type SavedAlbum struct {
	AddedAt time.Time `json:"added_at"`
	Album   Album     `json:"album"`
}

type Track struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	DurationMS int            `json:"duration_ms"`
	Explicit   bool           `json:"explicit"`
	Popularity int            `json:"popularity"`
	URI        string         `json:"uri"`
	Artists    []SimpleArtist `json:"artists"`
	Album      Album          `json:"album"`
}

// SavedTrack is a track in the user's library with its save timestamp.
type SavedTrack struct {
	AddedAt time.Time `json:"added_at"`
	Track   Track     `json:"track"`
}

// PlaylistItem is one entry of a playlist's track listing.
type PlaylistItem struct {
	AddedAt time.Time `json:"added_at"`
	Track   Track     `json:"track"`
}
