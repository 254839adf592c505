// Package batch chunks large ID collections against per-endpoint batch
// limits and drives their execution sequentially with progress reporting.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
)

// Per-endpoint maximums for one batched request.
const (
	MaxAlbumIDs      = 20
	MaxTrackIDs      = 50
	MaxShowIDs       = 50
	MaxEpisodeIDs    = 50
	MaxPlaylistItems = 100
)

// ErrCancelled marks a batch run stopped by context cancellation between
// chunks. The wrapped cause still matches context.Canceled or
// context.DeadlineExceeded.
var ErrCancelled = errors.New("batch cancelled")

// Progress describes the position of a batch run. Completed is the
// 0-indexed chunk about to execute, so the final report carries
// Completed == Total-1, never Total.
type Progress struct {
	Completed        int
	Total            int
	CurrentBatchSize int
}

// ProgressFunc receives one report immediately before each chunk runs.
type ProgressFunc func(Progress)

// ChunkFunc executes one chunk.
type ChunkFunc func(ctx context.Context, ids []string) error

// Chunks deduplicates ids, sorts them, and splits them into chunks of at
// most size. Sorting keeps the wire form deterministic regardless of the
// order the set arrived in. Empty input yields no chunks.
func Chunks(ids []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Strings(unique)

	return Split(unique, size)
}

// Split chunks items in their given order, without deduplication. Use it
// for ordered inputs such as playlist mutations, where reordering would
// change the result.
func Split(items []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	if len(items) == 0 {
		return nil
	}

	chunks := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// Run deduplicates and sorts ids, chunks them by size, and executes the
// chunks strictly in order. report, when non-nil, is called before each
// chunk; the first chunk error aborts the run and surfaces as-is.
// Already-completed chunks are not rolled back.
func Run(ctx context.Context, ids []string, size int, report ProgressFunc, exec ChunkFunc) error {
	return RunChunks(ctx, Chunks(ids, size), report, exec)
}

// RunChunks executes pre-built chunks strictly in order. Callers that
// need a different chunking than Chunks produces (ordered playlist
// mutations) build their own with Split and run them here.
func RunChunks(ctx context.Context, chunks [][]string, report ProgressFunc, exec ChunkFunc) error {
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		if report != nil {
			report(Progress{
				Completed:        i,
				Total:            len(chunks),
				CurrentBatchSize: len(chunk),
			})
		}
		if err := exec(ctx, chunk); err != nil {
			return err
		}
		chunksTotal.Inc()
	}

	if len(chunks) > 0 {
		log.Debug().
			Int("chunks", len(chunks)).
			Msg("Batch run complete")
	}
	return nil
}
