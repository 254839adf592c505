package paging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// MaxPageSize is the largest page the Web API serves per fetch.
const MaxPageSize = 50

// Unlimited disables the item or page cap.
const Unlimited = -1

// ErrCancelled marks a walk stopped by context cancellation. The wrapped
// cause still matches context.Canceled or context.DeadlineExceeded.
var ErrCancelled = errors.New("pagination cancelled")

func cancelled(err error) error {
	return fmt.Errorf("%w: %w", ErrCancelled, err)
}

// Page is one offset-based slice of a collection. Next is nil on the last
// page; an offset beyond the total yields an empty page with Next nil.
type Page[T any] struct {
	Items    []T     `json:"items"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
	Total    int     `json:"total"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// HasNext reports whether more items exist beyond this page.
func (p *Page[T]) HasNext() bool {
	return p.Next != nil
}

// Cursors carries the continuation state of a cursor-paged collection.
type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// CursorPage is one slice of a forward-only collection. There is no total
// and no random access; After is the only way to continue, and an empty
// After marks the end.
type CursorPage[T any] struct {
	Items   []T     `json:"items"`
	Limit   int     `json:"limit"`
	Cursors Cursors `json:"cursors"`
}

// PageFetcher fetches one page at the given offset. Implementations are
// supplied by endpoint wrappers.
type PageFetcher[T any] func(ctx context.Context, limit, offset int) (*Page[T], error)

// CursorFetcher fetches one page after the given cursor. An empty after
// requests the first page.
type CursorFetcher[T any] func(ctx context.Context, limit int, after string) (*CursorPage[T], error)

// clampPageSize forces the requested page size into the API bound.
func clampPageSize(pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	if pageSize > MaxPageSize {
		return MaxPageSize
	}
	return pageSize
}

// capped reports whether max constrains the walk. Zero is handled by the
// callers before the first fetch; negative means unbounded.
func capped(max int) bool {
	return max > 0
}

// CollectAll fetches every page in order and returns the accumulated
// items. maxItems caps the result, trimming the final page to the exact
// cap; pass Unlimited to gather the whole collection. A maxItems of 0
// returns an empty result without fetching.
func CollectAll[T any](ctx context.Context, fetch PageFetcher[T], pageSize, maxItems int) ([]T, error) {
	pageSize = clampPageSize(pageSize)
	if maxItems == 0 {
		return nil, nil
	}

	start := time.Now()
	var items []T
	offset := 0
	pages := 0
	for {
		if err := ctx.Err(); err != nil {
			return items, cancelled(err)
		}

		page, err := fetch(ctx, pageSize, offset)
		if err != nil {
			return items, err
		}
		pages++
		pagesFetchedTotal.Inc()

		items = append(items, page.Items...)
		if capped(maxItems) && len(items) >= maxItems {
			items = items[:maxItems]
			break
		}
		if !page.HasNext() {
			break
		}
		offset += pageSize
	}

	log.Debug().
		Int("pages", pages).
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Collected paged collection")

	return items, nil
}

// CollectAllCursor is CollectAll for forward-only collections. The walk
// ends when a page carries no After cursor.
func CollectAllCursor[T any](ctx context.Context, fetch CursorFetcher[T], pageSize, maxItems int) ([]T, error) {
	pageSize = clampPageSize(pageSize)
	if maxItems == 0 {
		return nil, nil
	}

	var items []T
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return items, cancelled(err)
		}

		page, err := fetch(ctx, pageSize, after)
		if err != nil {
			return items, err
		}
		pagesFetchedTotal.Inc()

		items = append(items, page.Items...)
		if capped(maxItems) && len(items) >= maxItems {
			items = items[:maxItems]
			break
		}
		if page.Cursors.After == "" {
			break
		}
		after = page.Cursors.After
	}
	return items, nil
}
