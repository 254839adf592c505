package paging

import "context"

// ItemStream delivers a collection one item at a time. A page is fetched
// only when the previous page is exhausted and the consumer asks for more;
// there is no read-ahead. Use it like bufio.Scanner:
//
//	for stream.Next() {
//		item := stream.Item()
//	}
//	if err := stream.Err(); err != nil { ... }
//
// Not safe for concurrent use.
type ItemStream[T any] struct {
	ctx       context.Context
	fetch     PageFetcher[T]
	pageSize  int
	remaining int
	offset    int
	buf       []T
	idx       int
	item      T
	exhausted bool
	done      bool
	err       error
}

// StreamItems starts a lazy walk over an offset-paged collection.
// maxItems caps the number of items delivered; 0 delivers nothing and
// never fetches, Unlimited walks the whole collection.
func StreamItems[T any](ctx context.Context, fetch PageFetcher[T], pageSize, maxItems int) *ItemStream[T] {
	return &ItemStream[T]{
		ctx:       ctx,
		fetch:     fetch,
		pageSize:  clampPageSize(pageSize),
		remaining: maxItems,
	}
}

// Next advances to the next item, fetching the next page when needed.
// It returns false when the collection or the cap is exhausted, the
// context ends, or a fetch fails; check Err afterwards.
func (s *ItemStream[T]) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	if s.remaining == 0 {
		s.done = true
		return false
	}
	for s.idx >= len(s.buf) {
		if !s.fetchPage() {
			return false
		}
	}
	s.item = s.buf[s.idx]
	s.idx++
	if s.remaining > 0 {
		s.remaining--
	}
	return true
}

// Item returns the item produced by the last successful Next.
func (s *ItemStream[T]) Item() T {
	return s.item
}

// Err returns the error that ended the stream, or nil after a clean end.
func (s *ItemStream[T]) Err() error {
	return s.err
}

// Stop ends the stream early. No further pages are fetched; it is safe to
// call at any point and more than once.
func (s *ItemStream[T]) Stop() {
	s.done = true
}

func (s *ItemStream[T]) fetchPage() bool {
	if s.exhausted {
		s.done = true
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.err = cancelled(err)
		return false
	}
	page, err := s.fetch(s.ctx, s.pageSize, s.offset)
	if err != nil {
		s.err = err
		return false
	}
	pagesFetchedTotal.Inc()
	s.buf = page.Items
	s.idx = 0
	s.offset += s.pageSize
	s.exhausted = !page.HasNext()
	if len(page.Items) == 0 {
		s.done = true
		return false
	}
	return true
}

// PageStream delivers whole pages in order, one fetch per Next call.
// Not safe for concurrent use.
type PageStream[T any] struct {
	ctx       context.Context
	fetch     PageFetcher[T]
	pageSize  int
	remaining int
	offset    int
	page      *Page[T]
	exhausted bool
	done      bool
	err       error
}

// StreamPages starts a lazy page-by-page walk. maxPages caps the number
// of pages fetched; 0 fetches nothing, Unlimited walks the whole
// collection.
func StreamPages[T any](ctx context.Context, fetch PageFetcher[T], pageSize, maxPages int) *PageStream[T] {
	return &PageStream[T]{
		ctx:       ctx,
		fetch:     fetch,
		pageSize:  clampPageSize(pageSize),
		remaining: maxPages,
	}
}

// Next fetches the next page. It returns false when the collection or the
// cap is exhausted, the context ends, or a fetch fails; check Err.
func (s *PageStream[T]) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	if s.remaining == 0 || s.exhausted {
		s.done = true
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.err = cancelled(err)
		return false
	}
	page, err := s.fetch(s.ctx, s.pageSize, s.offset)
	if err != nil {
		s.err = err
		return false
	}
	pagesFetchedTotal.Inc()
	s.page = page
	s.offset += s.pageSize
	s.exhausted = !page.HasNext()
	if s.remaining > 0 {
		s.remaining--
	}
	return true
}

// Page returns the page produced by the last successful Next.
func (s *PageStream[T]) Page() *Page[T] {
	return s.page
}

// Err returns the error that ended the stream, or nil after a clean end.
func (s *PageStream[T]) Err() error {
	return s.err
}

// Stop ends the stream early.
func (s *PageStream[T]) Stop() {
	s.done = true
}

// CursorStream is ItemStream for forward-only collections. The walk ends
// when a page carries no After cursor. Not safe for concurrent use.
type CursorStream[T any] struct {
	ctx       context.Context
	fetch     CursorFetcher[T]
	pageSize  int
	remaining int
	after     string
	buf       []T
	idx       int
	item      T
	exhausted bool
	done      bool
	err       error
}

// StreamCursor starts a lazy walk over a cursor-paged collection.
func StreamCursor[T any](ctx context.Context, fetch CursorFetcher[T], pageSize, maxItems int) *CursorStream[T] {
	return &CursorStream[T]{
		ctx:       ctx,
		fetch:     fetch,
		pageSize:  clampPageSize(pageSize),
		remaining: maxItems,
	}
}

// Next advances to the next item, fetching the next page when needed.
func (s *CursorStream[T]) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	if s.remaining == 0 {
		s.done = true
		return false
	}
	for s.idx >= len(s.buf) {
		if !s.fetchPage() {
			return false
		}
	}
	s.item = s.buf[s.idx]
	s.idx++
	if s.remaining > 0 {
		s.remaining--
	}
	return true
}

// Item returns the item produced by the last successful Next.
func (s *CursorStream[T]) Item() T {
	return s.item
}

// Err returns the error that ended the stream, or nil after a clean end.
func (s *CursorStream[T]) Err() error {
	return s.err
}

// Stop ends the stream early.
func (s *CursorStream[T]) Stop() {
	s.done = true
}

func (s *CursorStream[T]) fetchPage() bool {
	if s.exhausted {
		s.done = true
		return false
	}
	if err := s.ctx.Err(); err != nil {
		s.err = cancelled(err)
		return false
	}
	page, err := s.fetch(s.ctx, s.pageSize, s.after)
	if err != nil {
		s.err = err
		return false
	}
	pagesFetchedTotal.Inc()
	s.buf = page.Items
	s.idx = 0
	s.after = page.Cursors.After
	s.exhausted = page.Cursors.After == ""
	if len(page.Items) == 0 {
		s.done = true
		return false
	}
	return true
}
