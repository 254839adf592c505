// Package paging walks offset- and cursor-paged Web API collections.
//
// Endpoint wrappers supply a PageFetcher (or CursorFetcher) that performs
// one fetch; this package drives it either eagerly or as a consumer-paced
// stream:
//
//   - Eager collection with an optional item cap
//   - Lazy item streams that fetch a page only when the previous one is
//     exhausted
//   - Page streams for callers that want whole pages
//   - Cursor variants for forward-only collections without a total
//
// Example usage:
//
//	fetch := func(ctx context.Context, limit, offset int) (*paging.Page[Album], error) {
//		return svc.savedAlbumsPage(ctx, limit, offset)
//	}
//
//	albums, err := paging.CollectAll(ctx, fetch, 50, paging.Unlimited)
//
// Streaming keeps at most one page in memory:
//
//	stream := paging.StreamItems(ctx, fetch, 50, paging.Unlimited)
//	for stream.Next() {
//		process(stream.Item())
//	}
//	if err := stream.Err(); err != nil {
//		return err
//	}
//
// Pages for one stream are fetched strictly in order and never in
// parallel. Cancelling the context stops the stream before its next
// fetch; items already delivered stay with the consumer.
package paging
