package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
	"sync"
)

// RequestKey derives the identity of a logical request for deduplication:
// method, normalized path, query sorted by key, and a hash of the body.
// Two logically identical requests always produce equal keys.
func RequestKey(method, path string, query url.Values, body []byte) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(' ')
	if !strings.HasPrefix(path, "/") {
		b.WriteByte('/')
	}
	b.WriteString(path)
	if len(query) > 0 {
		// Encode sorts by key, giving a canonical form.
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		b.WriteByte('#')
		b.WriteString(hex.EncodeToString(sum[:]))
	}
	return b.String()
}

// inflightCall is one request being executed on behalf of every caller that
// shares its key. resp and err are set before done closes.
type inflightCall struct {
	done chan struct{}
	resp *Response
	err  error
}

// deduper coalesces concurrent identical requests: the first caller for a
// key executes, later callers attach to its outcome. Entries are removed by
// the executing caller before the outcome is published, so a key can be
// reused the moment its result is visible.
type deduper struct {
	mu    sync.Mutex
	calls map[string]*inflightCall
}

func newDeduper() *deduper {
	return &deduper{calls: make(map[string]*inflightCall)}
}

// do executes fn under key, or attaches to an identical in-flight call.
// Attached callers stop waiting when their own context ends; the in-flight
// call itself is not aborted on their behalf.
func (d *deduper) do(ctx context.Context, key string, fn func() (*Response, error)) (*Response, error) {
	d.mu.Lock()
	if call, ok := d.calls[key]; ok {
		d.mu.Unlock()
		dedupAttachedTotal.Inc()
		select {
		case <-call.done:
			return call.resp, call.err
		case <-ctx.Done():
			return nil, cancelled(ctx.Err())
		}
	}
	call := &inflightCall{done: make(chan struct{})}
	d.calls[key] = call
	d.mu.Unlock()

	resp, err := fn()

	d.mu.Lock()
	delete(d.calls, key)
	d.mu.Unlock()

	call.resp, call.err = resp, err
	close(call.done)
	return resp, err
}
