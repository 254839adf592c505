package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior of one mock Web API response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration

	// DropConnection closes the TCP connection without responding, which
	// surfaces as a transport-level error to the client.
	DropConnection bool
}

// MockAPI is a configurable mock Web API server. Responses are resolved in
// order: queued responses for the path, then the path handler, then a
// default 200.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	queues   map[string][]MockResponse

	requestCount  int
	pathCounts    map[string]int
	lastAuth      string
	lastUserAgent string
}

// NewMockAPI starts a mock Web API server.
func NewMockAPI() *MockAPI {
	m := &MockAPI{
		handlers:   make(map[string]http.HandlerFunc),
		queues:     make(map[string][]MockResponse),
		pathCounts: make(map[string]int),
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.requestCount++
		m.pathCounts[r.URL.Path]++
		m.lastAuth = r.Header.Get("Authorization")
		m.lastUserAgent = r.Header.Get("User-Agent")

		var queued *MockResponse
		if q := m.queues[r.URL.Path]; len(q) > 0 {
			queued = &q[0]
			m.queues[r.URL.Path] = q[1:]
		}
		handler := m.handlers[r.URL.Path]
		m.mu.Unlock()

		if queued != nil {
			m.serve(w, *queued)
			return
		}
		if handler != nil {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ok"}`)
	}))

	return m
}

// URL returns the mock server base URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears counters, handlers, and queued responses.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.pathCounts = make(map[string]int)
	m.handlers = make(map[string]http.HandlerFunc)
	m.queues = make(map[string][]MockResponse)
	m.lastAuth = ""
	m.lastUserAgent = ""
}

// SetHandler sets a custom handler for a path.
func (m *MockAPI) SetHandler(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, resp)
	})
}

// QueueResponses scripts a sequence of responses for a path, consumed one
// per request. Once drained, resolution falls back to the path handler or
// the default response.
func (m *MockAPI) QueueResponses(path string, resps ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[path] = append(m.queues[path], resps...)
}

// SetPagedCollection serves items as an offset-paginated collection at
// path, honoring the limit and offset query parameters and linking next
// while more items remain.
func (m *MockAPI) SetPagedCollection(path string, items []any) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20)
		offset := queryInt(r, "offset", 0)

		total := len(items)
		page := []any{}
		if offset < total {
			end := offset + limit
			if end > total {
				end = total
			}
			page = items[offset:end]
		}

		body := map[string]any{
			"items":    page,
			"limit":    limit,
			"offset":   offset,
			"total":    total,
			"next":     nil,
			"previous": nil,
		}
		if offset+len(page) < total {
			body["next"] = fmt.Sprintf("%s%s?limit=%d&offset=%d", m.server.URL, path, limit, offset+limit)
		}
		if offset > 0 {
			body["previous"] = fmt.Sprintf("%s%s?limit=%d&offset=%d", m.server.URL, path, limit, max(0, offset-limit))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(body)
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}

// GetPathCount returns the number of requests made to one path.
func (m *MockAPI) GetPathCount(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pathCounts[path]
}

// LastAuthorization returns the Authorization header of the most recent
// request.
func (m *MockAPI) LastAuthorization() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAuth
}

// LastUserAgent returns the User-Agent header of the most recent request.
func (m *MockAPI) LastUserAgent() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastUserAgent
}

func (m *MockAPI) serve(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	if resp.DropConnection {
		hj, ok := w.(http.Hijacker)
		if !ok {
			panic("testutil: response writer does not support hijacking")
		}
		conn, _, err := hj.Hijack()
		if err != nil {
			panic("testutil: hijack failed: " + err.Error())
		}
		conn.Close()
		return
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		fmt.Fprint(w, resp.Body)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// NewJSONResponse creates a JSON response with the given status and body.
func NewJSONResponse(status int, body string) MockResponse {
	return MockResponse{
		StatusCode: status,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

// NewRateLimitedResponse creates a 429 response with a Retry-After header.
// Pass a negative value to omit the header.
func NewRateLimitedResponse(retryAfterSeconds int) MockResponse {
	resp := MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error":{"status":429,"message":"API rate limit exceeded"}}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
	if retryAfterSeconds >= 0 {
		resp.Headers["Retry-After"] = strconv.Itoa(retryAfterSeconds)
	}
	return resp
}

// NewUnauthorizedResponse creates a 401 response.
func NewUnauthorizedResponse() MockResponse {
	return NewJSONResponse(http.StatusUnauthorized,
		`{"error":{"status":401,"message":"The access token expired"}}`)
}

// NewServerErrorResponse creates a 500 response.
func NewServerErrorResponse() MockResponse {
	return NewJSONResponse(http.StatusInternalServerError,
		`{"error":{"status":500,"message":"internal server error"}}`)
}
