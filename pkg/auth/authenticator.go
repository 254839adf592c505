package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TokenStore persists token records between processes. Implementations must
// be safe for concurrent use. Load returns (nil, nil) when no record is
// held; load failures never fail a token lookup, the authenticator falls
// through to a network exchange instead.
type TokenStore interface {
	Load(ctx context.Context) (*Token, error)
	Save(ctx context.Context, tok *Token) error
}

// RefreshReason says why a refresh attempt started.
type RefreshReason string

const (
	// RefreshAutomatic covers refreshes triggered by expiry or first use.
	RefreshAutomatic RefreshReason = "automatic"

	// RefreshManual covers explicit invalidation (a 401 response or a
	// caller-forced refresh).
	RefreshManual RefreshReason = "manual"
)

// RefreshInfo is the observational payload passed to OnRefreshStart.
type RefreshInfo struct {
	Reason RefreshReason

	// SecondsUntilExpiration is the previous record's remaining lifetime,
	// negative when already expired, zero when no record was held.
	SecondsUntilExpiration float64
}

// Callbacks are advisory observer hooks around a refresh attempt, invoked
// in order: OnRefreshStart, then OnRefreshSuccess or OnRefreshFailure.
// They run on the refreshing goroutine after the outcome has been
// published, so they cannot block waiters or alter the result; panics are
// swallowed.
type Callbacks struct {
	OnRefreshStart   func(RefreshInfo)
	OnRefreshSuccess func(*Token)
	OnRefreshFailure func(error)
}

// Config configures an Authenticator.
type Config struct {
	// Flow is the grant strategy. Required.
	Flow Flow

	// Store persists records across processes. Optional.
	Store TokenStore

	// HTTPClient used for token-endpoint calls. Defaults to a client with
	// a 30 second timeout.
	HTTPClient *http.Client

	// Logger for auth events. Defaults to the global logger scoped to the
	// auth component.
	Logger *zerolog.Logger

	Callbacks Callbacks
}

// Authenticator acquires and renews tokens for one grant flow. It owns the
// in-memory token cache and serializes refreshes: concurrent callers that
// miss the cache share a single network exchange and observe its one
// outcome.
type Authenticator struct {
	flow      Flow
	store     TokenStore
	wire      *wire
	logger    zerolog.Logger
	callbacks Callbacks

	mu         sync.Mutex
	token      *Token
	refreshing *refreshCall
}

// refreshCall is one in-flight acquisition. Waiters block on done; token
// and err are set before done closes.
type refreshCall struct {
	done  chan struct{}
	token *Token
	err   error
}

// New creates an Authenticator for the given flow.
func New(cfg Config) (*Authenticator, error) {
	if cfg.Flow == nil {
		return nil, fmt.Errorf("%w: flow is required", ErrInvalidConfig)
	}
	if err := cfg.Flow.validate(); err != nil {
		return nil, err
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = log.With().Str("component", "auth").Logger()
	}
	logger = logger.With().Str("flow", cfg.Flow.Name()).Logger()

	return &Authenticator{
		flow:      cfg.Flow,
		store:     cfg.Store,
		wire:      &wire{hc: hc, logger: logger},
		logger:    logger,
		callbacks: cfg.Callbacks,
	}, nil
}

// Token returns a usable token, acquiring or renewing one as needed.
//
// Lookup order, first hit wins: the in-memory cache, the TokenStore record
// (promoted to cache), a network exchange. invalidatePrevious skips the
// first two and forces a network refresh; the previous record still
// supplies the refresh token. When a refresh is already in flight the call
// attaches to it instead of starting another.
func (a *Authenticator) Token(ctx context.Context, invalidatePrevious bool) (*Token, error) {
	a.mu.Lock()
	if !invalidatePrevious && a.token.Valid() {
		tok := a.token
		a.mu.Unlock()
		tokenLookupsTotal.WithLabelValues("memory").Inc()
		return tok, nil
	}

	if call := a.refreshing; call != nil {
		a.mu.Unlock()
		tokenLookupsTotal.WithLabelValues("attached").Inc()
		select {
		case <-call.done:
			return call.token, call.err
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for token refresh: %w", ctx.Err())
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	a.refreshing = call
	prev := a.token
	a.mu.Unlock()

	tok, err, refreshed := a.acquire(ctx, prev, invalidatePrevious)
	a.finish(call, tok, err, refreshed)
	return tok, err
}

// Exchange trades an authorization code for this flow's first token and
// publishes it to the cache and store. Only meaningful for the code and
// PKCE flows.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*Token, error) {
	call, err := a.begin(ctx)
	if err != nil {
		return nil, err
	}

	a.notifyStart(RefreshInfo{Reason: RefreshManual})
	start := time.Now()
	tok, xerr := a.flow.exchangeCode(ctx, a.wire, code)
	a.observeRefresh(start, xerr)

	if xerr == nil {
		a.persist(ctx, tok)
	}
	a.finish(call, tok, xerr, true)
	return tok, xerr
}

// begin waits out any in-flight acquisition, then installs a new one owned
// by the caller.
func (a *Authenticator) begin(ctx context.Context) (*refreshCall, error) {
	for {
		a.mu.Lock()
		if a.refreshing == nil {
			call := &refreshCall{done: make(chan struct{})}
			a.refreshing = call
			a.mu.Unlock()
			return call, nil
		}
		waiting := a.refreshing
		a.mu.Unlock()

		select {
		case <-waiting.done:
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for token refresh: %w", ctx.Err())
		}
	}
}

// acquire runs the owner's side of a lookup: store consult, then network.
// refreshed reports whether a network attempt was made (store promotions
// fire no lifecycle callbacks).
func (a *Authenticator) acquire(ctx context.Context, prev *Token, invalidate bool) (tok *Token, err error, refreshed bool) {
	if a.store != nil {
		stored, serr := a.store.Load(ctx)
		if serr != nil {
			a.logger.Warn().Err(serr).Msg("Token store read failed; refreshing over the network")
		}
		if stored != nil {
			if !invalidate && stored.Valid() {
				tokenLookupsTotal.WithLabelValues("store").Inc()
				a.logger.Debug().Time("expires_at", stored.ExpiresAt).Msg("Promoted stored token to cache")
				return stored, nil, false
			}
			// Expired or invalidated records still carry the refresh token.
			if prev == nil {
				prev = stored
			}
		}
	}

	reason := RefreshAutomatic
	if invalidate {
		reason = RefreshManual
	}
	info := RefreshInfo{Reason: reason}
	if prev != nil {
		info.SecondsUntilExpiration = prev.TTL().Seconds()
	}
	a.notifyStart(info)

	start := time.Now()
	if prev != nil && prev.RefreshToken != "" {
		tok, err = a.flow.refresh(ctx, a.wire, prev)
	} else {
		tok, err = a.flow.exchange(ctx, a.wire)
	}
	a.observeRefresh(start, err)

	if err != nil {
		return nil, err, true
	}

	a.persist(ctx, tok)
	return tok, nil, true
}

// finish publishes the outcome: cache update, waiter release, then
// callbacks. The cache slot is replaced wholesale, never mutated in place.
func (a *Authenticator) finish(call *refreshCall, tok *Token, err error, refreshed bool) {
	a.mu.Lock()
	if err == nil {
		a.token = tok
	}
	a.refreshing = nil
	a.mu.Unlock()

	call.token, call.err = tok, err
	close(call.done)

	if !refreshed {
		return
	}
	if err == nil {
		a.notifySuccess(tok)
	} else {
		a.notifyFailure(err)
	}
}

// persist saves tok to the store. Persistence failures are logged and
// swallowed; the fresh token is still served.
func (a *Authenticator) persist(ctx context.Context, tok *Token) {
	if a.store == nil {
		return
	}
	if err := a.store.Save(ctx, tok); err != nil {
		a.logger.Warn().Err(err).Msg("Token store write failed")
	}
}

func (a *Authenticator) observeRefresh(start time.Time, err error) {
	tokenRefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		tokenRefreshesTotal.WithLabelValues(a.flow.Name(), "failure").Inc()
		a.logger.Warn().Err(err).Msg("Token refresh failed")
		return
	}
	tokenRefreshesTotal.WithLabelValues(a.flow.Name(), "success").Inc()
	a.logger.Info().Msg("Token refreshed")
}

func (a *Authenticator) notifyStart(info RefreshInfo) {
	if a.callbacks.OnRefreshStart == nil {
		return
	}
	defer swallowPanic(a.logger)
	a.callbacks.OnRefreshStart(info)
}

func (a *Authenticator) notifySuccess(tok *Token) {
	if a.callbacks.OnRefreshSuccess == nil {
		return
	}
	defer swallowPanic(a.logger)
	a.callbacks.OnRefreshSuccess(tok)
}

func (a *Authenticator) notifyFailure(err error) {
	if a.callbacks.OnRefreshFailure == nil {
		return
	}
	defer swallowPanic(a.logger)
	a.callbacks.OnRefreshFailure(err)
}

func swallowPanic(logger zerolog.Logger) {
	if r := recover(); r != nil {
		logger.Error().Interface("panic", r).Msg("Refresh callback panicked")
	}
}
