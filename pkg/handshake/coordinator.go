package handshake

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/promptpal/promptpal-go/pkg/credstore"
	"github.com/promptpal/promptpal-go/pkg/logger"
)

// State is a phase of one authentication attempt.
type State string

const (
	StateIdle         State = "idle"
	StateWindowOpened State = "window_opened"
	StateResolved     State = "resolved"
	StateRejected     State = "rejected"
)

// Result is the outcome of a resolved attempt.
type Result struct {
	Token string
	User  *credstore.User
}

type settled struct {
	result *Result
	err    error
}

// attempt is the per-invocation state: its gate guarantees the pending
// attempt settles exactly once no matter how many completion sources fire.
// window is nil until the opener returns; both the assignment and the read
// in settle happen under the coordinator mutex.
type attempt struct {
	window  Window
	once    sync.Once
	outcome chan settled
	done    chan struct{}
}

// Coordinator runs popup-style OAuth attempts. One attempt may be pending at
// a time; messages delivered while no attempt is pending are dropped.
type Coordinator struct {
	provider Provider
	opener   Opener
	creds    *credstore.Manager
	fallback FallbackStore
	clock    credstore.Clock
	logger   *slog.Logger
	config   Config

	mu      sync.Mutex
	state   State
	current *attempt
}

// NewCoordinator creates a Coordinator. The provider supplies the consent
// URL, the opener creates the secondary window, and successful handshakes
// are persisted into creds.
func NewCoordinator(provider Provider, opener Opener, creds *credstore.Manager, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		provider: provider,
		opener:   opener,
		creds:    creds,
		fallback: NewMemoryFallback(),
		clock:    credstore.SystemClock(),
		logger:   logger.Discard(),
		config:   DefaultConfig(),
		state:    StateIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns the coordinator's current phase.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Fallback exposes the fallback store so the callback relay can share it.
func (c *Coordinator) Fallback() FallbackStore {
	return c.fallback
}

// Authenticate opens the provider window and blocks until the handshake
// settles or ctx is done. The pending attempt settles exactly once: whichever
// of message delivery and closure polling fires first wins.
func (c *Coordinator) Authenticate(ctx context.Context) (*Result, error) {
	if !secureOrigin(c.config.Origin) {
		return nil, fmt.Errorf("%w: origin %q", ErrInsecureContext, c.config.Origin)
	}

	att := &attempt{
		outcome: make(chan settled, 1),
		done:    make(chan struct{}),
	}

	// Claim the pending slot before opening the window so a concurrent
	// Authenticate cannot pass the guard during the open call.
	c.mu.Lock()
	if c.current != nil {
		c.mu.Unlock()
		return nil, ErrAttemptInProgress
	}
	c.current = att
	c.mu.Unlock()

	window, err := c.opener.Open(c.provider.AuthURL(newState()))
	if err != nil || window == nil {
		c.mu.Lock()
		if c.current == att {
			c.current = nil
		}
		c.mu.Unlock()
		return nil, ErrWindowBlocked
	}

	c.mu.Lock()
	att.window = window
	if c.current == att {
		c.state = StateWindowOpened
	}
	c.mu.Unlock()

	// A delivery may have settled the attempt while the window was opening;
	// settle saw no window then, so close the late one here.
	select {
	case <-att.done:
		window.Close()
	default:
	}

	go c.watchClosure(att)

	select {
	case out := <-att.outcome:
		return out.result, out.err
	case <-ctx.Done():
		c.settle(att, func(context.Context) (*Result, error) {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, ctx.Err())
		})
		out := <-att.outcome
		return out.result, out.err
	}
}

// Deliver feeds one handshake message to the pending attempt. Messages with
// a mismatched origin or an unrecognized type are dropped without settling;
// everything else resolves or rejects the attempt.
func (c *Coordinator) Deliver(origin string, env Envelope) {
	c.mu.Lock()
	att := c.current
	c.mu.Unlock()
	if att == nil {
		return
	}

	if origin != c.config.Origin {
		// Exact match only; a foreign origin is noise, not an error.
		c.logger.Debug("dropping handshake message from foreign origin",
			logger.Component("handshake"),
			slog.String("origin", origin),
		)
		return
	}

	if !fresh(env.Timestamp, c.config.Freshness, c.clock.Now()) {
		c.settle(att, func(context.Context) (*Result, error) {
			return nil, ErrExpired
		})
		return
	}

	switch env.Type {
	case TypeAuthSuccess:
		c.settle(att, func(ctx context.Context) (*Result, error) {
			if env.Token == "" || env.User == nil || env.User.ID == "" || env.User.Email == "" {
				return nil, ErrInvalidAuthData
			}
			if err := c.creds.SetSession(ctx, env.Token, "", env.User); err != nil {
				return nil, err
			}
			return &Result{Token: env.Token, User: env.User}, nil
		})

	case TypeLinkSuccess:
		c.settle(att, func(ctx context.Context) (*Result, error) {
			if env.User == nil || env.User.ID == "" || env.User.Email == "" {
				return nil, ErrInvalidAuthData
			}
			if err := c.creds.SetUser(ctx, env.User); err != nil {
				return nil, err
			}
			return &Result{User: env.User}, nil
		})

	case TypeAuthError, TypeLinkError:
		c.settle(att, func(context.Context) (*Result, error) {
			if env.Error == "" {
				return nil, ErrProviderError
			}
			return nil, fmt.Errorf("%w: %s", ErrProviderError, env.Error)
		})

	default:
		// Not a handshake message; leave the attempt pending.
	}
}

// watchClosure polls the window and finishes the attempt when the user
// closed it without completing the handshake.
func (c *Coordinator) watchClosure(att *attempt) {
	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-att.done:
			return
		case <-ticker.C:
			if !att.window.Closed() {
				continue
			}

			c.settle(att, func(ctx context.Context) (*Result, error) {
				payload, err := c.fallback.Read(ctx)
				if err != nil {
					c.logger.Warn("fallback store read failed",
						logger.Component("handshake"),
						logger.Error(err),
					)
					return nil, ErrCancelled
				}

				if payload.valid(c.config.Freshness, c.clock.Now()) {
					if err := c.creds.SetSession(ctx, payload.Token, "", payload.User); err != nil {
						return nil, err
					}
					return &Result{Token: payload.Token, User: payload.User}, nil
				}
				return nil, ErrCancelled
			})
			return
		}
	}
}

// settle runs fn for the first caller only and finishes the attempt with its
// outcome. Cleanup — closing the window, stopping the poller, deleting the
// fallback key — happens exactly once; later callers are no-ops.
func (c *Coordinator) settle(att *attempt, fn func(ctx context.Context) (*Result, error)) {
	att.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		result, err := fn(ctx)

		if clearErr := c.fallback.Clear(ctx); clearErr != nil {
			c.logger.Warn("failed to clear handshake fallback",
				logger.Component("handshake"),
				logger.Error(clearErr),
			)
		}

		close(att.done)

		c.mu.Lock()
		window := att.window
		c.current = nil
		if err != nil {
			c.state = StateRejected
		} else {
			c.state = StateResolved
		}
		c.mu.Unlock()

		if window != nil {
			window.Close()
		}

		att.outcome <- settled{result: result, err: err}
	})
}
