package handshake_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptpal/promptpal-go/pkg/credstore"
	"github.com/promptpal/promptpal-go/pkg/handshake"
)

const testOrigin = "https://promptpal.app"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type fixture struct {
	coordinator *handshake.Coordinator
	creds       *credstore.Manager
	window      *handshake.StubWindow
	clock       *fakeClock
	fallback    *handshake.MemoryFallback
}

type staticProvider struct{}

func (staticProvider) AuthURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func newFixture(t *testing.T, opts ...handshake.CoordinatorOption) *fixture {
	t.Helper()

	f := &fixture{
		window:   handshake.NewStubWindow(),
		clock:    &fakeClock{now: time.Now()},
		fallback: handshake.NewMemoryFallback(),
	}
	f.creds = credstore.New(credstore.NewMemoryStore())
	t.Cleanup(func() { _ = f.creds.Close() })

	opener := handshake.OpenerFunc(func(url string) (handshake.Window, error) {
		return f.window, nil
	})

	base := []handshake.CoordinatorOption{
		handshake.WithOrigin(testOrigin),
		handshake.WithClock(f.clock),
		handshake.WithFallback(f.fallback),
		handshake.WithPollInterval(5 * time.Millisecond),
	}
	f.coordinator = handshake.NewCoordinator(staticProvider{}, opener, f.creds, append(base, opts...)...)
	return f
}

// authenticate starts an attempt and returns a channel with its outcome.
func (f *fixture) authenticate(ctx context.Context) <-chan struct {
	result *handshake.Result
	err    error
} {
	ch := make(chan struct {
		result *handshake.Result
		err    error
	}, 1)

	go func() {
		result, err := f.coordinator.Authenticate(ctx)
		ch <- struct {
			result *handshake.Result
			err    error
		}{result, err}
	}()

	// Wait for the attempt to actually open the window.
	for range 200 {
		if f.coordinator.State() == handshake.StateWindowOpened {
			break
		}
		time.Sleep(time.Millisecond)
	}
	return ch
}

func validUser() *credstore.User {
	return &credstore.User{ID: "u1", Email: "a@b.com", Name: "A", GoogleID: "g-1"}
}

func TestAuthenticate_ResolvesOnValidSuccessMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	outcome := f.authenticate(ctx)

	f.coordinator.Deliver(testOrigin, handshake.Envelope{
		Type:      handshake.TypeAuthSuccess,
		Token:     "oauth-token",
		User:      validUser(),
		Timestamp: f.clock.Now().UnixMilli(),
	})

	out := <-outcome
	require.NoError(t, out.err)
	assert.Equal(t, "oauth-token", out.result.Token)
	assert.Equal(t, "u1", out.result.User.ID)
	assert.Equal(t, handshake.StateResolved, f.coordinator.State())

	// The session is persisted and the window force-closed.
	assert.True(t, f.creds.IsAuthenticated(ctx))
	assert.True(t, f.window.Closed())
}

func TestAuthenticate_RejectsSuccessMissingUserEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outcome := f.authenticate(context.Background())

	user := validUser()
	user.Email = ""

	f.coordinator.Deliver(testOrigin, handshake.Envelope{
		Type:  handshake.TypeAuthSuccess,
		Token: "oauth-token",
		User:  user,
	})

	out := <-outcome
	assert.ErrorIs(t, out.err, handshake.ErrInvalidAuthData)
	assert.Equal(t, handshake.StateRejected, f.coordinator.State())
	assert.False(t, f.creds.IsAuthenticated(context.Background()))
}

func TestAuthenticate_IgnoresForeignOrigin(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outcome := f.authenticate(context.Background())

	// A message from the wrong origin neither resolves nor rejects.
	f.coordinator.Deliver("https://evil.example.com", handshake.Envelope{
		Type:  handshake.TypeAuthSuccess,
		Token: "stolen",
		User:  validUser(),
	})

	select {
	case <-outcome:
		t.Fatal("attempt settled on a foreign-origin message")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, handshake.StateWindowOpened, f.coordinator.State())

	// The same payload from the right origin still works.
	f.coordinator.Deliver(testOrigin, handshake.Envelope{
		Type:  handshake.TypeAuthSuccess,
		Token: "token",
		User:  validUser(),
	})
	out := <-outcome
	require.NoError(t, out.err)
}

func TestAuthenticate_RejectsExpiredTimestampRegardlessOfType(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outcome := f.authenticate(context.Background())

	// Well-formed success payload, but 31 seconds old.
	f.coordinator.Deliver(testOrigin, handshake.Envelope{
		Type:      handshake.TypeAuthSuccess,
		Token:     "token",
		User:      validUser(),
		Timestamp: f.clock.Now().Add(-31 * time.Second).UnixMilli(),
	})

	out := <-outcome
	assert.ErrorIs(t, out.err, handshake.ErrExpired)
	assert.False(t, f.creds.IsAuthenticated(context.Background()))
}

func TestAuthenticate_RejectsOnErrorMessage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outcome := f.authenticate(context.Background())

	f.coordinator.Deliver(testOrigin, handshake.Envelope{
		Type:  handshake.TypeAuthError,
		Error: "access denied by user",
	})

	out := <-outcome
	require.ErrorIs(t, out.err, handshake.ErrProviderError)
	assert.Contains(t, out.err.Error(), "access denied by user")
}

func TestAuthenticate_WindowClosedWithValidFallback(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	outcome := f.authenticate(ctx)

	require.NoError(t, f.fallback.Write(ctx, &handshake.FallbackPayload{
		Source:    handshake.FallbackSource,
		Token:     "fallback-token",
		User:      validUser(),
		Timestamp: f.clock.Now().UnixMilli(),
	}))

	f.window.Close()

	out := <-outcome
	require.NoError(t, out.err)
	assert.Equal(t, "fallback-token", out.result.Token)
	assert.True(t, f.creds.IsAuthenticated(ctx))

	// The handoff is single-use.
	payload, err := f.fallback.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestAuthenticate_WindowClosedWithoutFallbackIsCancelled(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outcome := f.authenticate(context.Background())

	f.window.Close()

	out := <-outcome
	assert.ErrorIs(t, out.err, handshake.ErrCancelled)
	assert.Equal(t, handshake.StateRejected, f.coordinator.State())
}

func TestAuthenticate_StaleFallbackIsCancelled(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	outcome := f.authenticate(ctx)

	require.NoError(t, f.fallback.Write(ctx, &handshake.FallbackPayload{
		Source:    handshake.FallbackSource,
		Token:     "late-token",
		User:      validUser(),
		Timestamp: f.clock.Now().Add(-31 * time.Second).UnixMilli(),
	}))

	f.window.Close()

	out := <-outcome
	assert.ErrorIs(t, out.err, handshake.ErrCancelled)

	payload, err := f.fallback.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestAuthenticate_SettlesExactlyOnceUnderRace(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outcome := f.authenticate(context.Background())

	// Fire the two completion sources and a burst of duplicate messages
	// at the same time; exactly one settlement must win.
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		f.window.Close()
	}()
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.coordinator.Deliver(testOrigin, handshake.Envelope{
				Type:  handshake.TypeAuthSuccess,
				Token: "token",
				User:  validUser(),
			})
		}()
	}
	wg.Wait()

	out := <-outcome
	// Either path may win; both are legitimate single settlements.
	if out.err != nil {
		assert.ErrorIs(t, out.err, handshake.ErrCancelled)
	} else {
		assert.Equal(t, "token", out.result.Token)
	}

	// No second outcome ever arrives.
	select {
	case <-outcome:
		t.Fatal("attempt settled twice")
	case <-time.After(50 * time.Millisecond):
	}

	state := f.coordinator.State()
	assert.Contains(t, []handshake.State{handshake.StateResolved, handshake.StateRejected}, state)
}

func TestAuthenticate_InsecureContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, handshake.WithOrigin("http://promptpal.app"))

	_, err := f.coordinator.Authenticate(context.Background())
	assert.ErrorIs(t, err, handshake.ErrInsecureContext)
	assert.Equal(t, handshake.StateIdle, f.coordinator.State())
}

func TestAuthenticate_LoopbackOriginIsSecure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, handshake.WithOrigin("http://localhost:3000"))
	outcome := f.authenticate(context.Background())

	f.coordinator.Deliver("http://localhost:3000", handshake.Envelope{
		Type:  handshake.TypeAuthSuccess,
		Token: "token",
		User:  validUser(),
	})

	out := <-outcome
	assert.NoError(t, out.err)
}

func TestAuthenticate_WindowBlocked(t *testing.T) {
	t.Parallel()

	creds := credstore.New(credstore.NewMemoryStore())
	t.Cleanup(func() { _ = creds.Close() })

	blocked := handshake.OpenerFunc(func(url string) (handshake.Window, error) {
		return nil, errors.New("blocked by browser")
	})
	c := handshake.NewCoordinator(staticProvider{}, blocked, creds, handshake.WithOrigin(testOrigin))

	_, err := c.Authenticate(context.Background())
	assert.ErrorIs(t, err, handshake.ErrWindowBlocked)
}

func TestAuthenticate_ContextCancellation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	outcome := f.authenticate(ctx)

	cancel()

	out := <-outcome
	assert.ErrorIs(t, out.err, handshake.ErrCancelled)
	assert.True(t, f.window.Closed())
}

func TestAuthenticate_SecondAttemptWhilePending(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	outcome := f.authenticate(context.Background())

	_, err := f.coordinator.Authenticate(context.Background())
	assert.ErrorIs(t, err, handshake.ErrAttemptInProgress)

	f.coordinator.Deliver(testOrigin, handshake.Envelope{
		Type:  handshake.TypeAuthSuccess,
		Token: "token",
		User:  validUser(),
	})
	<-outcome
}

func TestAuthenticate_GuardHoldsWhileWindowOpening(t *testing.T) {
	t.Parallel()

	creds := credstore.New(credstore.NewMemoryStore())
	t.Cleanup(func() { _ = creds.Close() })

	entered := make(chan struct{}, 2)
	release := make(chan struct{})
	var opens atomic.Int32

	// The opener parks inside Open so a second Authenticate runs while the
	// first is still between the guard and the window assignment.
	opener := handshake.OpenerFunc(func(url string) (handshake.Window, error) {
		opens.Add(1)
		entered <- struct{}{}
		<-release
		return handshake.NewStubWindow(), nil
	})

	coordinator := handshake.NewCoordinator(staticProvider{}, opener, creds,
		handshake.WithOrigin(testOrigin),
		handshake.WithPollInterval(5*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := make(chan error, 1)
	go func() {
		_, err := coordinator.Authenticate(ctx)
		first <- err
	}()

	<-entered

	_, err := coordinator.Authenticate(ctx)
	require.ErrorIs(t, err, handshake.ErrAttemptInProgress)
	assert.Equal(t, int32(1), opens.Load())

	close(release)
	cancel()
	require.ErrorIs(t, <-first, handshake.ErrCancelled)
}

func TestDeliver_WithoutPendingAttemptIsDropped(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	assert.NotPanics(t, func() {
		f.coordinator.Deliver(testOrigin, handshake.Envelope{
			Type:  handshake.TypeAuthSuccess,
			Token: "token",
			User:  validUser(),
		})
	})
	assert.Equal(t, handshake.StateIdle, f.coordinator.State())
}

func TestStoreFallback_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := handshake.NewStoreFallback(credstore.NewMemoryStore(), time.Minute)

	payload := &handshake.FallbackPayload{
		Source:    handshake.FallbackSource,
		Token:     "t",
		User:      validUser(),
		Timestamp: time.Now().UnixMilli(),
	}
	require.NoError(t, store.Write(ctx, payload))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, payload.Token, got.Token)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Read(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
