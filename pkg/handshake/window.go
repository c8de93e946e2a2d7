package handshake

import "sync/atomic"

// Window is a handle to the secondary browsing context hosting the
// provider's consent screen.
type Window interface {
	// Closed reports whether the window has gone away, by user action or
	// by Close
	Closed() bool

	// Close force-closes the window; closing an already-closed window is
	// a no-op
	Close()
}

// Opener creates a Window pointed at the given URL. Returning an error means
// the window could not be created at all (the popup-blocked case).
type Opener interface {
	Open(url string) (Window, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(url string) (Window, error)

func (f OpenerFunc) Open(url string) (Window, error) { return f(url) }

// StubWindow is a Window whose closed state is flipped externally. It backs
// integrations that cannot observe the real window (e.g. a system browser
// tab) as well as tests.
type StubWindow struct {
	closed atomic.Bool
}

// NewStubWindow returns an open stub window.
func NewStubWindow() *StubWindow {
	return &StubWindow{}
}

func (w *StubWindow) Closed() bool {
	return w.closed.Load()
}

func (w *StubWindow) Close() {
	w.closed.Store(true)
}
