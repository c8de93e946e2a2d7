package session

// View names the façade navigates to.
const (
	ViewLogin     = "login"
	ViewDashboard = "dashboard"
	ViewVerifyOTP = "verify-otp"
)

// Route is a navigation target with the parameters the destination view
// needs to render.
type Route struct {
	View string

	// Email is the identifier carried to the OTP verification view; for a
	// username-only login it holds the username instead
	Email string

	// FromLogin distinguishes a verification reached from a login attempt
	// from one reached from fresh registration; the destination view shows
	// different success copy for each
	FromLogin bool
}

// Navigator performs navigation side effects on behalf of the façade.
type Navigator interface {
	Navigate(route Route)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route Route)

func (f NavigatorFunc) Navigate(route Route) { f(route) }

// NopNavigator discards navigation, for headless use of the façade.
type NopNavigator struct{}

func (NopNavigator) Navigate(Route) {}
