package credstore

import "time"

// User is the cached account record returned by the API. It is overwritten on
// every successful login, registration, OTP verification, token refresh, or
// profile fetch, and cleared on logout.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username,omitempty"`
	GoogleID string `json:"googleId,omitempty"`

	// IsEmailVerified is set by completing the OTP flow; IsVerified can be
	// granted by admin action independently. Both are inspected separately.
	IsEmailVerified bool `json:"isEmailVerified"`
	IsVerified      bool `json:"isVerified"`

	Avatar  string   `json:"avatar,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
}

// Profile holds the optional public profile attached to a user record.
type Profile struct {
	Bio      string      `json:"bio,omitempty"`
	DOB      string      `json:"dob,omitempty"`
	Gender   string      `json:"gender,omitempty"`
	Location string      `json:"location,omitempty"`
	Social   SocialLinks `json:"socialLinks,omitempty"`
}

// SocialLinks holds optional links to external profiles.
type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Artifact is a single persisted value with its expiry. Stores persist
// artifacts verbatim; expiry is enforced by the Manager against its Clock.
type Artifact struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Clock abstracts time for testable expiry checks.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}
