package credstore

import "errors"

var (
	// ErrNotFound indicates the requested artifact is absent or expired
	ErrNotFound = errors.New("credstore.not_found")

	// ErrMalformedUser indicates the persisted user record could not be decoded
	ErrMalformedUser = errors.New("credstore.malformed_user")

	// ErrNoStore indicates the manager was constructed without a store
	ErrNoStore = errors.New("credstore.no_store")

	// ErrNoSecret indicates the file store was given an empty encryption secret
	ErrNoSecret = errors.New("credstore.no_secret")

	// ErrSecretTooShort indicates the file store secret is below the minimum length
	ErrSecretTooShort = errors.New("credstore.secret_too_short")

	// ErrDecryptionFailed indicates the file store payload could not be decrypted
	ErrDecryptionFailed = errors.New("credstore.decryption_failed")

	// ErrInvalidFormat indicates the file store payload is structurally invalid
	ErrInvalidFormat = errors.New("credstore.invalid_format")
)
