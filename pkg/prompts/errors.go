package prompts

import "errors"

var (
	// ErrNotFound indicates no prompt exists with the requested ID
	ErrNotFound = errors.New("prompts.not_found")

	// ErrNotOwner indicates a write was attempted on someone else's prompt
	ErrNotOwner = errors.New("prompts.not_owner")

	// ErrEmptyID indicates an operation was called without a prompt ID
	ErrEmptyID = errors.New("prompts.empty_id")

	// ErrInvalidPrompt indicates a create request failed local validation
	ErrInvalidPrompt = errors.New("prompts.invalid_prompt")
)
