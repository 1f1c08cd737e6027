package ai

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse indicates a provider answered without usable content.
	ErrEmptyResponse = errors.New("provider returned empty response")

	// ErrNotConfigured indicates a provider is missing credentials or settings.
	ErrNotConfigured = errors.New("provider not configured")
)

// ProviderError wraps a failed call to an external AI provider.
type ProviderError struct {
	Provider string // e.g. "openai", "elevenlabs"
	Op       string // e.g. "embed", "transcribe", "synthesize", "answer"
	Err      error
}

// NewProviderError wraps err. A nil err yields nil.
func NewProviderError(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err came from an external provider.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
