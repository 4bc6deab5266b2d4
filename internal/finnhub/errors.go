package finnhub

import (
	"fmt"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
)

// ProviderError is returned for every failed provider call.
// It matches apperrors.ErrProviderUnavailable as well as the underlying cause.
type ProviderError struct {
	Symbol     string
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *ProviderError) Error() string {
	target := e.Endpoint
	if e.Symbol != "" {
		target += " " + e.Symbol
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("quote provider %s: status %d: %v", target, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("quote provider %s: %v", target, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	return []error{apperrors.ErrProviderUnavailable, e.Err}
}
