package gdocs

import "fmt"

// AuthError covers a missing or malformed service-account credential and
// rejected token exchanges. It is fatal for the generation attempt that
// raised it; the provider fallback is not taken for auth failures.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider auth: %s: %v", e.Reason, e.Err)
	}
	return "provider auth: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// ProviderError is any non-success response from the document provider,
// carrying the upstream status and body for diagnostics.
type ProviderError struct {
	Op     string
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: status %d: %s", e.Op, e.Status, e.Body)
}
