package agreement

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTemplate means neither a company template nor a configured
	// default document id could be resolved. This is a configuration
	// problem, not a generation failure.
	ErrNoTemplate = errors.New("no agreement template available: register a company template or set AGREEMENT_TEMPLATE_DOC_ID")

	// ErrAlreadyProcessing guards against concurrent generations for the
	// same employee: the status row is already claimed by another request.
	ErrAlreadyProcessing = errors.New("agreement generation already in progress for this employee")

	ErrEmployeeNotFound = errors.New("employee not found")
)

// RenderError reports a failure of the fallback renderer. By the time it
// is raised the provider path has already failed, so there is nothing
// left to fall back to; the provider error is carried for diagnostics.
type RenderError struct {
	Err         error
	ProviderErr error
}

func (e *RenderError) Error() string {
	if e.ProviderErr != nil {
		return fmt.Sprintf("fallback render failed: %v (after provider failure: %v)", e.Err, e.ProviderErr)
	}
	return fmt.Sprintf("fallback render failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
