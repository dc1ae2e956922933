package services

import "fmt"

// ValidationError reports the first violated constraint of a request.
// It is raised before any filtering or scoring runs.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UpstreamError wraps a failure of a required collaborator (the listing
// store). It is fatal to the request, unlike the optional summarizer.
type UpstreamError struct {
	Dependency string
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
