// ABOUTME: Error taxonomy for gallery interactions
// ABOUTME: Sentinels for auth, validation, and duplicate triggers plus upstream failures

package gallery

import (
	"errors"
	"fmt"

	"github.com/markalston/visionary-gallery/cli/internal/client"
)

var (
	// ErrAuthRequired means the action needs a signed-in user.
	ErrAuthRequired = errors.New("sign in required")
	// ErrValidation means the input was rejected before any request.
	ErrValidation = errors.New("invalid input")
	// ErrInFlight means the same action is already waiting on the gateway.
	ErrInFlight = errors.New("already in progress")
	// ErrFeedExhausted means the feed has no further pages to load.
	ErrFeedExhausted = errors.New("no more images")
	// ErrAlreadySaved means the generated image was saved before.
	ErrAlreadySaved = errors.New("image already saved")
)

// UpstreamError is a failed gateway call. Read distinguishes fetches from
// writes so the UI can word its notice.
type UpstreamError struct {
	Op     string
	Status int
	Read   bool
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// upstream classifies a gateway client error. A 401 means the stored token
// is gone or revoked, which callers treat like being signed out.
func upstream(op string, read bool, err error) error {
	if err == nil {
		return nil
	}
	if client.IsUnauthorized(err) {
		return fmt.Errorf("%s: %w", op, ErrAuthRequired)
	}
	ue := &UpstreamError{Op: op, Read: read, Err: err}
	var se *client.StatusError
	if errors.As(err, &se) {
		ue.Status = se.Status
	}
	return ue
}

// Notice renders an error as the one-line text shown in a toast.
func Notice(err error) string {
	var ue *UpstreamError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthRequired):
		return "Sign in to continue: run `visionary login`"
	case errors.Is(err, ErrInFlight):
		return "Still working on the last request"
	case errors.Is(err, ErrFeedExhausted):
		return "You've reached the end"
	case errors.Is(err, ErrValidation):
		return err.Error()
	case errors.As(err, &ue) && ue.Read:
		return "Failed to load " + ue.Op + ". Please try again."
	case errors.As(err, &ue):
		return "Failed to " + ue.Op + ". Please try again."
	default:
		return err.Error()
	}
}
