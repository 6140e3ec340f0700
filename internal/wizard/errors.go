package wizard

import "errors"

var (
	// ErrSubmitDisabled signals a forward action on a section whose state does
	// not allow it (invalid edits or empty required fields).
	ErrSubmitDisabled = errors.New("submit is disabled for the current section state")
	// ErrPersistPending signals a second submit while a persist call for the
	// same section is still in flight.
	ErrPersistPending = errors.New("a save is already in progress")
	// ErrSectionMismatch signals an edit payload for a section other than the
	// active one. Only one section is interactive at a time.
	ErrSectionMismatch = errors.New("payload does not match the active section")
	// ErrNoSession signals a wizard operation without an open session.
	ErrNoSession = errors.New("no wizard session open")
)

// PersistenceError wraps a failed external persist call. The section keeps its
// unsaved edits; the error is surfaced to the user and never rethrown past the
// controller boundary.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return "persist section failed"
	}
	return "persist section failed: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }
