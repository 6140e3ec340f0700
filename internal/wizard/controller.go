package wizard

import (
	"fmt"

	"cvbuilder-backend/internal/cv"
)

// State is a section form's position in its edit lifecycle.
type State int

const (
	CleanIncomplete State = iota
	CleanComplete
	DirtyValid
	DirtyInvalid
)

func (s State) String() string {
	switch s {
	case CleanIncomplete:
		return "clean-incomplete"
	case CleanComplete:
		return "clean-complete"
	case DirtyValid:
		return "dirty-valid"
	case DirtyInvalid:
		return "dirty-invalid"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Controller wraps one section's edit state: dirty/valid/completed flags plus
// the decision of whether the forward action persists, navigates, or both.
type Controller struct {
	section   cv.Section
	defaults  cv.SectionPayload
	values    cv.SectionPayload
	completed bool
	allowSkip bool
	pending   bool
}

func newController(section cv.Section, defaults cv.SectionPayload, completed, allowSkip bool) (*Controller, error) {
	values, err := clonePayload(defaults)
	if err != nil {
		return nil, err
	}
	return &Controller{
		section:   section,
		defaults:  defaults,
		values:    values,
		completed: completed,
		allowSkip: allowSkip,
	}, nil
}

// Section returns the section this controller owns.
func (c *Controller) Section() cv.Section { return c.section }

// Values returns the current edit state.
func (c *Controller) Values() cv.SectionPayload { return c.values }

// Edit replaces the section's edit state with a freshly submitted form
// snapshot. Validation runs on every edit, not just on submit.
func (c *Controller) Edit(p cv.SectionPayload) error {
	if p.Kind() != c.section {
		return ErrSectionMismatch
	}
	values, err := clonePayload(p)
	if err != nil {
		return err
	}
	c.values = values
	return nil
}

// IsDirty reports whether the edit state differs from the defaults.
func (c *Controller) IsDirty() bool {
	dirty, err := dirtyPaths(c.defaults, c.values)
	if err != nil {
		return true
	}
	return len(dirty) > 0
}

// IsValid reports whether the current edit state passes the section schema.
func (c *Controller) IsValid() bool {
	return cv.ValidateSection(c.values).Valid()
}

// Errors returns per-field messages for the current edit state. Errors are
// shown inline only once the user has touched the form.
func (c *Controller) Errors() cv.FieldErrors {
	if !c.IsDirty() {
		return cv.FieldErrors{}
	}
	return cv.ValidateSection(c.values)
}

// State derives the section's lifecycle state.
func (c *Controller) State() State {
	if !c.IsDirty() {
		if c.completed {
			return CleanComplete
		}
		return CleanIncomplete
	}
	if c.IsValid() {
		return DirtyValid
	}
	return DirtyInvalid
}

// Pending reports whether a persist call is in flight for this section.
func (c *Controller) Pending() bool { return c.pending }

// shouldSkip reports whether the forward action is pure navigation: the
// section is clean and either already complete or skipping clean sections is
// allowed.
func (c *Controller) shouldSkip() bool {
	if c.IsDirty() {
		return false
	}
	return c.completed || c.allowSkip
}

// canSubmit reports whether the forward action may persist.
func (c *Controller) canSubmit() bool {
	return !c.pending && c.State() == DirtyValid
}

// canSaveChanges reports whether the separate save-without-advancing action is
// offered: only for sections that were already completed and are dirty again.
func (c *Controller) canSaveChanges() bool {
	return !c.pending && c.completed && c.State() == DirtyValid
}

// resetToPersisted adopts freshly persisted data as the new clean baseline.
func (c *Controller) resetToPersisted(defaults cv.SectionPayload, completed bool) error {
	values, err := clonePayload(defaults)
	if err != nil {
		return err
	}
	c.defaults = defaults
	c.values = values
	c.completed = completed
	return nil
}

// reconcile merges freshly fetched defaults into the controller without
// discarding fields the user already edited: dirty fields win over incoming
// defaults, untouched fields adopt them.
func (c *Controller) reconcile(newDefaults cv.SectionPayload, completed bool) error {
	if newDefaults.Kind() != c.section {
		return ErrSectionMismatch
	}
	dirty, err := dirtyPaths(c.defaults, c.values)
	if err != nil {
		return err
	}
	merged, err := mergeKeepDirty(c.section, newDefaults, c.values, dirty)
	if err != nil {
		return err
	}
	c.defaults = newDefaults
	c.values = merged
	c.completed = completed
	return nil
}

// View is the controller state exposed to the presentation layer.
type View struct {
	Section        cv.Section        `json:"section"`
	DisplayName    string            `json:"displayName"`
	State          string            `json:"state"`
	IsDirty        bool              `json:"isDirty"`
	IsValid        bool              `json:"isValid"`
	CanSubmit      bool              `json:"canSubmit"`
	CanSaveChanges bool              `json:"canSaveChanges"`
	ShouldSkip     bool              `json:"shouldSkip"`
	NextLabel      string            `json:"nextLabel"`
	ForwardHidden  bool              `json:"forwardHidden"`
	Pending        bool              `json:"pending"`
	Errors         cv.FieldErrors    `json:"errors"`
	Values         cv.SectionPayload `json:"values"`
}

// view renders the controller for the presentation layer. last marks the final
// wizard section, which relabels the forward action and hides it when clean.
func (c *Controller) view(last bool) View {
	name, _ := cv.DisplayName(c.section)
	label := "Next"
	if last {
		label = "Finish"
	}
	return View{
		Section:        c.section,
		DisplayName:    name,
		State:          c.State().String(),
		IsDirty:        c.IsDirty(),
		IsValid:        c.IsValid(),
		CanSubmit:      c.canSubmit(),
		CanSaveChanges: c.canSaveChanges(),
		ShouldSkip:     c.shouldSkip(),
		NextLabel:      label,
		ForwardHidden:  last && !c.IsDirty(),
		Pending:        c.pending,
		Errors:         c.Errors(),
		Values:         c.values,
	}
}
