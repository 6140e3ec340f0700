package wizard

import (
	"context"

	"cvbuilder-backend/internal/cv"
)

// SectionPersister is the external document-update collaborator. It receives
// only the changed section's payload, never the whole document, and returns
// the updated stored document.
type SectionPersister interface {
	UpdateSection(ctx context.Context, userID, documentID string, payload cv.SectionPayload) (cv.Document, error)
}

// Options tunes wizard behavior.
type Options struct {
	// AllowSkipWhenClean lets the forward action skip a clean section even if
	// it was never completed.
	AllowSkipWhenClean bool
}

// Wizard drives a document's multi-section form flow. It owns the single
// current-section cursor; only the current section is interactive.
type Wizard struct {
	userID      string
	documentID  string
	persister   SectionPersister
	opts        Options
	current     cv.Section
	finished    bool
	controllers map[cv.Section]*Controller
}

// Open builds a wizard over a normalized document, seeding each section's
// defaults and completion from the stored record.
func Open(doc cv.Document, userID string, persister SectionPersister, opts Options) (*Wizard, error) {
	w := &Wizard{
		userID:      userID,
		documentID:  doc.ID,
		persister:   persister,
		opts:        opts,
		current:     cv.Sections()[0],
		controllers: make(map[cv.Section]*Controller),
	}
	for _, s := range cv.Sections() {
		defaults, err := cv.FormData(doc, s)
		if err != nil {
			return nil, err
		}
		c, err := newController(s, defaults, cv.Complete(doc, s), opts.AllowSkipWhenClean)
		if err != nil {
			return nil, err
		}
		w.controllers[s] = c
	}
	return w, nil
}

// Current returns the active section.
func (w *Wizard) Current() cv.Section { return w.current }

// Finished reports whether the terminal Finish action was taken.
func (w *Wizard) Finished() bool { return w.finished }

// Controller exposes one section's controller, mainly for tests.
func (w *Wizard) Controller(s cv.Section) *Controller { return w.controllers[s] }

// Edit applies a form snapshot to the active section. Payloads for any other
// section are rejected: only one section is interactive at a time.
func (w *Wizard) Edit(p cv.SectionPayload) error {
	if p.Kind() != w.current {
		return ErrSectionMismatch
	}
	return w.controllers[w.current].Edit(p)
}

// Next runs the forward action for the active section:
//   - dirty and valid: persist the section payload, then advance
//   - clean and skippable: advance without any persistence call
//   - anything else: refused
//
// A persist failure leaves the section dirty-valid with edits intact and
// surfaces a PersistenceError; it never propagates past this boundary as a
// crash of sibling sections.
func (w *Wizard) Next(ctx context.Context) error {
	c := w.controllers[w.current]
	if c.pending {
		return ErrPersistPending
	}

	switch {
	case c.canSubmit():
		c.pending = true
		doc, err := w.persister.UpdateSection(ctx, w.userID, w.documentID, c.Values())
		c.pending = false
		if err != nil {
			return &PersistenceError{Err: err}
		}
		if err := w.adoptPersisted(c, doc); err != nil {
			return err
		}
		w.advance()
		return nil
	case c.shouldSkip():
		w.advance()
		return nil
	default:
		return ErrSubmitDisabled
	}
}

// Back navigates to the previous section. It never persists or validates and
// is a no-op on the first section.
func (w *Wizard) Back() {
	prev, ok, err := cv.Previous(w.current)
	if err != nil || !ok {
		return
	}
	w.finished = false
	w.current = prev
}

// SaveChanges persists the active section without advancing. Offered only for
// sections that were previously completed and are dirty again.
func (w *Wizard) SaveChanges(ctx context.Context) error {
	c := w.controllers[w.current]
	if c.pending {
		return ErrPersistPending
	}
	if !c.canSaveChanges() {
		return ErrSubmitDisabled
	}

	c.pending = true
	doc, err := w.persister.UpdateSection(ctx, w.userID, w.documentID, c.Values())
	c.pending = false
	if err != nil {
		return &PersistenceError{Err: err}
	}
	return w.adoptPersisted(c, doc)
}

// Reconcile folds a freshly fetched document into every section without
// discarding in-progress edits (dirty values win over incoming defaults).
func (w *Wizard) Reconcile(doc cv.Document) error {
	for _, s := range cv.Sections() {
		defaults, err := cv.FormData(doc, s)
		if err != nil {
			return err
		}
		if err := w.controllers[s].reconcile(defaults, cv.Complete(doc, s)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Wizard) adoptPersisted(c *Controller, doc cv.Document) error {
	defaults, err := cv.FormData(doc, c.section)
	if err != nil {
		return err
	}
	return c.resetToPersisted(defaults, cv.Complete(doc, c.section))
}

func (w *Wizard) advance() {
	next, ok, err := cv.Next(w.current)
	if err != nil {
		return
	}
	if !ok {
		w.finished = true
		return
	}
	w.current = next
}

// SectionStatus summarizes one section for the wizard's progress strip.
type SectionStatus struct {
	Section     cv.Section `json:"section"`
	DisplayName string     `json:"displayName"`
	State       string     `json:"state"`
	Active      bool       `json:"active"`
}

// WizardView is the full wizard state exposed to the presentation layer.
type WizardView struct {
	DocumentID string          `json:"documentId"`
	Current    cv.Section      `json:"current"`
	Finished   bool            `json:"finished"`
	HasBack    bool            `json:"hasBack"`
	Sections   []SectionStatus `json:"sections"`
	Active     View            `json:"active"`
}

// View renders the wizard for the presentation layer.
func (w *Wizard) View() WizardView {
	statuses := make([]SectionStatus, 0, len(w.controllers))
	for _, s := range cv.Sections() {
		name, _ := cv.DisplayName(s)
		statuses = append(statuses, SectionStatus{
			Section:     s,
			DisplayName: name,
			State:       w.controllers[s].State().String(),
			Active:      s == w.current,
		})
	}
	_, hasBack, _ := cv.Previous(w.current)
	return WizardView{
		DocumentID: w.documentID,
		Current:    w.current,
		Finished:   w.finished,
		HasBack:    hasBack,
		Sections:   statuses,
		Active:     w.controllers[w.current].view(cv.IsLast(w.current)),
	}
}
