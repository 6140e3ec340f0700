package wizard

import (
	"context"
	"errors"
	"testing"

	"cvbuilder-backend/internal/cv"
)

// fakePersister applies section payloads to an in-memory document.
type fakePersister struct {
	doc      cv.Document
	calls    int
	fail     error
	onUpdate func(p cv.SectionPayload)
}

func (f *fakePersister) UpdateSection(ctx context.Context, userID, documentID string, p cv.SectionPayload) (cv.Document, error) {
	f.calls++
	if f.onUpdate != nil {
		f.onUpdate(p)
	}
	if f.fail != nil {
		return cv.Document{}, f.fail
	}
	f.doc.Apply(p)
	f.doc.Completion = cv.CompletionMap(f.doc)
	return cv.Normalize(&f.doc), nil
}

func validPersonal() cv.PersonalPayload {
	return cv.PersonalPayload{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "07123456789",
	}
}

func openWizard(t *testing.T, doc cv.Document, persister SectionPersister, opts Options) *Wizard {
	t.Helper()
	w, err := Open(cv.Normalize(&doc), "user-1", persister, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w
}

func TestEmptyDocumentFillPersonalAndAdvance(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{})

	if w.Current() != cv.SectionPersonal {
		t.Fatalf("current = %s, want personal", w.Current())
	}
	if state := w.Controller(cv.SectionPersonal).State(); state != CleanIncomplete {
		t.Fatalf("state = %s, want clean-incomplete", state)
	}

	// Empty required form cannot advance.
	if err := w.Next(context.Background()); !errors.Is(err, ErrSubmitDisabled) {
		t.Fatalf("Next on empty personal = %v, want ErrSubmitDisabled", err)
	}

	if err := w.Edit(validPersonal()); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if state := w.Controller(cv.SectionPersonal).State(); state != DirtyValid {
		t.Fatalf("state = %s, want dirty-valid", state)
	}

	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if persister.calls != 1 {
		t.Fatalf("persister calls = %d, want 1", persister.calls)
	}
	if w.Current() != cv.SectionEducation {
		t.Fatalf("current = %s, want education", w.Current())
	}
}

func TestEducationSubmitBlockedUntilDegreeFilled(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{})
	if err := w.Edit(validPersonal()); err != nil {
		t.Fatalf("Edit personal: %v", err)
	}
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next past personal: %v", err)
	}

	entry := cv.EducationEntry{
		School:      "MIT",
		StartDate:   "2019-09-01",
		EndDate:     "2021-06-30",
		Description: cv.StringList{""},
	}
	if err := w.Edit(cv.EducationPayload{entry}); err != nil {
		t.Fatalf("Edit education: %v", err)
	}

	if err := w.Next(context.Background()); !errors.Is(err, ErrSubmitDisabled) {
		t.Fatalf("Next with missing degree = %v, want ErrSubmitDisabled", err)
	}
	view := w.View().Active
	if view.CanSubmit {
		t.Fatal("canSubmit should be false while invalid")
	}
	if _, ok := view.Errors["education[0].degree"]; !ok {
		t.Fatalf("expected inline degree error, got %v", view.Errors)
	}

	entry.Degree = "BSc"
	if err := w.Edit(cv.EducationPayload{entry}); err != nil {
		t.Fatalf("Edit with degree: %v", err)
	}
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next with degree: %v", err)
	}
	if w.Current() != cv.SectionExperience {
		t.Fatalf("current = %s, want experience", w.Current())
	}
}

func TestCleanCompleteSectionSkipsWithoutPersisting(t *testing.T) {
	doc := cv.Normalize(nil)
	doc.Personal = cv.PersonalInfo(validPersonal())
	persister := &fakePersister{doc: doc}
	w := openWizard(t, doc, persister, Options{AllowSkipWhenClean: true})

	if state := w.Controller(cv.SectionPersonal).State(); state != CleanComplete {
		t.Fatalf("state = %s, want clean-complete", state)
	}
	view := w.View().Active
	if !view.ShouldSkip {
		t.Fatal("clean-complete section should skip")
	}

	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if persister.calls != 0 {
		t.Fatalf("persister calls = %d, want 0 (pure navigation)", persister.calls)
	}
	if w.Current() != cv.SectionEducation {
		t.Fatalf("current = %s, want education", w.Current())
	}
}

func TestAllowSkipWhenCleanAdvancesIncompleteSection(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{AllowSkipWhenClean: true})

	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if persister.calls != 0 {
		t.Fatalf("persister calls = %d, want 0", persister.calls)
	}
	if w.Current() != cv.SectionEducation {
		t.Fatalf("current = %s, want education", w.Current())
	}
}

func TestPersistFailureKeepsEditsAndState(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil), fail: errors.New("store unavailable")}
	w := openWizard(t, persister.doc, persister, Options{})

	if err := w.Edit(validPersonal()); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	err := w.Next(context.Background())
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want PersistenceError", err)
	}

	// Section stays dirty-valid with edits preserved; wizard did not advance.
	c := w.Controller(cv.SectionPersonal)
	if state := c.State(); state != DirtyValid {
		t.Fatalf("state after failure = %s, want dirty-valid", state)
	}
	values, ok := c.Values().(cv.PersonalPayload)
	if !ok || values.FirstName != "Ada" {
		t.Fatalf("edits lost after failure: %#v", c.Values())
	}
	if w.Current() != cv.SectionPersonal {
		t.Fatalf("wizard advanced after failed persist")
	}
	if c.Pending() {
		t.Fatal("pending flag stuck after failure")
	}

	// A retry succeeds once the store recovers.
	persister.fail = nil
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("retry Next: %v", err)
	}
	if w.Current() != cv.SectionEducation {
		t.Fatalf("current = %s, want education", w.Current())
	}
}

func TestNextRefusedWhilePersistPending(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{})

	var reentrant error
	persister.onUpdate = func(cv.SectionPayload) {
		// A second submit arriving while the first persist is in flight.
		reentrant = w.Next(context.Background())
	}

	if err := w.Edit(validPersonal()); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !errors.Is(reentrant, ErrPersistPending) {
		t.Fatalf("reentrant Next = %v, want ErrPersistPending", reentrant)
	}
}

func TestSaveChangesPersistsWithoutAdvancing(t *testing.T) {
	doc := cv.Normalize(nil)
	doc.Personal = cv.PersonalInfo(validPersonal())
	persister := &fakePersister{doc: doc}
	w := openWizard(t, doc, persister, Options{})

	// Save Changes is hidden while the completed section is untouched.
	if err := w.SaveChanges(context.Background()); !errors.Is(err, ErrSubmitDisabled) {
		t.Fatalf("SaveChanges on clean section = %v, want ErrSubmitDisabled", err)
	}

	edited := validPersonal()
	edited.Location = "London"
	if err := w.Edit(edited); err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if !w.View().Active.CanSaveChanges {
		t.Fatal("canSaveChanges should be true for completed+dirty section")
	}

	if err := w.SaveChanges(context.Background()); err != nil {
		t.Fatalf("SaveChanges: %v", err)
	}
	if persister.calls != 1 {
		t.Fatalf("persister calls = %d, want 1", persister.calls)
	}
	if w.Current() != cv.SectionPersonal {
		t.Fatal("SaveChanges must not advance")
	}
	if state := w.Controller(cv.SectionPersonal).State(); state != CleanComplete {
		t.Fatalf("state after save = %s, want clean-complete", state)
	}
}

func TestBackIsPureNavigation(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{AllowSkipWhenClean: true})

	// No-op on the first section.
	w.Back()
	if w.Current() != cv.SectionPersonal {
		t.Fatalf("current = %s, want personal", w.Current())
	}

	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	w.Back()
	if w.Current() != cv.SectionPersonal {
		t.Fatalf("current = %s after back, want personal", w.Current())
	}
	if persister.calls != 0 {
		t.Fatalf("back triggered persistence: %d calls", persister.calls)
	}
}

func TestFinishOnLastSection(t *testing.T) {
	doc := cv.Normalize(nil)
	persister := &fakePersister{doc: doc}
	w := openWizard(t, doc, persister, Options{AllowSkipWhenClean: true})

	for range cv.Sections() {
		if err := w.Next(context.Background()); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if !w.Finished() {
		t.Fatal("wizard should be finished after the terminal action")
	}

	// The last section's clean forward action is relabeled and hidden.
	w2 := openWizard(t, doc, persister, Options{})
	for w2.Current() != cv.SectionSkills {
		w2.advance()
	}
	view := w2.View().Active
	if view.NextLabel != "Finish" {
		t.Fatalf("nextLabel = %q, want Finish", view.NextLabel)
	}
	if !view.ForwardHidden {
		t.Fatal("clean terminal forward action should be hidden")
	}
}

func TestReconcileKeepsDirtyValues(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{})

	edited := cv.PersonalPayload{FirstName: "Ada"}
	if err := w.Edit(edited); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	// A stale fetch resolves after the form mounted: incoming defaults carry a
	// different last name and email.
	fresh := cv.Normalize(nil)
	fresh.Personal = cv.PersonalInfo{FirstName: "Augusta", LastName: "King", Email: "ada@example.com"}
	if err := w.Reconcile(fresh); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	values, ok := w.Controller(cv.SectionPersonal).Values().(cv.PersonalPayload)
	if !ok {
		t.Fatalf("values type = %T", w.Controller(cv.SectionPersonal).Values())
	}
	if values.FirstName != "Ada" {
		t.Fatalf("firstName = %q, edited value must win", values.FirstName)
	}
	if values.LastName != "King" || values.Email != "ada@example.com" {
		t.Fatalf("untouched fields should adopt incoming defaults: %#v", values)
	}
}

func TestReconcileKeepsAddedEducationEntries(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{})

	if err := w.Edit(validPersonal()); err != nil {
		t.Fatalf("Edit personal: %v", err)
	}
	if err := w.Next(context.Background()); err != nil {
		t.Fatalf("Next past personal: %v", err)
	}

	entries := cv.EducationPayload{
		{School: "MIT", Degree: "BSc", StartDate: "2015-09-01", EndDate: "2019-06-30"},
		{School: "Stanford", Degree: "MSc", StartDate: "2019-09-01", Current: true},
	}
	if err := w.Edit(entries); err != nil {
		t.Fatalf("Edit education: %v", err)
	}

	// A stale fetch resolves with no education rows, so its defaults collapse
	// to the single blank template entry. The entry-count conflict must
	// resolve toward the edited side.
	if err := w.Reconcile(cv.Normalize(nil)); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	values, ok := w.Controller(cv.SectionEducation).Values().(cv.EducationPayload)
	if !ok {
		t.Fatalf("values type = %T", w.Controller(cv.SectionEducation).Values())
	}
	if len(values) != 2 || values[0].School != "MIT" || values[1].School != "Stanford" {
		t.Fatalf("in-progress entries lost on reconcile: %#v", values)
	}
}

func TestReconcileKeepsEditedSkills(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{AllowSkipWhenClean: true})

	for w.Current() != cv.SectionSkills {
		if err := w.Next(context.Background()); err != nil {
			t.Fatalf("Next to skills: %v", err)
		}
	}
	if err := w.Edit(cv.SkillsPayload{"Go", "PostgreSQL"}); err != nil {
		t.Fatalf("Edit skills: %v", err)
	}

	if err := w.Reconcile(cv.Normalize(nil)); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	values, ok := w.Controller(cv.SectionSkills).Values().(cv.SkillsPayload)
	if !ok {
		t.Fatalf("values type = %T", w.Controller(cv.SectionSkills).Values())
	}
	if len(values) != 2 || values[0] != "Go" || values[1] != "PostgreSQL" {
		t.Fatalf("edited skills lost on reconcile: %#v", values)
	}
}

func TestEditRejectsInactiveSection(t *testing.T) {
	persister := &fakePersister{doc: cv.Normalize(nil)}
	w := openWizard(t, persister.doc, persister, Options{})

	err := w.Edit(cv.SkillsPayload{"Go"})
	if !errors.Is(err, ErrSectionMismatch) {
		t.Fatalf("err = %v, want ErrSectionMismatch", err)
	}
}
