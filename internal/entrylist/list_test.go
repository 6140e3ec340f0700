package entrylist

import (
	"errors"
	"testing"

	"cvbuilder-backend/internal/cv"
)

func educationList(seed []cv.EducationEntry) *List[cv.EducationEntry] {
	return New(Options[cv.EducationEntry]{
		Template: cv.EmptyEducationEntry,
		Current:  func(e cv.EducationEntry) bool { return e.Current },
		SetCurrent: func(e cv.EducationEntry, v bool) cv.EducationEntry {
			e.Current = v
			return e
		},
	}, seed)
}

func TestNewEmptyListRendersOneBlankEntry(t *testing.T) {
	l := educationList(nil)
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1", l.Len())
	}
	entry, err := l.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0): %v", err)
	}
	if entry.School != "" || entry.Degree != "" {
		t.Fatalf("seed entry not blank: %#v", entry)
	}
}

func TestAppendExpandsOnlyNewEntry(t *testing.T) {
	l := educationList([]cv.EducationEntry{{School: "MIT"}})

	key := l.Append()
	if l.Len() != 2 {
		t.Fatalf("len = %d, want 2", l.Len())
	}
	expanded, ok := l.Expanded()
	if !ok || expanded != key {
		t.Fatalf("expanded = %q ok=%v, want new key %q", expanded, ok, key)
	}

	second := l.Append()
	expanded, _ = l.Expanded()
	if expanded != second {
		t.Fatalf("expanded = %q, want latest key %q", expanded, second)
	}
}

func TestRemoveKeepsStableIdentity(t *testing.T) {
	l := educationList([]cv.EducationEntry{{School: "A"}, {School: "B"}, {School: "C"}})
	keys := l.Keys()

	if err := l.Expand(keys[2]); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if err := l.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	// Entry "C" keeps its key and stays expanded even though its index moved.
	expanded, ok := l.Expanded()
	if !ok || expanded != keys[2] {
		t.Fatalf("expanded = %q ok=%v, want %q", expanded, ok, keys[2])
	}
	got := l.Keys()
	if len(got) != 2 || got[0] != keys[1] || got[1] != keys[2] {
		t.Fatalf("keys = %v, want %v", got, keys[1:])
	}
}

func TestRemoveExpandedEntryClearsExpansion(t *testing.T) {
	l := educationList(nil)
	l.Append()
	if err := l.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok := l.Expanded(); ok {
		t.Fatal("no entry should remain force-expanded after removing the expanded one")
	}
}

func TestAppendThenRemoveReturnsToBlankDefault(t *testing.T) {
	l := educationList(nil)
	if err := l.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if l.Len() != 1 {
		t.Fatalf("len = %d, want 1 (list never renders empty)", l.Len())
	}
	entry, _ := l.Entry(0)
	if entry.School != "" {
		t.Fatalf("replacement entry not blank: %#v", entry)
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	l := educationList(nil)
	if err := l.Remove(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
	if err := l.Remove(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("err = %v, want ErrIndexOutOfRange", err)
	}
}

func TestSetCurrentExclusivity(t *testing.T) {
	l := educationList([]cv.EducationEntry{{School: "A"}, {School: "B"}})

	if err := l.SetCurrent(0, true); err != nil {
		t.Fatalf("SetCurrent(0): %v", err)
	}
	if idx, ok := l.CurrentIndex(); !ok || idx != 0 {
		t.Fatalf("CurrentIndex = %d ok=%v, want 0", idx, ok)
	}

	// The second entry must be refused, not silently cleared.
	if err := l.SetCurrent(1, true); !errors.Is(err, ErrCurrentConflict) {
		t.Fatalf("err = %v, want ErrCurrentConflict", err)
	}
	if idx, _ := l.CurrentIndex(); idx != 0 {
		t.Fatalf("current moved to %d, precondition should refuse", idx)
	}

	// Clearing the flag frees the other entry.
	if err := l.SetCurrent(0, false); err != nil {
		t.Fatalf("SetCurrent(0,false): %v", err)
	}
	if err := l.SetCurrent(1, true); err != nil {
		t.Fatalf("SetCurrent(1) after clear: %v", err)
	}
}

func TestSetCurrentSameEntryIsIdempotent(t *testing.T) {
	l := educationList([]cv.EducationEntry{{School: "A"}})
	if err := l.SetCurrent(0, true); err != nil {
		t.Fatalf("SetCurrent: %v", err)
	}
	if err := l.SetCurrent(0, true); err != nil {
		t.Fatalf("re-setting the same entry should not conflict: %v", err)
	}
}
