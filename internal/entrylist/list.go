// Package entrylist manages the repeated-entry state of an array-valued CV
// section: stable per-entry identity, single-open accordion expansion, and the
// mutually-exclusive "current" flag. All operations are synchronous, in-memory
// and free of side effects beyond the state the list owns.
package entrylist

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrIndexOutOfRange signals an entry index outside the list.
	ErrIndexOutOfRange = errors.New("entry index out of range")
	// ErrCurrentConflict signals an attempt to mark an entry current while
	// another entry already is. Enforced as a precondition; the caller is
	// expected to disable the control upstream, not rely on auto-correction.
	ErrCurrentConflict = errors.New("another entry is already marked current")
)

// Options configures a List for a concrete entry type. Template is required.
// Current and SetCurrent are nil for sections without a current flag.
type Options[T any] struct {
	Template   func() T
	Current    func(T) bool
	SetCurrent func(T, bool) T
}

// List holds the entries of one array-valued section keyed by opaque ids, so
// removing entry i never reassigns which entry is expanded.
type List[T any] struct {
	opts     Options[T]
	keys     []string
	entries  []T
	expanded string
}

// New builds a list seeded with the given entries. An empty seed renders as a
// single blank template entry so the section is never visually empty.
func New[T any](opts Options[T], seed []T) *List[T] {
	l := &List[T]{opts: opts}
	if len(seed) == 0 {
		l.entries = []T{opts.Template()}
		l.keys = []string{uuid.NewString()}
		return l
	}
	l.entries = make([]T, len(seed))
	copy(l.entries, seed)
	l.keys = make([]string, len(seed))
	for i := range l.keys {
		l.keys[i] = uuid.NewString()
	}
	return l
}

// Len returns the number of entries.
func (l *List[T]) Len() int { return len(l.entries) }

// Entries returns a copy of the backing entries in order.
func (l *List[T]) Entries() []T {
	out := make([]T, len(l.entries))
	copy(out, l.entries)
	return out
}

// Keys returns the stable entry keys in order.
func (l *List[T]) Keys() []string {
	out := make([]string, len(l.keys))
	copy(out, l.keys)
	return out
}

// Entry returns the entry at index.
func (l *List[T]) Entry(index int) (T, error) {
	var zero T
	if index < 0 || index >= len(l.entries) {
		return zero, ErrIndexOutOfRange
	}
	return l.entries[index], nil
}

// Update replaces the entry at index with value.
func (l *List[T]) Update(index int, value T) error {
	if index < 0 || index >= len(l.entries) {
		return ErrIndexOutOfRange
	}
	l.entries[index] = value
	return nil
}

// Append adds a blank template entry at the end, expands exactly that entry
// and returns its key.
func (l *List[T]) Append() string {
	key := uuid.NewString()
	l.keys = append(l.keys, key)
	l.entries = append(l.entries, l.opts.Template())
	l.expanded = key
	return key
}

// Remove deletes the entry at index. If the removed entry was the expanded
// one, no entry remains force-expanded. The swap is performed on fresh slices
// so callers never observe an intermediate state.
func (l *List[T]) Remove(index int) error {
	if index < 0 || index >= len(l.entries) {
		return ErrIndexOutOfRange
	}

	removedKey := l.keys[index]

	entries := make([]T, 0, len(l.entries)-1)
	entries = append(entries, l.entries[:index]...)
	entries = append(entries, l.entries[index+1:]...)

	keys := make([]string, 0, len(l.keys)-1)
	keys = append(keys, l.keys[:index]...)
	keys = append(keys, l.keys[index+1:]...)

	if len(entries) == 0 {
		entries = append(entries, l.opts.Template())
		keys = append(keys, uuid.NewString())
	}

	l.entries = entries
	l.keys = keys
	if l.expanded == removedKey {
		l.expanded = ""
	}
	return nil
}

// Expanded returns the key of the expanded entry, or ok=false when none is.
func (l *List[T]) Expanded() (string, bool) {
	if l.expanded == "" {
		return "", false
	}
	return l.expanded, true
}

// Expand marks the entry with the given key as the single open one.
func (l *List[T]) Expand(key string) error {
	for _, k := range l.keys {
		if k == key {
			l.expanded = key
			return nil
		}
	}
	return ErrIndexOutOfRange
}

// SetCurrent flags the entry at index as current (or clears it). Setting true
// is refused when another entry already holds the flag.
func (l *List[T]) SetCurrent(index int, value bool) error {
	if l.opts.Current == nil || l.opts.SetCurrent == nil {
		return errors.New("section has no current flag")
	}
	if index < 0 || index >= len(l.entries) {
		return ErrIndexOutOfRange
	}
	if value {
		for i, e := range l.entries {
			if i != index && l.opts.Current(e) {
				return ErrCurrentConflict
			}
		}
	}
	l.entries[index] = l.opts.SetCurrent(l.entries[index], value)
	return nil
}

// CurrentIndex returns the index of the current entry, or ok=false.
func (l *List[T]) CurrentIndex() (int, bool) {
	if l.opts.Current == nil {
		return 0, false
	}
	for i, e := range l.entries {
		if l.opts.Current(e) {
			return i, true
		}
	}
	return 0, false
}
