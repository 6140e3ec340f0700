package entrylist

import "errors"

// ErrLastBulletRow signals an attempt to remove the only remaining bullet row.
var ErrLastBulletRow = errors.New("cannot remove the last bullet row")

// Bullets is the ordered free-text list attached to an entry's description.
// It always keeps at least one (possibly empty) editable row.
type Bullets []string

// NormalizeBullets guarantees at least one row.
func NormalizeBullets(rows []string) Bullets {
	if len(rows) == 0 {
		return Bullets{""}
	}
	out := make(Bullets, len(rows))
	copy(out, rows)
	return out
}

// AddRow appends an empty row.
func (b Bullets) AddRow() Bullets {
	return append(b, "")
}

// RemoveRow deletes the row at index. Removing the last remaining row is
// refused; the UI hides the delete control in that case.
func (b Bullets) RemoveRow(index int) (Bullets, error) {
	if len(b) <= 1 {
		return b, ErrLastBulletRow
	}
	if index < 0 || index >= len(b) {
		return b, ErrIndexOutOfRange
	}
	out := make(Bullets, 0, len(b)-1)
	out = append(out, b[:index]...)
	out = append(out, b[index+1:]...)
	return out, nil
}

// SetRow replaces the text of one row.
func (b Bullets) SetRow(index int, text string) (Bullets, error) {
	if index < 0 || index >= len(b) {
		return b, ErrIndexOutOfRange
	}
	out := make(Bullets, len(b))
	copy(out, b)
	out[index] = text
	return out, nil
}
