package entrylist

import (
	"errors"
	"strings"
)

// DefaultMaxSkills bounds the skill tag set unless configured otherwise.
const DefaultMaxSkills = 20

// ErrSkillLimit signals the tag set is at its configured capacity.
var ErrSkillLimit = errors.New("skill limit reached")

// SkillSet is a deduplicated set of free-text tags. Insertion order is
// preserved for display but carries no meaning.
type SkillSet struct {
	tags []string
	max  int
}

// NewSkillSet builds a set from existing tags, deduplicating and dropping
// blanks. max <= 0 selects DefaultMaxSkills.
func NewSkillSet(tags []string, max int) *SkillSet {
	if max <= 0 {
		max = DefaultMaxSkills
	}
	s := &SkillSet{max: max}
	for _, tag := range tags {
		_ = s.Add(tag)
	}
	return s
}

// Add inserts a tag. Duplicates (case-insensitive) and blanks are ignored
// without error; a full set returns ErrSkillLimit.
func (s *SkillSet) Add(tag string) error {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return nil
	}
	for _, existing := range s.tags {
		if strings.EqualFold(existing, trimmed) {
			return nil
		}
	}
	if len(s.tags) >= s.max {
		return ErrSkillLimit
	}
	s.tags = append(s.tags, trimmed)
	return nil
}

// RemoveAt deletes the tag at index.
func (s *SkillSet) RemoveAt(index int) error {
	if index < 0 || index >= len(s.tags) {
		return ErrIndexOutOfRange
	}
	s.tags = append(s.tags[:index], s.tags[index+1:]...)
	return nil
}

// Tags returns the tags in insertion order.
func (s *SkillSet) Tags() []string {
	out := make([]string, len(s.tags))
	copy(out, s.tags)
	return out
}

// Len returns the number of tags.
func (s *SkillSet) Len() int { return len(s.tags) }
