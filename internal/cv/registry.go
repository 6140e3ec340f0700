package cv

import (
	"errors"
	"fmt"
)

// Section identifies one of the five fixed CV sections. The declaration order
// below is the wizard order and defines next/previous navigation.
type Section string

const (
	SectionPersonal   Section = "personal"
	SectionEducation  Section = "education"
	SectionExperience Section = "experience"
	SectionProjects   Section = "projects"
	SectionSkills     Section = "skills"
)

// ErrUnknownSection signals a section identifier outside the closed enum.
// It indicates a programming error, not a runtime condition to recover from.
var ErrUnknownSection = errors.New("unknown section")

var sectionOrder = []Section{
	SectionPersonal,
	SectionEducation,
	SectionExperience,
	SectionProjects,
	SectionSkills,
}

var sectionNames = map[Section]string{
	SectionPersonal:   "Personal Info",
	SectionEducation:  "Education",
	SectionExperience: "Experience",
	SectionProjects:   "Projects",
	SectionSkills:     "Skills",
}

// Sections returns the fixed wizard order.
func Sections() []Section {
	out := make([]Section, len(sectionOrder))
	copy(out, sectionOrder)
	return out
}

// ParseSection validates a raw identifier against the enum.
func ParseSection(raw string) (Section, error) {
	s := Section(raw)
	if _, ok := sectionNames[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, raw)
	}
	return s, nil
}

// DisplayName returns the human-readable name for a section.
func DisplayName(s Section) (string, error) {
	name, ok := sectionNames[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return name, nil
}

// Next returns the section after s, or ok=false when s is last.
func Next(s Section) (Section, bool, error) {
	idx, err := position(s)
	if err != nil {
		return "", false, err
	}
	if idx == len(sectionOrder)-1 {
		return "", false, nil
	}
	return sectionOrder[idx+1], true, nil
}

// Previous returns the section before s, or ok=false when s is first.
func Previous(s Section) (Section, bool, error) {
	idx, err := position(s)
	if err != nil {
		return "", false, err
	}
	if idx == 0 {
		return "", false, nil
	}
	return sectionOrder[idx-1], true, nil
}

// IsLast reports whether s is the final wizard section.
func IsLast(s Section) bool {
	return len(sectionOrder) > 0 && s == sectionOrder[len(sectionOrder)-1]
}

func position(s Section) (int, error) {
	for i, candidate := range sectionOrder {
		if candidate == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSection, s)
}
