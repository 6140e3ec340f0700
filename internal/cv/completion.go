package cv

import "strings"

// Complete reports whether a section's required fields are filled in.
//
// Repeating sections check only the first entry. That is a deliberate
// simplification carried over from the product: the first entry is treated as
// representative of whether the user has started the section.
func Complete(d Document, s Section) bool {
	switch s {
	case SectionPersonal:
		return filled(d.Personal.FirstName) &&
			filled(d.Personal.LastName) &&
			filled(d.Personal.Email) &&
			filled(d.Personal.Phone)
	case SectionEducation:
		if len(d.Education) == 0 {
			return false
		}
		first := d.Education[0]
		return filled(first.School) && filled(first.Degree)
	case SectionExperience:
		if len(d.Experience) == 0 {
			return false
		}
		first := d.Experience[0]
		return filled(first.Company) && filled(first.Role)
	case SectionProjects:
		for _, p := range d.Projects {
			if filled(p.Name) {
				return true
			}
		}
		return false
	case SectionSkills:
		return len(d.Skills) > 0 && filled(d.Skills[0])
	default:
		return false
	}
}

// CompletionMap computes completion for every section.
func CompletionMap(d Document) map[Section]bool {
	out := make(map[Section]bool, len(sectionOrder))
	for _, s := range sectionOrder {
		out[s] = Complete(d, s)
	}
	return out
}

func filled(s string) bool { return strings.TrimSpace(s) != "" }
