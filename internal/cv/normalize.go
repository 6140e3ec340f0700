package cv

import "time"

// Normalize converts a raw stored document (possibly nil or partially
// populated) into the fully-populated shape the forms expect. Nil input yields
// an empty document with fresh timestamps; nil array fields are coerced to
// empty arrays; the completion map defaults to empty. Normalize is idempotent.
func Normalize(raw *Document) Document {
	if raw == nil {
		now := time.Now().UTC()
		return Document{
			Education:  []EducationEntry{},
			Experience: []ExperienceEntry{},
			Projects:   []ProjectEntry{},
			Skills:     []string{},
			Completion: map[Section]bool{},
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	doc := *raw
	doc.Education = normalizeEducation(raw.Education)
	doc.Experience = normalizeExperience(raw.Experience)
	doc.Projects = normalizeProjects(raw.Projects)

	doc.Skills = make([]string, len(raw.Skills))
	copy(doc.Skills, raw.Skills)

	doc.Completion = make(map[Section]bool, len(raw.Completion))
	for k, v := range raw.Completion {
		doc.Completion[k] = v
	}

	return doc
}

// Stored data can arrive already violating the single-current invariant (e.g.
// two entries flagged current). Normalization repairs it by keeping the first
// current entry and clearing the rest.
func normalizeEducation(entries []EducationEntry) []EducationEntry {
	out := make([]EducationEntry, len(entries))
	copy(out, entries)
	seen := false
	for i := range out {
		if out[i].Current {
			if seen {
				out[i].Current = false
			}
			seen = true
		}
	}
	return out
}

func normalizeExperience(entries []ExperienceEntry) []ExperienceEntry {
	out := make([]ExperienceEntry, len(entries))
	copy(out, entries)
	seen := false
	for i := range out {
		if out[i].Current {
			if seen {
				out[i].Current = false
			}
			seen = true
		}
	}
	return out
}

func normalizeProjects(entries []ProjectEntry) []ProjectEntry {
	out := make([]ProjectEntry, len(entries))
	copy(out, entries)
	seen := false
	for i := range out {
		if out[i].Current {
			if seen {
				out[i].Current = false
			}
			seen = true
		}
	}
	return out
}
