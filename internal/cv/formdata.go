package cv

// Per-section default-value builders. A repeating section whose stored array is
// empty yields exactly one blank template entry, never an empty array, so the
// form always has something to render.

// EmptyEducationEntry returns a blank education template entry.
func EmptyEducationEntry() EducationEntry {
	return EducationEntry{Description: StringList{""}}
}

// EmptyExperienceEntry returns a blank experience template entry.
func EmptyExperienceEntry() ExperienceEntry {
	return ExperienceEntry{Description: StringList{""}}
}

// EmptyProjectEntry returns a blank project template entry.
func EmptyProjectEntry() ProjectEntry {
	return ProjectEntry{Description: StringList{""}}
}

// PersonalFormData returns the personal section's form defaults.
func PersonalFormData(d Document) PersonalPayload {
	return PersonalPayload(d.Personal)
}

// EducationFormData returns education entries ready for rendering.
func EducationFormData(d Document) EducationPayload {
	if len(d.Education) == 0 {
		return EducationPayload{EmptyEducationEntry()}
	}
	out := make([]EducationEntry, len(d.Education))
	copy(out, d.Education)
	for i := range out {
		out[i].Description = normalizeDescription(out[i].Description)
	}
	return out
}

// ExperienceFormData returns experience entries ready for rendering.
func ExperienceFormData(d Document) ExperiencePayload {
	if len(d.Experience) == 0 {
		return ExperiencePayload{EmptyExperienceEntry()}
	}
	out := make([]ExperienceEntry, len(d.Experience))
	copy(out, d.Experience)
	for i := range out {
		out[i].Description = normalizeDescription(out[i].Description)
	}
	return out
}

// ProjectsFormData returns project entries ready for rendering.
func ProjectsFormData(d Document) ProjectsPayload {
	if len(d.Projects) == 0 {
		return ProjectsPayload{EmptyProjectEntry()}
	}
	out := make([]ProjectEntry, len(d.Projects))
	copy(out, d.Projects)
	for i := range out {
		out[i].Description = normalizeDescription(out[i].Description)
	}
	return out
}

// SkillsFormData returns the skill list with at least one editable row.
func SkillsFormData(d Document) SkillsPayload {
	if len(d.Skills) == 0 {
		return SkillsPayload{""}
	}
	out := make([]string, len(d.Skills))
	copy(out, d.Skills)
	return out
}

// FormData returns the defaults for any section.
func FormData(d Document, s Section) (SectionPayload, error) {
	switch s {
	case SectionPersonal:
		return PersonalFormData(d), nil
	case SectionEducation:
		return EducationFormData(d), nil
	case SectionExperience:
		return ExperienceFormData(d), nil
	case SectionProjects:
		return ProjectsFormData(d), nil
	case SectionSkills:
		return SkillsFormData(d), nil
	default:
		return nil, ErrUnknownSection
	}
}

// Bullet lists always render with at least one editable row; absent values
// become a one-element list containing an empty string.
func normalizeDescription(desc StringList) StringList {
	if len(desc) == 0 {
		return StringList{""}
	}
	out := make(StringList, len(desc))
	copy(out, desc)
	return out
}
