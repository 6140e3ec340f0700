package cv

import (
	"encoding/json"
	"time"
)

// Document is the aggregate a user edits: a CV split into five section payloads.
// A document is owned by exactly one user and is always deleted as a whole.
type Document struct {
	ID         string            `json:"id"`
	UserID     string            `json:"-"`
	Title      string            `json:"title"`
	Personal   PersonalInfo      `json:"personal"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Projects   []ProjectEntry    `json:"projects"`
	Skills     []string          `json:"skills"`
	Completion map[Section]bool  `json:"completion"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// PersonalInfo holds the single-valued personal section.
type PersonalInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
	Location  string `json:"location"`
	Summary   string `json:"summary"`
	Website   string `json:"website" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	GitHub    string `json:"github" validate:"omitempty,url"`
}

// EducationEntry is one row of the education section.
type EducationEntry struct {
	School      string     `json:"school" validate:"required"`
	Degree      string     `json:"degree" validate:"required"`
	Field       string     `json:"field"`
	StartDate   string     `json:"startDate" validate:"required,isodate"`
	EndDate     string     `json:"endDate" validate:"required_unless=Current true,omitempty,isodate"`
	Current     bool       `json:"current"`
	Location    string     `json:"location"`
	Description StringList `json:"description"`
}

// ExperienceEntry is one row of the experience section.
type ExperienceEntry struct {
	Company     string     `json:"company" validate:"required"`
	Role        string     `json:"role" validate:"required"`
	StartDate   string     `json:"startDate" validate:"required,isodate"`
	EndDate     string     `json:"endDate" validate:"required_unless=Current true,omitempty,isodate"`
	Current     bool       `json:"current"`
	Location    string     `json:"location"`
	Description StringList `json:"description"`
}

// ProjectEntry is one row of the projects section.
type ProjectEntry struct {
	Name        string     `json:"name" validate:"required"`
	Link        string     `json:"link" validate:"omitempty,url"`
	StartDate   string     `json:"startDate" validate:"omitempty,isodate"`
	EndDate     string     `json:"endDate" validate:"omitempty,isodate"`
	Current     bool       `json:"current"`
	Description StringList `json:"description"`
}

// StringList accepts both a JSON array of strings and a bare string.
// Older stored documents kept entry descriptions as a single string; those are
// lifted into a one-element list on decode.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = StringList{single}
	return nil
}

// SectionPayload is the tagged union of per-section form data. Exactly one
// concrete payload type exists per section; callers dispatch with an exhaustive
// type switch.
type SectionPayload interface {
	Kind() Section
}

// PersonalPayload carries the personal section.
type PersonalPayload PersonalInfo

// EducationPayload carries the education section entries.
type EducationPayload []EducationEntry

// ExperiencePayload carries the experience section entries.
type ExperiencePayload []ExperienceEntry

// ProjectsPayload carries the projects section entries.
type ProjectsPayload []ProjectEntry

// SkillsPayload carries the skill tag list.
type SkillsPayload []string

func (PersonalPayload) Kind() Section   { return SectionPersonal }
func (EducationPayload) Kind() Section  { return SectionEducation }
func (ExperiencePayload) Kind() Section { return SectionExperience }
func (ProjectsPayload) Kind() Section   { return SectionProjects }
func (SkillsPayload) Kind() Section     { return SectionSkills }

// PayloadOf extracts the stored payload for a section as-is, without the form
// defaults FormData adds.
func PayloadOf(d Document, s Section) (SectionPayload, error) {
	switch s {
	case SectionPersonal:
		return PersonalPayload(d.Personal), nil
	case SectionEducation:
		return EducationPayload(d.Education), nil
	case SectionExperience:
		return ExperiencePayload(d.Experience), nil
	case SectionProjects:
		return ProjectsPayload(d.Projects), nil
	case SectionSkills:
		return SkillsPayload(d.Skills), nil
	default:
		return nil, ErrUnknownSection
	}
}

// DecodePayload parses raw JSON into the concrete payload type for a section.
func DecodePayload(s Section, data []byte) (SectionPayload, error) {
	switch s {
	case SectionPersonal:
		var p PersonalPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case SectionEducation:
		var p EducationPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case SectionExperience:
		var p ExperiencePayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case SectionProjects:
		var p ProjectsPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case SectionSkills:
		var p SkillsPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, ErrUnknownSection
	}
}

// Apply writes the payload into its section of the document. Unknown payload
// kinds are a programming error and are ignored.
func (d *Document) Apply(p SectionPayload) {
	switch v := p.(type) {
	case PersonalPayload:
		d.Personal = PersonalInfo(v)
	case EducationPayload:
		d.Education = []EducationEntry(v)
	case ExperiencePayload:
		d.Experience = []ExperienceEntry(v)
	case ProjectsPayload:
		d.Projects = []ProjectEntry(v)
	case SkillsPayload:
		d.Skills = []string(v)
	}
}
