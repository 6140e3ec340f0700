package cv

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field path (e.g. "email", "education[0].degree") to a
// human-readable message. An empty map means the payload is valid.
type FieldErrors map[string]string

// Valid reports whether no field failed validation.
func (e FieldErrors) Valid() bool { return len(e) == 0 }

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report field names from json tags so error keys match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "isodate", func(fl validator.FieldLevel) bool {
		return isoDatePattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validator: %v", tag, err))
	}
}

// ValidPhone applies the permissive phone heuristic: after stripping common
// separators and a leading +, the value must be digits only with length 10,
// length 11 with a leading 0 (trunk prefix), or length 11-12 (international).
func ValidPhone(raw string) bool {
	stripped := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(strings.TrimSpace(raw))
	stripped = strings.TrimPrefix(stripped, "+")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	switch {
	case len(stripped) == 10:
		return true
	case len(stripped) == 11 && stripped[0] == '0':
		return true
	case len(stripped) >= 11 && len(stripped) <= 12:
		return true
	default:
		return false
	}
}

// ValidateSection checks a payload against its section's schema and returns
// per-field messages. Pure: same input always yields the same verdict.
func ValidateSection(p SectionPayload) FieldErrors {
	errs := FieldErrors{}
	switch v := p.(type) {
	case PersonalPayload:
		collectStructErrors(errs, PersonalInfo(v), "")
	case EducationPayload:
		for i, entry := range v {
			if entry.Current {
				// End date is ignored while the entry is marked current.
				entry.EndDate = ""
			}
			collectStructErrors(errs, entry, fmt.Sprintf("education[%d].", i))
		}
	case ExperiencePayload:
		for i, entry := range v {
			if entry.Current {
				entry.EndDate = ""
			}
			collectStructErrors(errs, entry, fmt.Sprintf("experience[%d].", i))
		}
	case ProjectsPayload:
		for i, entry := range v {
			collectStructErrors(errs, entry, fmt.Sprintf("projects[%d].", i))
		}
	case SkillsPayload:
		if !hasNonEmpty(v) {
			errs["skills"] = "Add at least one skill"
		}
	}
	return errs
}

func hasNonEmpty(values []string) bool {
	for _, s := range values {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

func collectStructErrors(out FieldErrors, s any, prefix string) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out[prefix+"_"] = err.Error()
		return
	}
	for _, fe := range verrs {
		key := prefix + fe.Field()
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = messageFor(fe)
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_unless":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "url":
		return "Enter a valid URL"
	case "isodate":
		return "Use the format YYYY-MM-DD"
	case "phone":
		return "Enter a valid phone number"
	default:
		return "Invalid value"
	}
}
