package cv

import "testing"

func TestValidPhone(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"07123456789", true},   // 11 digits, leading 0
		{"1234567890", true},    // 10 digits
		{"+447123456789", true}, // 12 digits international
		{"447123456789", true},  // 12 digits without plus
		{"123", false},          // too short
		{"071234567890123", false},
		{"07123 456 789", true}, // separators stripped
		{"(071) 234-5678-9", true},
		{"07123a456789", false}, // letters rejected
		{"", false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			if got := ValidPhone(tc.raw); got != tc.want {
				t.Fatalf("ValidPhone(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestValidatePersonal(t *testing.T) {
	valid := PersonalPayload{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "07123456789",
	}
	if errs := ValidateSection(valid); !errs.Valid() {
		t.Fatalf("expected valid personal payload, got %v", errs)
	}

	invalid := PersonalPayload{
		FirstName: "Ada",
		Email:     "not-an-email",
		Phone:     "123",
		Website:   "::/bad",
	}
	errs := ValidateSection(invalid)
	if errs.Valid() {
		t.Fatal("expected validation errors")
	}
	for _, key := range []string{"lastName", "email", "phone", "website"} {
		if _, ok := errs[key]; !ok {
			t.Fatalf("expected error for %s, got %v", key, errs)
		}
	}
	if _, ok := errs["firstName"]; ok {
		t.Fatalf("unexpected error for firstName: %v", errs)
	}
}

func TestValidateEducationDates(t *testing.T) {
	entry := EducationEntry{
		School:    "MIT",
		Degree:    "BSc",
		StartDate: "2019-09-01",
	}

	// End date required while not current.
	errs := ValidateSection(EducationPayload{entry})
	if _, ok := errs["education[0].endDate"]; !ok {
		t.Fatalf("expected endDate error, got %v", errs)
	}

	// End date ignored once current is set.
	entry.Current = true
	if errs := ValidateSection(EducationPayload{entry}); !errs.Valid() {
		t.Fatalf("expected valid current entry, got %v", errs)
	}

	// Malformed dates rejected.
	entry.Current = false
	entry.EndDate = "2021/06/30"
	errs = ValidateSection(EducationPayload{entry})
	if _, ok := errs["education[0].endDate"]; !ok {
		t.Fatalf("expected endDate format error, got %v", errs)
	}

	entry.StartDate = "Sept 2019"
	errs = ValidateSection(EducationPayload{entry})
	if _, ok := errs["education[0].startDate"]; !ok {
		t.Fatalf("expected startDate format error, got %v", errs)
	}
}

func TestValidateEducationMissingDegree(t *testing.T) {
	entry := EducationEntry{
		School:    "MIT",
		StartDate: "2019-09-01",
		EndDate:   "2021-06-30",
	}
	errs := ValidateSection(EducationPayload{entry})
	if msg, ok := errs["education[0].degree"]; !ok || msg == "" {
		t.Fatalf("expected degree error, got %v", errs)
	}

	entry.Degree = "BSc"
	if errs := ValidateSection(EducationPayload{entry}); !errs.Valid() {
		t.Fatalf("expected valid entry once degree filled, got %v", errs)
	}
}

func TestValidateExperienceSecondEntryKeyed(t *testing.T) {
	entries := ExperiencePayload{
		{Company: "Acme", Role: "Engineer", StartDate: "2020-01-01", Current: true},
		{Company: "Globex", StartDate: "2018-01-01", EndDate: "2019-12-31"},
	}
	errs := ValidateSection(entries)
	if _, ok := errs["experience[1].role"]; !ok {
		t.Fatalf("expected role error on second entry, got %v", errs)
	}
	if _, ok := errs["experience[0].role"]; ok {
		t.Fatalf("unexpected error on first entry: %v", errs)
	}
}

func TestValidateProjects(t *testing.T) {
	errs := ValidateSection(ProjectsPayload{{Link: "https://example.com"}})
	if _, ok := errs["projects[0].name"]; !ok {
		t.Fatalf("expected project name error, got %v", errs)
	}
	if errs := ValidateSection(ProjectsPayload{{Name: "CV Builder"}}); !errs.Valid() {
		t.Fatalf("expected valid project, got %v", errs)
	}
}

func TestValidateSkills(t *testing.T) {
	if errs := ValidateSection(SkillsPayload{}); errs.Valid() {
		t.Fatal("empty skills should be invalid")
	}
	if errs := ValidateSection(SkillsPayload{"  "}); errs.Valid() {
		t.Fatal("blank-only skills should be invalid")
	}
	if errs := ValidateSection(SkillsPayload{"Go"}); !errs.Valid() {
		t.Fatalf("expected valid skills, got %v", errs)
	}
}
