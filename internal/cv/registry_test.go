package cv

import (
	"errors"
	"testing"
)

func TestSectionOrderNavigation(t *testing.T) {
	next, ok, err := Next(SectionPersonal)
	if err != nil {
		t.Fatalf("Next(personal): %v", err)
	}
	if !ok || next != SectionEducation {
		t.Fatalf("Next(personal) = %q ok=%v, want education", next, ok)
	}

	if _, ok, err := Next(SectionSkills); err != nil || ok {
		t.Fatalf("Next(skills) = ok=%v err=%v, want none", ok, err)
	}

	if _, ok, err := Previous(SectionPersonal); err != nil || ok {
		t.Fatalf("Previous(personal) = ok=%v err=%v, want none", ok, err)
	}

	prev, ok, err := Previous(SectionSkills)
	if err != nil {
		t.Fatalf("Previous(skills): %v", err)
	}
	if !ok || prev != SectionProjects {
		t.Fatalf("Previous(skills) = %q ok=%v, want projects", prev, ok)
	}
}

func TestUnknownSectionIsConfigurationError(t *testing.T) {
	if _, _, err := Next(Section("banana")); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("Next(banana) err = %v, want ErrUnknownSection", err)
	}
	if _, err := DisplayName(Section("")); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("DisplayName(\"\") err = %v, want ErrUnknownSection", err)
	}
	if _, err := ParseSection("skill"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("ParseSection(skill) err = %v, want ErrUnknownSection", err)
	}
}

func TestDisplayNames(t *testing.T) {
	for _, s := range Sections() {
		name, err := DisplayName(s)
		if err != nil {
			t.Fatalf("DisplayName(%s): %v", s, err)
		}
		if name == "" {
			t.Fatalf("DisplayName(%s) is empty", s)
		}
	}
}

func TestIsLast(t *testing.T) {
	if !IsLast(SectionSkills) {
		t.Fatal("skills should be the last section")
	}
	if IsLast(SectionPersonal) {
		t.Fatal("personal should not be the last section")
	}
}
