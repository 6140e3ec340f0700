package entrylist

import "testing"

func TestFormatMonthYear(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2021-06-30", "Jun 2021"},
		{"2019-01-01", "Jan 2019"},
		{"not-a-date", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := FormatMonthYear(tc.in); got != tc.want {
			t.Fatalf("FormatMonthYear(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDerive(t *testing.T) {
	d := Derive("Acme", "Engineer", "2019-01-01", "2021-06-30", false)
	if d.Title != "Acme" {
		t.Fatalf("title = %q", d.Title)
	}
	if d.Subtitle != "Engineer | Jan 2019 - Jun 2021" {
		t.Fatalf("subtitle = %q", d.Subtitle)
	}

	d = Derive("Acme", "Engineer", "2019-01-01", "2021-06-30", true)
	if d.Subtitle != "Engineer | Jan 2019 - Current" {
		t.Fatalf("subtitle with current = %q", d.Subtitle)
	}

	d = Derive("Acme", "", "", "", false)
	if d.Subtitle != "" {
		t.Fatalf("subtitle for empty fields = %q", d.Subtitle)
	}

	d = Derive("Acme", "Engineer", "", "", false)
	if d.Subtitle != "Engineer" {
		t.Fatalf("subtitle without dates = %q", d.Subtitle)
	}
}

func TestBulletsKeepOneRow(t *testing.T) {
	b := NormalizeBullets(nil)
	if len(b) != 1 || b[0] != "" {
		t.Fatalf("normalized = %#v, want one empty row", b)
	}

	if _, err := b.RemoveRow(0); err != ErrLastBulletRow {
		t.Fatalf("err = %v, want ErrLastBulletRow", err)
	}

	b = b.AddRow()
	b, err := b.SetRow(1, "shipped the thing")
	if err != nil {
		t.Fatalf("SetRow: %v", err)
	}
	b, err = b.RemoveRow(0)
	if err != nil {
		t.Fatalf("RemoveRow: %v", err)
	}
	if len(b) != 1 || b[0] != "shipped the thing" {
		t.Fatalf("bullets = %#v", b)
	}
}

func TestSkillSet(t *testing.T) {
	s := NewSkillSet([]string{"Go", "go", "  ", "SQL"}, 0)
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2 (dedup + blank dropped)", s.Len())
	}

	if err := s.Add("Docker"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := s.Tags()
	if got[0] != "Go" || got[1] != "SQL" || got[2] != "Docker" {
		t.Fatalf("tags = %v, insertion order lost", got)
	}

	if err := s.RemoveAt(1); err != nil {
		t.Fatalf("RemoveAt: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("len after remove = %d", s.Len())
	}

	small := NewSkillSet(nil, 2)
	_ = small.Add("a")
	_ = small.Add("b")
	if err := small.Add("c"); err != ErrSkillLimit {
		t.Fatalf("err = %v, want ErrSkillLimit", err)
	}
}
