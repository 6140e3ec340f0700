package entrylist

import (
	"strings"
	"time"
)

// Display is the one-line accordion header derived from an entry.
type Display struct {
	Title    string
	Subtitle string
}

// Derive builds the accordion title/subtitle for an entry: the title is the
// primary name field, the subtitle combines the secondary field with the date
// range. "Current" substitutes for the end date when the flag is set.
func Derive(primary, secondary, startDate, endDate string, current bool) Display {
	return Display{
		Title:    strings.TrimSpace(primary),
		Subtitle: joinSubtitle(strings.TrimSpace(secondary), dateRange(startDate, endDate, current)),
	}
}

func joinSubtitle(secondary, dates string) string {
	switch {
	case secondary == "":
		return dates
	case dates == "":
		return secondary
	default:
		return secondary + " | " + dates
	}
}

func dateRange(startDate, endDate string, current bool) string {
	start := FormatMonthYear(startDate)
	end := FormatMonthYear(endDate)
	if current {
		end = "Current"
	}
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	case start == "":
		return end
	default:
		return start + " - " + end
	}
}

// FormatMonthYear renders a YYYY-MM-DD date as "Jan 2006". Values that do not
// parse are returned empty rather than propagated.
func FormatMonthYear(isoDate string) string {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(isoDate))
	if err != nil {
		return ""
	}
	return t.Format("Jan 2006")
}
