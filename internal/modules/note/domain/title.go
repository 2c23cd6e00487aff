package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var (
	parenthetical  = regexp.MustCompile(`\(([^)]+)\)`)
	epochDigits    = regexp.MustCompile(`^\d{9,}$`)
	pathSeparators = strings.NewReplacer("/", "-", ":", "-")
)

// FormatTitle normalizes a note title. Without a parenthetical, "/" and ":"
// become "-". Otherwise a date inside the first parenthetical is rewritten
// as yyyy-mm-dd and the rest of the title is kept as is.
func FormatTitle(title string) string {
	return FormatTitleIn(title, time.Local)
}

// FormatTitleIn is FormatTitle with dates read in loc.
func FormatTitleIn(title string, loc *time.Location) string {
	m := parenthetical.FindStringSubmatchIndex(title)
	if m == nil {
		return pathSeparators.Replace(title)
	}
	start, end := m[2], m[3]
	raw := strings.TrimSpace(title[start:end])
	// Long digit runs are ids or timestamps, not dates someone typed.
	if epochDigits.MatchString(raw) {
		return title
	}
	date, err := dateparse.ParseIn(raw, loc)
	// "3/4" parses with year 0.
	if err != nil || date.Year() == 0 {
		return title
	}
	// The calendar date as written, not the UTC instant.
	return title[:start] + date.In(loc).Format("2006-01-02") + title[end:]
}
