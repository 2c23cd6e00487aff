package slug

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoWordCharacters is returned when the input holds nothing to slug.
var ErrNoWordCharacters = errors.New("no word characters to slug")

var wordRun = regexp.MustCompile(`\w+`)

// Make joins every word run of input with "-" and lowercases the result.
func Make(input string) (string, error) {
	runs := wordRun.FindAllString(input, -1)
	if len(runs) == 0 {
		return "", ErrNoWordCharacters
	}
	return strings.ToLower(strings.Join(runs, "-")), nil
}
