package domain

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	apperrors "mdnotes/internal/platform/errors"
)

var ErrInvalidPattern = fmt.Errorf("collection pattern: %w", apperrors.ErrInvalidInput)

// Selection narrows a library listing. Empty fields match everything; set
// fields must all match.
type Selection struct {
	Keys []string
	Tags []string
	// Collection is a glob over collection paths such as "Thesis/**".
	Collection string
}

func (s Selection) Validate() error {
	if s.Collection != "" && !doublestar.ValidatePattern(s.Collection) {
		return ErrInvalidPattern
	}
	return nil
}

func (s Selection) Matches(item Item) bool {
	if len(s.Keys) > 0 && !slices.Contains(s.Keys, item.Key) {
		return false
	}
	for _, tag := range s.Tags {
		if !slices.ContainsFunc(item.Tags, func(t string) bool { return strings.EqualFold(t, tag) }) {
			return false
		}
	}
	if s.Collection == "" {
		return true
	}
	paths := item.CollectionPaths
	if len(paths) == 0 {
		paths = item.Collections
	}
	for _, collection := range paths {
		if ok, _ := doublestar.Match(s.Collection, collection); ok {
			return true
		}
	}
	return false
}
