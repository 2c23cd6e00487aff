package domain

import "strings"

const citesPrefix = "cites:"

// ParseCitedKeys collects the citation keys of "cites:" lines in the extra
// field, de-duplicated in first-occurrence order.
func ParseCitedKeys(extra string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, line := range strings.Split(extra, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, citesPrefix) {
			continue
		}
		key := strings.TrimSpace(strings.TrimPrefix(line, citesPrefix))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// ExtraCitationKey reads a "Citation Key:" line from the extra field, the
// convention citation-key managers use to pin a key on the item itself.
func ExtraCitationKey(extra string) (string, bool) {
	for _, line := range strings.Split(extra, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "citation key") {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			return value, true
		}
	}
	return "", false
}

// CitedKeys is ParseCitedKeys over the item's extra field.
func (i Item) CitedKeys() []string {
	return ParseCitedKeys(i.Extra)
}
