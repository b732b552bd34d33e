package services

import (
	"encoding/json"
	"strings"
)

// Slugify lower-cases s, collapses every run of characters outside [a-z0-9] into one dash and
// trims dashes from both ends.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// jsonStrings encodes a string list for a map-based update of a jsonb column.
func jsonStrings(in []string) string {
	if in == nil {
		in = []string{}
	}
	b, _ := json.Marshal(in)
	return string(b)
}
