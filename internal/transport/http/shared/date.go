package shared

import "time"

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// ParseDate parses an RFC3339 timestamp or a bare YYYY-MM-DD date.
// Empty input yields the zero time without error.
func ParseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
