package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// birthDateLayouts are tried in order; the first match wins
var birthDateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// BirthDate is a coerced date of birth. An unparsable input is kept as an
// Invalid marker carrying the raw text so the store can reject it.
type BirthDate struct {
	Time    time.Time
	Raw     string
	Invalid bool
}

// ParseBirthDate returns nil for an absent or empty value.
func ParseBirthDate(raw string) *BirthDate {
	if raw == "" {
		return nil
	}

	value := strings.TrimSpace(raw)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &BirthDate{Time: t.UTC(), Raw: raw}
		}
	}

	return &BirthDate{Raw: raw, Invalid: true}
}

// MarshalJSON writes the date as an RFC 3339 timestamp
func (d BirthDate) MarshalJSON() ([]byte, error) {
	if d.Invalid {
		return nil, fmt.Errorf("cannot encode invalid date %q", d.Raw)
	}
	return json.Marshal(d.Time.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON accepts the same layouts ParseBirthDate does
func (d *BirthDate) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := ParseBirthDate(raw)
	if parsed == nil || parsed.Invalid {
		return fmt.Errorf("invalid date %q", raw)
	}
	*d = *parsed
	return nil
}
