package utils

import (
	"fmt"
	"strings"
	"time"
)

// serviceDateFormats are the layouts accepted for maintenance service
// dates, tried in order. Everything normalizes to ISO 8601 date form.
var serviceDateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"01/02/2006",
	"02-01-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// NormalizeServiceDate parses a user-supplied service date and returns it
// as YYYY-MM-DD. An empty input stays empty.
func NormalizeServiceDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	for _, layout := range serviceDateFormats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}

	return "", fmt.Errorf("unrecognized service date %q", value)
}
