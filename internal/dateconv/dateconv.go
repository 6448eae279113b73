// Package dateconv converts between the on-disk loose date grammar and the
// days-since-epoch integers the scheduler and model operate on. Shared by
// internal/parser (text→days) and internal/serialize (days→text) since
// both must agree on the exact same convention.
package dateconv

import (
	"strconv"
	"strings"
	"time"
)

// Parse accepts the loose Y, Y-M, or Y-M-D grammar: missing month defaults
// to January, missing day to the 1st. Returns days since the Unix epoch in
// UTC, matching editor_parse_date's day = epoch_seconds/86400 convention
// from the original editor.
func Parse(value string) (int64, bool) {
	parts := strings.SplitN(value, "-", 3)

	year, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}

	month := 1
	if len(parts) >= 2 {
		m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, false
		}
		month = m
	}

	day := 1
	if len(parts) >= 3 {
		d, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return 0, false
		}
		day = d
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Unix() / 86400, true
}

// Format renders days-since-epoch as ISO-8601 (YYYY-MM-DD) UTC, the inverse
// of Parse and the serializer's date-emission rule.
func Format(day int64) string {
	t := time.Unix(day*86400, 0).UTC()
	return t.Format("2006-01-02")
}
