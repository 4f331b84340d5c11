package utils

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
}

var timeLayouts = []string{
	"15:04:05",
	"15:04",
}

// ParseDate parses a feed-provided date string. Returns nil when the value is
// missing or unparseable; upstream feeds omit dates for some items.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// ParseClock parses a feed-provided time-of-day string. Returns nil when the
// value is missing or unparseable.
func ParseClock(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
