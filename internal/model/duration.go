// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Study durations are restricted to whole days and hours. The platform
// accepts and emits the ISO-8601 subset PnD, PTnH, and PnDTnH, with
// "PT0H" as the zero form.

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?)?$`)

// ErrBadDuration indicates a duration string outside the days+hours subset.
var ErrBadDuration = errors.New("malformed ISO-8601 duration")

// FormatISODuration renders days and hours as an ISO-8601 duration.
// Hours of 24 or more roll over into days. Zero renders as "PT0H".
func FormatISODuration(days, hours int) string {
	if days < 0 {
		days = 0
	}
	if hours < 0 {
		hours = 0
	}
	days += hours / 24
	hours %= 24

	out := "P"
	if days > 0 {
		out += strconv.Itoa(days) + "D"
	}
	if hours > 0 {
		out += "T" + strconv.Itoa(hours) + "H"
	}
	if out == "P" {
		return "PT0H"
	}
	return out
}

// ParseISODuration parses the days+hours ISO-8601 subset.
func ParseISODuration(s string) (days, hours int, err error) {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
	}
	if m[1] != "" {
		days, err = strconv.Atoi(m[1])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
		}
	}
	if m[2] != "" {
		hours, err = strconv.Atoi(m[2])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadDuration, s)
		}
	}
	return days, hours, nil
}

// DisplayDuration renders an ISO duration string for UI chrome, e.g.
// "7 days 12 hours". Unparseable input is returned verbatim.
func DisplayDuration(s string) string {
	days, hours, err := ParseISODuration(s)
	if err != nil {
		return s
	}
	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%d %s %d %s", days, plural(days, "day"), hours, plural(hours, "hour"))
	case days > 0:
		return fmt.Sprintf("%d %s", days, plural(days, "day"))
	default:
		return fmt.Sprintf("%d %s", hours, plural(hours, "hour"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
