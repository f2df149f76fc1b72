package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// weekdayTokens maps RRULE weekday codes to 1 (Sunday) .. 7 (Saturday).
var weekdayTokens = map[string]int{
	"SU": 1, "MO": 2, "TU": 3, "WE": 4, "TH": 5, "FR": 6, "SA": 7,
}

var weekdayCodes = [8]string{"", "SU", "MO", "TU", "WE", "TH", "FR", "SA"}

const (
	untilDateTimeLayout = "20060102T150405Z"
	untilDateLayout     = "20060102"
)

// FromRRule parses RFC 5545 RRULE text (without the "RRULE:" prefix) into a
// validated Rule. Unknown keys are ignored for forward compatibility. When
// both UNTIL and COUNT appear the rule keeps UNTIL; use DecodeRRule to also
// receive the conflict warning.
func FromRRule(text string) (*Rule, error) {
	rule, _, err := DecodeRRule(text)
	return rule, err
}

// DecodeRRule is FromRRule plus recoverable-issue reporting. Warnings cover
// conditions that were resolved deterministically rather than failing, such
// as UNTIL and COUNT both present.
func DecodeRRule(text string) (*Rule, []string, error) {
	r := &Rule{Interval: 1}
	var warnings []string

	for _, part := range strings.Split(text, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, raw, found := strings.Cut(part, "=")
		if !found {
			return nil, nil, fmt.Errorf("%w: part %q has no '='", ErrInvalidRule, part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		raw = strings.TrimSpace(raw)

		var err error
		switch key {
		case "FREQ":
			r.Freq = Frequency(strings.ToUpper(raw))
		case "INTERVAL":
			r.Interval, err = strconv.Atoi(raw)
		case "BYDAY":
			err = parseByDay(r, raw)
		case "BYMONTHDAY":
			r.DaysOfMonth, err = parseIntList(raw)
		case "BYMONTH":
			r.MonthsOfYear, err = parseIntList(raw)
		case "BYSETPOS":
			var positions []int
			if positions, err = parseIntList(raw); err == nil {
				r.SetPositions = mergePositions(r.SetPositions, positions)
			}
		case "UNTIL":
			var until time.Time
			if until, err = parseUntil(raw); err == nil {
				r.Until = &until
			}
		case "COUNT":
			var n int
			if n, err = strconv.Atoi(raw); err == nil {
				r.Count = &n
			}
		default:
			// unknown keys (WKST, BYHOUR, ...) are not errors
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s=%q: %v", ErrInvalidRule, key, raw, err)
		}
	}

	// RFC 5545 forbids UNTIL together with COUNT; prefer the end date and
	// report the conflict instead of failing on user-authored data.
	if r.Until != nil && r.Count != nil {
		warnings = append(warnings,
			fmt.Sprintf("RRULE %q has both UNTIL and COUNT; keeping UNTIL", text))
		r.Count = nil
	}

	if err := r.Validate(); err != nil {
		return nil, nil, err
	}
	return r, warnings, nil
}

// parseByDay decodes BYDAY tokens such as "MO" or "-1FR". An ordinal prefix
// contributes to SetPositions alongside the weekday, matching RFC 5545's
// combined nth-weekday semantics.
func parseByDay(r *Rule, raw string) error {
	for _, token := range strings.Split(raw, ",") {
		token = strings.ToUpper(strings.TrimSpace(token))
		if len(token) < 2 {
			return fmt.Errorf("bad weekday token %q", token)
		}
		code := token[len(token)-2:]
		day, ok := weekdayTokens[code]
		if !ok {
			return fmt.Errorf("bad weekday token %q", token)
		}
		if prefix := token[:len(token)-2]; prefix != "" {
			ordinal, err := strconv.Atoi(prefix)
			if err != nil || ordinal == 0 {
				return fmt.Errorf("bad weekday ordinal %q", token)
			}
			r.SetPositions = mergePositions(r.SetPositions, []int{ordinal})
		}
		if !containsInt(r.DaysOfWeek, day) {
			r.DaysOfWeek = append(r.DaysOfWeek, day)
		}
	}
	return nil
}

func parseUntil(raw string) (time.Time, error) {
	if strings.ContainsRune(raw, 'T') {
		return time.Parse(untilDateTimeLayout, raw)
	}
	return time.Parse(untilDateLayout, raw)
}

func parseIntList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func mergePositions(existing, add []int) []int {
	for _, p := range add {
		if !containsInt(existing, p) {
			existing = append(existing, p)
		}
	}
	return existing
}

func containsInt(s []int, n int) bool {
	for _, v := range s {
		if v == n {
			return true
		}
	}
	return false
}

// RRule renders the rule as RFC 5545 RRULE text (without the "RRULE:"
// prefix). Fields at their defaults are omitted, so INTERVAL=1 never
// appears.
func (r *Rule) RRule() string {
	parts := []string{"FREQ=" + string(r.Freq)}
	if r.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}
	if len(r.DaysOfWeek) > 0 {
		tokens := make([]string, 0, len(r.DaysOfWeek))
		for _, d := range canonicalWeekdays(r.DaysOfWeek) {
			tokens = append(tokens, weekdayCodes[d])
		}
		parts = append(parts, "BYDAY="+strings.Join(tokens, ","))
	}
	if len(r.DaysOfMonth) > 0 {
		parts = append(parts, "BYMONTHDAY="+joinInts(r.DaysOfMonth))
	}
	if len(r.MonthsOfYear) > 0 {
		parts = append(parts, "BYMONTH="+joinInts(r.MonthsOfYear))
	}
	if len(r.SetPositions) > 0 {
		parts = append(parts, "BYSETPOS="+joinInts(r.SetPositions))
	}
	if r.Until != nil {
		parts = append(parts, "UNTIL="+r.Until.UTC().Format(untilDateTimeLayout))
	}
	if r.Count != nil {
		parts = append(parts, "COUNT="+strconv.Itoa(*r.Count))
	}
	return strings.Join(parts, ";")
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
