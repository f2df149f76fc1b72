package ical

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/mo"
)

// Value is a decoded property value. Exactly one field is populated
// according to Kind.
type Value struct {
	Kind ValueKind

	Text   string
	Time   time.Time
	AllDay bool
	Ints   []int
}

type ValueKind int

const (
	ValueText ValueKind = iota
	ValueDateTime
	ValueIntList
)

// decodeEnv carries per-parse decoding context into the decoder table.
type decodeEnv struct {
	defaultZone *time.Location
	lookupZone  func(tzid string) *time.Location // nil result means unresolved
}

type decoderFunc func(env *decodeEnv, prop Property) mo.Result[Value]

// decoders maps uppercase property names to their value decoders. Properties
// absent from the table keep their raw text value. The table keeps the
// decoder set open for extension without a type hierarchy.
var decoders = map[string]decoderFunc{
	"SUMMARY":     decodeText,
	"DESCRIPTION": decodeText,
	"LOCATION":    decodeText,
	"COMMENT":     decodeText,
	"DTSTART":     decodeDateTime,
	"DTEND":       decodeDateTime,
	"DTSTAMP":     decodeDateTime,
	"EXDATE":      decodeDateTime,
}

// decodeValue dispatches on the (uppercased) property name. Unknown
// properties pass through as raw text so round-tripping keeps them.
func decodeValue(env *decodeEnv, prop Property) mo.Result[Value] {
	if dec, ok := decoders[strings.ToUpper(prop.Name)]; ok {
		return dec(env, prop)
	}
	return mo.Ok(Value{Kind: ValueText, Text: prop.Value})
}

func decodeText(_ *decodeEnv, prop Property) mo.Result[Value] {
	s, err := Unescape(prop.Value)
	if err != nil {
		return mo.Err[Value](invalidValue(prop, err))
	}
	return mo.Ok(Value{Kind: ValueText, Text: s})
}

func decodeDateTime(env *decodeEnv, prop Property) mo.Result[Value] {
	t, allDay, err := parseDateTime(env, prop)
	if err != nil {
		return mo.Err[Value](invalidValue(prop, err))
	}
	return mo.Ok(Value{Kind: ValueDateTime, Time: t, AllDay: allDay})
}

func invalidValue(prop Property, err error) *Error {
	return &Error{
		Type:    ErrInvalidValue,
		Message: fmt.Sprintf("property %s value %q", strings.ToUpper(prop.Name), truncate(prop.Value, 40)),
		Err:     err,
	}
}

// Unescape decodes RFC 5545 TEXT escaping in a single left-to-right scan.
// A backslash followed by a recognized code emits one literal character;
// everything else passes through. A scan (rather than sequential
// whole-string substitutions) is required so that e.g. `\\n` decodes to a
// backslash followed by the letter n, not to a newline.
func Unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(s) {
			return "", fmt.Errorf("trailing backslash")
		}
		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case ';':
			b.WriteByte(';')
		case ',':
			b.WriteByte(',')
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			// unknown escape; keep both bytes rather than guess
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// Escape applies RFC 5545 TEXT escaping, the inverse of Unescape.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			// bare CR inside a value has no escape form; drop it
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102T150405"
	utcLayout      = "20060102T150405Z"
)

// parseDateTime decodes DATE and DATE-TIME values. A DATE-only value is
// all-day. A DATE-TIME with a trailing Z is UTC; with a TZID parameter it is
// resolved through env.lookupZone; with neither it is floating local time in
// env.defaultZone.
func parseDateTime(env *decodeEnv, prop Property) (time.Time, bool, error) {
	raw := strings.TrimSpace(prop.Value)

	if valueType, ok := prop.Param("VALUE"); ok && strings.EqualFold(valueType, "DATE") {
		t, err := time.ParseInLocation(dateLayout, raw, env.zone(prop))
		return t, true, err
	}

	if !strings.ContainsRune(raw, 'T') {
		t, err := time.ParseInLocation(dateLayout, raw, env.zone(prop))
		return t, true, err
	}

	if strings.HasSuffix(raw, "Z") {
		t, err := time.Parse(utcLayout, raw)
		return t, false, err
	}

	t, err := time.ParseInLocation(dateTimeLayout, raw, env.zone(prop))
	return t, false, err
}

// zone resolves the location governing a date value: TZID parameter when
// resolvable, the caller-supplied default otherwise.
func (env *decodeEnv) zone(prop Property) *time.Location {
	if tzid, ok := prop.Param("TZID"); ok && env.lookupZone != nil {
		if loc := env.lookupZone(tzid); loc != nil {
			return loc
		}
	}
	return env.defaultZone
}

// decodeIntList parses a comma-separated list of signed integers, the value
// grammar shared by the numeric RRULE parts.
func decodeIntList(raw string) ([]int, error) {
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
