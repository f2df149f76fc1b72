package ical

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/icalite/icalite/recurrence"
)

// ParseOptions configures a parse. The zero value is usable.
type ParseOptions struct {
	// DefaultZone interprets floating date-times (no Z, no resolvable
	// TZID). Defaults to time.Local.
	DefaultZone *time.Location
	// Logger receives parse warnings. Defaults to a discard logger.
	Logger *slog.Logger
}

// Warning records a recoverable problem encountered during parsing: a
// dropped property, a skipped event, or a deterministically resolved
// conflict.
type Warning struct {
	// UID of the affected event, empty when not applicable.
	UID     string
	Message string
}

func (w Warning) String() string {
	if w.UID != "" {
		return fmt.Sprintf("%s: %s", w.UID, w.Message)
	}
	return w.Message
}

// ParseResult holds the events of one parsed calendar stream plus any
// warnings, in file order.
type ParseResult struct {
	Events   []*CalendarEvent
	Warnings []Warning
}

// Parse decodes iCalendar text into structured events.
//
// Structural problems (dangling continuations, unbalanced components)
// abort the parse and return a *Error. Recoverable problems are reported
// through ParseResult.Warnings instead: a corrupt optional property is
// dropped, an event without a usable DTSTART is skipped, and an RRULE with
// both UNTIL and COUNT keeps UNTIL.
func Parse(text string, opts *ParseOptions) (*ParseResult, error) {
	if opts == nil {
		opts = &ParseOptions{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	defaultZone := opts.DefaultZone
	if defaultZone == nil {
		defaultZone = time.Local
	}

	lines, err := unfold(text)
	if err != nil {
		return nil, err
	}
	components, err := assemble(lines)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	p := &parser{
		logger: logger,
		result: result,
	}
	p.env = &decodeEnv{
		defaultZone: defaultZone,
		lookupZone:  p.lookupZone,
	}

	for _, comp := range components {
		switch comp.Name {
		case compCalendar:
			for _, child := range comp.ChildrenNamed(compEvent) {
				p.addEvent(child)
			}
		case compEvent:
			// tolerate a bare VEVENT without its VCALENDAR wrapper
			p.addEvent(comp)
		}
	}

	return result, nil
}

type parser struct {
	logger *slog.Logger
	env    *decodeEnv
	result *ParseResult

	// TZIDs already reported as unresolvable, to avoid repeat warnings
	badTZIDs map[string]bool
}

func (p *parser) warn(uid, format string, args ...any) {
	w := Warning{UID: uid, Message: fmt.Sprintf(format, args...)}
	p.result.Warnings = append(p.result.Warnings, w)
	p.logger.Warn("parse warning", "uid", uid, "message", w.Message)
}

// lookupZone resolves a TZID against the system zone database. Unresolvable
// zones fall back to floating-time semantics with one warning per TZID;
// VTIMEZONE definitions in the input are not interpreted.
func (p *parser) lookupZone(tzid string) *time.Location {
	if loc, err := time.LoadLocation(tzid); err == nil {
		return loc
	}
	if p.badTZIDs == nil {
		p.badTZIDs = make(map[string]bool)
	}
	if !p.badTZIDs[tzid] {
		p.badTZIDs[tzid] = true
		p.warn("", "unknown TZID %q, treating as floating local time", tzid)
	}
	return nil
}

func (p *parser) addEvent(comp *Component) {
	event, ok := p.decodeEvent(comp)
	if ok {
		p.result.Events = append(p.result.Events, event)
	}
}

// decodeEvent builds a CalendarEvent from an assembled VEVENT. It returns
// false when the event lacks a usable DTSTART and must be skipped.
func (p *parser) decodeEvent(comp *Component) (*CalendarEvent, bool) {
	event := &CalendarEvent{Raw: comp}

	if prop := comp.Prop("UID"); prop != nil {
		event.UID = prop.Value
	}

	start := comp.Prop("DTSTART")
	if start == nil {
		p.warn(event.UID, "event has no DTSTART, skipping")
		return nil, false
	}
	startVal := decodeValue(p.env, *start)
	if startVal.IsError() {
		p.warn(event.UID, "unreadable DTSTART, skipping: %v", startVal.Error())
		return nil, false
	}
	event.Start = startVal.MustGet().Time
	event.AllDay = startVal.MustGet().AllDay

	if end := comp.Prop("DTEND"); end != nil {
		if v := decodeValue(p.env, *end); v.IsOk() {
			event.End = v.MustGet().Time
		} else {
			p.warn(event.UID, "dropping unreadable DTEND: %v", v.Error())
		}
	}
	if event.End.IsZero() {
		if event.AllDay {
			event.End = event.Start.AddDate(0, 0, 1)
		} else {
			event.End = event.Start
		}
	}

	event.Summary = p.textProp(comp, "SUMMARY", event.UID)
	event.Description = p.textProp(comp, "DESCRIPTION", event.UID)
	event.Location = p.textProp(comp, "LOCATION", event.UID)

	if prop := comp.Prop("URL"); prop != nil {
		event.URL = prop.Value
	}
	if prop := comp.Prop("TRANSP"); prop != nil {
		if strings.EqualFold(prop.Value, string(Free)) {
			event.Availability = Free
		} else {
			event.Availability = Busy
		}
	}

	if prop := comp.Prop("RRULE"); prop != nil {
		rule, warnings, err := recurrence.DecodeRRule(prop.Value)
		if err != nil {
			p.warn(event.UID, "dropping unreadable RRULE %q: %v", prop.Value, err)
		} else {
			event.Recurrence = rule
			for _, w := range warnings {
				p.warn(event.UID, "%s", w)
			}
		}
	}

	for _, prop := range comp.PropsNamed("ATTENDEE") {
		event.Attendees = append(event.Attendees, decodeAttendee(prop))
	}

	for _, alarm := range comp.ChildrenNamed(compAlarm) {
		a, err := decodeAlarm(alarm)
		if err != nil {
			p.warn(event.UID, "dropping unreadable VALARM: %v", err)
			continue
		}
		event.Alarms = append(event.Alarms, a)
	}

	return event, true
}

// textProp decodes a TEXT property, dropping it with a warning when the
// value fails to unescape. A corrupt optional field never sinks the event.
func (p *parser) textProp(comp *Component, name, uid string) string {
	prop := comp.Prop(name)
	if prop == nil {
		return ""
	}
	v := decodeValue(p.env, *prop)
	if v.IsError() {
		p.warn(uid, "dropping unreadable %s: %v", name, v.Error())
		return ""
	}
	return v.MustGet().Text
}

func decodeAttendee(prop *Property) Attendee {
	a := Attendee{
		Address: strings.TrimPrefix(strings.TrimPrefix(prop.Value, "mailto:"), "MAILTO:"),
	}
	if cn, ok := prop.Param("CN"); ok {
		a.CommonName = cn
	}
	if status, ok := prop.Param("PARTSTAT"); ok {
		a.Status = status
	}
	return a
}

func decodeAlarm(comp *Component) (Alarm, error) {
	a := Alarm{Action: "DISPLAY"}
	if prop := comp.Prop("ACTION"); prop != nil {
		a.Action = strings.ToUpper(prop.Value)
	}
	if prop := comp.Prop("DESCRIPTION"); prop != nil {
		if s, err := Unescape(prop.Value); err == nil {
			a.Description = s
		}
	}
	prop := comp.Prop("TRIGGER")
	if prop == nil {
		return a, fmt.Errorf("VALARM has no TRIGGER")
	}
	d, err := parseISODuration(prop.Value)
	if err != nil {
		return a, err
	}
	a.Trigger = d
	return a, nil
}

// parseISODuration decodes the subset of ISO 8601 durations iCalendar
// triggers use: [+-]P[nW][nD][T[nH][nM][nS]].
func parseISODuration(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("bad duration %q", raw)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	num := 0
	haveNum := false
	parts := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			num = num*10 + int(c-'0')
			haveNum = true
		case c == 'T':
			inTime = true
		default:
			if !haveNum {
				return 0, fmt.Errorf("bad duration %q", raw)
			}
			var unit time.Duration
			switch c {
			case 'W':
				unit = 7 * 24 * time.Hour
			case 'D':
				unit = 24 * time.Hour
			case 'H':
				unit = time.Hour
			case 'M':
				if !inTime {
					return 0, fmt.Errorf("bad duration %q", raw)
				}
				unit = time.Minute
			case 'S':
				unit = time.Second
			default:
				return 0, fmt.Errorf("bad duration %q", raw)
			}
			total += time.Duration(num) * unit
			num = 0
			haveNum = false
			parts++
		}
	}
	if haveNum || parts == 0 {
		return 0, fmt.Errorf("bad duration %q", raw)
	}
	if neg {
		total = -total
	}
	return total, nil
}
