package ical

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProdID identifies this implementation in encoded output.
const ProdID = "-//icalite//icalite//EN"

// Encode serializes events as an RFC 5545 VCALENDAR stream with CRLF line
// terminators and 75-octet folding. Events without a UID get a generated
// one. Encode never fails on valid structured input; the output is
// semantically, not byte-wise, equivalent to any text the events were
// parsed from.
func Encode(events []*CalendarEvent) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:"+ProdID)
	writeLine(&b, "CALSCALE:GREGORIAN")

	stamp := time.Now().UTC().Format(utcLayout)
	for _, event := range events {
		encodeEvent(&b, event, stamp)
	}

	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

func encodeEvent(b *strings.Builder, event *CalendarEvent, stamp string) {
	writeLine(b, "BEGIN:VEVENT")

	uid := event.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	writeLine(b, "UID:"+uid)
	writeLine(b, "DTSTAMP:"+stamp)
	writeLine(b, formatDateProp("DTSTART", event.Start, event.AllDay))
	if !event.End.IsZero() {
		writeLine(b, formatDateProp("DTEND", event.End, event.AllDay))
	}

	writeTextProp(b, "SUMMARY", event.Summary)
	writeTextProp(b, "DESCRIPTION", event.Description)
	writeTextProp(b, "LOCATION", event.Location)
	if event.URL != "" {
		writeLine(b, "URL:"+event.URL)
	}
	if event.Availability != "" {
		writeLine(b, "TRANSP:"+string(event.Availability))
	}

	for _, attendee := range event.Attendees {
		writeLine(b, formatAttendee(attendee))
	}

	if event.Recurrence != nil {
		writeLine(b, "RRULE:"+event.Recurrence.RRule())
	}

	for _, alarm := range event.Alarms {
		encodeAlarm(b, alarm)
	}

	writeLine(b, "END:VEVENT")
}

func encodeAlarm(b *strings.Builder, alarm Alarm) {
	writeLine(b, "BEGIN:VALARM")
	action := alarm.Action
	if action == "" {
		action = "DISPLAY"
	}
	writeLine(b, "ACTION:"+action)
	writeLine(b, "TRIGGER:"+formatISODuration(alarm.Trigger))
	writeTextProp(b, "DESCRIPTION", alarm.Description)
	writeLine(b, "END:VALARM")
}

// writeLine folds a logical line and appends it with a CRLF terminator.
func writeLine(b *strings.Builder, line string) {
	b.WriteString(fold(line))
	b.WriteString("\r\n")
}

func writeTextProp(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	writeLine(b, name+":"+Escape(value))
}

// formatDateProp renders DTSTART/DTEND. All-day values use VALUE=DATE;
// timed values are normalized to UTC, which keeps the instant exact without
// depending on a timezone definition in the output.
func formatDateProp(name string, t time.Time, allDay bool) string {
	if allDay {
		return name + ";VALUE=DATE:" + t.Format(dateLayout)
	}
	return name + ":" + t.UTC().Format(utcLayout)
}

func formatAttendee(a Attendee) string {
	var params strings.Builder
	if a.CommonName != "" {
		fmt.Fprintf(&params, ";CN=%q", a.CommonName)
	}
	if a.Status != "" {
		params.WriteString(";PARTSTAT=" + a.Status)
	}
	return "ATTENDEE" + params.String() + ":mailto:" + a.Address
}

// formatISODuration renders a trigger offset in the ISO 8601 form iCalendar
// uses, e.g. -PT15M or P1DT2H.
func formatISODuration(d time.Duration) string {
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')

	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int(d / time.Minute)
	d -= time.Duration(minutes) * time.Minute
	seconds := int(d / time.Second)

	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || minutes > 0 || seconds > 0 || days == 0 {
		b.WriteByte('T')
		switch {
		case seconds > 0:
			fmt.Fprintf(&b, "%dH%dM%dS", hours, minutes, seconds)
		case hours > 0 && minutes > 0:
			fmt.Fprintf(&b, "%dH%dM", hours, minutes)
		case hours > 0:
			fmt.Fprintf(&b, "%dH", hours)
		default:
			fmt.Fprintf(&b, "%dM", minutes)
		}
	}
	return b.String()
}
