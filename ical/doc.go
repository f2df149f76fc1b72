/*
Package ical implements an RFC 5545 iCalendar codec: parsing .ics text into
structured calendar events and serializing events back to compliant text.

# Parsing

	result, err := ical.Parse(text, &ical.ParseOptions{
		DefaultZone: time.UTC,
	})
	if err != nil {
		// structural error, nothing was salvaged
	}
	for _, event := range result.Events {
		fmt.Println(event.Summary, event.Start)
	}
	for _, warning := range result.Warnings {
		fmt.Println("skipped or repaired:", warning)
	}

Structural problems (a continuation line with nothing to continue, an
unbalanced BEGIN/END pair) abort the parse. Everything recoverable is
reported as a warning instead: corrupt optional properties are dropped,
events without a usable DTSTART are skipped, and an RRULE carrying both
UNTIL and COUNT keeps UNTIL.

# Encoding

	text := ical.Encode(result.Events)

Output uses CRLF terminators, escapes TEXT values, and folds lines longer
than 75 octets. Encoding is semantics-preserving, not byte-preserving: a
parse/encode round trip keeps titles, times, locations and recurrence
rules, not the original byte layout.

Recurrence rules live in the companion recurrence package; see
recurrence.Rule for RRULE parsing, rendering and plain-English
descriptions.

The codec is pure and performs no I/O; it is safe to call from multiple
goroutines on independent inputs.
*/
package ical
