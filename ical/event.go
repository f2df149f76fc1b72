package ical

import (
	"time"

	"github.com/icalite/icalite/recurrence"
)

// Availability mirrors the TRANSP property.
type Availability string

const (
	Busy Availability = "OPAQUE"
	Free Availability = "TRANSPARENT"
)

// Alarm is a VALARM attached to an event. Trigger is the offset relative to
// the event start; negative means before.
type Alarm struct {
	Action      string
	Trigger     time.Duration
	Description string
}

// Attendee is one ATTENDEE property.
type Attendee struct {
	// Address is the mailto: target with the scheme stripped.
	Address string
	// CommonName is the CN parameter, if present.
	CommonName string
	// Status is the PARTSTAT parameter, if present.
	Status string
}

// CalendarEvent is the structured form of one VEVENT. The codec populates
// it on parse and reads it on encode; ownership stays with the caller.
type CalendarEvent struct {
	UID         string
	Summary     string
	Description string
	Location    string
	URL         string

	Start  time.Time
	End    time.Time
	AllDay bool

	Availability Availability
	Recurrence   *recurrence.Rule
	Alarms       []Alarm
	Attendees    []Attendee

	// Raw is the assembled component the event was decoded from, kept for
	// callers that need properties the structured form does not model. Nil
	// for events constructed by hand.
	Raw *Component
}
