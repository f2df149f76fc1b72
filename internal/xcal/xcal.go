// Package xcal serializes parsed calendar events as xCal (RFC 6321), the
// XML representation of iCalendar.
package xcal

import (
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/icalite/icalite/ical"
	"github.com/icalite/icalite/recurrence"
)

// Namespace is the xCal XML namespace from RFC 6321.
const Namespace = "urn:ietf:params:xml:ns:icalendar-2.0"

const (
	dateLayout     = "20060102"
	dateTimeLayout = "2006-01-02T15:04:05Z"
)

// Marshal renders events as an indented xCal document.
func Marshal(events []*ical.CalendarEvent) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("icalendar")
	root.CreateAttr("xmlns", Namespace)

	vcalendar := root.CreateElement("vcalendar")
	properties := vcalendar.CreateElement("properties")
	addTextProp(properties, "version", "2.0")
	addTextProp(properties, "prodid", ical.ProdID)

	components := vcalendar.CreateElement("components")
	for _, event := range events {
		appendEvent(components, event)
	}

	doc.Indent(2)
	return doc.WriteToString()
}

func appendEvent(parent *etree.Element, event *ical.CalendarEvent) {
	vevent := parent.CreateElement("vevent")
	properties := vevent.CreateElement("properties")

	addTextProp(properties, "uid", event.UID)
	addDateProp(properties, "dtstart", event.Start, event.AllDay)
	if !event.End.IsZero() {
		addDateProp(properties, "dtend", event.End, event.AllDay)
	}
	addTextProp(properties, "summary", event.Summary)
	addTextProp(properties, "description", event.Description)
	addTextProp(properties, "location", event.Location)
	if event.URL != "" {
		properties.CreateElement("url").CreateElement("uri").SetText(event.URL)
	}
	if event.Recurrence != nil {
		appendRecur(properties, event.Recurrence)
	}
}

// appendRecur renders an rrule element with the structured recur value
// layout RFC 6321 §3.6.10 defines, one child element per rule part.
func appendRecur(properties *etree.Element, rule *recurrence.Rule) {
	recur := properties.CreateElement("rrule").CreateElement("recur")
	recur.CreateElement("freq").SetText(string(rule.Freq))
	if rule.Interval > 1 {
		setInt(recur.CreateElement("interval"), rule.Interval)
	}
	for _, d := range rule.DaysOfWeek {
		recur.CreateElement("byday").SetText(weekdayCode(d))
	}
	for _, d := range rule.DaysOfMonth {
		setInt(recur.CreateElement("bymonthday"), d)
	}
	for _, m := range rule.MonthsOfYear {
		setInt(recur.CreateElement("bymonth"), m)
	}
	for _, p := range rule.SetPositions {
		setInt(recur.CreateElement("bysetpos"), p)
	}
	if rule.Until != nil {
		recur.CreateElement("until").SetText(rule.Until.UTC().Format(dateTimeLayout))
	}
	if rule.Count != nil {
		setInt(recur.CreateElement("count"), *rule.Count)
	}
}

func addTextProp(properties *etree.Element, name, value string) {
	if value == "" {
		return
	}
	properties.CreateElement(name).CreateElement("text").SetText(value)
}

func addDateProp(properties *etree.Element, name string, t time.Time, allDay bool) {
	prop := properties.CreateElement(name)
	if allDay {
		params := prop.CreateElement("parameters")
		params.CreateElement("value").CreateElement("text").SetText("DATE")
		prop.CreateElement("date").SetText(t.Format(dateLayout))
		return
	}
	prop.CreateElement("date-time").SetText(t.UTC().Format(dateTimeLayout))
}

func setInt(elem *etree.Element, n int) {
	elem.SetText(strconv.Itoa(n))
}

func weekdayCode(day int) string {
	codes := [8]string{"", "SU", "MO", "TU", "WE", "TH", "FR", "SA"}
	if day >= 1 && day <= 7 {
		return codes[day]
	}
	return ""
}
