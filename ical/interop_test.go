package ical

import (
	"strings"
	"testing"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Encoded output must be readable by an independent RFC 5545 implementation,
// not just by our own parser.
func TestEncodeInteropWithGoIcal(t *testing.T) {
	events := []*CalendarEvent{
		{
			UID:      "interop-1",
			Summary:  "Quarterly review; all hands, mandatory",
			Location: "Main hall",
			Start:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
			End:      time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			UID:     "interop-2",
			Summary: strings.Repeat("A summary long enough to be folded onto several lines ", 4),
			Start:   time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
		},
	}

	out := Encode(events)

	calendar, err := goical.NewDecoder(strings.NewReader(out)).Decode()
	require.NoError(t, err)

	decoded := calendar.Events()
	require.Len(t, decoded, 2)

	summary, err := decoded[0].Props.Text(goical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, events[0].Summary, summary)

	start, err := decoded[0].Props.DateTime(goical.PropDateTimeStart, time.UTC)
	require.NoError(t, err)
	assert.True(t, events[0].Start.Equal(start))

	longSummary, err := decoded[1].Props.Text(goical.PropSummary)
	require.NoError(t, err)
	assert.Equal(t, events[1].Summary, longSummary)
}

// The inverse direction: output produced by go-ical must parse cleanly here.
func TestParseInteropWithGoIcal(t *testing.T) {
	calendar := goical.NewCalendar()
	calendar.Props.SetText(goical.PropProductID, "-//test//test//EN")
	calendar.Props.SetText(goical.PropVersion, "2.0")

	event := goical.NewEvent()
	event.Props.SetText(goical.PropUID, "from-goical")
	event.Props.SetText(goical.PropSummary, "Written by go-ical, read by us")
	event.Props.SetDateTime(goical.PropDateTimeStamp, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	event.Props.SetDateTime(goical.PropDateTimeStart, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	calendar.Children = append(calendar.Children, event.Component)

	var b strings.Builder
	require.NoError(t, goical.NewEncoder(&b).Encode(calendar))

	result, err := Parse(b.String(), nil)
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "from-goical", result.Events[0].UID)
	assert.Equal(t, "Written by go-ical, read by us", result.Events[0].Summary)
	assert.True(t, result.Events[0].Start.Equal(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)))
}
