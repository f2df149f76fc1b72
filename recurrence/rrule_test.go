package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func TestDecodeRRule(t *testing.T) {
	until := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		text     string
		expected *Rule
	}{
		{
			name:     "minimal daily",
			text:     "FREQ=DAILY",
			expected: &Rule{Freq: Daily, Interval: 1},
		},
		{
			name:     "weekly with interval and days",
			text:     "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE",
			expected: &Rule{Freq: Weekly, Interval: 2, DaysOfWeek: []int{2, 4}},
		},
		{
			name:     "monthly by month day with count",
			text:     "FREQ=MONTHLY;BYMONTHDAY=15;COUNT=6",
			expected: &Rule{Freq: Monthly, Interval: 1, DaysOfMonth: []int{15}, Count: intPtr(6)},
		},
		{
			name:     "yearly by month until",
			text:     "FREQ=YEARLY;BYMONTH=6,7;UNTIL=20250101T000000Z",
			expected: &Rule{Freq: Yearly, Interval: 1, MonthsOfYear: []int{6, 7}, Until: timePtr(until)},
		},
		{
			name:     "date-only UNTIL",
			text:     "FREQ=DAILY;UNTIL=20250101",
			expected: &Rule{Freq: Daily, Interval: 1, Until: timePtr(until)},
		},
		{
			name: "ordinal BYDAY feeds set positions and weekdays",
			text: "FREQ=MONTHLY;BYDAY=2MO",
			expected: &Rule{
				Freq: Monthly, Interval: 1,
				DaysOfWeek:   []int{2},
				SetPositions: []int{2},
			},
		},
		{
			name: "negative ordinal BYDAY",
			text: "FREQ=MONTHLY;BYDAY=-1FR",
			expected: &Rule{
				Freq: Monthly, Interval: 1,
				DaysOfWeek:   []int{6},
				SetPositions: []int{-1},
			},
		},
		{
			name:     "explicit BYSETPOS",
			text:     "FREQ=MONTHLY;BYDAY=MO;BYSETPOS=1",
			expected: &Rule{Freq: Monthly, Interval: 1, DaysOfWeek: []int{2}, SetPositions: []int{1}},
		},
		{
			name:     "unknown keys ignored",
			text:     "FREQ=WEEKLY;WKST=MO;BYHOUR=9;X-FUTURE=1",
			expected: &Rule{Freq: Weekly, Interval: 1},
		},
		{
			name:     "key order does not matter",
			text:     "COUNT=3;INTERVAL=4;FREQ=DAILY",
			expected: &Rule{Freq: Daily, Interval: 4, Count: intPtr(3)},
		},
		{
			name:     "lowercase input",
			text:     "freq=weekly;byday=mo",
			expected: &Rule{Freq: Weekly, Interval: 1, DaysOfWeek: []int{2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, warnings, err := DecodeRRule(tt.text)
			require.NoError(t, err)
			assert.Empty(t, warnings)
			assert.True(t, tt.expected.Equal(rule), "want %+v, got %+v", tt.expected, rule)
		})
	}
}

func TestDecodeRRuleConflictPrefersUntil(t *testing.T) {
	rule, warnings, err := DecodeRRule("FREQ=WEEKLY;UNTIL=20250101T000000Z;COUNT=10")
	require.NoError(t, err)

	require.NotNil(t, rule.Until)
	assert.Nil(t, rule.Count)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "UNTIL")
}

func TestDecodeRRuleErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"missing FREQ", "INTERVAL=2"},
		{"unknown FREQ", "FREQ=FORTNIGHTLY"},
		{"bad interval", "FREQ=DAILY;INTERVAL=x"},
		{"zero interval", "FREQ=DAILY;INTERVAL=0"},
		{"bad weekday", "FREQ=WEEKLY;BYDAY=XX"},
		{"zero weekday ordinal", "FREQ=MONTHLY;BYDAY=0MO"},
		{"bad month day", "FREQ=MONTHLY;BYMONTHDAY=40"},
		{"bad until", "FREQ=DAILY;UNTIL=notadate"},
		{"segment without equals", "FREQ=DAILY;COUNT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeRRule(tt.text)
			assert.Error(t, err)
		})
	}
}

func TestRRuleRender(t *testing.T) {
	until := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rule     *Rule
		expected string
	}{
		{
			name:     "interval of one omitted",
			rule:     &Rule{Freq: Daily, Interval: 1},
			expected: "FREQ=DAILY",
		},
		{
			name:     "weekly with days",
			rule:     &Rule{Freq: Weekly, Interval: 2, DaysOfWeek: []int{4, 2}},
			expected: "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE",
		},
		{
			name:     "monthly with count",
			rule:     &Rule{Freq: Monthly, Interval: 1, DaysOfMonth: []int{15}, Count: intPtr(6)},
			expected: "FREQ=MONTHLY;BYMONTHDAY=15;COUNT=6",
		},
		{
			name:     "until rendered as UTC",
			rule:     &Rule{Freq: Yearly, Interval: 1, Until: timePtr(until)},
			expected: "FREQ=YEARLY;UNTIL=20250101T000000Z",
		},
		{
			name: "set positions",
			rule: &Rule{Freq: Monthly, Interval: 1, DaysOfWeek: []int{6},
				SetPositions: []int{-1}},
			expected: "FREQ=MONTHLY;BYDAY=FR;BYSETPOS=-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rule.RRule())
		})
	}
}

func TestRRuleRoundTrip(t *testing.T) {
	texts := []string{
		"FREQ=DAILY",
		"FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE",
		"FREQ=MONTHLY;BYMONTHDAY=1,15;COUNT=12",
		"FREQ=YEARLY;BYMONTH=12;UNTIL=20301224T000000Z",
		"FREQ=MONTHLY;BYDAY=FR;BYSETPOS=-1",
	}

	for _, text := range texts {
		rule, err := FromRRule(text)
		require.NoError(t, err, text)

		again, err := FromRRule(rule.RRule())
		require.NoError(t, err, rule.RRule())
		assert.True(t, rule.Equal(again), "round trip of %q via %q", text, rule.RRule())
	}
}
