package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdinal(t *testing.T) {
	tests := []struct {
		n        int
		expected string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"},
		{10, "10th"}, {11, "11th"}, {12, "12th"}, {13, "13th"},
		{14, "14th"}, {20, "20th"}, {21, "21st"}, {22, "22nd"},
		{23, "23rd"}, {24, "24th"}, {30, "30th"}, {31, "31st"},
		{-1, "-1st"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Ordinal(tt.n))
	}
}

func TestDescribe(t *testing.T) {
	until := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rule     Rule
		expected string
	}{
		{
			name:     "every day",
			rule:     Rule{Freq: Daily, Interval: 1},
			expected: "Every day",
		},
		{
			name:     "every N days",
			rule:     Rule{Freq: Daily, Interval: 3},
			expected: "Every 3 days",
		},
		{
			name:     "every week",
			rule:     Rule{Freq: Weekly, Interval: 1},
			expected: "Every week",
		},
		{
			name:     "every 2 weeks on Monday and Wednesday",
			rule:     Rule{Freq: Weekly, Interval: 2, DaysOfWeek: []int{2, 4}},
			expected: "Every 2 weeks on Monday and Wednesday",
		},
		{
			name:     "weekday order is canonical regardless of input order",
			rule:     Rule{Freq: Weekly, Interval: 1, DaysOfWeek: []int{6, 2, 4}},
			expected: "Every week on Monday, Wednesday and Friday",
		},
		{
			name:     "monthly on the 15th, 6 times",
			rule:     Rule{Freq: Monthly, Interval: 1, DaysOfMonth: []int{15}, Count: intPtr(6)},
			expected: "Every month on the 15th, 6 times",
		},
		{
			name:     "month days with mixed suffixes",
			rule:     Rule{Freq: Monthly, Interval: 1, DaysOfMonth: []int{21, 1, 3}},
			expected: "Every month on the 1st, 3rd and 21st",
		},
		{
			name:     "yearly in months",
			rule:     Rule{Freq: Yearly, Interval: 1, MonthsOfYear: []int{12, 6}},
			expected: "Every year in June and December",
		},
		{
			name: "set position last",
			rule: Rule{Freq: Monthly, Interval: 1, DaysOfWeek: []int{6},
				SetPositions: []int{-1}},
			expected: "Every month on Friday on the last",
		},
		{
			name:     "until clause",
			rule:     Rule{Freq: Weekly, Interval: 2, DaysOfWeek: []int{2, 4}, Until: timePtr(until)},
			expected: "Every 2 weeks on Monday and Wednesday until Jan 1, 2025",
		},
		{
			name:     "every 2 years",
			rule:     Rule{Freq: Yearly, Interval: 2},
			expected: "Every 2 years",
		},
		{
			name: "combined clauses keep fixed order",
			rule: Rule{Freq: Monthly, Interval: 1, DaysOfWeek: []int{2},
				MonthsOfYear: []int{1}, SetPositions: []int{1}, Count: intPtr(4)},
			expected: "Every month on Monday in January on the first, 4 times",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.rule.Describe())
		})
	}
}

func TestAndJoin(t *testing.T) {
	assert.Equal(t, "", andJoin(nil))
	assert.Equal(t, "a", andJoin([]string{"a"}))
	assert.Equal(t, "a and b", andJoin([]string{"a", "b"}))
	assert.Equal(t, "a, b and c", andJoin([]string{"a", "b", "c"}))
}

func TestValidate(t *testing.T) {
	count := 3
	until := time.Now()

	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"valid weekly", Rule{Freq: Weekly, Interval: 1}, false},
		{"missing frequency", Rule{Interval: 1}, true},
		{"unknown frequency", Rule{Freq: "HOURLY", Interval: 1}, true},
		{"zero interval", Rule{Freq: Daily}, true},
		{"both terminators", Rule{Freq: Daily, Interval: 1, Until: &until, Count: &count}, true},
		{"weekday out of range", Rule{Freq: Weekly, Interval: 1, DaysOfWeek: []int{8}}, true},
		{"month day zero", Rule{Freq: Monthly, Interval: 1, DaysOfMonth: []int{0}}, true},
		{"month out of range", Rule{Freq: Yearly, Interval: 1, MonthsOfYear: []int{13}}, true},
		{"set position zero", Rule{Freq: Monthly, Interval: 1, SetPositions: []int{0}}, true},
		{"negative month day ok", Rule{Freq: Monthly, Interval: 1, DaysOfMonth: []int{-1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	rule, err := New(Weekly, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, rule.Interval)

	_, err = New("", 1)
	assert.ErrorIs(t, err, ErrUnknownFrequency)
}

func TestBounded(t *testing.T) {
	count := 2
	until := time.Now()

	assert.False(t, (&Rule{Freq: Daily, Interval: 1}).Bounded())
	assert.True(t, (&Rule{Freq: Daily, Interval: 1, Count: &count}).Bounded())
	assert.True(t, (&Rule{Freq: Daily, Interval: 1, Until: &until}).Bounded())
}
