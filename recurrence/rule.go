// Package recurrence models RFC 5545 recurrence rules as immutable values:
// parsing and rendering RRULE text, generating human-readable descriptions,
// and expanding occurrences.
package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Frequency is the base repetition unit of a rule.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

var (
	// ErrUnknownFrequency is returned for a missing or unrecognized FREQ.
	ErrUnknownFrequency = errors.New("unknown frequency")
	// ErrInvalidRule is returned when a rule part fails its grammar.
	ErrInvalidRule = errors.New("invalid recurrence rule")
)

// Rule is a structured recurrence rule. Weekdays are numbered 1 (Sunday)
// through 7 (Saturday). Until and Count are mutually exclusive; at most one
// is non-nil on a validated rule. A Rule is a value type: build it, validate
// it, then treat it as read-only.
type Rule struct {
	Freq         Frequency
	Interval     int // >= 1; 1 when unset
	DaysOfWeek   []int
	DaysOfMonth  []int // [-31,-1] or [1,31]
	MonthsOfYear []int // 1-12
	SetPositions []int // non-zero
	Until        *time.Time
	Count        *int
}

// New returns a validated rule with defaults applied.
func New(freq Frequency, interval int) (*Rule, error) {
	r := &Rule{Freq: freq, Interval: interval}
	if r.Interval == 0 {
		r.Interval = 1
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the rule's invariants.
func (r *Rule) Validate() error {
	switch r.Freq {
	case Daily, Weekly, Monthly, Yearly:
	case "":
		return fmt.Errorf("%w: frequency is required", ErrUnknownFrequency)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrequency, string(r.Freq))
	}
	if r.Interval < 1 {
		return fmt.Errorf("%w: interval %d < 1", ErrInvalidRule, r.Interval)
	}
	if r.Until != nil && r.Count != nil {
		return fmt.Errorf("%w: UNTIL and COUNT are mutually exclusive", ErrInvalidRule)
	}
	for _, d := range r.DaysOfWeek {
		if d < 1 || d > 7 {
			return fmt.Errorf("%w: weekday %d out of range 1-7", ErrInvalidRule, d)
		}
	}
	for _, d := range r.DaysOfMonth {
		if d == 0 || d < -31 || d > 31 {
			return fmt.Errorf("%w: month day %d out of range", ErrInvalidRule, d)
		}
	}
	for _, m := range r.MonthsOfYear {
		if m < 1 || m > 12 {
			return fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidRule, m)
		}
	}
	for _, p := range r.SetPositions {
		if p == 0 {
			return fmt.Errorf("%w: set position must be non-zero", ErrInvalidRule)
		}
	}
	if r.Count != nil && *r.Count < 0 {
		return fmt.Errorf("%w: count %d < 0", ErrInvalidRule, *r.Count)
	}
	return nil
}

// Bounded reports whether the rule terminates, either by end date or by
// occurrence count.
func (r *Rule) Bounded() bool {
	return r.Until != nil || r.Count != nil
}

// Equal reports semantic equality, ignoring the order of the By* sets.
func (r *Rule) Equal(other *Rule) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.Freq != other.Freq || r.Interval != other.Interval {
		return false
	}
	if !sameSet(r.DaysOfWeek, other.DaysOfWeek) ||
		!sameSet(r.DaysOfMonth, other.DaysOfMonth) ||
		!sameSet(r.MonthsOfYear, other.MonthsOfYear) ||
		!sameSet(r.SetPositions, other.SetPositions) {
		return false
	}
	if (r.Until == nil) != (other.Until == nil) {
		return false
	}
	if r.Until != nil && !r.Until.Equal(*other.Until) {
		return false
	}
	if (r.Count == nil) != (other.Count == nil) {
		return false
	}
	if r.Count != nil && *r.Count != *other.Count {
		return false
	}
	return true
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
