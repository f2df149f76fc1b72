package recurrence

import (
	"fmt"
	"slices"
	"strings"
)

var weekdayNames = [8]string{"", "Sunday", "Monday", "Tuesday", "Wednesday",
	"Thursday", "Friday", "Saturday"}

var monthNames = [13]string{"", "January", "February", "March", "April",
	"May", "June", "July", "August", "September", "October", "November",
	"December"}

var positionWords = map[int]string{
	1: "first", 2: "second", 3: "third", 4: "fourth", 5: "fifth",
	-1: "last",
}

// Describe renders the rule as an English sentence fragment, e.g.
// "Every 2 weeks on Monday and Wednesday until Jan 1, 2025". Clause order is
// fixed: frequency, weekdays, month days, months, set positions, terminator.
func (r *Rule) Describe() string {
	var b strings.Builder
	b.WriteString(r.baseClause())

	if len(r.DaysOfWeek) > 0 {
		names := make([]string, 0, len(r.DaysOfWeek))
		for _, d := range canonicalWeekdays(r.DaysOfWeek) {
			names = append(names, weekdayNames[d])
		}
		b.WriteString(" on ")
		b.WriteString(andJoin(names))
	}

	if len(r.DaysOfMonth) > 0 {
		days := slices.Clone(r.DaysOfMonth)
		slices.Sort(days)
		ordinals := make([]string, 0, len(days))
		for _, d := range days {
			ordinals = append(ordinals, Ordinal(d))
		}
		b.WriteString(" on the ")
		b.WriteString(andJoin(ordinals))
	}

	if len(r.MonthsOfYear) > 0 {
		months := slices.Clone(r.MonthsOfYear)
		slices.Sort(months)
		names := make([]string, 0, len(months))
		for _, m := range months {
			if m >= 1 && m <= 12 {
				names = append(names, monthNames[m])
			}
		}
		b.WriteString(" in ")
		b.WriteString(andJoin(names))
	}

	if len(r.SetPositions) > 0 {
		positions := slices.Clone(r.SetPositions)
		slices.Sort(positions)
		words := make([]string, 0, len(positions))
		for _, p := range positions {
			words = append(words, positionWord(p))
		}
		b.WriteString(" on the ")
		b.WriteString(andJoin(words))
	}

	switch {
	case r.Count != nil:
		fmt.Fprintf(&b, ", %d times", *r.Count)
	case r.Until != nil:
		b.WriteString(" until ")
		b.WriteString(r.Until.Format("Jan 2, 2006"))
	}

	return b.String()
}

func (r *Rule) baseClause() string {
	var unit string
	switch r.Freq {
	case Daily:
		unit = "day"
	case Weekly:
		unit = "week"
	case Monthly:
		unit = "month"
	case Yearly:
		unit = "year"
	default:
		unit = strings.ToLower(string(r.Freq))
	}
	if r.Interval > 1 {
		return fmt.Sprintf("Every %d %ss", r.Interval, unit)
	}
	return "Every " + unit
}

// Ordinal renders n with its English ordinal suffix: 1st, 2nd, 3rd, 4th,
// 11th, 21st. Teens always take "th".
func Ordinal(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	suffix := "th"
	if abs%100 < 11 || abs%100 > 13 {
		switch abs % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

func positionWord(p int) string {
	if w, ok := positionWords[p]; ok {
		return w
	}
	return Ordinal(p)
}

// andJoin joins items with commas and a final "and":
// "a", "a and b", "a, b and c".
func andJoin(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

// canonicalWeekdays returns the weekdays sorted Sunday first, deduplicated.
func canonicalWeekdays(days []int) []int {
	out := slices.Clone(days)
	slices.Sort(out)
	return slices.Compact(out)
}
