package ical

import (
	"strings"
	"unicode/utf8"
)

// foldLimit is the maximum octet count of a physical line per RFC 5545 §3.1,
// excluding the line terminator.
const foldLimit = 75

// unfold normalizes line endings and reverses RFC 5545 line folding.
// A physical line starting with a single SPACE or TAB continues the previous
// logical line; the break and the one leading whitespace octet are removed.
// Blank lines are dropped. The returned slice preserves input order.
func unfold(text string) ([]string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var lines []string
	var current strings.Builder
	haveCurrent := false

	flush := func() {
		if haveCurrent {
			if s := current.String(); s != "" {
				lines = append(lines, s)
			}
			current.Reset()
			haveCurrent = false
		}
	}

	for _, physical := range strings.Split(text, "\n") {
		if len(physical) > 0 && (physical[0] == ' ' || physical[0] == '\t') {
			if !haveCurrent {
				return nil, newError(ErrDanglingContinuation, len(lines)+1,
					"continuation line with no preceding line")
			}
			current.WriteString(physical[1:])
			continue
		}
		flush()
		if physical == "" {
			continue
		}
		current.WriteString(physical)
		haveCurrent = true
	}
	flush()

	return lines, nil
}

// fold wraps a logical line into physical lines of at most foldLimit octets,
// joined by CRLF plus a single leading space. Splits happen only on rune
// boundaries so multi-byte UTF-8 sequences stay intact, and never between a
// backslash and its escape code.
func fold(line string) string {
	if len(line) <= foldLimit {
		return line
	}

	var b strings.Builder
	limit := foldLimit
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		// keep a backslash with its escape code: an odd run of
		// backslashes before the cut means the last one starts a pair
		run := 0
		for cut-run > 0 && line[cut-run-1] == '\\' {
			run++
		}
		if run%2 == 1 {
			cut--
		}
		if cut == 0 {
			break
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// continuation lines start with one space, which counts
		// toward the 75-octet limit
		limit = foldLimit - 1
	}
	b.WriteString(line)
	return b.String()
}
