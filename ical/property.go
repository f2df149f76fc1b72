package ical

import "strings"

// Param is a single property parameter. Name keeps its original spelling;
// comparisons are case-insensitive.
type Param struct {
	Name   string
	Values []string
}

// Property is one logical content line: NAME;PARAM=VAL:VALUE.
// Name keeps its original spelling; comparisons use the uppercase form.
type Property struct {
	Name   string
	Params []Param
	Value  string
}

// Param returns the first value of the named parameter, matched
// case-insensitively, and whether it was present.
func (p *Property) Param(name string) (string, bool) {
	for _, param := range p.Params {
		if strings.EqualFold(param.Name, name) {
			if len(param.Values) == 0 {
				return "", true
			}
			return param.Values[0], true
		}
	}
	return "", false
}

// Is reports whether the property has the given name, case-insensitively.
func (p *Property) Is(name string) bool {
	return strings.EqualFold(p.Name, name)
}

// tokenize splits one logical line into name, parameters and value.
// The value starts at the first colon that is outside a double-quoted
// parameter value. Parameter values may be quoted; multiple values for one
// parameter are comma-separated.
func tokenize(line string, lineNo int) (Property, error) {
	var prop Property

	colon := -1
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inQuotes = !inQuotes
		case ':':
			if !inQuotes {
				colon = i
			}
		}
		if colon >= 0 {
			break
		}
	}
	if colon < 0 {
		return prop, newError(ErrMalformedProperty, lineNo,
			"no top-level colon in %q", truncate(line, 40))
	}

	head := line[:colon]
	prop.Value = line[colon+1:]

	segments := splitUnquoted(head, ';')
	prop.Name = strings.TrimSpace(segments[0])
	if prop.Name == "" {
		return prop, newError(ErrMalformedProperty, lineNo, "empty property name")
	}

	for _, seg := range segments[1:] {
		name, raw, found := strings.Cut(seg, "=")
		if !found {
			// parameter without a value; keep the name so the
			// encoder can reproduce it
			prop.Params = append(prop.Params, Param{Name: strings.TrimSpace(seg)})
			continue
		}
		values := splitUnquoted(raw, ',')
		for i, v := range values {
			values[i] = strings.Trim(v, `"`)
		}
		prop.Params = append(prop.Params, Param{
			Name:   strings.TrimSpace(name),
			Values: values,
		})
	}

	return prop, nil
}

// splitUnquoted splits s on sep, ignoring separators inside double quotes.
func splitUnquoted(s string, sep byte) []string {
	var parts []string
	start := 0
	inQuotes := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuotes = !inQuotes
		case sep:
			if !inQuotes {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
