package ical

import "strings"

// Component kinds the codec understands. Other kinds are carried through
// untouched.
const (
	compCalendar = "VCALENDAR"
	compEvent    = "VEVENT"
	compAlarm    = "VALARM"
)

// Component is a BEGIN/END-bracketed group of properties with nested
// sub-components, in file order.
type Component struct {
	Name     string
	Props    []Property
	Children []*Component
}

// Prop returns the first property with the given name, or nil.
func (c *Component) Prop(name string) *Property {
	for i := range c.Props {
		if c.Props[i].Is(name) {
			return &c.Props[i]
		}
	}
	return nil
}

// PropsNamed returns all properties with the given name, in order.
func (c *Component) PropsNamed(name string) []*Property {
	var out []*Property
	for i := range c.Props {
		if c.Props[i].Is(name) {
			out = append(out, &c.Props[i])
		}
	}
	return out
}

// ChildrenNamed returns all direct sub-components of the given kind.
func (c *Component) ChildrenNamed(name string) []*Component {
	var out []*Component
	for _, child := range c.Children {
		if strings.EqualFold(child.Name, name) {
			out = append(out, child)
		}
	}
	return out
}

// assemble groups the logical-line stream into components. BEGIN pushes a
// new component, a matching END pops it; mismatched or missing markers are
// structural errors. The returned slice holds the top-level components in
// file order.
func assemble(lines []string) ([]*Component, error) {
	var top []*Component
	var stack []*Component

	for i, line := range lines {
		lineNo := i + 1
		prop, err := tokenize(line, lineNo)
		if err != nil {
			return nil, err
		}

		switch {
		case prop.Is("BEGIN"):
			comp := &Component{Name: strings.ToUpper(strings.TrimSpace(prop.Value))}
			if len(stack) == 0 {
				top = append(top, comp)
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, comp)
			}
			stack = append(stack, comp)

		case prop.Is("END"):
			name := strings.ToUpper(strings.TrimSpace(prop.Value))
			if len(stack) == 0 {
				return nil, newError(ErrUnbalancedComponent, lineNo,
					"END:%s without matching BEGIN", name)
			}
			open := stack[len(stack)-1]
			if open.Name != name {
				return nil, newError(ErrUnbalancedComponent, lineNo,
					"END:%s closes open %s", name, open.Name)
			}
			stack = stack[:len(stack)-1]

		default:
			if len(stack) == 0 {
				// properties outside any component are tolerated
				// and ignored, matching common producer sloppiness
				continue
			}
			current := stack[len(stack)-1]
			current.Props = append(current.Props, prop)
		}
	}

	if len(stack) > 0 {
		return nil, newError(ErrUnbalancedComponent, len(lines),
			"BEGIN:%s never closed", stack[len(stack)-1].Name)
	}

	return top, nil
}
