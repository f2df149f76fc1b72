package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/icalite/icalite/ical"
	"github.com/icalite/icalite/internal/xcal"
	"github.com/icalite/icalite/recurrence"
)

// eventFile is the TOML document the export command reads.
type eventFile struct {
	Events []eventSpec `toml:"events"`
}

type eventSpec struct {
	UID         string    `toml:"uid"`
	Summary     string    `toml:"summary"`
	Description string    `toml:"description"`
	Location    string    `toml:"location"`
	URL         string    `toml:"url"`
	Start       time.Time `toml:"start"`
	End         time.Time `toml:"end"`
	AllDay      bool      `toml:"all_day"`
	RRule       string    `toml:"rrule"`
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "export <events.toml>",
		Short: "Encode a TOML event list as iCalendar or xCal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var file eventFile
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			events := make([]*ical.CalendarEvent, 0, len(file.Events))
			for i, spec := range file.Events {
				event, err := spec.toEvent()
				if err != nil {
					return fmt.Errorf("event %d: %w", i+1, err)
				}
				events = append(events, event)
			}

			var out string
			switch formatFlag {
			case "ics":
				out = ical.Encode(events)
			case "xcal":
				out, err = xcal.Marshal(events)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want ics or xcal)", formatFlag)
			}

			if outputFlag == "" || outputFlag == "-" {
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			return os.WriteFile(outputFlag, []byte(out), 0o644)
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "ics", "Output format: ics or xcal")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func (s eventSpec) toEvent() (*ical.CalendarEvent, error) {
	event := &ical.CalendarEvent{
		UID:         s.UID,
		Summary:     s.Summary,
		Description: s.Description,
		Location:    s.Location,
		URL:         s.URL,
		Start:       s.Start,
		End:         s.End,
		AllDay:      s.AllDay,
	}
	if s.Summary == "" {
		return nil, fmt.Errorf("summary is required")
	}
	if s.Start.IsZero() {
		return nil, fmt.Errorf("start is required")
	}
	if s.RRule != "" {
		rule, err := recurrence.FromRRule(s.RRule)
		if err != nil {
			return nil, fmt.Errorf("rrule: %w", err)
		}
		event.Recurrence = rule
	}
	return event, nil
}
