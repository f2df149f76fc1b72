package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/icalite/icalite/ical"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var timezoneFlag string

	cmd := &cobra.Command{
		Use:   "import <file.ics>",
		Short: "Parse an .ics file and summarize its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			zone, err := cfg.zone()
			if err != nil {
				return err
			}
			if timezoneFlag != "" {
				zone, err = time.LoadLocation(timezoneFlag)
				if err != nil {
					return fmt.Errorf("timezone %q: %w", timezoneFlag, err)
				}
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			result, err := ical.Parse(string(data), &ical.ParseOptions{
				DefaultZone: zone,
				Logger:      ctx.logger(),
			})
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			rows := make([][]string, 0, len(result.Events))
			for _, event := range result.Events {
				rows = append(rows, []string{
					event.Summary,
					formatEventTime(event.Start, event.AllDay),
					event.Location,
					describeRule(event),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Summary", "Start", "Location", "Repeats"}, rows))
			fmt.Fprintf(out, "%d events imported, %d warnings\n",
				len(result.Events), len(result.Warnings))
			for _, warning := range result.Warnings {
				fmt.Fprintf(out, "  warning: %s\n", warning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&timezoneFlag, "timezone", "", "Zone for floating date-times (overrides config)")

	return cmd
}

func formatEventTime(t time.Time, allDay bool) string {
	if allDay {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04 MST")
}

func describeRule(event *ical.CalendarEvent) string {
	if event.Recurrence == nil {
		return ""
	}
	return event.Recurrence.Describe()
}
