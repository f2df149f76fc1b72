package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/icalite/icalite/recurrence"
)

func newExpandCommand() *cobra.Command {
	var dtstartFlag string
	var fromFlag string
	var toFlag string
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "expand <rrule>",
		Short: "List the concrete occurrences of an RRULE in a date range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimPrefix(strings.TrimSpace(args[0]), "RRULE:")
			rule, err := recurrence.FromRRule(text)
			if err != nil {
				return err
			}

			dtstart, err := parseFlagTime(dtstartFlag, time.Now().UTC().Truncate(time.Hour))
			if err != nil {
				return fmt.Errorf("--dtstart: %w", err)
			}
			from, err := parseFlagTime(fromFlag, dtstart)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			to, err := parseFlagTime(toFlag, from.AddDate(1, 0, 0))
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			engine := recurrence.NewEngineWithOptions(recurrence.EngineOptions{
				MaxOccurrences: limitFlag,
			})
			occurrences, err := engine.ExpandBetween(dtstart, rule, from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s:\n", rule.Describe())
			for _, t := range occurrences {
				fmt.Fprintln(out, "  "+t.Format("Mon, 02 Jan 2006 15:04 MST"))
			}
			fmt.Fprintf(out, "%d occurrences\n", len(occurrences))
			return nil
		},
	}

	cmd.Flags().StringVar(&dtstartFlag, "dtstart", "", "Anchor time, RFC 3339 or YYYY-MM-DD (default now)")
	cmd.Flags().StringVar(&fromFlag, "from", "", "Range start (default dtstart)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Range end (default one year after range start)")
	cmd.Flags().IntVar(&limitFlag, "limit", 100, "Maximum occurrences to list")

	return cmd
}

func parseFlagTime(value string, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("want RFC 3339 or YYYY-MM-DD, got %q", value)
	}
	return t, nil
}
