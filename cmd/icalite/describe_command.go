package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/icalite/icalite/recurrence"
)

func newDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <rrule>",
		Short: "Render an RRULE as plain English",
		Long: `Render an RFC 5545 recurrence rule as plain English, e.g.

  icalite describe "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,WE"
  Every 2 weeks on Monday and Wednesday`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimPrefix(strings.TrimSpace(args[0]), "RRULE:")
			rule, warnings, err := recurrence.DecodeRRule(text)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, warning := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", warning)
			}
			fmt.Fprintln(out, rule.Describe())
			return nil
		},
	}
}
