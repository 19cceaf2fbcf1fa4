package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func getCmdList(gs *globalState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scenarios, err := selectScenarios(cmd.Flags())
			if err != nil {
				return err
			}
			width := 0
			for _, s := range scenarios {
				width = max(width, len(s.Name))
			}
			for _, s := range scenarios {
				fmt.Fprintf(gs.stdout, "%-*s  %s\n", width, s.Name, gs.paint(faint, strings.Join(s.Tags, ",")))
			}
			return nil
		},
	}
	cmd.Flags().AddFlagSet(filterFlagSet())
	return cmd
}
