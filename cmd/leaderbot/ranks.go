package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ranksCmd = &cobra.Command{
	Use:   "ranks",
	Short: "Print the rank ladder from the data file",
	RunE: func(cmd *cobra.Command, args []string) error {
		lb, err := loadBoard(cmd)
		if err != nil {
			return err
		}
		gates := lb.Ladder().Descending()
		if len(gates) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No ranks configured")
			return nil
		}
		for _, g := range gates {
			fmt.Fprintf(cmd.OutOrStdout(), "%s - %d points\n", g.Label, g.Threshold)
		}
		return nil
	},
}
