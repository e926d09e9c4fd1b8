package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ldapsync/internal/fiscal"
)

var fiscalCmd = &cobra.Command{
	Use:   "fiscal [YYYY-MM-DD]",
	Short: "Place a date (default today) on the fiscal calendar",
	Long: `Print the fiscal year, quarter and period of a date, with their bounds.
The year starts in FISCAL_START_MONTH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cal, err := fiscal.New(time.Month(cfg.FiscalStartMonth), time.Local)
		if err != nil {
			return err
		}
		at := time.Now()
		if len(args) == 1 {
			at, err = time.ParseInLocation(time.DateOnly, args[0], cal.Location())
			if err != nil {
				return fmt.Errorf("invalid date %q: want YYYY-MM-DD", args[0])
			}
		}
		return printJSON(cmd.OutOrStdout(), cal.Describe(at))
	},
}
