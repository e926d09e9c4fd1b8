package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ldapsync/internal/app"
)

var reportCmd = &cobra.Command{
	Use:   "report <run-id>",
	Short: "Print the archived report of a sync run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			rc, err := a.Groups.Report(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer rc.Close()

			if _, err := io.Copy(cmd.OutOrStdout(), rc); err != nil {
				return fmt.Errorf("stream report: %w", err)
			}
			return nil
		})
	},
}
