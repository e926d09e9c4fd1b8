package main

import (
	"github.com/spf13/cobra"

	"ldapsync/internal/app"
)

var resolveRecursive bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <group>",
	Short: "Print a group's membership as seen in the directory",
	Long: `Resolve a group by name or DN and print its persons, nested groups and
unclassified members as JSON. Nothing is written to the record store.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive := cfg.Sync.Recursive
		if cmd.Flags().Changed("recursive") {
			recursive = resolveRecursive
		}
		return withApp(cmd, func(a *app.App) error {
			res, err := a.Sync.Resolve(cmd.Context(), args[0], recursive)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveRecursive, "recursive", true, "follow nested groups (default from SYNC_RECURSIVE)")
}
