package main

import (
	"github.com/spf13/cobra"

	"ldapsync/internal/scaffold"
)

var scaffoldForce bool

var scaffoldCmd = &cobra.Command{
	Use:   "scaffold [dir]",
	Short: "Write a starter .env and groups file",
	Long: `Copy the bundled starter files into dir (default: the current directory).
Existing files are kept unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := "."
		if len(args) == 1 {
			dest = args[0]
		}
		res, err := scaffold.CopyFS(appFs, scaffold.Template(), dest, scaffoldForce)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	scaffoldCmd.Flags().BoolVar(&scaffoldForce, "force", false, "overwrite existing files")
}
