package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ldapsync/internal/app"
	"ldapsync/internal/service"
)

var (
	syncRecursive  bool
	syncDryRun     bool
	syncGroupsFile string
)

var syncCmd = &cobra.Command{
	Use:   "sync [group...]",
	Short: "Reconcile directory groups into the record store",
	Long: `Resolve each group in the directory and bring its record-store
membership in line: missing users are added and departed users removed.

Groups are given as arguments, in a file (one per line), or both. Each group
is synced independently; the command fails if any of them failed.

Example:
  ldapsync sync admins
  ldapsync sync --groups-file groups.txt --recursive=false
  ldapsync sync --dry-run "cn=helpdesk,ou=groups,dc=example,dc=com"`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncRecursive, "recursive", true, "follow nested groups (default from SYNC_RECURSIVE)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "report the changes without writing them")
	syncCmd.Flags().StringVarP(&syncGroupsFile, "groups-file", "f", "", "file listing groups to sync")
}

func runSync(cmd *cobra.Command, args []string) error {
	groups, err := collectGroups(args)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return errors.New("no groups given: pass group names or --groups-file")
	}

	recursive := cfg.Sync.Recursive
	if cmd.Flags().Changed("recursive") {
		recursive = syncRecursive
	}

	reqs := make([]service.SyncRequest, 0, len(groups))
	for _, g := range groups {
		reqs = append(reqs, service.SyncRequest{Group: g, Recursive: recursive, DryRun: syncDryRun})
	}

	return withApp(cmd, func(a *app.App) error {
		results, syncErr := a.Sync.SyncAll(cmd.Context(), reqs)
		if err := printJSON(cmd.OutOrStdout(), results); err != nil {
			return err
		}
		if syncErr != nil {
			failed := 0
			for _, r := range results {
				if r.Error != "" {
					failed++
				}
			}
			return fmt.Errorf("%d of %d groups failed: %w", failed, len(reqs), syncErr)
		}
		return nil
	})
}

func collectGroups(args []string) ([]string, error) {
	var groups []string
	seen := map[string]bool{}
	add := func(g string) {
		g = strings.TrimSpace(g)
		if g != "" && !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}

	for _, a := range args {
		add(a)
	}
	if syncGroupsFile != "" {
		fromFile, err := readGroupsFile(appFs, syncGroupsFile)
		if err != nil {
			return nil, err
		}
		for _, g := range fromFile {
			add(g)
		}
	}
	return groups, nil
}
