package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoArchive = errors.New("no persisted report store configured (set output.reports_dir or redis.url)")

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect reports saved by previous submissions",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored report IDs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.Archive == nil {
			return errNoArchive
		}

		ids, err := rt.Archive.List(cmdContext(cmd))
		if err != nil {
			return fmt.Errorf("failed to list reports: %w", err)
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.Archive == nil {
			return errNoArchive
		}

		report, err := rt.Archive.Load(cmdContext(cmd), args[0])
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}
		fmt.Fprint(cmd.OutOrStdout(), report.Markdown)
		return nil
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()
		if rt.Archive == nil {
			return errNoArchive
		}
		return rt.Archive.Delete(cmdContext(cmd), args[0])
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd, reportsShowCmd, reportsDeleteCmd)
	reportsShowCmd.Flags().Bool("json", false, "Print the full report as JSON")
}
