package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docpress/internal/batch"
	"github.com/pdiddy/docpress/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded batch runs",
	Long: `History lists past batch runs, shows the per-file outcomes of a single
run, and exports the full run history to YAML or JSON.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(buildConfig().HistoryDir)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Runs(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no recorded runs")
			return nil
		}

		for _, r := range runs {
			fmt.Printf("%s  %-8s  %s  total:%d ok:%d failed:%d skipped:%d  %.1fs\n",
				r.ID[:8], r.Operation, r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				r.Total, r.Succeeded, r.Failed, r.Skipped, float64(r.ElapsedMS)/1000)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the per-file outcomes of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(buildConfig().HistoryDir)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.FindRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		outcomes, err := store.Outcomes(cmd.Context(), run.ID)
		if err != nil {
			return err
		}

		fmt.Printf("run %s (%s), started %s\n\n", run.ID, run.Operation,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"))
		for _, o := range outcomes {
			switch o.Status {
			case "succeeded":
				detail := ""
				if o.SizeBefore > 0 && o.SizeAfter > 0 {
					detail = fmt.Sprintf(" (%s -> %s)",
						batch.FormatBytes(o.SizeBefore), batch.FormatBytes(o.SizeAfter))
				} else if o.Pages > 0 {
					detail = fmt.Sprintf(" (%d pages)", o.Pages)
				}
				fmt.Printf("  ok       %s%s\n", o.Input, detail)
			case "failed":
				fmt.Printf("  failed   %s: %s\n", o.Input, o.Message)
			default:
				fmt.Printf("  skipped  %s: %s\n", o.Input, o.Message)
			}
		}
		return nil
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run history to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := history.Open(buildConfig().HistoryDir)
		if err != nil {
			return err
		}
		defer store.Close()

		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = "history." + format
		}

		switch format {
		case "yaml":
			err = store.ExportYAML(cmd.Context(), out)
		case "json":
			err = store.ExportJSON(cmd.Context(), out)
		default:
			return fmt.Errorf("unknown format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("exported to", out)
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "output path (default: history.<format>)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
