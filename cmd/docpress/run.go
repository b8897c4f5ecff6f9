package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docpress/internal/batch"
	"github.com/pdiddy/docpress/internal/display"
	"github.com/pdiddy/docpress/internal/history"
	"github.com/pdiddy/docpress/internal/validate"
	"github.com/pdiddy/docpress/pkg/types"
)

// buildConfig assembles the full configuration from viper, which layers
// config file, environment, and defaults.
func buildConfig() types.Config {
	return types.Config{
		Convert: types.ConvertConfig{
			BatchConfig:    batchConfig("convert"),
			CompressImages: viper.GetBool("convert.compress_images"),
			ImageQuality:   viper.GetInt("convert.image_quality"),
			OptimizePNG:    viper.GetBool("convert.optimize_png"),
			SofficePath:    viper.GetString("convert.soffice_path"),
		},
		Compress: types.CompressConfig{
			BatchConfig:     batchConfig("compress"),
			Preset:          types.CompressionPreset(viper.GetString("compress.preset")),
			TargetDPI:       viper.GetInt("compress.target_dpi"),
			ImageQuality:    viper.GetInt("compress.image_quality"),
			GhostscriptPath: viper.GetString("compress.ghostscript_path"),
		},
		Label: types.LabelConfig{
			BatchConfig: batchConfig("label"),
			Position:    types.LabelPosition(viper.GetString("label.position")),
			FontSize:    viper.GetInt("label.font_size"),
			Color:       viper.GetString("label.color"),
			Opacity:     viper.GetFloat64("label.opacity"),
			PdfcpuPath:  viper.GetString("label.pdfcpu_path"),
		},
		HistoryDir: viper.GetString("history_dir"),
	}
}

func batchConfig(op string) types.BatchConfig {
	return types.BatchConfig{
		OutputDir: viper.GetString(op + ".output_dir"),
		Policy:    types.FailurePolicy(viper.GetString(op + ".policy")),
		Workers:   viper.GetInt(op + ".workers"),
	}
}

// addBatchFlags registers the flags every operation command shares.
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().String("output-dir", "output", "directory for output files")
	cmd.Flags().Int("workers", 1, "number of files processed concurrently")
	cmd.Flags().Bool("stop-on-error", false, "abort the batch after the first failure")
	cmd.Flags().String("list", "", "read inputs and batch settings from a saved batch list")
	cmd.Flags().String("save-list", "", "save inputs and batch settings to a batch list file")
}

// applyBatchFlags overrides config values with explicitly set flags.
func applyBatchFlags(cmd *cobra.Command, cfg *types.BatchConfig) {
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("stop-on-error") {
		if stop, _ := cmd.Flags().GetBool("stop-on-error"); stop {
			cfg.Policy = types.StopOnFirstFailure
		} else {
			cfg.Policy = types.ContinueOnError
		}
	}
}

// resolveInputs returns the input paths for a run: either the command
// arguments or, with --list, a saved batch list whose settings also apply.
// With --save-list the resolved inputs and settings are written back out.
func resolveInputs(cmd *cobra.Command, args []string, opName string, cfg *types.BatchConfig) ([]string, error) {
	inputs := args

	listPath, _ := cmd.Flags().GetString("list")
	if listPath != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--list cannot be combined with file arguments")
		}
		l, err := batch.LoadList(listPath)
		if err != nil {
			return nil, err
		}
		if l.Operation != "" && l.Operation != opName {
			return nil, fmt.Errorf("batch list %s is for operation %q, not %q", listPath, l.Operation, opName)
		}
		if l.OutputDir != "" {
			cfg.OutputDir = l.OutputDir
		}
		if l.Policy != "" {
			cfg.Policy = l.Policy
		}
		if l.Workers > 0 {
			cfg.Workers = l.Workers
		}
		inputs = l.Files
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files: pass file arguments or --list")
	}

	savePath, _ := cmd.Flags().GetString("save-list")
	if savePath != "" {
		l := batch.List{
			Operation: opName,
			Files:     inputs,
			OutputDir: cfg.OutputDir,
			Policy:    cfg.Policy,
			Workers:   cfg.Workers,
		}
		if err := batch.SaveList(savePath, l); err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Saved batch list: %s\n", savePath)
	}

	return inputs, nil
}

// runBatch executes one batch with console progress, prints the summary,
// and records the run. It returns an error when any file failed so the
// process exits nonzero.
func runBatch(cmd *cobra.Command, op batch.Operation, cfg types.BatchConfig, historyDir string, inputs []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, in := range inputs {
		if msg, ok := validate.Warning(in); ok {
			fmt.Fprintln(os.Stderr, "warning:", msg)
		}
	}

	reporter := display.NewReporter(os.Stdout, len(inputs))
	report := batch.New(op, cfg, reporter).Run(ctx, inputs)

	summary := batch.Summarize(report)
	fmt.Println()
	fmt.Println(display.RenderTable(display.SummaryRows(report)))
	for _, d := range summary.FailedDetails {
		fmt.Printf("  %s: %s (%s)\n", d.Path, d.Reason, batch.KindLabel(d.Kind))
	}

	recordRun(historyDir, report)

	if report.HasFailures() {
		return fmt.Errorf("%d of %d files failed", report.FailureCount(), report.Total())
	}
	return nil
}

// recordRun persists the report best-effort; a broken history database
// never fails the batch itself.
func recordRun(historyDir string, report types.BatchReport) {
	store, err := history.Open(historyDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run history unavailable: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Record(context.Background(), report); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run history: %v\n", err)
	}
}
