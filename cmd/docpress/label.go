package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/docpress/internal/label"
	"github.com/pdiddy/docpress/pkg/types"
)

var labelCmd = &cobra.Command{
	Use:   "label [files...]",
	Short: "Stamp filename labels onto PDF pages",
	Long: `Label stamps each PDF's filename (without extension) onto every page
through pdfcpu. Position, font size, color, and opacity are configurable;
the stamp is always applied to the original file, so repeat runs never
accumulate labels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig().Label
		applyBatchFlags(cmd, &cfg.BatchConfig)

		if cmd.Flags().Changed("position") {
			pos, _ := cmd.Flags().GetString("position")
			cfg.Position = types.LabelPosition(pos)
		}
		if cmd.Flags().Changed("font-size") {
			cfg.FontSize, _ = cmd.Flags().GetInt("font-size")
		}
		if cmd.Flags().Changed("color") {
			cfg.Color, _ = cmd.Flags().GetString("color")
		}
		if cmd.Flags().Changed("opacity") {
			cfg.Opacity, _ = cmd.Flags().GetFloat64("opacity")
		}
		if cmd.Flags().Changed("pdfcpu-path") {
			cfg.PdfcpuPath, _ = cmd.Flags().GetString("pdfcpu-path")
		}

		inputs, err := resolveInputs(cmd, args, "label", &cfg.BatchConfig)
		if err != nil {
			return err
		}
		return runBatch(cmd, label.New(cfg), cfg.BatchConfig, buildConfig().HistoryDir, inputs)
	},
}

func init() {
	addBatchFlags(labelCmd)
	labelCmd.Flags().String("position", "footer", "label position: header, footer, top-left, top-right, bottom-left, or bottom-right")
	labelCmd.Flags().Int("font-size", 10, "label font size in points")
	labelCmd.Flags().String("color", "#FF0000", "label color as a hex string")
	labelCmd.Flags().Float64("opacity", 1.0, "label opacity from 0.0 to 1.0")
	labelCmd.Flags().String("pdfcpu-path", "", "explicit path to the pdfcpu binary")

	rootCmd.AddCommand(labelCmd)
}
