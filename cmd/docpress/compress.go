package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/docpress/internal/compress"
	"github.com/pdiddy/docpress/pkg/types"
)

var compressCmd = &cobra.Command{
	Use:   "compress [files...]",
	Short: "Compress PDF files through Ghostscript",
	Long: `Compress rewrites PDFs through Ghostscript, downsampling images to a
preset or explicit resolution. Presets: screen, ebook, printer, prepress,
default. Output that ends up larger than the input is kept and flagged,
not treated as a failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig().Compress
		applyBatchFlags(cmd, &cfg.BatchConfig)

		if cmd.Flags().Changed("preset") {
			preset, _ := cmd.Flags().GetString("preset")
			cfg.Preset = types.CompressionPreset(preset)
		}
		if cmd.Flags().Changed("target-dpi") {
			cfg.TargetDPI, _ = cmd.Flags().GetInt("target-dpi")
		}
		if cmd.Flags().Changed("image-quality") {
			cfg.ImageQuality, _ = cmd.Flags().GetInt("image-quality")
		}
		if cmd.Flags().Changed("ghostscript-path") {
			cfg.GhostscriptPath, _ = cmd.Flags().GetString("ghostscript-path")
		}

		inputs, err := resolveInputs(cmd, args, "compress", &cfg.BatchConfig)
		if err != nil {
			return err
		}
		return runBatch(cmd, compress.New(cfg), cfg.BatchConfig, buildConfig().HistoryDir, inputs)
	},
}

func init() {
	addBatchFlags(compressCmd)
	compressCmd.Flags().String("preset", "ebook", "quality preset: screen, ebook, printer, prepress, or default")
	compressCmd.Flags().Int("target-dpi", 0, "override the preset's image resolution")
	compressCmd.Flags().Int("image-quality", 0, "override the preset's JPEG quality (1-100)")
	compressCmd.Flags().String("ghostscript-path", "", "explicit path to the Ghostscript binary")

	rootCmd.AddCommand(compressCmd)
}
