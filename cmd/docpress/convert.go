package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/docpress/internal/render"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert Word documents to PDF",
	Long: `Convert renders Word documents (.doc, .docx, .rtf) to PDF through a
headless LibreOffice. For .docx sources, embedded images can be
re-encoded before rendering to shrink the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig().Convert
		applyBatchFlags(cmd, &cfg.BatchConfig)

		if cmd.Flags().Changed("compress-images") {
			cfg.CompressImages, _ = cmd.Flags().GetBool("compress-images")
		}
		if cmd.Flags().Changed("image-quality") {
			cfg.ImageQuality, _ = cmd.Flags().GetInt("image-quality")
		}
		if cmd.Flags().Changed("optimize-png") {
			cfg.OptimizePNG, _ = cmd.Flags().GetBool("optimize-png")
		}
		if cmd.Flags().Changed("soffice-path") {
			cfg.SofficePath, _ = cmd.Flags().GetString("soffice-path")
		}

		inputs, err := resolveInputs(cmd, args, "convert", &cfg.BatchConfig)
		if err != nil {
			return err
		}
		return runBatch(cmd, render.New(cfg), cfg.BatchConfig, buildConfig().HistoryDir, inputs)
	},
}

func init() {
	addBatchFlags(convertCmd)
	convertCmd.Flags().Bool("compress-images", false, "re-encode images embedded in .docx sources before rendering")
	convertCmd.Flags().Int("image-quality", 75, "JPEG quality (1-100) for re-encoded embedded images")
	convertCmd.Flags().Bool("optimize-png", false, "re-encode embedded PNGs with best compression")
	convertCmd.Flags().String("soffice-path", "", "explicit path to the LibreOffice binary")

	rootCmd.AddCommand(convertCmd)
}
