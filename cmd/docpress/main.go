// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docpress CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the docpress CLI.
var rootCmd = &cobra.Command{
	Use:   "docpress",
	Short: "Batch document conversion, compression, and labeling",
	Long: `docpress processes batches of documents: converts Word files to PDF,
compresses PDFs through Ghostscript, and stamps filename labels onto PDF
pages. Every run produces a per-file report and is recorded in a local
history database.

Each operation is a subcommand: convert, compress, and label. Past runs
are inspected through the history subcommand.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./docpress.yaml or ~/.config/docpress/docpress.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docpress")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docpress"))
		}
	}

	viper.SetEnvPrefix("DOCPRESS")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	for _, op := range []string{"convert", "compress", "label"} {
		viper.SetDefault(op+".output_dir", "output")
		viper.SetDefault(op+".policy", "continue-on-error")
		viper.SetDefault(op+".workers", 1)
	}

	viper.SetDefault("convert.image_quality", 75)

	viper.SetDefault("compress.preset", "ebook")

	viper.SetDefault("label.position", "footer")
	viper.SetDefault("label.font_size", 10)
	viper.SetDefault("label.color", "#FF0000")
	viper.SetDefault("label.opacity", 1.0)

	viper.SetDefault("history_dir", defaultHistoryDir())
}

func defaultHistoryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docpress"
	}
	return filepath.Join(home, ".local", "share", "docpress")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
