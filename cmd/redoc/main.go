// Command redoc is the CLI front-end for the conversion toolkit: convert
// between document formats, run OCR, and render templates from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"redoc"
	"redoc/config"
)

var (
	cfgFile string
	client  *redoc.Redoc
)

var rootCmd = &cobra.Command{
	Use:   "redoc",
	Short: "Document format conversion toolkit",
	Long: `redoc converts documents between formats (pdf, html, docx, epub, json,
xml and friends), renders structured documents from templates, and extracts
text from scans with OCR.

Heavy lifting is delegated to external tools where needed: LibreOffice for
office formats, Calibre for e-books, poppler for PDF extraction, and
Tesseract for OCR.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		client = redoc.New(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./redoc.yaml or ~/.config/redoc/redoc.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
