package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"redoc/convert"
)

var (
	ocrOutput   string
	ocrLanguage string
	ocrDPI      int
	ocrPSM      int
	ocrOEM      int
	ocrPartial  bool
	ocrJSON     bool
)

var ocrCmd = &cobra.Command{
	Use:   "ocr <source>",
	Short: "Extract text from an image or PDF",
	Long: `Run OCR over an image or a multi-page PDF. Pages are processed in
order; with --output a searchable PDF is written that overlays the recognized
text invisibly on the original pages.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := convert.Options{}
		if ocrLanguage != "" {
			opts["language"] = ocrLanguage
		}
		if ocrDPI > 0 {
			opts["dpi"] = ocrDPI
		}
		if ocrPSM >= 0 {
			opts["psm"] = ocrPSM
		}
		if ocrOEM >= 0 {
			opts["oem"] = ocrOEM
		}
		if ocrPartial {
			opts["partial"] = true
		}

		res, err := client.OCR(cmd.Context(), args[0], ocrOutput, opts)
		if err != nil {
			return err
		}
		if ocrJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		if res.OutputPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "searchable pdf: %s\n", res.OutputPath)
		}
		return nil
	},
}

func init() {
	ocrCmd.Flags().StringVarP(&ocrOutput, "output", "o", "", "write a searchable PDF here")
	ocrCmd.Flags().StringVar(&ocrLanguage, "lang", "", "language codes, joined with + (default from config)")
	ocrCmd.Flags().IntVar(&ocrDPI, "dpi", 0, "rasterization DPI for PDF sources")
	ocrCmd.Flags().IntVar(&ocrPSM, "psm", -1, "tesseract page segmentation mode")
	ocrCmd.Flags().IntVar(&ocrOEM, "oem", -1, "tesseract engine mode")
	ocrCmd.Flags().BoolVar(&ocrPartial, "partial", false, "tolerate per-page recognition failures")
	ocrCmd.Flags().BoolVar(&ocrJSON, "json", false, "print the full result as JSON")

	rootCmd.AddCommand(ocrCmd)
}
