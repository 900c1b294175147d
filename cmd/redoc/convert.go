package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"redoc/convert"
	"redoc/format"
)

var (
	convertTo       string
	convertFrom     string
	convertOutput   string
	convertTemplate string
	convertData     string
	convertTitle    string
)

var convertCmd = &cobra.Command{
	Use:   "convert [source]",
	Short: "Convert a document to another format",
	Long: `Convert a file or a rendered template to the target format.

With a source file the target is taken from --to, or inferred from the
--output extension. With --template the source is a template document filled
from the JSON file given by --data.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := convert.Options{}
		if convertFrom != "" {
			opts["from"] = convertFrom
		}
		if convertTitle != "" {
			opts["title"] = convertTitle
		}

		var source interface{}
		switch {
		case convertTemplate != "":
			data := map[string]interface{}{}
			if convertData != "" {
				raw, err := os.ReadFile(convertData)
				if err != nil {
					return fmt.Errorf("read data file: %w", err)
				}
				if err := json.Unmarshal(raw, &data); err != nil {
					return fmt.Errorf("parse data file: %w", err)
				}
			}
			source = map[string]interface{}{
				"template": convertTemplate,
				"data":     data,
			}
		case len(args) == 1:
			source = args[0]
		default:
			return fmt.Errorf("either a source file or --template is required")
		}

		target := convertTo
		if target == "" && convertOutput != "" {
			target = string(format.FromPath(convertOutput))
		}

		art, err := client.Convert(cmd.Context(), source, target, convertOutput, opts)
		if err != nil {
			return err
		}
		if art.Path != "" {
			fmt.Fprintln(cmd.OutOrStdout(), art.Path)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), art.Content)
		return nil
	},
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the registered converter formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, id := range client.Registry().Formats() {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target format (pdf, html, docx, ...)")
	convertCmd.Flags().StringVar(&convertFrom, "from", "", "source format override")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file path")
	convertCmd.Flags().StringVar(&convertTemplate, "template", "", "template name or path to render")
	convertCmd.Flags().StringVar(&convertData, "data", "", "JSON file with template data")
	convertCmd.Flags().StringVar(&convertTitle, "title", "", "document title for formats that carry one")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(formatsCmd)
}
