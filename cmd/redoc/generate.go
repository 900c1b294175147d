package main

import (
	"github.com/spf13/cobra"
)

var (
	generateFormat string
	generateOutput string
)

var generateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate a document from a prompt (reserved)",
	Long: `Reserved extension point for model-driven document generation. The
operation is not implemented and always fails explicitly.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := client.Generate(cmd.Context(), args[0], generateFormat, generateOutput, nil)
		return err
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateFormat, "format", "pdf", "output format")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file path")

	rootCmd.AddCommand(generateCmd)
}
