package cli

import (
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load-recipes <file>",
	Short: "Upsert the recipes in a structured text file",
	Long: `Reads a text file of "Title:" blocks and upserts each recipe by title.
A file without any structured block is parsed by the language model as one recipe.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	report, err := ingestion.LoadFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printReport(cmd, report)
	return nil
}
