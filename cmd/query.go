package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docsearch/internal/retrieval"
)

var queryCmd = &cobra.Command{
	Use:   "query [term]",
	Short: "Search the indexed documents",
	Long:  `Searches the index with the configured matcher and prints each match with its category and a snippet around the hit.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().Int("limit", 0, "maximum number of results (0 for all)")
	queryCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	term := strings.Join(args, " ")

	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pipeline, store, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := pipeline.Search(ctx, term)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	if jsonOutput {
		return printQueryResultsJSON(results)
	}

	fmt.Print(retrieval.FormatResults(results))
	return nil
}

func printQueryResultsJSON(results []retrieval.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Results []retrieval.Result `json:"results"`
	}{results})
}
