package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(learningCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Maximum number of results")
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge corpus",
	Long: `Search the knowledge corpus directly, outside the analysis pipeline.

Examples:
  mailctl search "304 stainless pipe"
  mailctl search --limit 3 "demolition services"`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

// searchResult is the subset of a corpus search result mailctl prints.
type searchResult struct {
	Chunk struct {
		Source  string `json:"source"`
		Locator int    `json:"locator"`
		Text    string `json:"text"`
	} `json:"chunk"`
	Score float64 `json:"score"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := url.Values{}
	query.Set("q", args[0])
	query.Set("k", strconv.Itoa(searchLimit))

	body, err := getJSON("/api/v1/search?" + query.Encode())
	if err != nil {
		return err
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tSOURCE\tLOCATOR\tTEXT")
	for _, r := range results {
		fmt.Fprintf(w, "%.2f\t%s\t%d\t%s\n", r.Score, r.Chunk.Source, r.Chunk.Locator, truncate(r.Chunk.Text, 60))
	}
	return w.Flush()
}

var learningCmd = &cobra.Command{
	Use:   "learning",
	Short: "Show learning metrics",
	Long:  `Show the running learning statistics: processed counts, average confidence, feedback iterations, per-industry counts, and the learned jargon dictionary.`,
	RunE:  runLearning,
}

func runLearning(cmd *cobra.Command, args []string) error {
	body, err := getJSON("/api/v1/learning")
	if err != nil {
		return err
	}

	var metrics struct {
		TotalProcessed           int               `json:"total_processed"`
		AverageConfidence        float64           `json:"average_confidence"`
		CumulativeConfidenceGain float64           `json:"cumulative_confidence_gain"`
		FeedbackIterations       int               `json:"feedback_iterations"`
		PerIndustryCounts        map[string]int    `json:"per_industry_counts"`
		JargonDictionary         map[string]string `json:"jargon_dictionary"`
	}
	if err := json.Unmarshal(body, &metrics); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Emails processed:    %d\n", metrics.TotalProcessed)
	fmt.Printf("Average confidence:  %.2f\n", metrics.AverageConfidence)
	fmt.Printf("Confidence gained:   %.2f\n", metrics.CumulativeConfidenceGain)
	fmt.Printf("Feedback iterations: %d\n", metrics.FeedbackIterations)
	if len(metrics.PerIndustryCounts) > 0 {
		fmt.Println("By industry:")
		for industry, count := range metrics.PerIndustryCounts {
			fmt.Printf("  %s: %d\n", industry, count)
		}
	}
	if len(metrics.JargonDictionary) > 0 {
		fmt.Println("Jargon dictionary:")
		for alias, meaning := range metrics.JargonDictionary {
			fmt.Printf("  %s = %s\n", alias, meaning)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
