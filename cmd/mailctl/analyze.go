package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	analyzeCompany  string
	analyzeIndustry string
	analyzeSubject  string
	analyzeJSON     bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "Sender company")
	analyzeCmd.Flags().StringVar(&analyzeIndustry, "industry", "", "Sender industry (used for learning metrics)")
	analyzeCmd.Flags().StringVar(&analyzeSubject, "subject", "", "Email subject")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output the full result as JSON")
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze email text from a file or stdin",
	Long: `Analyze email text through the mailroom pipeline.

Examples:
  # Analyze a file
  mailctl analyze inquiry.txt

  # Analyze from stdin
  cat inquiry.txt | mailctl analyze -

  # Tag the sender industry for learning metrics
  mailctl analyze --industry Manufacturing inquiry.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

// analyzeRequest matches the analysis.Email JSON shape.
type analyzeRequest struct {
	Text     string `json:"text"`
	Company  string `json:"company,omitempty"`
	Industry string `json:"industry,omitempty"`
	Subject  string `json:"subject,omitempty"`
}

// analyzeResponse is the subset of the analysis result mailctl prints.
type analyzeResponse struct {
	ID          string          `json:"id"`
	Intent      string          `json:"intent"`
	Entities    json.RawMessage `json:"entities"`
	RoutingTags json.RawMessage `json:"routing_tags"`
	Confidence  float64         `json:"confidence"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	body, err := postJSON("/api/v1/analyze", analyzeRequest{
		Text:     text,
		Company:  analyzeCompany,
		Industry: analyzeIndustry,
		Subject:  analyzeSubject,
	})
	if err != nil {
		return err
	}

	if analyzeJSON {
		fmt.Println(string(body))
		return nil
	}

	var resp analyzeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	fmt.Printf("Result ID:   %s\n", resp.ID)
	fmt.Printf("Intent:      %s\n", resp.Intent)
	fmt.Printf("Confidence:  %.2f\n", resp.Confidence)
	fmt.Printf("Entities:    %s\n", resp.Entities)
	fmt.Printf("Routing:     %s\n", resp.RoutingTags)
	return nil
}

// readInput reads from the named file, or stdin when the argument is absent
// or "-".
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}
