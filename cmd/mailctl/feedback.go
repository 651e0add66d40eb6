package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(feedbackCmd)
}

var feedbackCmd = &cobra.Command{
	Use:   "feedback <result-id> <message>",
	Short: "Submit a correction against an analysis result",
	Long: `Submit free-text feedback against a stored analysis result. The server
parses the message into field corrections and jargon definitions.

Examples:
  mailctl feedback 4f1c... "Priority should be High, not Normal"
  mailctl feedback 4f1c... "'SS' means stainless steel"
  mailctl feedback 4f1c... "Missing extraction of deadline Friday"`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedback,
}

// feedbackOutcome is the subset of the server response mailctl prints.
type feedbackOutcome struct {
	Corrections []struct {
		Path     string `json:"path"`
		OldValue any    `json:"old_value"`
		NewValue any    `json:"new_value"`
	} `json:"corrections"`
	Jargon []struct {
		Alias   string `json:"alias"`
		Meaning string `json:"meaning"`
	} `json:"jargon_learned"`
}

func runFeedback(cmd *cobra.Command, args []string) error {
	resultID, message := args[0], args[1]

	body, err := postJSON("/api/v1/results/"+resultID+"/feedback",
		map[string]string{"message": message})
	if err != nil {
		return err
	}

	var outcome feedbackOutcome
	if err := json.Unmarshal(body, &outcome); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if len(outcome.Corrections) == 0 && len(outcome.Jargon) == 0 {
		fmt.Println("Feedback acknowledged; no corrections matched.")
		return nil
	}
	for _, c := range outcome.Corrections {
		fmt.Printf("Corrected %s: %v -> %v\n", c.Path, c.OldValue, c.NewValue)
	}
	for _, j := range outcome.Jargon {
		fmt.Printf("Learned jargon: %q means %q\n", j.Alias, j.Meaning)
	}
	return nil
}
