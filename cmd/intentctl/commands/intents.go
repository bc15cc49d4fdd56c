// ABOUTME: Intents command lists the agent's intent catalog
// ABOUTME: Joins catalog entries with curator-owned metadata
package commands

import (
	"fmt"
	"log"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/intent-curator/internal/config"
	"github.com/harper/intent-curator/internal/models"
)

// NewIntentsCmd creates the intents command
func NewIntentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "intents",
		Short: "List the agent's intent catalog",
		Long: `List the NLU agent's intents with their training phrase counts
and curator metadata. Protected built-in intents are excluded.

Examples:
  intentctl intents
  intentctl intents --format json`,
		RunE: runIntents,
	}

	return cmd
}

func runIntents(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	agent, err := newAgentClient(cfg)
	if err != nil {
		return err
	}

	intents, err := agent.ListIntents(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing intents: %w", err)
	}

	metadata := map[string]models.IntentMetadata{}
	store, err := openStore(cfg)
	if err != nil {
		log.Printf("Warning: metadata store unavailable: %v", err)
	} else {
		defer store.Close()
		if all, err := store.All(); err != nil {
			log.Printf("Warning: loading metadata: %v", err)
		} else {
			metadata = all
		}
	}

	if useJSON() {
		type view struct {
			models.Intent
			Metadata *models.IntentMetadata `json:"metadata,omitempty"`
		}
		views := make([]view, 0, len(intents))
		for _, intent := range intents {
			v := view{Intent: intent}
			if meta, ok := metadata[intent.DisplayName]; ok {
				m := meta
				v.Metadata = &m
			}
			views = append(views, v)
		}
		return printJSON(cmd.OutOrStdout(), views)
	}

	if len(intents) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No intents found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INTENT\tPHRASES\tPURPOSE")
	for _, intent := range intents {
		purpose := metadata[intent.DisplayName].Purpose
		fmt.Fprintf(w, "%s\t%d\t%s\n",
			intent.DisplayName, len(intent.TrainingPhrases), truncate(purpose, 50))
	}
	return w.Flush()
}
