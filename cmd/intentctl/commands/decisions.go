// ABOUTME: Decisions command tails the durable decision archive
// ABOUTME: Shows what the pipeline decided for recent utterances
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/intent-curator/internal/config"
)

var decisionsLimit int

// NewDecisionsCmd creates the decisions command
func NewDecisionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decisions",
		Short: "Show recent pipeline decisions",
		Long: `Show recent decisions from the durable archive, newest first.

Each entry records the utterance, the NLU match, the reusability
score, the synchronization action, and whether an override fired.

Examples:
  intentctl decisions
  intentctl decisions --limit 100
  intentctl decisions --format json`,
		RunE: runDecisions,
	}

	cmd.Flags().IntVar(&decisionsLimit, "limit", 20, "Maximum entries to show")

	return cmd
}

func runDecisions(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := validatePositiveInt(decisionsLimit, "limit"); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	entries, err := store.RecentDecisions(decisionsLimit)
	if err != nil {
		return fmt.Errorf("reading decisions: %w", err)
	}

	if useJSON() {
		return printJSON(cmd.OutOrStdout(), entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No decisions archived yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSESSION\tMESSAGE\tINTENT\tSCORE\tACTION\tBLOCKED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%v\n",
			formatTime(e.Timestamp), e.SessionID, truncate(e.Message, 40),
			e.NluIntent, e.ReusabilityScore, e.Action, e.Blocked)
	}
	return w.Flush()
}
