// ABOUTME: Metadata command dumps curator-owned intent metadata
// ABOUTME: Shows purpose, scope, keywords, and timestamps per intent
package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/intent-curator/internal/config"
)

// NewMetadataCmd creates the metadata command
func NewMetadataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Dump curator-owned intent metadata",
		Long: `Dump the metadata the curator keeps alongside each intent it
created or updated.

Examples:
  intentctl metadata
  intentctl metadata --format json`,
		RunE: runMetadata,
	}

	return cmd
}

func runMetadata(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	all, err := store.All()
	if err != nil {
		return fmt.Errorf("loading metadata: %w", err)
	}

	if useJSON() {
		return printJSON(cmd.OutOrStdout(), all)
	}

	if len(all) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No metadata recorded yet.")
		return nil
	}

	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INTENT\tPURPOSE\tKEYWORDS\tUPDATED")
	for _, name := range names {
		meta := all[name]
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			name, truncate(meta.Purpose, 40),
			truncate(strings.Join(meta.Keywords, ", "), 30),
			formatTime(meta.UpdatedAt))
	}
	return w.Flush()
}
