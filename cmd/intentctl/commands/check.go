// ABOUTME: Check command probes NLU agent connectivity
// ABOUTME: Reports agent reachability and the configured store backend
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/intent-curator/internal/config"
)

// NewCheckCmd creates the check command
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check NLU agent connectivity",
		Long: `Check that the external NLU agent is reachable.

Examples:
  intentctl check
  intentctl check --format json`,
		RunE: runCheck,
	}

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	agent, err := newAgentClient(cfg)
	if err != nil {
		return err
	}

	status := "connected"
	var probeErr string
	if err := agent.CheckConnection(cmd.Context()); err != nil {
		status = "disconnected"
		probeErr = err.Error()
	}

	if useJSON() {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"status": status,
			"agent":  cfg.NluAgentURL,
			"store":  cfg.StoreBackend,
			"error":  probeErr,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "NLU agent: %s (%s)\n", cfg.NluAgentURL, status)
	if probeErr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Error: %s\n", probeErr)
	}
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Store backend: %s\n", cfg.StoreBackend)
		fmt.Fprintf(cmd.OutOrStdout(), "Minimum score: %d\n", cfg.MinReusabilityScore)
	}
	if status != "connected" {
		return fmt.Errorf("NLU agent unreachable")
	}
	return nil
}
