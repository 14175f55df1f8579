package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"zapline/policy"
)

var (
	hookPrefixes   []string
	hookConfigFile string
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Branch-policy decision for agent-requested git operations",
	Long: `Reads a pre-tool-use payload on stdin. Git mutation commands are
auto-allowed on automation branches and routed to confirmation everywhere
else; any other tool invocation produces no output. The command always
exits 0 so a hook failure can never block unrelated tools.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fc, err := loadFileConfig(hookConfigFile)
		if err == nil && !cmd.Flags().Changed("automation-prefix") && len(fc.Hook.AutomationPrefixes) > 0 {
			hookPrefixes = fc.Hook.AutomationPrefixes
		}

		// A stdin read failure leaves payload empty, which Evaluate
		// resolves to ask.
		payload, _ := io.ReadAll(cmd.InOrStdin())

		decision := policy.Evaluate(payload, hookPrefixes, policy.CurrentBranch)
		if decision == nil {
			return nil
		}

		out, err := json.Marshal(decision)
		if err != nil {
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	hookCmd.Flags().StringSliceVar(&hookPrefixes, "automation-prefix", policy.DefaultPrefixes, "branch prefixes trusted for auto-approval")
	hookCmd.Flags().StringVar(&hookConfigFile, "config", "", "path to a YAML config file")
}
