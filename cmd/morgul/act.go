package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// buildActCmd creates the "act" command: translate instruction into code,
// execute it against the target, self-heal on failure.
func buildActCmd() *cobra.Command {
	f := &targetFlags{}
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "act [flags] <instruction...>",
		Short: "Execute a natural-language debugging instruction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.End(cmd.Context())

			result, err := s.Act(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if result.Output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Output)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the full result as JSON")
	return cmd
}
