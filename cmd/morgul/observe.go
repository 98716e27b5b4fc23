package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// buildObserveCmd creates the "observe" command: describe current state and
// rank suggested next actions without executing anything.
func buildObserveCmd() *cobra.Command {
	f := &targetFlags{}
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "observe [flags] [instruction...]",
		Short: "Describe the current process state",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.End(cmd.Context())

			result, err := s.Observe(cmd.Context(), joinArgs(args))
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Description)
			for _, a := range result.Actions {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", a.Description)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the full result as JSON")
	return cmd
}
