package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildReplCmd creates the "repl" command: run the open-ended REPL agent on
// a task, printing the result and each executed code block's stdout/stderr.
func buildReplCmd() *cobra.Command {
	f := &targetFlags{}
	var maxIterations int
	cmd := &cobra.Command{
		Use:   "repl [flags] <task...>",
		Short: "Run the REPL agent on a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.End(cmd.Context())

			result, err := s.REPLAgent(cmd.Context(), joinArgs(args), maxIterations)
			if err != nil {
				return err
			}
			for _, iter := range result.Iterations {
				for _, block := range iter.CodeBlocks {
					fmt.Fprintf(cmd.OutOrStdout(), "[step %d] %s\n", iter.Step, block.Stdout)
					if block.Stderr != "" {
						fmt.Fprintf(cmd.ErrOrStderr(), "[step %d] %s\n", iter.Step, block.Stderr)
					}
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Result)
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 15, "Maximum REPL loop iterations")
	return cmd
}
