package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildAttachCmd creates the "attach" command, which attaches to an
// already-running process by pid or name.
func buildAttachCmd() *cobra.Command {
	f := &targetFlags{}
	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach to a running process",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.End(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "attached")
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
