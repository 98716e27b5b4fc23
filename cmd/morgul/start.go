package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildStartCmd creates the "start" command, which launches a fresh target
// under the debugger and reports the launched path.
func buildStartCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "start <path> [args...]",
		Short: "Launch an executable under the debugger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &targetFlags{configPath: configPath, launch: args[0], launchArgs: args[1:]}
			s, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.End(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "launched %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "morgul.toml", "Path to config file")
	return cmd
}
