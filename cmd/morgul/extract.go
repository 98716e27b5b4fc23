package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// buildExtractCmd creates the "extract" command: pull schema-shaped data out
// of the current state.
func buildExtractCmd() *cobra.Command {
	f := &targetFlags{}
	var schemaPath, schemaName string
	cmd := &cobra.Command{
		Use:   "extract [flags] <instruction...>",
		Short: "Extract schema-shaped data from the current process state",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaPath == "" {
				return fmt.Errorf("--schema is required")
			}
			schema, err := os.ReadFile(schemaPath)
			if err != nil {
				return fmt.Errorf("reading schema: %w", err)
			}

			s, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.End(cmd.Context())

			data, err := s.Extract(cmd.Context(), joinArgs(args), schemaName, json.RawMessage(schema))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&schemaPath, "schema", "", "Path to a JSON Schema file describing the extracted shape")
	cmd.Flags().StringVar(&schemaName, "schema-name", "extracted", "Name for the extraction schema")
	return cmd
}
