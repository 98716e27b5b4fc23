package main

import (
	"fmt"
	"time"

	"github.com/ant4g0nist/morgul/internal/agent"
	"github.com/ant4g0nist/morgul/pkg/models"
	"github.com/spf13/cobra"
)

// buildAgentCmd creates the "agent" command: run the tool-loop agent to
// completion (or until max-steps/timeout), printing each step as it happens.
func buildAgentCmd() *cobra.Command {
	f := &targetFlags{}
	var (
		strategy string
		maxSteps int
		timeout  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "agent [flags] <task...>",
		Short: "Run the tool-loop agent on a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer s.End(cmd.Context())

			onStep := func(step models.AgentStep) {
				fmt.Fprintf(cmd.OutOrStdout(), "[%d] %s -> %s\n", step.StepNumber, step.Action, step.Observation)
			}
			_, err = s.Agent(cmd.Context(), joinArgs(args), agent.Strategy(strategy), maxSteps, timeout, onStep)
			return err
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&strategy, "strategy", string(agent.StrategyDepthFirst), "Investigation strategy: depth-first, breadth-first, hypothesis-driven")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 20, "Maximum tool-loop steps")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Wall-clock timeout for the run")
	return cmd
}
