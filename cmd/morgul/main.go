// Package main provides the CLI entry point for morgul, an AI-driven
// debugger automation tool.
//
// Each subcommand attaches to (or launches) a target and issues exactly one
// primitive call — there is no long-lived daemon; the process exits once
// the call completes.
//
// # Basic Usage
//
//	morgul act --pid 1234 "set a breakpoint at main and continue"
//	morgul observe --pid 1234 "what's the current state?"
//	morgul agent --launch ./crashy --strategy hypothesis-driven "find the crash"
//
// # Environment Variables
//
//   - ANTHROPIC_API_KEY: Anthropic API key, used when llm.provider is "anthropic"
//   - OPENAI_API_KEY: OpenAI API key, used when llm.provider is "openai"
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build information, populated by ldflags during release builds.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd assembles the full command tree. Separated from main so
// tests can exercise it without calling os.Exit.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "morgul",
		Short: "AI-driven debugger automation",
		Long: fmt.Sprintf(`morgul drives a debugger from natural-language instructions: act()
executes model-written code against a live process, observe() describes
state without executing anything, extract() pulls schema-shaped data out
of it, and agent()/repl() run autonomous multi-step investigations.

version %s (commit %s, built %s)`, version, commit, date),
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildStartCmd(),
		buildAttachCmd(),
		buildActCmd(),
		buildObserveCmd(),
		buildExtractCmd(),
		buildAgentCmd(),
		buildReplCmd(),
	)
	return rootCmd
}
