package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ant4g0nist/morgul/internal/bridge"
	"github.com/ant4g0nist/morgul/internal/config"
	"github.com/ant4g0nist/morgul/internal/session"
	"github.com/spf13/cobra"
)

// targetFlags are the target-selection flags shared by every subcommand
// that needs a live session: exactly one of pid, name, or launch must be
// set.
type targetFlags struct {
	configPath string
	pid        int
	name       string
	launch     string
	launchArgs []string
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.configPath, "config", "c", "morgul.toml", "Path to config file")
	cmd.Flags().IntVar(&f.pid, "pid", 0, "Attach to a running process by pid")
	cmd.Flags().StringVar(&f.name, "name", "", "Attach to a running process by executable name")
	cmd.Flags().StringVar(&f.launch, "launch", "", "Launch and attach to this executable")
	cmd.Flags().StringArrayVar(&f.launchArgs, "arg", nil, "Argument to pass the launched executable (repeatable)")
}

// openSession loads config, builds a Session against the in-tree reference
// backend, and attaches per f's flags. morgul ships no production debugger
// backend (see internal/bridge.Backend) — wiring a real driver in is a
// deployment concern, not this CLI's.
func openSession(ctx context.Context, f *targetFlags) (*session.Session, error) {
	set := 0
	if f.pid != 0 {
		set++
	}
	if f.name != "" {
		set++
	}
	if f.launch != "" {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("specify exactly one of --pid, --name, or --launch")
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	s, err := session.New(cfg, bridge.NewFakeBackend(), nil)
	if err != nil {
		return nil, err
	}

	switch {
	case f.pid != 0:
		err = s.Attach(ctx, f.pid)
	case f.name != "":
		err = s.AttachByName(ctx, f.name)
	default:
		err = s.Start(ctx, f.launch, f.launchArgs)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
