// Package envlock implements the envlock plugin: locked environments are
// recorded as lines in a single ledger file under the user data directory,
// so the lock survives anything done to the environment itself.
package envlock

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"envguard/internal/host"
	"envguard/internal/hosterr"
	"envguard/internal/model"
	"envguard/internal/plugin"
	"envguard/internal/registry"
	"envguard/internal/render"
	"envguard/internal/state"
)

const (
	// PluginName appears in hook registrations and log lines.
	PluginName = "envguard_envlock"

	// CommandName is the subcommand users run to lock and unlock.
	CommandName = "envlock"

	LockedSymbol   = "🔒"
	UnlockedSymbol = "🔓"
)

// gatedCommands includes plain info on top of the mutating set: a locked
// environment should not even be introspected by the host.
var gatedCommands = []string{"install", "remove", "update", "info", "env_update", "env_remove"}

// Plugin is the envlock plugin bound to a host context.
type Plugin struct {
	ctx   host.Context
	Store state.Store
	Out   io.Writer
	Prog  string
}

// New builds the plugin with its ledger store in the user data directory.
func New(ctx host.Context) (*Plugin, error) {
	store, err := state.NewLedgerStore()
	if err != nil {
		return nil, err
	}
	return &Plugin{
		ctx:   ctx,
		Store: store,
		Out:   os.Stdout,
		Prog:  "envguard",
	}, nil
}

// Subcommand is the registration the host consumes.
func (p *Plugin) Subcommand() plugin.Subcommand {
	return plugin.Subcommand{
		Name:    CommandName,
		Summary: "Lock and unlock environments so changes are not accidentally made to them",
		Action:  p.Run,
	}
}

// PreCommand is the gate registration the host consumes.
func (p *Plugin) PreCommand() plugin.PreCommand {
	return plugin.PreCommand{
		Name:   PluginName + "_pre_command",
		RunFor: gatedCommands,
		Action: p.Gate,
	}
}

// Run handles the envlock subcommand: toggle when given an environment
// token, list when given --list.
func (p *Plugin) Run(args []string) error {
	flags := pflag.NewFlagSet(CommandName, pflag.ContinueOnError)
	flags.SetOutput(p.Out)
	flags.Usage = func() {
		fmt.Fprintf(p.Out, "Usage: %s %s [ENVIRONMENT] [options]\n\n", p.Prog, CommandName)
		fmt.Fprintf(p.Out, "Lock and unlock environments so changes are not accidentally made to them.\n\n")
		fmt.Fprintf(p.Out, "Options:\n")
		fmt.Fprint(p.Out, flags.FlagUsages())
	}
	listFlag := flags.BoolP("list", "l", false, "List environments and show whether they are locked")
	lockedFlag := flags.BoolP("locked", "p", false, "With -l/--list, only show locked environments")
	namedFlag := flags.BoolP("named", "n", false, "With -l/--list, only show named environments")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *listFlag {
		return p.list(*lockedFlag, *namedFlag)
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return fmt.Errorf("an environment name or prefix is required")
	}
	return p.toggle(flags.Arg(0))
}

func (p *Plugin) toggle(token string) error {
	reg, err := registry.New(p.ctx)
	if err != nil {
		return err
	}
	env, err := reg.Resolve(token, p.Store)
	if err != nil {
		return err
	}

	locked, err := p.Store.Toggle(env.Prefix)
	if err != nil {
		return err
	}

	symbol, word := UnlockedSymbol, "unlocked"
	if locked {
		symbol, word = LockedSymbol, "locked"
	}
	fmt.Fprintln(p.Out, render.StatusLine(env.DisplayName(), symbol, word))
	return nil
}

func (p *Plugin) list(onlyLocked, onlyNamed bool) error {
	reg, err := registry.New(p.ctx)
	if err != nil {
		return err
	}
	envs, err := reg.Environments(p.Store)
	if err != nil {
		return err
	}

	var filtered []model.EnvironmentInfo
	for _, env := range envs {
		if onlyLocked && !env.Guarded {
			continue
		}
		if onlyNamed && env.Name == "" {
			continue
		}
		filtered = append(filtered, env)
	}
	fmt.Fprintln(p.Out, render.EnvironmentTable("Environments", filtered, LockedSymbol+" locked"))
	return nil
}

// Gate aborts a pending host command when its target environment is locked.
// Dry-run passes through, and so does a target the registry does not know.
func (p *Plugin) Gate(hostCommand string) error {
	if p.ctx.DryRun {
		return nil
	}

	reg, err := registry.New(p.ctx)
	if err != nil {
		return err
	}
	prefix, display, ok := reg.GateTarget()
	if !ok {
		return nil
	}

	locked, err := p.Store.IsFlagged(prefix)
	if err != nil {
		return err
	}
	if !locked {
		return nil
	}

	log.Debug().Str("plugin", PluginName).Str("command", hostCommand).Str("prefix", prefix).Msg("blocking command on locked environment")
	return hosterr.Blockedf(
		"environment %q is currently locked. Run '%s %s %s' to unlock it",
		display, p.Prog, CommandName, display,
	)
}
