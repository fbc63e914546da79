// Package guard implements the protect plugin: a sentinel file named
// .protected placed inside an environment marks it read-only for mutating
// host commands. The marker travels with the environment itself.
package guard

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
	PluginName = "envguard_protect"

	// CommandName is the subcommand users run to toggle protection.
	CommandName = "protect"

	// GuardfileName is the sentinel created inside a protected environment.
	GuardfileName = ".protected"

	GuardedSymbol   = "🔐"
	UnguardedSymbol = "🔓"
)

// gatedCommands are the mutating host operations this plugin refuses to run
// against a protected environment.
var gatedCommands = []string{"install", "remove", "update", "env_update", "env_remove"}

// Plugin is the protect plugin bound to a host context.
type Plugin struct {
	ctx   host.Context
	Store state.Store
	Out   io.Writer
	Prog  string
}

// New builds the plugin with its sentinel-file store.
func New(ctx host.Context) *Plugin {
	return &Plugin{
		ctx:   ctx,
		Store: state.NewSentinelStore(GuardfileName),
		Out:   os.Stdout,
		Prog:  "envguard",
	}
}

// Subcommand is the registration the host consumes.
func (p *Plugin) Subcommand() plugin.Subcommand {
	return plugin.Subcommand{
		Name:    CommandName,
		Summary: "Protect environments so changes are not accidentally made to them",
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

// Run handles the protect subcommand: toggle when given an environment
// token, list when given --list.
func (p *Plugin) Run(args []string) error {
	flags := pflag.NewFlagSet(CommandName, pflag.ContinueOnError)
	flags.SetOutput(p.Out)
	flags.Usage = func() {
		fmt.Fprintf(p.Out, "Usage: %s %s [ENVIRONMENT] [options]\n\n", p.Prog, CommandName)
		fmt.Fprintf(p.Out, "Protect environments so changes are not accidentally made to them.\n\n")
		fmt.Fprintf(p.Out, "Options:\n")
		fmt.Fprint(p.Out, flags.FlagUsages())
	}
	listFlag := flags.BoolP("list", "l", false, "List environments and show whether they are protected")
	protectedFlag := flags.BoolP("protected", "p", false, "With -l/--list, only show protected environments")
	namedFlag := flags.BoolP("named", "n", false, "With -l/--list, only show named environments")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *listFlag {
		return p.list(*protectedFlag, *namedFlag)
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

	guarded, err := p.Store.Toggle(env.Prefix)
	if err != nil {
		return err
	}

	symbol, word := UnguardedSymbol, "unprotected"
	if guarded {
		symbol, word = GuardedSymbol, "protected"
	}
	fmt.Fprintln(p.Out, render.StatusLine(env.DisplayName(), symbol, word))
	return nil
}

func (p *Plugin) list(onlyProtected, onlyNamed bool) error {
	reg, err := registry.New(p.ctx)
	if err != nil {
		return err
	}
	envs, err := reg.Environments(p.Store)
	if err != nil {
		return err
	}

	envs = filter(envs, onlyProtected, onlyNamed)
	fmt.Fprintln(p.Out, render.EnvironmentTable("Environments", envs, GuardedSymbol+" protected"))
	return nil
}

// Gate aborts a pending mutating host command when its target environment is
// protected. Dry-run passes through, and so does a target the registry does
// not know; the host's own validation covers that case.
func (p *Plugin) Gate(hostCommand string) error {
	if p.ctx.DryRun {
		return nil
	}

	reg, err := registry.New(p.ctx)
	if err != nil {
		return err
	}
	prefix, display, ok := reg.GateTarget()
	if !ok || !knownPrefix(reg, prefix) {
		return nil
	}

	guarded, err := p.Store.IsFlagged(prefix)
	if err != nil {
		return err
	}
	if !guarded {
		return nil
	}

	log.Debug().Str("plugin", PluginName).Str("command", hostCommand).Str("prefix", prefix).Msg("blocking mutating command")
	return hosterr.Blockedf(
		"environment %q is currently protected. Run '%s %s %s' to remove protection",
		display, p.Prog, CommandName, display,
	)
}

func knownPrefix(reg *registry.Registry, prefix string) bool {
	for _, p := range reg.Prefixes() {
		if p == prefix {
			return true
		}
	}
	return false
}

func filter(envs []model.EnvironmentInfo, onlyFlagged, onlyNamed bool) []model.EnvironmentInfo {
	var out []model.EnvironmentInfo
	for _, env := range envs {
		if onlyFlagged && !env.Guarded {
			continue
		}
		if onlyNamed && env.Name == "" {
			continue
		}
		out = append(out, env)
	}
	return out
}
