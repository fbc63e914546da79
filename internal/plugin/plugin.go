// Package plugin holds the registration surface a host consumes: named
// subcommands and pre-command gates, plus the dispatch the envguard binary
// performs in the host's stead.
package plugin

import (
	"fmt"
	"slices"
)

// Subcommand adds a user-facing command to the host.
type Subcommand struct {
	Name    string
	Summary string
	Action  func(args []string) error
}

// PreCommand runs before the host executes one of the commands in RunFor.
// A non-nil error from Action aborts the pending host operation; it must not
// be swallowed or retried.
type PreCommand struct {
	Name   string
	RunFor []string
	Action func(hostCommand string) error
}

// Set collects everything the loaded plugins registered.
type Set struct {
	subcommands map[string]Subcommand
	preCommands []PreCommand
}

func NewSet() *Set {
	return &Set{subcommands: make(map[string]Subcommand)}
}

func (s *Set) AddSubcommand(sc Subcommand) {
	s.subcommands[sc.Name] = sc
}

func (s *Set) AddPreCommand(pc PreCommand) {
	s.preCommands = append(s.preCommands, pc)
}

// Subcommands returns the registered subcommand names in registration-map
// order (callers sort for display).
func (s *Set) Subcommands() []Subcommand {
	var out []Subcommand
	for _, sc := range s.subcommands {
		out = append(out, sc)
	}
	slices.SortFunc(out, func(a, b Subcommand) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		}
		return 0
	})
	return out
}

// RunSubcommand dispatches to a registered subcommand.
func (s *Set) RunSubcommand(name string, args []string) error {
	sc, ok := s.subcommands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	return sc.Action(args)
}

// RunPreCommands invokes every gate whose allow-list contains hostCommand.
// The first failing gate aborts; remaining gates do not run, matching the
// host short-circuiting its command pipeline.
func (s *Set) RunPreCommands(hostCommand string) error {
	for _, pc := range s.preCommands {
		if !slices.Contains(pc.RunFor, hostCommand) {
			continue
		}
		if err := pc.Action(hostCommand); err != nil {
			return err
		}
	}
	return nil
}
