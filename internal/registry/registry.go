// Package registry derives name/prefix mappings from the host's known
// environments and resolves user-supplied tokens against them.
package registry

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"envguard/internal/host"
	"envguard/internal/hosterr"
	"envguard/internal/model"
	"envguard/internal/state"
)

// Registry is a snapshot of the host's known environment prefixes. It is
// rebuilt per invocation; flag state is always read through the store, never
// cached here.
type Registry struct {
	ctx      host.Context
	prefixes []string
}

// New captures the current known-prefix set from the host context.
func New(ctx host.Context) (*Registry, error) {
	prefixes, err := ctx.KnownPrefixes()
	if err != nil {
		return nil, err
	}
	return &Registry{ctx: ctx, prefixes: prefixes}, nil
}

// Prefixes returns every known environment prefix.
func (r *Registry) Prefixes() []string {
	return r.prefixes
}

// NameToPrefix maps environment names to prefixes. A prefix gets a name only
// when it sits under one of the configured envs dirs; the name is its final
// path segment. On a name collision across envs dirs the first configured
// dir wins. The reserved root name always maps to the root prefix.
func (r *Registry) NameToPrefix() map[string]string {
	mapping := make(map[string]string)
	for _, dir := range r.ctx.EnvsDirs {
		for _, prefix := range r.prefixes {
			if !underDir(prefix, dir) {
				continue
			}
			name := filepath.Base(prefix)
			if _, taken := mapping[name]; !taken {
				mapping[name] = prefix
			}
		}
	}
	mapping[r.ctx.RootEnvName] = r.ctx.RootPrefix
	return mapping
}

// PrefixToName is the inverse view of NameToPrefix.
func (r *Registry) PrefixToName() map[string]string {
	mapping := make(map[string]string)
	for name, prefix := range r.NameToPrefix() {
		mapping[prefix] = name
	}
	return mapping
}

// Resolve turns a user-supplied token into an environment, trying it first
// as an exact known prefix and then as a name. Flag state is read through
// the store on every call.
func (r *Registry) Resolve(token string, st state.Store) (model.EnvironmentInfo, error) {
	nameToPrefix := r.NameToPrefix()
	prefixToName := r.PrefixToName()

	var env model.EnvironmentInfo
	switch {
	case slices.Contains(r.prefixes, token):
		env = model.EnvironmentInfo{Name: prefixToName[token], Prefix: token}
	case nameToPrefix[token] != "":
		env = model.EnvironmentInfo{Name: token, Prefix: nameToPrefix[token]}
	default:
		return model.EnvironmentInfo{}, hosterr.NotFoundf("environment not found")
	}

	flagged, err := st.IsFlagged(env.Prefix)
	if err != nil {
		return model.EnvironmentInfo{}, err
	}
	env.Guarded = flagged
	return env, nil
}

// Environments enumerates every environment the host knows about, plus any
// flagged prefix the store can enumerate on its own (a stale ledger entry
// still lists, with an empty name). Sorted by name, unnamed first.
func (r *Registry) Environments(st state.Store) ([]model.EnvironmentInfo, error) {
	flaggedOnly, err := st.Flagged()
	if err != nil {
		return nil, err
	}

	prefixToName := r.PrefixToName()
	seen := make(map[string]bool)
	var envs []model.EnvironmentInfo

	for _, prefix := range append(append([]string{}, r.prefixes...), flaggedOnly...) {
		if seen[prefix] {
			continue
		}
		seen[prefix] = true

		flagged, err := st.IsFlagged(prefix)
		if err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("could not determine flag state")
			continue
		}
		envs = append(envs, model.EnvironmentInfo{
			Name:    prefixToName[prefix],
			Prefix:  prefix,
			Guarded: flagged,
		})
	}

	model.SortEnvironments(envs)
	return envs, nil
}

// GateTarget resolves the environment a pending host command acts on:
// explicit name first, then explicit prefix, then the active environment.
// ok is false when the command names an environment the registry does not
// know; the host's own validation handles that case.
func (r *Registry) GateTarget() (prefix, display string, ok bool) {
	if name := r.ctx.TargetName; name != "" {
		p := r.NameToPrefix()[name]
		if p == "" {
			return "", "", false
		}
		return p, name, true
	}
	if p := r.ctx.TargetPrefix; p != "" {
		if name := r.PrefixToName()[p]; name != "" {
			return p, name, true
		}
		return p, p, true
	}
	p := r.ctx.ActivePrefix
	if p == "" {
		return "", "", false
	}
	if name := r.PrefixToName()[p]; name != "" {
		return p, name, true
	}
	return p, p, true
}

func underDir(prefix, dir string) bool {
	return strings.HasPrefix(prefix, dir+string(filepath.Separator))
}
