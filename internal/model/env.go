package model

import "sort"

// Version is the current envguard release.
const Version = "0.3.1"

// EnvironmentInfo represents a single environment known to the host.
type EnvironmentInfo struct {
	Name    string // Short name, empty for environments outside the envs dirs
	Prefix  string // Absolute path of the environment
	Guarded bool   // Current flag state, re-read from disk on every query
}

// DisplayName returns the identifier shown to the user: the name when the
// environment has one, otherwise the prefix.
func (e EnvironmentInfo) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Prefix
}

// SortEnvironments orders environments by name, unnamed ones first,
// ties broken by prefix.
func SortEnvironments(envs []EnvironmentInfo) {
	sort.Slice(envs, func(i, j int) bool {
		if envs[i].Name != envs[j].Name {
			return envs[i].Name < envs[j].Name
		}
		return envs[i].Prefix < envs[j].Prefix
	})
}
