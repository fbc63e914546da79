// Package host models the slice of the package-manager host that the plugins
// consume: the configured environment directories, the distinguished root
// environment, the arguments of the pending host command, and the registry of
// known environment prefixes.
package host

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"envguard/internal/hosterr"
)

// RegistryFileName is the per-user file listing environment prefixes created
// outside the envs dirs, one absolute path per line.
const RegistryFileName = "environments.txt"

// Context is the host configuration consumed read-only by the plugins.
// It is passed in explicitly rather than read from a process-wide singleton.
type Context struct {
	// EnvsDirs are the directories scanned for named environments, in
	// precedence order. The first dir containing a name wins.
	EnvsDirs []string

	// RootPrefix is the distinguished base installation.
	RootPrefix string

	// RootEnvName is the reserved name that always resolves to RootPrefix.
	RootEnvName string

	// RegistryFile lists additional known prefixes, one per line.
	RegistryFile string

	// ActivePrefix is the currently-activated environment, used as the gate
	// target when the host command names no environment explicitly.
	ActivePrefix string

	// TargetName / TargetPrefix carry the explicit --name / --prefix
	// arguments of the pending host command, when present.
	TargetName   string
	TargetPrefix string

	// DryRun mirrors the host's simulation mode; gates pass unconditionally
	// when set.
	DryRun bool
}

// KnownPrefixes returns every environment prefix the host knows about: the
// root prefix, the entries of the registry file, and the directories found
// directly under each envs dir. Order is stable (root, registry, scan) and
// duplicates are dropped. A missing registry file or envs dir is not an
// error; an unreadable registry file is.
func (c Context) KnownPrefixes() ([]string, error) {
	seen := make(map[string]bool)
	var prefixes []string

	add := func(p string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		prefixes = append(prefixes, p)
	}

	add(c.RootPrefix)

	if c.RegistryFile != "" {
		listed, err := readRegistryFile(c.RegistryFile)
		if err != nil {
			return nil, err
		}
		for _, p := range listed {
			add(p)
		}
	}

	for _, dir := range c.EnvsDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				add(filepath.Join(dir, entry.Name()))
			}
		}
	}

	return prefixes, nil
}

func readRegistryFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, hosterr.IO(err, "unable to read environment registry %s", path)
	}
	defer f.Close()

	var prefixes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			prefixes = append(prefixes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, hosterr.IO(err, "unable to read environment registry %s", path)
	}
	return prefixes, nil
}
