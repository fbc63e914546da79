package host

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	EnvsDirs     []string `toml:"envs_dirs"`
	RootPrefix   string   `toml:"root_prefix"`
	RootEnvName  string   `toml:"root_env_name"`
	RegistryFile string   `toml:"registry_file"`
	ActivePrefix string   `toml:"active_prefix"`
}

// DefaultContext returns the host context used when no config file is given:
// everything lives under ~/.envguard.
func DefaultContext() Context {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".envguard")
	return Context{
		EnvsDirs:     []string{filepath.Join(base, "envs")},
		RootPrefix:   filepath.Join(base, "base"),
		RootEnvName:  "base",
		RegistryFile: filepath.Join(base, RegistryFileName),
	}
}

// LoadContext reads a TOML host config and fills unset fields from the
// defaults.
func LoadContext(path string) (Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Context{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	var cfg fileConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Context{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	ctx := DefaultContext()
	if len(cfg.EnvsDirs) > 0 {
		ctx.EnvsDirs = cfg.EnvsDirs
	}
	if cfg.RootPrefix != "" {
		ctx.RootPrefix = cfg.RootPrefix
	}
	if cfg.RootEnvName != "" {
		ctx.RootEnvName = cfg.RootEnvName
	}
	if cfg.RegistryFile != "" {
		ctx.RegistryFile = cfg.RegistryFile
	}
	if cfg.ActivePrefix != "" {
		ctx.ActivePrefix = cfg.ActivePrefix
	}

	if err := ValidateContext(ctx); err != nil {
		return Context{}, err
	}
	return ctx, nil
}

// ValidateContext rejects contexts that cannot address any environment.
func ValidateContext(ctx Context) error {
	if strings.TrimSpace(ctx.RootPrefix) == "" {
		return fmt.Errorf("host config missing root_prefix")
	}
	if strings.TrimSpace(ctx.RootEnvName) == "" {
		return fmt.Errorf("host config missing root_env_name")
	}
	for i, dir := range ctx.EnvsDirs {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("envs_dirs[%d] is empty", i)
		}
	}
	return nil
}
