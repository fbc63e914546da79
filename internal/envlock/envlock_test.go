package envlock

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envguard/internal/host"
	"envguard/internal/hosterr"
	"envguard/internal/plugin"
	"envguard/internal/state"
)

func newTestPlugin(t *testing.T) (*Plugin, *bytes.Buffer, string) {
	t.Helper()
	tmp := t.TempDir()
	envsDir := filepath.Join(tmp, "envs")
	for _, name := range []string{"foo", "bar"} {
		require.NoError(t, os.MkdirAll(filepath.Join(envsDir, name), 0o755))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(tmp, "base"), 0o755))

	ctx := host.Context{
		EnvsDirs:    []string{envsDir},
		RootPrefix:  filepath.Join(tmp, "base"),
		RootEnvName: "base",
	}

	out := &bytes.Buffer{}
	p := &Plugin{
		ctx:   ctx,
		Store: state.NewLedgerStoreAt(filepath.Join(tmp, "data", state.LedgerFileName)),
		Out:   out,
		Prog:  "envguard",
	}
	return p, out, tmp
}

func TestToggleCommand(t *testing.T) {
	p, out, tmp := newTestPlugin(t)

	require.NoError(t, p.Run([]string{"foo"}))
	assert.Contains(t, out.String(), "foo is")
	assert.Contains(t, out.String(), "locked")

	flagged, err := p.Store.IsFlagged(filepath.Join(tmp, "envs", "foo"))
	require.NoError(t, err)
	assert.True(t, flagged)

	out.Reset()
	require.NoError(t, p.Run([]string{"foo"}))
	assert.Contains(t, out.String(), "unlocked")

	flagged, err = p.Store.IsFlagged(filepath.Join(tmp, "envs", "foo"))
	require.NoError(t, err)
	assert.False(t, flagged)
}

func TestToggleRootByName(t *testing.T) {
	p, out, tmp := newTestPlugin(t)

	require.NoError(t, p.Run([]string{"base"}))
	assert.Contains(t, out.String(), "base is")

	flagged, err := p.Store.IsFlagged(filepath.Join(tmp, "base"))
	require.NoError(t, err)
	assert.True(t, flagged)
}

func TestToggleUnknownToken(t *testing.T) {
	p, _, _ := newTestPlugin(t)

	err := p.Run([]string{"no-such-env"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, hosterr.NotFound))
}

func TestListShowsStaleLedgerEntries(t *testing.T) {
	p, out, tmp := newTestPlugin(t)
	// Entry for an environment that no longer exists
	gone := filepath.Join(tmp, "gone-env")
	require.NoError(t, p.Store.Set(gone))

	require.NoError(t, p.Run([]string{"--list"}))
	assert.Contains(t, out.String(), gone)
	assert.Contains(t, out.String(), "foo")
}

func TestListLockedOnly(t *testing.T) {
	p, out, tmp := newTestPlugin(t)
	require.NoError(t, p.Store.Set(filepath.Join(tmp, "envs", "foo")))

	require.NoError(t, p.Run([]string{"-l", "-p"}))
	assert.Contains(t, out.String(), "foo")
	assert.NotContains(t, out.String(), "bar")
}

func TestGateBlocksLockedEnvironment(t *testing.T) {
	p, _, tmp := newTestPlugin(t)
	require.NoError(t, p.Store.Set(filepath.Join(tmp, "envs", "foo")))
	p.ctx.TargetName = "foo"

	err := p.Gate("install")
	require.Error(t, err)
	assert.True(t, errors.Is(err, hosterr.Blocked))
	assert.Contains(t, err.Error(), `"foo"`)
	assert.Contains(t, err.Error(), "envguard envlock foo")
}

func TestGatePassesInDryRun(t *testing.T) {
	p, _, tmp := newTestPlugin(t)
	require.NoError(t, p.Store.Set(filepath.Join(tmp, "envs", "foo")))
	p.ctx.TargetName = "foo"
	p.ctx.DryRun = true

	assert.NoError(t, p.Gate("install"))
}

func TestGateDefersUnknownName(t *testing.T) {
	p, _, _ := newTestPlugin(t)
	p.ctx.TargetName = "ghost"

	assert.NoError(t, p.Gate("install"))
}

func TestGateChecksExplicitPrefixDirectly(t *testing.T) {
	// The ledger is authoritative for explicit prefixes even when the
	// registry no longer knows them.
	p, _, tmp := newTestPlugin(t)
	gone := filepath.Join(tmp, "gone-env")
	require.NoError(t, p.Store.Set(gone))
	p.ctx.TargetPrefix = gone

	err := p.Gate("remove")
	require.Error(t, err)
	assert.True(t, errors.Is(err, hosterr.Blocked))
}

func TestInfoIsGated(t *testing.T) {
	p, _, tmp := newTestPlugin(t)
	require.NoError(t, p.Store.Set(filepath.Join(tmp, "envs", "foo")))
	p.ctx.TargetName = "foo"

	plugins := plugin.NewSet()
	plugins.AddPreCommand(p.PreCommand())

	err := plugins.RunPreCommands("info")
	require.Error(t, err)
	assert.True(t, errors.Is(err, hosterr.Blocked))

	// Ungated host commands pass straight through
	assert.NoError(t, plugins.RunPreCommands("create"))
}

func TestPreCommandRegistration(t *testing.T) {
	p, _, _ := newTestPlugin(t)
	pc := p.PreCommand()

	assert.Equal(t, PluginName+"_pre_command", pc.Name)
	assert.ElementsMatch(t,
		[]string{"install", "remove", "update", "info", "env_update", "env_remove"},
		pc.RunFor)
}
