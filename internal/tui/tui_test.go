package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envguard/internal/host"
	"envguard/internal/model"
	"envguard/internal/state"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	tmp := t.TempDir()
	envsDir := filepath.Join(tmp, "envs")
	require.NoError(t, os.MkdirAll(filepath.Join(envsDir, "foo"), 0o755))

	ctx := host.Context{
		EnvsDirs:    []string{envsDir},
		RootPrefix:  filepath.Join(tmp, "base"),
		RootEnvName: "base",
	}
	m := InitialModel(ctx, state.NewSentinelStore(".protected"), "🔐", "protected")
	m.Loading = false
	m.Envs = []model.EnvironmentInfo{
		{Name: "", Prefix: "/opt/stray", Guarded: false},
		{Name: "bar", Prefix: filepath.Join(envsDir, "bar"), Guarded: true},
		{Name: "foo", Prefix: filepath.Join(envsDir, "foo"), Guarded: false},
	}
	return m
}

func TestVisibleFilters(t *testing.T) {
	m := testModel(t)

	assert.Len(t, m.visible(), 3)

	m.OnlyFlagged = true
	assert.Equal(t, []int{1}, m.visible())

	m.OnlyFlagged = false
	m.OnlyNamed = true
	assert.Equal(t, []int{1, 2}, m.visible())

	m.OnlyFlagged = true
	assert.Equal(t, []int{1}, m.visible())
}

func TestVisibleSearch(t *testing.T) {
	m := testModel(t)
	m.SearchActive = true
	m.InputBuffer.SetValue("foo")

	assert.Equal(t, []int{2}, m.visible())

	m.InputBuffer.SetValue("stray")
	assert.Equal(t, []int{0}, m.visible())
}

func TestUpdateNavigationAndQuit(t *testing.T) {
	m := testModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	assert.Equal(t, 1, next.(AppModel).SelectedIdx)

	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")})
	assert.Equal(t, 0, next.(AppModel).SelectedIdx)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdateFilterKeys(t *testing.T) {
	m := testModel(t)
	m.SelectedIdx = 2

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	got := next.(AppModel)
	assert.True(t, got.OnlyFlagged)
	assert.Zero(t, got.SelectedIdx, "cursor resets when the filter changes")

	next, _ = got.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	assert.True(t, next.(AppModel).OnlyNamed)
}

func TestViewRendersRows(t *testing.T) {
	m := testModel(t)
	out := m.View()

	assert.Contains(t, out, "envguard environments")
	assert.Contains(t, out, "foo")
	assert.Contains(t, out, "bar")
	assert.Contains(t, out, "protected")
	assert.Contains(t, out, "-") // unnamed placeholder
}
