package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"envguard/internal/host"
	"envguard/internal/model"
	"envguard/internal/state"
)

// AppModel holds the TUI state for the environment browser.
type AppModel struct {
	// Wiring
	Ctx         host.Context
	Store       state.Store
	Symbol      string // glyph shown next to flagged environments
	FlaggedWord string // "protected" or "locked"

	// Data
	Envs    []model.EnvironmentInfo
	Loading bool
	Err     error

	// UI State
	SelectedIdx int
	OnlyFlagged bool
	OnlyNamed   bool
	Status      string // transient line after a toggle
	WindowSize  tea.WindowSizeMsg

	// Search State
	InputMode    bool
	InputBuffer  textinput.Model
	SearchActive bool
}

// InitialModel returns the initial state for the given store and labels.
func InitialModel(ctx host.Context, store state.Store, symbol, flaggedWord string) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Environment name..."
	ti.CharLimit = 50
	ti.Width = 25

	return AppModel{
		Ctx:         ctx,
		Store:       store,
		Symbol:      symbol,
		FlaggedWord: flaggedWord,
		Loading:     true,
		InputBuffer: ti,
	}
}

// Init kicks off the initial environment load.
func (m AppModel) Init() tea.Cmd {
	return m.loadEnvironments
}

// visible returns the indices of Envs that pass the active filters and the
// current search query.
func (m AppModel) visible() []int {
	query := strings.ToLower(m.InputBuffer.Value())
	var out []int
	for i, env := range m.Envs {
		if m.OnlyFlagged && !env.Guarded {
			continue
		}
		if m.OnlyNamed && env.Name == "" {
			continue
		}
		if m.SearchActive && query != "" {
			if !strings.Contains(strings.ToLower(env.Name), query) &&
				!strings.Contains(strings.ToLower(env.Prefix), query) {
				continue
			}
		}
		out = append(out, i)
	}
	return out
}
