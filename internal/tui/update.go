package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"envguard/internal/model"
	"envguard/internal/registry"
	"envguard/internal/render"
)

// MsgEnvsReady indicates the environment list has been (re)loaded.
type MsgEnvsReady []model.EnvironmentInfo

// MsgToggled reports the outcome of a toggle on one environment.
type MsgToggled struct {
	Display string
	Flagged bool
}

// MsgError indicates an error occurred.
type MsgError error

func (m AppModel) loadEnvironments() tea.Msg {
	reg, err := registry.New(m.Ctx)
	if err != nil {
		return MsgError(err)
	}
	envs, err := reg.Environments(m.Store)
	if err != nil {
		return MsgError(err)
	}
	return MsgEnvsReady(envs)
}

func (m AppModel) toggleSelected() tea.Cmd {
	visible := m.visible()
	if m.SelectedIdx >= len(visible) {
		return nil
	}
	env := m.Envs[visible[m.SelectedIdx]]
	return func() tea.Msg {
		flagged, err := m.Store.Toggle(env.Prefix)
		if err != nil {
			return MsgError(err)
		}
		return MsgToggled{Display: env.DisplayName(), Flagged: flagged}
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		return m, nil

	case MsgEnvsReady:
		m.Loading = false
		m.Envs = msg
		if visible := m.visible(); m.SelectedIdx >= len(visible) && len(visible) > 0 {
			m.SelectedIdx = len(visible) - 1
		}
		return m, nil

	case MsgToggled:
		word := "un" + m.FlaggedWord
		if msg.Flagged {
			word = m.FlaggedWord
		}
		symbol := UnflaggedSymbol
		if msg.Flagged {
			symbol = m.Symbol
		}
		m.Status = render.StatusLine(msg.Display, symbol, word)
		// Reload so the list reflects the new state
		return m, m.loadEnvironments

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.SelectedIdx = 0
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.SearchActive = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.SelectedIdx = 0
				return m, nil
			}
			var cmd tea.Cmd
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.InputMode = true
			m.SearchActive = true
			m.InputBuffer.Focus()
			return m, nil
		case "esc":
			if m.SearchActive {
				m.SearchActive = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.SelectedIdx = 0
			}
			return m, nil
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < len(m.visible())-1 {
				m.SelectedIdx++
			}
		case "enter", " ":
			return m, m.toggleSelected()
		case "p":
			m.OnlyFlagged = !m.OnlyFlagged
			m.SelectedIdx = 0
		case "n":
			m.OnlyNamed = !m.OnlyNamed
			m.SelectedIdx = 0
		case "r":
			m.Loading = true
			m.Status = ""
			return m, m.loadEnvironments
		}
	}

	return m, nil
}
