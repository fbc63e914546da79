package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UnflaggedSymbol is shown for environments without a flag.
const UnflaggedSymbol = "🔓"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205")) // Pinkish

	unselectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")) // Green

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// View renders the environment browser.
func (m AppModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("envguard environments"))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("Error: %v", m.Err)))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("q quit"))
		return b.String()
	}

	if m.Loading {
		b.WriteString(dimStyle.Render("Loading environments..."))
		return b.String()
	}

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(dimStyle.Render("No environments match the active filters."))
		b.WriteString("\n")
	}

	for row, idx := range visible {
		env := m.Envs[idx]

		symbol := UnflaggedSymbol
		status := ""
		if env.Guarded {
			symbol = m.Symbol
			status = statusStyle.Render(" " + m.FlaggedWord)
		}

		name := env.Name
		if name == "" {
			name = "-"
		}

		line := fmt.Sprintf("%s %-20s %s%s", symbol, name, dimStyle.Render(env.Prefix), status)
		if row == m.SelectedIdx {
			b.WriteString(selectedItemStyle.Render("> " + line))
		} else {
			b.WriteString(unselectedItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.Status != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.Status))
		b.WriteString("\n")
	}

	if m.InputMode || (m.SearchActive && m.InputBuffer.Value() != "") {
		b.WriteString("\n")
		b.WriteString("Search: " + m.InputBuffer.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	filters := []string{}
	if m.OnlyFlagged {
		filters = append(filters, m.FlaggedWord+" only")
	}
	if m.OnlyNamed {
		filters = append(filters, "named only")
	}
	if len(filters) > 0 {
		b.WriteString(dimStyle.Render("filters: " + strings.Join(filters, ", ")))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("↑/↓ move · enter toggle · / search · p " + m.FlaggedWord + " filter · n named filter · r reload · q quit"))

	return b.String()
}
