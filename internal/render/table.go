// Package render formats environment listings and status lines for the
// terminal.
package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"envguard/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")) // Sky Blue/Cyan

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")) // Green

	borderColor = lipgloss.Color("63")
)

// EnvironmentTable renders environments as a bordered table with Name,
// Prefix and Status columns. Unnamed environments show a "-" placeholder,
// unflagged ones an empty status.
func EnvironmentTable(title string, envs []model.EnvironmentInfo, flaggedStatus string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers("Name", "Prefix", "Status").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			switch col {
			case 0:
				return nameStyle
			case 2:
				return statusStyle
			}
			return lipgloss.NewStyle()
		})

	for _, env := range envs {
		name := env.Name
		if name == "" {
			name = "-"
		}
		status := ""
		if env.Guarded {
			status = flaggedStatus
		}
		t.Row(name, env.Prefix, status)
	}

	return headerStyle.Render(title) + "\n" + t.String()
}

// StatusLine reports the outcome of a toggle, e.g. "foo is 🔐 protected".
func StatusLine(display, symbol, word string) string {
	return fmt.Sprintf("%s is %s %s", display, symbol, word)
}
