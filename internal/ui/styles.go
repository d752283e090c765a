package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/toast"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#1E3A8A")).
			Padding(0, 1).
			MarginBottom(1).
			Align(lipgloss.Center).
			Width(60)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#2D3748")).
			Padding(0, 1).
			Align(lipgloss.Center).
			Width(60)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#E53E3E")).
			Padding(0, 1).
			Align(lipgloss.Center).
			Width(60)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#38A169")).
			Padding(0, 1).
			Align(lipgloss.Center).
			Width(60)

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2563EB"))

	dimmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9E9E9E"))

	fieldErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#DC2626"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#2563EB"))

	protocolStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2D3748")).
			Bold(true)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

func toastStyle(k toast.Kind) lipgloss.Style {
	switch k {
	case toast.Success:
		return successStyle
	case toast.Error:
		return errorStyle
	}
	return infoStyle
}

func statusStyle(s models.ObjectStatus) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#FAFAFA"))
	switch s {
	case models.StatusOpen:
		return base.Background(lipgloss.Color("#2563EB"))
	case models.StatusMatched:
		return base.Background(lipgloss.Color("#7D56F4"))
	case models.StatusInProgress:
		return base.Background(lipgloss.Color("#D97706"))
	case models.StatusReturned:
		return base.Background(lipgloss.Color("#38A169"))
	}
	return base.Background(lipgloss.Color("#2D3748"))
}

func kindStyle(k models.ObjectKind) lipgloss.Style {
	if k == models.KindLost {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626"))
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#38A169"))
}
