package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Taishi66/rollouts-tui/internal/status"
)

var (
	colorPrimary   = lipgloss.Color("#326CE5") // Kubernetes blue
	colorArgo      = lipgloss.Color("#EF7B4D") // Argo orange
	colorSuccess   = lipgloss.Color("#04B575")
	colorWarning   = lipgloss.Color("#FFBD2E")
	colorError     = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#626262")
	colorHighlight = lipgloss.Color("#7D56F4")
	colorProdBg    = lipgloss.Color("#8B0000")
	colorWarnBg    = lipgloss.Color("#CC7700")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorArgo)

	contextStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	namespaceStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Foreground(lipgloss.Color("#FFFFFF")).
			PaddingLeft(1).
			PaddingRight(1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#333333")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted).
			Underline(true)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorArgo)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	toastSuccessStyle = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	toastErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	bannerWarnStyle = lipgloss.NewStyle().
			Background(colorWarnBg).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			PaddingLeft(1).
			PaddingRight(1)

	bannerProdStyle = lipgloss.NewStyle().
			Background(colorProdBg).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			PaddingLeft(1).
			PaddingRight(1)

	errorScreenStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true).
				PaddingLeft(2).
				PaddingTop(1)

	liveStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	// Action bar
	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorArgo).
			Padding(0, 1)

	buttonDisabledStyle = buttonStyle.
				BorderForeground(colorMuted).
				Foreground(colorMuted)

	buttonLoadingStyle = buttonStyle.
				BorderForeground(colorWarning).
				Foreground(colorWarning)

	// Replica set groups
	replicaSetBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted).
				Padding(0, 1)

	podFocusStyle = lipgloss.NewStyle().
			Reverse(true)

	tooltipStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorHighlight).
			Padding(0, 1)

	revisionTagStyle = lipgloss.NewStyle().
				Foreground(colorHighlight).
				Bold(true)
)

// podStatusColor is the color of a pod icon for its classified status.
func podStatusColor(s status.PodStatus) lipgloss.Color {
	switch s {
	case status.PodSuccess:
		return colorSuccess
	case status.PodPending:
		return colorPrimary
	case status.PodFailed:
		return colorError
	case status.PodWarning:
		return colorWarning
	default:
		return colorMuted
	}
}

func rolloutStatusColor(s status.RolloutStatus) lipgloss.Color {
	switch s {
	case status.RolloutHealthy:
		return colorSuccess
	case status.RolloutProgressing:
		return colorPrimary
	case status.RolloutPaused:
		return colorWarning
	case status.RolloutDegraded:
		return colorError
	default:
		return colorMuted
	}
}

func replicaSetStatusColor(s status.ReplicaSetStatus) lipgloss.Color {
	switch s {
	case status.ReplicaSetHealthy:
		return colorSuccess
	case status.ReplicaSetProgressing:
		return colorPrimary
	case status.ReplicaSetDegraded:
		return colorError
	default:
		return colorMuted
	}
}
