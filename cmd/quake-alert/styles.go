package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mr1hm/go-hazard-watch/internal/models"
)

var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorDanger  = lipgloss.Color("#FF6B6B")
	colorWarning = lipgloss.Color("#FFD93D")
	colorSuccess = lipgloss.Color("#6BCF7F")
	colorMuted   = lipgloss.Color("#6C757D")
	colorBorder  = lipgloss.Color("#4A90E2")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	alertHighStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	alertMediumStyle = lipgloss.NewStyle().
				Foreground(colorWarning).
				Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)
)

func alertStyle(sev models.AlertSeverity) lipgloss.Style {
	if sev == models.AlertSeverityHigh {
		return alertHighStyle
	}
	return alertMediumStyle
}

func riskStyle(risk models.EarthquakeRisk) lipgloss.Style {
	switch risk {
	case models.EarthquakeRiskHigh:
		return alertHighStyle
	case models.EarthquakeRiskMedium:
		return alertMediumStyle
	default:
		return okStyle
	}
}
