// SPDX-License-Identifier: Apache-2.0
package config

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the application color scheme
type Theme struct {
	Primary   string // Bright mint green
	Secondary string // Bright cyan
	Muted     string // Muted purple-gray
	Success   string // Success/affirmative color
	Info      string // Info/neutral color
	Warning   string // Warning color
	Error     string // Error/destructive color
}

// CurrentTheme is the active theme used throughout the application
var CurrentTheme = Theme{
	Primary:   "#82FB9C",
	Secondary: "#7cf8f7",
	Muted:     "#6a6e95",
	Success:   "#82FB9C",
	Info:      "#7cf8f7",
	Warning:   "#FFD700",
	Error:     "#FF6B6B",
}

func (t Theme) GetPrimaryColor() lipgloss.Color {
	return lipgloss.Color(t.Primary)
}

func (t Theme) GetSecondaryColor() lipgloss.Color {
	return lipgloss.Color(t.Secondary)
}

func (t Theme) GetMutedColor() lipgloss.Color {
	return lipgloss.Color(t.Muted)
}

func (t Theme) GetSuccessColor() lipgloss.Color {
	return lipgloss.Color(t.Success)
}

func (t Theme) GetWarningColor() lipgloss.Color {
	return lipgloss.Color(t.Warning)
}

func (t Theme) GetErrorColor() lipgloss.Color {
	return lipgloss.Color(t.Error)
}

// Common style builders for consistent UI

func (t Theme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetSuccessColor()).Bold(true)
}

func (t Theme) InfoStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info))
}

func (t Theme) WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetWarningColor())
}

func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetErrorColor())
}

func (t Theme) SubtleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.GetMutedColor())
}

// Message formatters with theme-appropriate icons

func (t Theme) SuccessMessage(text string) string {
	return t.SuccessStyle().Render("✓ " + text)
}

func (t Theme) InfoMessage(text string) string {
	return t.InfoStyle().Render("ℹ " + text)
}

func (t Theme) WarningMessage(text string) string {
	return t.WarningStyle().Render("⚠ " + text)
}

func (t Theme) ErrorMessage(text string) string {
	return t.ErrorStyle().Render("✗ " + text)
}
