// SPDX-License-Identifier: Apache-2.0

// Package ui holds the interactive terminal models. Each model is a pure
// state machine: Update applies one transition per key event and View
// renders the current state, so tests can drive them with synthetic key
// messages and no real terminal.
package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/Work-Fort/Bellows/pkg/config"
)

// ErrSelectionAborted is returned when the user cancels a selection
// instead of confirming it.
var ErrSelectionAborted = errors.New("selection aborted")

// SelectModel is a single-select list. The cursor clamps at the first and
// last option; enter confirms the option under the cursor.
type SelectModel struct {
	prompt  string
	options []string
	cursor  int
	done    bool
	aborted bool
	keys    KeyBindingSet
}

// NewSelect creates a single-select model over options.
func NewSelect(prompt string, options []string) SelectModel {
	return SelectModel{
		prompt:  prompt,
		options: options,
		keys:    SingleSelectKeyBindings(),
	}
}

func (m SelectModel) Init() tea.Cmd {
	return nil
}

func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}

	return m, nil
}

func (m SelectModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	theme := config.CurrentTheme
	cursorStyle := lipgloss.NewStyle().Foreground(theme.GetPrimaryColor()).Bold(true)

	var b strings.Builder
	b.WriteString(m.prompt + "\n\n")
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+opt) + "\n")
		} else {
			b.WriteString("  " + opt + "\n")
		}
	}
	b.WriteString("\n" + m.keys.RenderInline(theme.SubtleStyle()) + "\n")
	return b.String()
}

// Selected returns the option under the cursor.
func (m SelectModel) Selected() string {
	return m.options[m.cursor]
}

// Aborted reports whether the user cancelled the selection.
func (m SelectModel) Aborted() bool {
	return m.aborted
}

// RunSelect runs the single-select loop on the terminal and returns the
// confirmed option.
func RunSelect(prompt string, options []string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options to select from")
	}

	model := NewSelect(prompt, options)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return "", fmt.Errorf("selection failed: %w", err)
	}

	result := final.(SelectModel)
	if result.Aborted() {
		return "", ErrSelectionAborted
	}
	return result.Selected(), nil
}
