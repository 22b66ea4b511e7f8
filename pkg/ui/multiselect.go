// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/Work-Fort/Bellows/pkg/config"
)

// MultiSelectModel is an ordered multi-select list. Toggling appends the
// option under the cursor to the chosen list or removes it; re-adding a
// removed option appends it at the end rather than restoring its old
// position. The chosen order is the pipeline order.
type MultiSelectModel struct {
	prompt  string
	options []string
	cursor  int
	chosen  []string
	done    bool
	aborted bool
	keys    KeyBindingSet
}

// NewMultiSelect creates an ordered multi-select model over options.
func NewMultiSelect(prompt string, options []string) MultiSelectModel {
	return MultiSelectModel{
		prompt:  prompt,
		options: options,
		keys:    MultiSelectKeyBindings(),
	}
}

func (m MultiSelectModel) Init() tea.Cmd {
	return nil
}

func (m MultiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
	case " ":
		m = m.toggle(m.options[m.cursor])
	case "enter":
		m.done = true
		return m, tea.Quit
	case "esc", "ctrl+c":
		m.aborted = true
		return m, tea.Quit
	}

	return m, nil
}

func (m MultiSelectModel) toggle(option string) MultiSelectModel {
	for i, c := range m.chosen {
		if c == option {
			chosen := make([]string, 0, len(m.chosen)-1)
			chosen = append(chosen, m.chosen[:i]...)
			chosen = append(chosen, m.chosen[i+1:]...)
			m.chosen = chosen
			return m
		}
	}
	m.chosen = append(append([]string{}, m.chosen...), option)
	return m
}

// order returns the 1-based selection position of an option, or 0 when it
// is not chosen.
func (m MultiSelectModel) order(option string) int {
	for i, c := range m.chosen {
		if c == option {
			return i + 1
		}
	}
	return 0
}

func (m MultiSelectModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	theme := config.CurrentTheme
	cursorStyle := lipgloss.NewStyle().Foreground(theme.GetPrimaryColor()).Bold(true)
	markerStyle := lipgloss.NewStyle().Foreground(theme.GetSecondaryColor())

	var b strings.Builder
	b.WriteString(m.prompt + "\n\n")
	for i, opt := range m.options {
		marker := "[ ]"
		if n := m.order(opt); n > 0 {
			marker = markerStyle.Render(fmt.Sprintf("[%d]", n))
		}
		line := fmt.Sprintf("%s %s", marker, opt)
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + m.keys.RenderInline(theme.SubtleStyle()) + "\n")
	return b.String()
}

// Chosen returns the selected options in selection order. May be empty.
func (m MultiSelectModel) Chosen() []string {
	return m.chosen
}

// Aborted reports whether the user cancelled the selection.
func (m MultiSelectModel) Aborted() bool {
	return m.aborted
}

// RunMultiSelect runs the ordered multi-select loop on the terminal and
// returns the chosen options in selection order. An empty selection is a
// valid result.
func RunMultiSelect(prompt string, options []string) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}

	model := NewMultiSelect(prompt, options)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("selection failed: %w", err)
	}

	result := final.(MultiSelectModel)
	if result.Aborted() {
		return nil, ErrSelectionAborted
	}
	return result.Chosen(), nil
}
