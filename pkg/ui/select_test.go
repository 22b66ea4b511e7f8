// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyPress(key string) tea.KeyMsg {
	switch key {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func driveSelect(t *testing.T, m SelectModel, keys ...string) SelectModel {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyPress(k))
		m = next.(SelectModel)
	}
	return m
}

func TestSelect_CursorStartsAtZero(t *testing.T) {
	m := NewSelect("Select target OS:", []string{"debian-13", "ubuntu-2204"})
	if m.Selected() != "debian-13" {
		t.Errorf("Selected = %q, want debian-13", m.Selected())
	}
}

func TestSelect_CursorMovesAndClamps(t *testing.T) {
	options := []string{"a", "b", "c"}

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "down moves", keys: []string{"down"}, want: "b"},
		{name: "down clamps at last", keys: []string{"down", "down", "down", "down"}, want: "c"},
		{name: "up clamps at first", keys: []string{"up", "up"}, want: "a"},
		{name: "vi keys work", keys: []string{"j", "j", "k"}, want: "b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := driveSelect(t, NewSelect("pick", options), tt.keys...)
			if m.Selected() != tt.want {
				t.Errorf("Selected = %q, want %q", m.Selected(), tt.want)
			}
		})
	}
}

func TestSelect_EnterConfirms(t *testing.T) {
	m := NewSelect("pick", []string{"a", "b"})
	next, cmd := m.Update(keyPress("enter"))
	m = next.(SelectModel)

	if !m.done {
		t.Error("Enter did not mark the model done")
	}
	if cmd == nil {
		t.Error("Enter should quit the program")
	}
}

func TestSelect_EscAborts(t *testing.T) {
	m := driveSelect(t, NewSelect("pick", []string{"a", "b"}), "down", "esc")
	if !m.Aborted() {
		t.Error("Esc did not abort the selection")
	}
}

func TestSelect_ViewShowsCursor(t *testing.T) {
	m := driveSelect(t, NewSelect("Select target OS:", []string{"debian-13", "ubuntu-2204"}), "down")
	view := m.View()

	if !strings.Contains(view, "Select target OS:") {
		t.Error("View missing prompt")
	}
	if !strings.Contains(view, "ubuntu-2204") {
		t.Error("View missing option")
	}
}

func TestSelect_ViewEmptyAfterConfirm(t *testing.T) {
	m := driveSelect(t, NewSelect("pick", []string{"a"}), "enter")
	if m.View() != "" {
		t.Errorf("View after confirm = %q, want empty", m.View())
	}
}
