// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// KeyBinding represents a single key action
type KeyBinding struct {
	Key         string   // Display name: "ENTER", "SPACE", "ESC"
	Keys        []string // Actual keys to match: ["enter"], [" "], ["esc", "ctrl+c"]
	Description string   // What it does
}

// KeyBindingSet is a collection of related key bindings
type KeyBindingSet struct {
	Bindings []KeyBinding
}

// Contains checks if a key press matches any binding in the set
func (kbs KeyBindingSet) Contains(key string) *KeyBinding {
	for i := range kbs.Bindings {
		for _, k := range kbs.Bindings[i].Keys {
			if k == key {
				return &kbs.Bindings[i]
			}
		}
	}
	return nil
}

// Render formats key bindings for display
// Format: "[KEY] Action  •  [KEY] Action"
func (kbs KeyBindingSet) Render(style lipgloss.Style) string {
	if len(kbs.Bindings) == 0 {
		return ""
	}

	parts := make([]string, len(kbs.Bindings))
	for i, binding := range kbs.Bindings {
		parts[i] = fmt.Sprintf("[%s] %s", binding.Key, binding.Description)
	}

	return style.Render(strings.Join(parts, "  •  "))
}

// RenderInline formats key bindings for inline display (more compact)
// Format: "Key: action | Key: action"
func (kbs KeyBindingSet) RenderInline(style lipgloss.Style) string {
	if len(kbs.Bindings) == 0 {
		return ""
	}

	parts := make([]string, len(kbs.Bindings))
	caser := cases.Title(language.Und, cases.NoLower)
	for i, binding := range kbs.Bindings {
		keyName := caser.String(binding.Keys[0])
		parts[i] = fmt.Sprintf("%s: %s", keyName, strings.ToLower(binding.Description))
	}

	return style.Render(strings.Join(parts, " | "))
}

// SingleSelectKeyBindings returns key bindings for the single-select list
func SingleSelectKeyBindings() KeyBindingSet {
	return KeyBindingSet{
		Bindings: []KeyBinding{
			{Key: "↑/↓", Keys: []string{"up", "down", "k", "j"}, Description: "Move"},
			{Key: "ENTER", Keys: []string{"enter"}, Description: "Confirm"},
			{Key: "ESC", Keys: []string{"esc", "ctrl+c"}, Description: "Cancel"},
		},
	}
}

// MultiSelectKeyBindings returns key bindings for the ordered multi-select list
func MultiSelectKeyBindings() KeyBindingSet {
	return KeyBindingSet{
		Bindings: []KeyBinding{
			{Key: "↑/↓", Keys: []string{"up", "down", "k", "j"}, Description: "Move"},
			{Key: "SPACE", Keys: []string{" "}, Description: "Toggle"},
			{Key: "ENTER", Keys: []string{"enter"}, Description: "Confirm"},
			{Key: "ESC", Keys: []string{"esc", "ctrl+c"}, Description: "Cancel"},
		},
	}
}
