// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"github.com/charmbracelet/huh"
)

// Confirm shows a yes/no confirmation dialog using huh
func Confirm(prompt string) (bool, error) {
	var confirmed bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Value(&confirmed),
		),
	)

	err := form.Run()
	if err != nil {
		return false, err
	}

	return confirmed, nil
}
