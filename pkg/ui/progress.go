// SPDX-License-Identifier: Apache-2.0
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/Work-Fort/Bellows/pkg/config"
)

type progressMsg struct {
	percent  float64
	done     chan error
	progress chan float64
}

type downloadDoneMsg struct {
	err error
}

// DownloadModel renders a progress bar for a long-running transfer driven
// by a percent callback.
type DownloadModel struct {
	title    string
	fn       func(progressFn func(float64)) error
	progress progress.Model
	spinner  spinner.Model
	percent  float64
	started  bool
	err      error
	quitting bool
}

// NewDownload creates a progress model for fn, which receives a callback
// to report completion between 0 and 1.
func NewDownload(title string, fn func(progressFn func(float64)) error) DownloadModel {
	theme := config.CurrentTheme
	prog := progress.New(progress.WithGradient(theme.Secondary, theme.Primary))
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(theme.GetPrimaryColor())

	return DownloadModel{
		title:    title,
		fn:       fn,
		progress: prog,
		spinner:  spin,
	}
}

func (m DownloadModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

// start launches the transfer in a goroutine and relays progress into the
// bubbletea loop over channels.
func (m DownloadModel) start() tea.Cmd {
	fn := m.fn
	return func() tea.Msg {
		progressChan := make(chan float64, 16)
		done := make(chan error, 1)

		go func() {
			err := fn(func(percent float64) {
				select {
				case progressChan <- percent:
				default:
				}
			})
			done <- err
			close(progressChan)
		}()

		return waitForDownload(done, progressChan)()
	}
}

func waitForDownload(done chan error, progressChan chan float64) tea.Cmd {
	return func() tea.Msg {
		select {
		case percent, ok := <-progressChan:
			if !ok {
				return downloadDoneMsg{err: <-done}
			}
			return progressMsg{percent: percent, done: done, progress: progressChan}
		case err := <-done:
			return downloadDoneMsg{err: err}
		}
	}
}

func (m DownloadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.percent = msg.percent
		cmd := m.progress.SetPercent(msg.percent)
		return m, tea.Batch(cmd, waitForDownload(msg.done, msg.progress))

	case downloadDoneMsg:
		m.err = msg.err
		m.quitting = true
		return m, tea.Quit

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Transfers are not cancellable from the keyboard
		return m, nil
	}

	return m, nil
}

func (m DownloadModel) View() string {
	if m.quitting {
		return ""
	}

	theme := config.CurrentTheme
	title := lipgloss.NewStyle().Foreground(theme.GetSecondaryColor()).Bold(true).Render(m.title)
	return fmt.Sprintf("%s\n\n%s %s\n", title, m.spinner.View(), m.progress.View())
}

// RunDownload runs fn with a live progress display and returns its error.
func RunDownload(title string, fn func(progressFn func(float64)) error) error {
	model := NewDownload(title, fn)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("progress display failed: %w", err)
	}
	return final.(DownloadModel).err
}
