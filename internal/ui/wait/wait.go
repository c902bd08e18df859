// Package wait shows a spinner on the terminal while a blocking call runs.
package wait

import (
	"context"
	"io"
	"os"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"

	"github.com/abhisek/skillpilot/internal/ui/theme"
)

// doneMsg tells the spinner that the call has returned.
type doneMsg struct{}

type model struct {
	spin        spinner.Model
	label       string
	done        bool
	interrupted bool
}

func newModel(label string) model {
	return model{
		spin:  spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(theme.Warn)),
		label: label,
	}
}

func (m model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			m.interrupted = true
			return m, tea.Quit
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m model) View() tea.View {
	return tea.NewView(m.line())
}

// line is the single status line; it is cleared once the call returns.
func (m model) line() string {
	if m.done || m.interrupted {
		return ""
	}
	return m.spin.View() + " " + theme.Muted.Render(m.label)
}

// For runs fn and, when out is a terminal, animates a spinner labelled
// label until fn returns. Ctrl+C cancels the context passed to fn.
func For[T any](ctx context.Context, out io.Writer, label string, fn func(context.Context) (T, error)) (T, error) {
	f, ok := out.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		val T
		err error
	}
	results := make(chan result, 1)
	p := tea.NewProgram(newModel(label), tea.WithOutput(out), tea.WithContext(ctx))
	go func() {
		v, err := fn(ctx)
		results <- result{v, err}
		p.Send(doneMsg{})
	}()

	final, _ := p.Run()
	if m, ok := final.(model); ok && m.interrupted {
		cancel()
	}
	r := <-results
	return r.val, r.err
}
