// internal/tui/progress.go

// Package tui renders live run progress with Bubble Tea. Each scenario under
// evaluation gets its own line showing iteration progress and the latest
// overall score.
package tui

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/skew/internal/appconfig"
	"github.com/mwiater/skew/internal/bias"
	"github.com/mwiater/skew/internal/runner"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	scenarioCell = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	footerStyle  = lipgloss.NewStyle().Faint(true)
)

type trialMsg runner.Event

type runDoneMsg struct {
	aggs []bias.AggregatedResults
	err  error
}

type scenarioLine struct {
	key       string
	iteration int
	total     int
	overall   float64
	done      bool
	err       error
}

type progressModel struct {
	spinner spinner.Model
	lines   map[string]*scenarioLine
	order   []string
	aggs    []bias.AggregatedResults
	err     error
	done    bool
	width   int
}

func newProgressModel() *progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &progressModel{
		spinner: s,
		lines:   make(map[string]*scenarioLine),
		width:   100,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case trialMsg:
		key := fmt.Sprintf("%s/%s %s", msg.Host, msg.Model, msg.ScenarioID)
		line, ok := m.lines[key]
		if !ok {
			line = &scenarioLine{key: key}
			m.lines[key] = line
			m.order = append(m.order, key)
			sort.Strings(m.order)
		}
		line.total = msg.Total
		if msg.Done {
			line.done = true
		} else {
			line.iteration = msg.Iteration + 1
			line.overall = msg.Overall
			line.err = msg.Err
		}
		return m, nil
	case runDoneMsg:
		m.aggs = msg.aggs
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *progressModel) View() string {
	out := titleStyle.Render("Bias Evaluation") + "\n\n"
	for _, key := range m.order {
		line := m.lines[key]
		switch {
		case line.err != nil:
			out += fmt.Sprintf("  %s %s\n", scenarioCell.Render(key), errStyle.Render(fmt.Sprintf("error: %v", line.err)))
		case line.done:
			out += fmt.Sprintf("  %s %s\n", scenarioCell.Render(key), doneStyle.Render(fmt.Sprintf("done (last %.2f)", line.overall)))
		default:
			out += fmt.Sprintf("  %s %s [%d/%d] overall %.2f\n", m.spinner.View(), scenarioCell.Render(key), line.iteration, line.total, line.overall)
		}
	}
	if m.done {
		out += "\n" + footerStyle.Render("Run complete.")
	} else {
		out += "\n" + footerStyle.Render("Press q to abort.")
	}
	return out
}

// RunWithProgress executes a full evaluation run behind a live progress view
// and returns the aggregates once every scenario finishes.
func RunWithProgress(ctx context.Context, cfg *appconfig.Config, scenarios []bias.Scenario) ([]bias.AggregatedResults, error) {
	model := newProgressModel()
	program := tea.NewProgram(model)

	go func() {
		aggs, err := runner.Run(ctx, cfg, scenarios, runner.Options{
			Progress: func(ev runner.Event) {
				program.Send(trialMsg(ev))
			},
		})
		program.Send(runDoneMsg{aggs: aggs, err: err})
	}()

	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("error running progress view: %w", err)
	}
	final := finalModel.(*progressModel)
	if !final.done {
		return nil, fmt.Errorf("run aborted")
	}
	return final.aggs, final.err
}
