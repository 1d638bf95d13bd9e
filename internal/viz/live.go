package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/statelab/odeprop/internal/integrators"
	"github.com/statelab/odeprop/internal/ode"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model drives a live propagation: one integrator step per tick, with
// the history of each state component plotted as it accumulates.
type Model struct {
	integ     *integrators.FixedStep
	modelName string
	initial   ode.State
	state     ode.State
	t         float64
	history   [][]float64
	selected  int
	running   bool
	fps       int
}

func NewModel(integ *integrators.FixedStep, modelName string, initState ode.State, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		integ:     integ,
		modelName: modelName,
		initial:   initState.Clone(),
		state:     initState.Clone(),
		history:   make([][]float64, len(initState)),
		running:   true,
		fps:       fps,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "tab":
			if len(m.state) > 0 {
				m.selected = (m.selected + 1) % len(m.state)
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) reset() {
	m.state = m.initial.Clone()
	m.t = 0
	m.history = make([][]float64, len(m.initial))
}

func (m *Model) step() {
	// One fixed step per tick: the span equals h, so the loop inside
	// Integrate runs exactly once.
	next, err := m.integ.Integrate(m.integ.StepSize(), m.state)
	if err != nil || !next.IsValid() {
		m.running = false
		return
	}
	m.state = next
	m.t += m.integ.StepSize()

	for i, v := range m.state {
		m.history[i] = append(m.history[i], v)
		if len(m.history[i]) > historyCapacity {
			m.history[i] = m.history[i][1:]
		}
	}
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelName)) + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if m.selected < len(m.history) && len(m.history[m.selected]) > 1 {
		chart := asciigraph.Plot(m.history[m.selected],
			asciigraph.Height(10),
			asciigraph.Width(70),
			asciigraph.Caption(fmt.Sprintf("x%d", m.selected)),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Method") + valueStyle.Render(m.integ.Method().String()) + "\n")
	s.WriteString(labelStyle.Render("Step") + valueStyle.Render(fmt.Sprintf("%g", m.integ.StepSize())) + "\n")
	for i, v := range m.state {
		s.WriteString(labelStyle.Render(fmt.Sprintf("x%d", i)) + valueStyle.Render(fmt.Sprintf("%+.4f", v)) + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause R:Reset Tab:Component Q:Quit"))
	return s.String()
}

// Run starts the live view and blocks until the user quits.
func Run(integ *integrators.FixedStep, modelName string, initState ode.State, fps int) error {
	p := tea.NewProgram(NewModel(integ, modelName, initState, fps))
	_, err := p.Run()
	return err
}
