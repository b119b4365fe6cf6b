package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rigload/internal/chassis"
	"github.com/san-kum/rigload/internal/loadshare"
)

const (
	barWidth    = 40
	minStep     = 0.01
	maxStep     = 1.0
	defaultStep = 0.05
)

// Explorer is an interactive CG explorer: the CG is moved with the arrow keys
// and every model's distribution is redrawn immediately.
type Explorer struct {
	vehicle  chassis.Vehicle
	models   []loadshare.Model
	current  int
	cg, step float64
	theme    int
	tol      float64
	width    int
}

// NewExplorer starts on theme t. A non-positive tol uses the default.
func NewExplorer(v chassis.Vehicle, models []loadshare.Model, t Theme, tol float64) Explorer {
	if tol <= 0 {
		tol = chassis.DefaultTolerance
	}
	m := Explorer{
		vehicle: v,
		models:  models,
		cg:      v.CG,
		step:    defaultStep,
		tol:     tol,
		width:   80,
	}
	for i, th := range Themes {
		if th.Name == t.Name {
			m.theme = i
		}
	}
	return m
}

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) CG() float64 { return m.cg }

func (m Explorer) Model() loadshare.Model { return m.models[m.current] }

func (m Explorer) Theme() Theme { return Themes[m.theme] }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	wb := m.vehicle.Layout.Wheelbase()
	lo := m.vehicle.Layout.Positions[0] - 0.1*wb
	hi := m.vehicle.Layout.Positions[chassis.NumAxles-1] + 0.1*wb

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.cg = max(lo, m.cg-m.step)
	case "right", "l":
		m.cg = min(hi, m.cg+m.step)
	case "H":
		m.cg = max(lo, m.cg-10*m.step)
	case "L":
		m.cg = min(hi, m.cg+10*m.step)
	case "+", "=":
		m.step = min(maxStep, m.step*2)
	case "-":
		m.step = max(minStep, m.step/2)
	case "m", "tab":
		m.current = (m.current + 1) % len(m.models)
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
	case "r":
		m.cg = m.vehicle.CG
	}
	return m, nil
}

func (m Explorer) View() string {
	t := Themes[m.theme]
	accent := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)

	var b strings.Builder
	b.WriteString("\n  " + TitleStyle.Render("RIGLOAD") + "  " + Subtle.Render("axle load explorer") + "\n")
	b.WriteString("  " + Separator(50) + "\n\n")

	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s\n\n",
		MetricLabel.Render("model"), accent.Render(m.Model().Name()),
		MetricLabel.Render("cg"), MetricValue.Render(fmt.Sprintf("%.3f m", m.cg)),
		MetricLabel.Render("step"), MetricValue.Render(fmt.Sprintf("%.2f m", m.step))))

	b.WriteString("  " + m.ruler() + "\n\n")

	d, err := m.Model().Distribute(m.vehicle.WithCG(m.cg))
	if err == nil {
		err = loadshare.Check(d, m.tol)
	}
	if err != nil {
		b.WriteString("  " + ErrorText.Render(err.Error()) + "\n")
	} else {
		for i, f := range d.Axles {
			share := f / d.Weight
			b.WriteString(fmt.Sprintf("  axle %d  %s %s %s\n", i+1,
				LoadBar(share, barWidth, t),
				MetricValue.Render(fmt.Sprintf("%8.1f kN", chassis.KN(f))),
				Subtle.Render(fmt.Sprintf("%5.1f%%", 100*share))))
		}
		b.WriteString(fmt.Sprintf("\n  %s %s   %s %s\n",
			MetricLabel.Render("front"), MetricValue.Render(fmt.Sprintf("%.1f kN (%.1f%%)", chassis.KN(d.Front()), 100*d.FrontShare())),
			MetricLabel.Render("rear"), MetricValue.Render(fmt.Sprintf("%.1f kN (%.1f%%)", chassis.KN(d.Rear()), 100*d.RearShare()))))
	}

	b.WriteString("\n  " + Hints("h/l", "move", "H/L", "jump", "+/-", "step", "m", "model", "t", "theme", "r", "reset", "q", "quit") + "\n")
	return b.String()
}

// ruler draws the axles (|) and the CG (▼) to scale.
func (m Explorer) ruler() string {
	const cols = 50
	pos := m.vehicle.Layout.Positions
	wb := m.vehicle.Layout.Wheelbase()
	lo := pos[0] - 0.1*wb
	span := 1.2 * wb
	col := func(x float64) int {
		c := int((x - lo) / span * (cols - 1))
		return max(0, min(cols-1, c))
	}

	line := []rune(strings.Repeat("─", cols))
	for _, x := range pos {
		line[col(x)] = '┃'
	}
	marker := []rune(strings.Repeat(" ", cols))
	marker[col(m.cg)] = '▼'
	return string(marker) + "\n  " + Subtle.Render(string(line))
}

func RunExplorer(v chassis.Vehicle, models []loadshare.Model, t Theme, tol float64) error {
	_, err := tea.NewProgram(NewExplorer(v, models, t, tol), tea.WithAltScreen()).Run()
	return err
}
