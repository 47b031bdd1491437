package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/particles"
	"github.com/san-kum/nbodysim/internal/physics"
)

const (
	width           = 60
	height          = 20
	historyCapacity = 300
	maxStepsFrame   = 4096
)

type TickMsg time.Time

// Model drives a run loop from the Bubble Tea event loop.
type Model struct {
	loop          *dynamo.Loop
	room          particles.Room
	maxTicks      int64
	canvas        *Canvas
	running       bool
	phase         dynamo.Phase
	err           error
	stepsPerFrame int
	view          float64
	lastDt        float64
	drawn         int
	energyHistory []float64
}

func NewModel(loop *dynamo.Loop, room particles.Room, maxTicks int64) Model {
	view := room.HalfX
	if room.HalfY > view {
		view = room.HalfY
	}
	if view <= 0 {
		view = 1
	}
	return Model{
		loop:          loop,
		room:          room,
		maxTicks:      maxTicks,
		canvas:        NewCanvas(width, height),
		running:       true,
		phase:         loop.Phase(),
		stepsPerFrame: 1,
		view:          view * 1.25,
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "space":
			m.running = !m.running
		case "+", "=":
			m.view /= 1.25
		case "-", "_":
			m.view *= 1.25
		case "]":
			if m.stepsPerFrame < maxStepsFrame {
				m.stepsPerFrame *= 2
			}
		case "[":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		}
	case TickMsg:
		if m.running && m.phase == dynamo.Running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the loop by up to stepsPerFrame ticks.
func (m *Model) step() {
	for i := 0; i < m.stepsPerFrame && m.phase == dynamo.Running; i++ {
		before := m.loop.SimTime()
		m.phase, m.err = m.loop.Tick()
		if m.phase == dynamo.Running {
			m.lastDt = m.loop.SimTime() - before
		}
	}

	m.energyHistory = append(m.energyHistory, physics.KineticEnergy(m.loop.Store()))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.canvas.Border(m.room, m.view)
	m.drawn = m.canvas.Plot(m.loop.Store(), m.view)
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("ERROR: " + m.err.Error())
	case m.phase == dynamo.Terminated:
		return StatusDone.Render("TERMINATED")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("RUNNING")
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	store := m.loop.Store()
	px, py := physics.Momentum(store)

	var s strings.Builder
	s.WriteString(headerStyle.Render("N-BODY") + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	progress := 1.0
	if m.maxTicks > 0 {
		progress = float64(m.loop.Ticks()) / float64(m.maxTicks)
	}
	s.WriteString(ProgressBar(progress, 30) + "\n\n")

	rows := [][2]string{
		{"Tick", fmt.Sprintf("%d / %d", m.loop.Ticks(), m.maxTicks)},
		{"Time", fmt.Sprintf("%.3fs", m.loop.SimTime())},
		{"dt", fmt.Sprintf("%g", m.lastDt)},
		{"Particles", fmt.Sprintf("%d (%d shown)", store.Len(), m.drawn)},
		{"Momentum", fmt.Sprintf("(%.3g, %.3g)", px, py)},
		{"Spread", fmt.Sprintf("%.3f", physics.RMSRadius(store))},
		{"Speed/frame", fmt.Sprintf("%d ticks", m.stepsPerFrame)},
	}
	for _, r := range rows {
		s.WriteString(labelStyle.Render(r[0]) + valueStyle.Render(r[1]) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause Q:Quit\n+/-:Zoom [ ]:Speed"))
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
