// Package tui drives the editor as a bubbletea program. Every message is one
// frame: dispatch it to the plugins, apply the hints they leave, then redraw.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/state"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// footerLines is the space below the canvas for the OSD and key help.
const footerLines = 2

var (
	osdStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// App ties the dispatcher to the terminal.
type App struct {
	state  *state.DefaultUIState
	cs     *colors.Scheme
	canvas *render.Canvas
	frame  time.Duration

	osd      []string
	help     []key.Binding
	lastStop string
}

func New(st *state.DefaultUIState, cs *colors.Scheme, frame time.Duration) *App {
	if frame <= 0 {
		frame = 100 * time.Millisecond
	}
	return &App{
		state:  st,
		cs:     cs,
		canvas: render.NewCanvas(80, 24-footerLines),
		frame:  frame,
	}
}

func (a *App) Init() tea.Cmd {
	return a.tick()
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.frame, func(t time.Time) tea.Msg { return input.UpdateMsg{At: t} })
}

// Canvas exposes the frame buffer, mostly for tests.
func (a *App) Canvas() *render.Canvas { return a.canvas }

// LastStage names the dispatch stage that handled the previous event.
func (a *App) LastStage() string { return a.lastStop }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.canvas.Resize(m.Width, max(1, m.Height-footerLines))
		return a, nil
	case tea.MouseMsg:
		if m.Action == tea.MouseActionMotion {
			a.canvas.SetCursor(m.X, m.Y)
			a.recalculateSelection()
		}
	case input.UpdateMsg:
		cmds = append(cmds, a.tick())
	}

	in := input.New(msg)
	ctx := a.state.NewCtx(a.canvas, a.cs, in)
	a.lastStop = a.state.Event(ctx)
	hints := ctx.Hints

	if hints.LaunchABTest != nil {
		if err := a.state.LaunchABTest(*hints.LaunchABTest); err != nil {
			logrus.Errorf("Launch A/B test: %v", err)
		}
		hints.RecalculateSelection = true
	}
	if hints.RecalculateSelection {
		a.recalculateSelection()
	}
	if hints.Quit {
		return a, tea.Quit
	}
	if !in.HasBeenConsumed() {
		if quit := a.appKeys(in); quit {
			return a, tea.Quit
		}
	}

	// Ticks produce no new key offers; keep the help from the last real event.
	if !in.IsUpdate() || len(hints.OSD) > 0 {
		a.osd = hints.OSD
	}
	if !in.IsUpdate() {
		a.help = in.Offered()
	}
	return a, tea.Batch(cmds...)
}

// appKeys handles the camera and top-level keys nothing else claimed.
func (a *App) appKeys(in *input.UserInput) bool {
	switch {
	case in.Action(input.ScopeApp, input.ActionQuit):
		return true
	case in.Action(input.ScopeApp, input.ActionPanLeft):
		a.canvas.Pan(-4, 0)
	case in.Action(input.ScopeApp, input.ActionPanRight):
		a.canvas.Pan(4, 0)
	case in.Action(input.ScopeApp, input.ActionPanUp):
		a.canvas.Pan(0, -2)
	case in.Action(input.ScopeApp, input.ActionPanDown):
		a.canvas.Pan(0, 2)
	case in.Action(input.ScopeApp, input.ActionZoomIn):
		a.canvas.ZoomIn()
	case in.Action(input.ScopeApp, input.ActionZoomOut):
		a.canvas.ZoomOut()
	case in.Action(input.ScopeApp, input.ActionSwap):
		if a.state.SwapPrimarySecondary() {
			logrus.Infof("Now interacting with %s", a.state.Primary.Flags.RunName)
		}
	default:
		if n, ok := in.Wheel(); ok {
			if n < 0 {
				a.canvas.ZoomIn()
			} else {
				a.canvas.ZoomOut()
			}
		}
	}
	return false
}

// recalculateSelection selects whatever visible object is under the cursor
// and clears it when the cursor is off the map.
func (a *App) recalculateSelection() {
	u := a.state.Primary
	p, ok := a.canvas.CursorWorld()
	if !ok {
		u.Selection = world.ID{}
		return
	}
	hidden := func(id world.ID) bool { return !a.state.Show(id) }
	u.Selection = u.DrawMap.ObjectAt(p, u.CarMarks(), hidden)
}

func (a *App) View() string {
	u := a.state.Primary
	ctx := &ui.Ctx{UI: u, Canvas: a.canvas, CS: a.cs, Hints: &ui.RenderingHints{}}

	a.canvas.Clear()
	u.DrawMap.Draw(a.canvas, a.cs, render.DrawOpts{
		Color:         func(id world.ID) (colors.Color, bool) { return a.state.ColorObj(id, ctx) },
		Hidden:        func(id world.ID) bool { return !a.state.Show(id) },
		ShowTurnIcons: a.state.ShowIconsFor,
		Cars:          u.CarMarks(),
	})
	a.state.Draw(a.canvas, ctx)

	width, _ := a.canvas.Size()
	var b strings.Builder
	b.WriteString(a.canvas.Render())
	b.WriteString("\n")
	b.WriteString(osdStyle.Render(render.Truncate(strings.Join(a.osd, " | "), width)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(render.Truncate(helpLine(a.help), width)))
	return b.String()
}

// helpLine lists each offered binding once, in the order plugins checked them.
func helpLine(bindings []key.Binding) string {
	seen := make(map[string]bool)
	var parts []string
	for _, kb := range bindings {
		h := kb.Help()
		if h.Key == "" || seen[h.Key+h.Desc] {
			continue
		}
		seen[h.Key+h.Desc] = true
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
