// Package state is the per-frame plugin dispatcher. It owns the exclusive
// slots, the stackable modals and the map-scoped plugin sets, and decides for
// every event which of them may see it.
package state

import (
	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/plugins/debug"
	"github.com/jask/mapedit/internal/plugins/edit"
	"github.com/jask/mapedit/internal/plugins/sim"
	"github.com/jask/mapedit/internal/plugins/view"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

// Factory tries to start a plugin from the current event. It must leave the
// input untouched when it declines.
type Factory struct {
	Name string
	New  func(ctx *ui.PluginCtx) (ui.Plugin, bool)
}

// factory adapts a typed constructor so a declined call never yields a
// non-nil interface around a nil pointer.
func factory[T ui.Plugin](name string, fn func(*ui.PluginCtx) (T, bool)) Factory {
	return Factory{Name: name, New: func(ctx *ui.PluginCtx) (ui.Plugin, bool) {
		p, ok := fn(ctx)
		if !ok {
			return nil, false
		}
		return p, true
	}}
}

// DefaultUIState is the dispatcher plus everything it dispatches to.
type DefaultUIState struct {
	Primary          *ui.PerMapUI
	PrimaryPlugins   *PluginsPerMap
	Secondary        *ui.PerMapUI
	SecondaryPlugins *PluginsPerMap
	DebugControls    bool

	exclusiveBlocking    ui.Plugin
	exclusiveNonblocking ui.Plugin
	showScore            *sim.ShowScoreState
	simControls          *sim.SimControls
	layers               *debug.ToggleableLayers

	// Tier 4 and 5 factory lists, in priority order.
	blocking    []Factory
	noSecondary []Factory
	debugOnly   []Factory
	nonblocking []Factory
	newHider    Factory
	newScore    Factory
}

func NewDefaultUIState(primary *ui.PerMapUI, debugControls bool, zoom float64) *DefaultUIState {
	s := &DefaultUIState{
		Primary:        primary,
		PrimaryPlugins: NewPluginsPerMap(debugControls),
		DebugControls:  debugControls,
		simControls:    sim.NewSimControls(),
		layers:         debug.NewToggleableLayers(),

		blocking: []Factory{
			factory("logs", view.NewDisplayLogs),
			factory("search", view.NewSearchState),
			factory("warp", view.NewWarpState),
		},
		noSecondary: []Factory{
			factory("ab_tests", edit.NewABTestManager),
			factory("color_picker", edit.NewColorPicker),
			factory("draw_neighborhoods", edit.NewDrawNeighborhood),
			factory("map_edits", edit.NewEditsManager),
			factory("road_editor", edit.NewRoadEditor),
			factory("scenarios", edit.NewScenarioManager),
			factory("stop_sign_editor", edit.NewStopSignEditor),
			factory("traffic_signal_editor", edit.NewTrafficSignalEditor),
		},
		debugOnly: []Factory{
			factory("chokepoints", debug.NewChokepointsFinder),
			factory("classification", debug.NewOsmClassifier),
			factory("floodfill", debug.NewFloodfiller),
			factory("geom_validation", debug.NewValidator),
		},
		nonblocking: []Factory{
			factory("diff_all", sim.NewDiffAll),
			factory("diff_trip", sim.NewDiffTrip),
		},
		newHider: factory("hider", debug.NewHider),
		newScore: factory("show_score", sim.NewShowScore),
	}
	s.layers.HandleZoom(-1, zoom)
	return s
}

// NewCtx bundles one frame's mutable state for the plugins.
func (s *DefaultUIState) NewCtx(g *render.Canvas, cs *colors.Scheme, in *input.UserInput) *ui.PluginCtx {
	return &ui.PluginCtx{
		Primary:   s.Primary,
		Secondary: s.Secondary,
		Canvas:    g,
		CS:        cs,
		Input:     in,
		Hints:     &ui.RenderingHints{},
	}
}

func (s *DefaultUIState) Blocking() ui.Plugin             { return s.exclusiveBlocking }
func (s *DefaultUIState) Nonblocking() ui.Plugin          { return s.exclusiveNonblocking }
func (s *DefaultUIState) Layers() *debug.ToggleableLayers { return s.layers }
func (s *DefaultUIState) SimControls() *sim.SimControls   { return s.simControls }

// stage is one tier of the event order. run reports whether dispatch stops.
type stage struct {
	name string
	run  func(s *DefaultUIState, ctx *ui.PluginCtx) bool
}

// dispatchStages is the authoritative event order, highest priority first.
func dispatchStages() []stage {
	return []stage{
		{"search_blocking", (*DefaultUIState).searchBlockingStage},
		{"time_travel", (*DefaultUIState).timeTravelStage},
		{"blocking_slot", (*DefaultUIState).blockingSlotStage},
		{"blocking_factories", (*DefaultUIState).blockingFactoryStage},
		{"nonblocking_slot", (*DefaultUIState).nonblockingStage},
		{"modals", (*DefaultUIState).modalStage},
		{"ambient", (*DefaultUIState).ambientStage},
	}
}

// Event hands one frame's input to the tiers in order and returns the name
// of the stage that stopped dispatch, or "ambient" when every tier ran.
func (s *DefaultUIState) Event(ctx *ui.PluginCtx) string {
	for _, st := range dispatchStages() {
		if st.run(s, ctx) {
			return st.name
		}
	}
	return "ambient"
}

func (s *DefaultUIState) searchBlockingStage(ctx *ui.PluginCtx) bool {
	if !s.PrimaryPlugins.searchBlocking() {
		return false
	}
	if !s.PrimaryPlugins.search.Event(ctx) {
		s.PrimaryPlugins.search = nil
	}
	return true
}

// timeTravelStage always records, and stops dispatch while time travel is
// active, even over an occupied blocking slot.
func (s *DefaultUIState) timeTravelStage(ctx *ui.PluginCtx) bool {
	mayActivate := true
	if te, ok := s.exclusiveBlocking.(ui.TextEntry); ok && te.TakingText() {
		mayActivate = false
	}
	return s.PrimaryPlugins.timeTravel.Event(ctx, mayActivate)
}

func (s *DefaultUIState) blockingSlotStage(ctx *ui.PluginCtx) bool {
	if s.exclusiveBlocking == nil {
		return false
	}
	if !ui.RunBlocking(s.exclusiveBlocking, ctx, s.PrimaryPlugins) {
		logrus.Debugf("%s done", s.exclusiveBlocking.Kind())
		s.exclusiveBlocking = nil
	}
	return true
}

func (s *DefaultUIState) blockingFactoryStage(ctx *ui.PluginCtx) bool {
	claimed := s.tryFactories(ctx, s.blocking)
	if !claimed && ctx.Secondary == nil {
		claimed = s.tryFactories(ctx, s.noSecondary)
	}
	if claimed || s.PrimaryPlugins.searchBlocking() || s.exclusiveBlocking != nil {
		return true
	}
	if s.DebugControls {
		return s.tryFactories(ctx, s.debugOnly)
	}
	return false
}

// tryFactories installs the first plugin a factory produces. Search goes to
// its map-scoped slot; everything else takes the blocking slot.
func (s *DefaultUIState) tryFactories(ctx *ui.PluginCtx, fs []Factory) bool {
	for _, f := range fs {
		p, ok := f.New(ctx)
		if !ok {
			continue
		}
		logrus.Debugf("Starting %s", f.Name)
		if search, isSearch := p.(*view.SearchState); isSearch {
			s.PrimaryPlugins.search = search
		} else {
			s.exclusiveBlocking = p
		}
		return true
	}
	return false
}

func (s *DefaultUIState) nonblockingStage(ctx *ui.PluginCtx) bool {
	if s.exclusiveNonblocking != nil {
		if !ui.RunBlocking(s.exclusiveNonblocking, ctx, s.PrimaryPlugins) {
			s.exclusiveNonblocking = nil
		}
		return false
	}
	if ctx.Secondary == nil {
		return false
	}
	for _, f := range s.nonblocking {
		if p, ok := f.New(ctx); ok {
			logrus.Debugf("Starting %s", f.Name)
			s.exclusiveNonblocking = p
			break
		}
	}
	return false
}

// modalStage runs the stackable modals. A confirmed search stops dispatch
// after handling, so the hider and ambient plugins miss that frame.
func (s *DefaultUIState) modalStage(ctx *ui.PluginCtx) bool {
	if s.showScore != nil {
		if !s.showScore.Event(ctx) {
			s.showScore = nil
		}
	} else if p, ok := s.newScore.New(ctx); ok {
		s.showScore = p.(*sim.ShowScoreState)
	}

	pp := s.PrimaryPlugins
	if pp.search != nil {
		if !pp.search.Event(ctx) {
			pp.search = nil
		}
		return true
	}

	if pp.hider != nil {
		if !pp.hider.Event(ctx) {
			pp.hider = nil
		}
	} else if s.DebugControls {
		if p, ok := s.newHider.New(ctx); ok {
			pp.hider = p.(*debug.Hider)
		}
	}
	return false
}

func (s *DefaultUIState) ambientStage(ctx *ui.PluginCtx) bool {
	pp := s.PrimaryPlugins
	s.simControls.AmbientEventWithPlugins(ctx, pp)
	for _, p := range pp.ambient {
		switch p := p.(type) {
		case ui.AmbientWithPlugins:
			p.AmbientEventWithPlugins(ctx, pp)
		case ui.Ambient:
			p.AmbientEvent(ctx)
		}
	}
	if s.DebugControls {
		s.layers.AmbientEvent(ctx)
	}
	return false
}

// Draw renders every visible tier. A blocking search or blocking slot
// replaces the modal and ambient pass.
func (s *DefaultUIState) Draw(g *render.Canvas, ctx *ui.Ctx) {
	pp := s.PrimaryPlugins
	if pp.search != nil {
		pp.search.Draw(g, ctx)
		if pp.search.IsBlocking() {
			return
		}
	}
	if s.exclusiveBlocking != nil {
		s.exclusiveBlocking.Draw(g, ctx)
		return
	}
	if s.exclusiveNonblocking != nil {
		s.exclusiveNonblocking.Draw(g, ctx)
	}
	if s.showScore != nil {
		s.showScore.Draw(g, ctx)
	}
	if pp.hider != nil {
		pp.hider.Draw(g, ctx)
	}
	pp.timeTravel.Draw(g, ctx)
	s.simControls.Draw(g, ctx)
	for _, p := range pp.ambient {
		p.Draw(g, ctx)
	}
}

// ColorObj is the first non-empty answer from: the selection, search, the
// blocking slot, then each ambient plugin in order. It never mutates state.
func (s *DefaultUIState) ColorObj(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if id.Kind != world.ObjTurn && !id.IsNone() && id == s.Primary.Selection {
		return ctx.CS.GetDef("selected", colors.Blue), true
	}
	pp := s.PrimaryPlugins
	if pp.search != nil {
		if c, ok := pp.search.ColorFor(id, ctx); ok {
			return c, true
		}
	}
	if s.exclusiveBlocking != nil {
		if c, ok := s.exclusiveBlocking.ColorFor(id, ctx); ok {
			return c, true
		}
	}
	for _, p := range pp.ambient {
		if c, ok := p.ColorFor(id, ctx); ok {
			return c, true
		}
	}
	return "", false
}

// ShowIconsFor decides whether the turn icons of i are drawn.
func (s *DefaultUIState) ShowIconsFor(i world.IntersectionID) bool {
	switch p := s.exclusiveBlocking.(type) {
	case *edit.StopSignEditor:
		return p.ShowTurnIcons(i)
	case *edit.TrafficSignalEditor:
		return p.ShowTurnIcons(i)
	}
	if s.layers.ShowAllTurnIcons {
		return true
	}
	if t, ok := s.Primary.Selection.AsTurn(); ok {
		return t.Parent == i
	}
	return false
}

// Show is false for objects hidden by the hider or a layer toggle.
func (s *DefaultUIState) Show(id world.ID) bool {
	if h := s.PrimaryPlugins.hider; h != nil && !h.Show(id) {
		return false
	}
	return s.layers.Show(id)
}

// LaunchABTest replaces both maps with a fresh pair for test and drops every
// plugin bound to the old ones.
func (s *DefaultUIState) LaunchABTest(test world.ABTest) error {
	primary, secondary, err := ui.LoadABPair(s.Primary, test)
	if err != nil {
		return err
	}
	s.Primary, s.Secondary = primary, secondary
	s.PrimaryPlugins = NewPluginsPerMap(s.DebugControls)
	s.SecondaryPlugins = NewPluginsPerMap(s.DebugControls)
	s.exclusiveBlocking = nil
	s.exclusiveNonblocking = nil
	logrus.Infof("A/B test %s loaded: %s vs %s", test.Name, test.EditsA, test.EditsB)
	return nil
}

// SwapPrimarySecondary flips which map is interactive. The exclusive slots
// were built against the old primary, so they are cleared.
func (s *DefaultUIState) SwapPrimarySecondary() bool {
	if s.Secondary == nil {
		return false
	}
	s.Primary, s.Secondary = s.Secondary, s.Primary
	s.PrimaryPlugins, s.SecondaryPlugins = s.SecondaryPlugins, s.PrimaryPlugins
	s.exclusiveBlocking = nil
	s.exclusiveNonblocking = nil
	return true
}
