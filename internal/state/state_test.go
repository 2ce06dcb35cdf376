package state

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/plugins/edit"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/storage"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/world"
)

type harness struct {
	s  *DefaultUIState
	cs *colors.Scheme
	g  *render.Canvas
}

func newHarness(debugControls bool) *harness {
	m := world.GridMap("grid", 4, 4, 6)
	primary := ui.NewPerMapUI(m, storage.NewMemory(m.Name()), world.Flags{Seed: 1, RunName: "test"})
	return &harness{
		s:  NewDefaultUIState(primary, debugControls, 1),
		cs: colors.NewScheme(nil, nil),
		g:  render.NewCanvas(80, 24),
	}
}

func (h *harness) send(msg tea.Msg) (string, *ui.PluginCtx) {
	ctx := h.s.NewCtx(h.g, h.cs, input.New(msg))
	return h.s.Event(ctx), ctx
}

func (h *harness) key(k string) (string, *ui.PluginCtx) {
	switch k {
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

// fakeBlocking claims every event until told to finish.
type fakeBlocking struct {
	ui.Base
	events int
	done   bool
	color  colors.Color
	typing bool
}

func (f *fakeBlocking) Kind() ui.Kind { return ui.KindLogs }

func (f *fakeBlocking) Event(ctx *ui.PluginCtx) bool {
	f.events++
	ctx.Input.Consume()
	return !f.done
}

func (f *fakeBlocking) ColorFor(world.ID, *ui.Ctx) (colors.Color, bool) {
	return f.color, f.color != ""
}

func (f *fakeBlocking) TakingText() bool { return f.typing }

type fakeAmbient struct {
	ui.Base
	events int
	color  colors.Color
}

func (f *fakeAmbient) Kind() ui.Kind                  { return ui.KindFollow }
func (f *fakeAmbient) AmbientEvent(ctx *ui.PluginCtx) { f.events++ }
func (f *fakeAmbient) ColorFor(world.ID, *ui.Ctx) (colors.Color, bool) {
	return f.color, f.color != ""
}

func TestFactoryStartsAndToolFinishes(t *testing.T) {
	h := newHarness(false)
	stage, _ := h.key("L")
	if stage != "blocking_factories" {
		t.Fatalf("stage = %q, want blocking_factories", stage)
	}
	if p := h.s.Blocking(); p == nil || p.Kind() != ui.KindLogs {
		t.Fatalf("blocking = %v, want logs", p)
	}
	if stage, _ := h.key("esc"); stage != "blocking_slot" {
		t.Fatalf("stage = %q, want blocking_slot", stage)
	}
	if h.s.Blocking() != nil {
		t.Fatal("esc should close the logs")
	}
}

func TestBlockingSlotClaimsEverything(t *testing.T) {
	h := newHarness(true)
	fake := &fakeBlocking{}
	h.s.exclusiveBlocking = fake
	amb := &fakeAmbient{}
	h.s.PrimaryPlugins.ambient = append(h.s.PrimaryPlugins.ambient, amb)

	for _, k := range []string{"/", "L", "C", "H"} {
		if stage, _ := h.key(k); stage != "blocking_slot" {
			t.Fatalf("%s: stage = %q, want blocking_slot", k, stage)
		}
	}
	if fake.events != 4 {
		t.Fatalf("blocking events = %d, want 4", fake.events)
	}
	if h.s.PrimaryPlugins.Search() != nil || h.s.Blocking() != fake {
		t.Fatal("a second tool started while the slot was occupied")
	}
	if amb.events != 0 {
		t.Fatal("ambient plugins ran under a blocking tool")
	}

	fake.done = true
	h.key("x")
	if h.s.Blocking() != nil {
		t.Fatal("finished plugin should leave the slot")
	}
}

func TestAmbientSeesEveryUnclaimedEvent(t *testing.T) {
	h := newHarness(false)
	amb := &fakeAmbient{}
	h.s.PrimaryPlugins.ambient = append(h.s.PrimaryPlugins.ambient, amb)

	// Unbound keys, ticks and mouse motion all reach the last tier.
	h.key("~")
	h.send(input.UpdateMsg{})
	h.send(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionMotion})
	if amb.events != 3 {
		t.Fatalf("ambient events = %d, want 3", amb.events)
	}
}

func TestNoSecondaryToolsNeedSingleMap(t *testing.T) {
	h := newHarness(false)
	m := world.GridMap("grid", 4, 4, 6)
	h.s.Secondary = ui.NewPerMapUI(m, storage.NewMemory(m.Name()), world.Flags{Seed: 1})

	h.key("P")
	if h.s.Blocking() != nil {
		t.Fatal("color picker must not start during an A/B test")
	}
	h.key("L")
	if p := h.s.Blocking(); p == nil || p.Kind() != ui.KindLogs {
		t.Fatal("logs should still start during an A/B test")
	}
}

func TestDebugToolsNeedDebugControls(t *testing.T) {
	h := newHarness(false)
	h.key("C")
	if h.s.Blocking() != nil {
		t.Fatal("chokepoints started without debug controls")
	}

	h = newHarness(true)
	h.key("C")
	if p := h.s.Blocking(); p == nil || p.Kind() != ui.KindChokepoints {
		t.Fatalf("blocking = %v, want chokepoints", p)
	}
}

func TestSearchOwnsInputWhileTyping(t *testing.T) {
	h := newHarness(false)
	h.key("/")
	search := h.s.PrimaryPlugins.Search()
	if search == nil || !search.IsBlocking() {
		t.Fatal("search should start blocking")
	}
	if stage, _ := h.key("L"); stage != "search_blocking" {
		t.Fatalf("stage = %q, want search_blocking", stage)
	}
	if h.s.Blocking() != nil {
		t.Fatal("typed L opened the logs")
	}
	h.key("enter")
	if search := h.s.PrimaryPlugins.Search(); search == nil || search.IsBlocking() || search.Filter() != "l" {
		t.Fatalf("search after enter = %+v", search)
	}
	if stage, _ := h.send(input.UpdateMsg{}); stage != "modals" {
		t.Fatalf("stage = %q, want modals while a search is highlighted", stage)
	}
	h.key("esc")
	if h.s.PrimaryPlugins.Search() != nil {
		t.Fatal("esc should clear the search")
	}
}

func TestTimeTravelPreemptsBlockingTool(t *testing.T) {
	h := newHarness(false)
	h.send(input.UpdateMsg{})
	fake := &fakeBlocking{}
	h.s.exclusiveBlocking = fake

	if stage, _ := h.key("t"); stage != "time_travel" {
		t.Fatalf("stage = %q, want time_travel", stage)
	}
	if !h.s.PrimaryPlugins.TimeTravelActive() {
		t.Fatal("time travel should be active")
	}
	if fake.events != 0 {
		t.Fatal("blocking tool saw the activation key")
	}
	h.key("esc")
	if h.s.PrimaryPlugins.TimeTravelActive() {
		t.Fatal("esc should return to the live sim")
	}
}

func TestTimeTravelKeyReachesTextEntry(t *testing.T) {
	h := newHarness(false)
	h.send(input.UpdateMsg{})
	fake := &fakeBlocking{typing: true}
	h.s.exclusiveBlocking = fake

	if stage, _ := h.key("t"); stage != "blocking_slot" {
		t.Fatalf("stage = %q, want blocking_slot", stage)
	}
	if h.s.PrimaryPlugins.TimeTravelActive() {
		t.Fatal("time travel stole a typed t")
	}
	if fake.events != 1 {
		t.Fatalf("text entry events = %d, want 1", fake.events)
	}
}

func TestColorObjPrecedence(t *testing.T) {
	h := newHarness(false)
	ctx := &ui.Ctx{UI: h.s.Primary, Canvas: h.g, CS: h.cs, Hints: &ui.RenderingHints{}}
	road := world.RoadObj(0)

	amb := &fakeAmbient{color: colors.Green}
	h.s.PrimaryPlugins.ambient = []ui.Plugin{amb}
	if c, _ := h.s.ColorObj(road, ctx); c != colors.Green {
		t.Fatalf("color = %q, want ambient green", c)
	}

	blocking := &fakeBlocking{}
	h.s.exclusiveBlocking = blocking
	if c, _ := h.s.ColorObj(road, ctx); c != colors.Green {
		t.Fatalf("color = %q: a blocking plugin with no answer must fall through", c)
	}
	blocking.color = colors.Red
	if c, _ := h.s.ColorObj(road, ctx); c != colors.Red {
		t.Fatalf("color = %q, want blocking red", c)
	}

	h.s.Primary.Selection = road
	if c, _ := h.s.ColorObj(road, ctx); c != h.cs.GetDef("selected", colors.Blue) {
		t.Fatalf("color = %q, want the selection color", c)
	}
	if _, ok := h.s.ColorObj(world.RoadObj(1), ctx); !ok {
		t.Fatal("other objects still get plugin colors")
	}
}

func TestStopSignEditorCancel(t *testing.T) {
	h := newHarness(false)
	h.s.Primary.Selection = world.IntersectionObj(5)
	h.key("S")
	editor, ok := h.s.Blocking().(*edit.StopSignEditor)
	if !ok {
		t.Fatalf("blocking = %v, want stop sign editor", h.s.Blocking())
	}
	if !h.s.ShowIconsFor(editor.Intersection()) {
		t.Fatal("editor should show its turn icons")
	}
	if h.s.ShowIconsFor(world.IntersectionID(0)) {
		t.Fatal("other intersections should hide their icons")
	}
	h.key("esc")
	if h.s.Blocking() != nil {
		t.Fatal("esc should close the editor")
	}
}

func TestHiderIsDebugOnly(t *testing.T) {
	h := newHarness(false)
	h.s.Primary.Selection = world.BuildingObj(0)
	h.key("H")
	if h.s.PrimaryPlugins.Hider() != nil {
		t.Fatal("hider started without debug controls")
	}

	h = newHarness(true)
	h.s.Primary.Selection = world.BuildingObj(0)
	h.key("H")
	if h.s.PrimaryPlugins.Hider() == nil || h.s.Show(world.BuildingObj(0)) {
		t.Fatal("selected building should be hidden")
	}
	h.key("U")
	if h.s.PrimaryPlugins.Hider() != nil || !h.s.Show(world.BuildingObj(0)) {
		t.Fatal("unhide should close the hider")
	}
}

func TestSwapNeedsSecondary(t *testing.T) {
	h := newHarness(false)
	if h.s.SwapPrimarySecondary() {
		t.Fatal("swap without a secondary should fail")
	}
	first := h.s.Primary
	m := world.GridMap("grid", 4, 4, 6)
	h.s.Secondary = ui.NewPerMapUI(m, storage.NewMemory(m.Name()), world.Flags{Seed: 1})
	h.s.SecondaryPlugins = NewPluginsPerMap(false)
	h.s.exclusiveBlocking = &fakeBlocking{}
	if !h.s.SwapPrimarySecondary() {
		t.Fatal("swap failed")
	}
	if h.s.Secondary != first || h.s.Blocking() != nil {
		t.Fatal("swap should exchange maps and clear the slots")
	}
}

func TestLaunchABTest(t *testing.T) {
	h := newHarness(false)
	cat := h.s.Primary.Catalog
	sc := world.Scenario{Name: "busy", MapName: "grid", SpawnCount: 5}
	if err := cat.SaveScenario(sc); err != nil {
		t.Fatalf("SaveScenario: %v", err)
	}
	wide := world.EmptyEdits("grid")
	wide.Name = "wide"
	wide.Lanes[0] = []world.LaneType{world.LaneDriving, world.LaneDriving, world.LaneDriving}
	if err := cat.SaveEdits(wide); err != nil {
		t.Fatalf("SaveEdits: %v", err)
	}

	bad := world.ABTest{Name: "broken", MapName: "grid", Scenario: "missing", EditsA: "no edits", EditsB: "wide"}
	if err := h.s.LaunchABTest(bad); err == nil {
		t.Fatal("unknown scenario should fail")
	}

	test := world.ABTest{Name: "lanes", MapName: "grid", Scenario: "busy", EditsA: "no edits", EditsB: "wide"}
	if err := h.s.LaunchABTest(test); err != nil {
		t.Fatalf("LaunchABTest: %v", err)
	}
	if h.s.Secondary == nil {
		t.Fatal("secondary not loaded")
	}
	if got := len(h.s.Secondary.Map.Road(0).Lanes); got != 3 {
		t.Fatalf("secondary lanes = %d, want 3", got)
	}
	if h.s.Primary.Map == h.s.Secondary.Map {
		t.Fatal("the two sides must not share a map")
	}
}
