package edit

import (
	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/widgets"
	"github.com/jask/mapedit/internal/wizard"
	"github.com/jask/mapedit/internal/world"
)

const (
	scenarioCreate = "Create a new scenario"
	scenarioLoad   = "Run a saved scenario"

	anywhere = "anywhere"
)

// ScenarioManager builds or picks a scenario and instantiates it in a fresh
// sim.
type ScenarioManager struct {
	ui.Base
	wiz *wizard.Wizard
}

func NewScenarioManager(ctx *ui.PluginCtx) (*ScenarioManager, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionScenarios) {
		return nil, false
	}
	return &ScenarioManager{wiz: wizard.New()}, true
}

func (s *ScenarioManager) Kind() ui.Kind { return ui.KindScenarioManager }

func (s *ScenarioManager) EventWithPlugins(ctx *ui.PluginCtx, sib ui.Siblings) bool {
	sc, ok := s.pick(ctx)
	if !ok {
		return !s.wiz.Aborted()
	}
	u := ctx.Primary
	u.Sim = world.NewSim(u.Map, u.Flags)
	u.Sim.SetRunName(sc.Name)
	u.Sim.Instantiate(sc, u.Catalog.Neighborhoods())
	sib.ResetTimeTravel()
	ctx.Hints.RecalculateSelection = true
	logrus.Infof("Instantiated scenario %s: %d cars from %s", sc.Name, sc.SpawnCount, sc.StartTick)
	return false
}

func (s *ScenarioManager) pick(ctx *ui.PluginCtx) (world.Scenario, bool) {
	u := ctx.Primary
	ww := s.wiz.Wrap(ctx.Input, u.Map, u.Catalog)
	choice, ok := ww.ChooseString("Scenarios", []string{scenarioCreate, scenarioLoad})
	if !ok {
		return world.Scenario{}, false
	}
	if choice == scenarioLoad {
		return ww.ChooseScenario("Run which scenario?")
	}

	name, ok := ww.InputString("Name the scenario")
	if !ok {
		return world.Scenario{}, false
	}
	count, ok := ww.InputUsize("How many cars?")
	if !ok {
		return world.Scenario{}, false
	}
	start, ok := ww.InputTick("Start spawning at what time? (HH:MM:SS)")
	if !ok {
		return world.Scenario{}, false
	}
	park, ok := ww.InputPercent("What fraction of cars should park? (0 to 1)")
	if !ok {
		return world.Scenario{}, false
	}
	hood, _, ok := ww.ChooseSomething("Spawn cars where?", func() []widgets.MenuItem[wizard.Value] {
		items := []widgets.MenuItem[wizard.Value]{{Label: anywhere, Value: wizard.Unit()}}
		for _, n := range u.Catalog.Neighborhoods() {
			items = append(items, widgets.MenuItem[wizard.Value]{Label: n.Name, Value: wizard.NeighborhoodValue(n)})
		}
		return items
	})
	if !ok {
		return world.Scenario{}, false
	}
	if hood == anywhere {
		hood = ""
	}
	sc := world.Scenario{
		Name:         name,
		MapName:      u.Map.Name(),
		SpawnCount:   count,
		StartTick:    start,
		ParkFraction: park,
		Neighborhood: hood,
	}
	if err := u.Catalog.SaveScenario(sc); err != nil {
		logrus.Errorf("Save scenario %s: %v", name, err)
	}
	return sc, true
}

func (s *ScenarioManager) Draw(g *render.Canvas, ctx *ui.Ctx) { s.wiz.Draw(g) }

func (s *ScenarioManager) TakingText() bool { return !s.wiz.Aborted() }
