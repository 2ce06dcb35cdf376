// Package edit holds the tools that change the map, its saved records, or
// the color scheme.
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
	abCreate = "Create a new A/B test"
	abLoad   = "Run a saved A/B test"
)

// ABTestManager creates or picks an A/B test and asks the loader to run it.
type ABTestManager struct {
	ui.Base
	wiz *wizard.Wizard
}

func NewABTestManager(ctx *ui.PluginCtx) (*ABTestManager, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionABTests) {
		return nil, false
	}
	return &ABTestManager{wiz: wizard.New()}, true
}

func (a *ABTestManager) Kind() ui.Kind { return ui.KindABTestManager }

func (a *ABTestManager) Event(ctx *ui.PluginCtx) bool {
	test, ok := a.pick(ctx)
	if !ok {
		return !a.wiz.Aborted()
	}
	logrus.Infof("Launching A/B test %s: %s vs %s", test.Name, test.EditsA, test.EditsB)
	ctx.Hints.LaunchABTest = &test
	return false
}

func (a *ABTestManager) pick(ctx *ui.PluginCtx) (world.ABTest, bool) {
	cat := ctx.Primary.Catalog
	ww := a.wiz.Wrap(ctx.Input, ctx.Primary.Map, cat)
	choice, ok := ww.ChooseString("A/B tests", []string{abCreate, abLoad})
	if !ok {
		return world.ABTest{}, false
	}
	if choice == abLoad {
		_, v, ok := ww.ChooseSomething("Run which test?", func() []widgets.MenuItem[wizard.Value] {
			var items []widgets.MenuItem[wizard.Value]
			for _, t := range cat.ABTests() {
				items = append(items, widgets.MenuItem[wizard.Value]{Label: t.Name, Value: wizard.Text(t.Name)})
			}
			return items
		})
		if !ok {
			return world.ABTest{}, false
		}
		name, _ := v.AsText()
		for _, t := range cat.ABTests() {
			if t.Name == name {
				return t, true
			}
		}
		return world.ABTest{}, false
	}

	name, ok := ww.InputString("Name the A/B test")
	if !ok {
		return world.ABTest{}, false
	}
	sc, ok := ww.ChooseScenario("Which scenario?")
	if !ok {
		return world.ABTest{}, false
	}
	editsA, ok := ww.ChooseEdits("Edits for the primary run")
	if !ok {
		return world.ABTest{}, false
	}
	editsB, ok := ww.ChooseEdits("Edits for the secondary run")
	if !ok {
		return world.ABTest{}, false
	}
	test := world.ABTest{
		Name:     name,
		MapName:  ctx.Primary.Map.Name(),
		Scenario: sc.Name,
		EditsA:   editsA.Name,
		EditsB:   editsB.Name,
	}
	if err := cat.SaveABTest(test); err != nil {
		logrus.Errorf("Save A/B test %s: %v", name, err)
	}
	return test, true
}

func (a *ABTestManager) Draw(g *render.Canvas, ctx *ui.Ctx) { a.wiz.Draw(g) }

func (a *ABTestManager) TakingText() bool { return !a.wiz.Aborted() }
