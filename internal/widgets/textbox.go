package widgets

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
)

// TextBox is a single-line prompt. Enter confirms, Esc cancels, any other key
// edits the text. Every key it sees is consumed.
type TextBox struct {
	prompt string
	ti     textinput.Model
}

func NewTextBox(prompt, initial string) *TextBox {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.SetValue(initial)
	ti.Focus()
	return &TextBox{prompt: prompt, ti: ti}
}

func (t *TextBox) Prompt() string { return t.prompt }
func (t *TextBox) Value() string  { return t.ti.Value() }

func (t *TextBox) Event(in *input.UserInput) InputResult[string] {
	k, ok := in.Key()
	if !ok {
		return InputResult[string]{Outcome: StillActive}
	}
	in.Consume()
	switch k.String() {
	case "esc":
		return InputResult[string]{Outcome: Canceled}
	case "enter":
		v := t.ti.Value()
		return InputResult[string]{Outcome: Done, Label: v, Value: v}
	}
	t.ti, _ = t.ti.Update(k)
	return InputResult[string]{Outcome: StillActive}
}

func (t *TextBox) Draw(c *render.Canvas) {
	c.DrawBox([]string{t.prompt, t.ti.View()}, render.Center)
}
