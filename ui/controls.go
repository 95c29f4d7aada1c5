package ui

import (
	"fmt"
	"strconv"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flowstudio/params"
)

// Change is a parameter edit made through the panel.
type Change struct {
	Name  string
	Value any
}

// ControlsPanel renders one control per parameter descriptor plus the
// action buttons. It holds no parameter state of its own.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
	descs    []params.Descriptor

	pickerOpen string // Color parameter whose picker is expanded
}

// NewControlsPanel creates a panel for every declared parameter.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
		descs:    params.Descriptors(),
	}
}

// SetPosition moves the panel.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// Width returns the panel width.
func (c *ControlsPanel) Width() int32 { return c.width }

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls for p and returns the edits made this frame
// and the button pressed, if any.
func (c *ControlsPanel) Draw(p params.Params, recording bool) ([]Change, Action) {
	if !c.visible {
		return nil, ActionNone
	}

	r := c.renderer
	th := r.Theme
	r.DrawPanel(c.x, c.y, c.width, panelHeight(c.descs, c.pickerOpen, th))

	view := params.NewStore(p)
	inner := c.width - th.Padding*2
	x := c.x + th.Padding
	y := r.DrawSectionHeader(x, c.y+th.Padding, "Flow Field")

	var changes []Change
	for _, d := range c.descs {
		v, err := view.Get(d.Name)
		if err != nil {
			continue
		}
		if ch, ok := c.drawControl(d, v, x, y, inner); ok {
			changes = append(changes, ch)
		}
		y += rowHeight(d, c.pickerOpen == d.Name, th)
	}

	y += th.Padding
	action := c.drawActions(x, y, inner, recording)
	return changes, action
}

func (c *ControlsPanel) drawControl(d params.Descriptor, v any, x, y, width int32) (Change, bool) {
	r := c.renderer
	th := r.Theme
	ctrl := rl.Rectangle{X: float32(x), Y: float32(y + th.LineHeight), Width: float32(width), Height: float32(th.ControlHeight)}

	switch d.Kind {
	case params.KindNumber:
		cur := v.(float64)
		r.DrawLabel(x, y, d.Label)
		r.DrawValueRight(x, y, width, formatValue(d, cur))
		if wideRange(d) {
			// Slider plus nudge buttons for fine integer edits
			nudge := float32(th.ControlHeight)
			ctrl.Width -= 2 * (nudge + 4)
			if gui.Button(rl.Rectangle{X: ctrl.X + ctrl.Width + 4, Y: ctrl.Y, Width: nudge, Height: nudge}, "-") {
				return Change{d.Name, cur - d.Step}, true
			}
			if gui.Button(rl.Rectangle{X: ctrl.X + ctrl.Width + nudge + 8, Y: ctrl.Y, Width: nudge, Height: nudge}, "+") {
				return Change{d.Name, cur + d.Step}, true
			}
		}
		next := gui.SliderBar(ctrl, "", "", float32(cur), float32(d.Min), float32(d.Max))
		if next != float32(cur) {
			return Change{d.Name, float64(next)}, true
		}

	case params.KindBool:
		cur := v.(bool)
		box := rl.Rectangle{X: float32(x), Y: float32(y + 4), Width: 16, Height: 16}
		if next := gui.CheckBox(box, d.Label, cur); next != cur {
			return Change{d.Name, next}, true
		}

	case params.KindEnum:
		cur := optionIndex(d.Options, v.(string))
		r.DrawLabel(x, y, d.Label)
		next := gui.ComboBox(ctrl, strings.Join(d.Options, ";"), int32(cur))
		if int(next) != cur {
			return Change{d.Name, int(next)}, true
		}

	case params.KindColor:
		cur := v.(params.Color)
		r.DrawColorSwatch(x, y, d.Label, rl.Color{R: cur.R, G: cur.G, B: cur.B, A: 255})
		r.DrawValueRight(x, y, width-60, cur.Hex())
		open := c.pickerOpen == d.Name
		label := "Edit"
		if open {
			label = "Done"
		}
		if gui.Button(rl.Rectangle{X: float32(x + width - 52), Y: float32(y - 2), Width: 52, Height: 18}, label) {
			if open {
				c.pickerOpen = ""
			} else {
				c.pickerOpen = d.Name
			}
		}
		if open {
			// Leave room for the hue bar on the right
			picker := rl.Rectangle{X: float32(x), Y: float32(y + th.LineHeight + 4), Width: float32(width - 40), Height: float32(th.PickerHeight)}
			next := gui.ColorPicker(picker, "", rl.Color{R: cur.R, G: cur.G, B: cur.B, A: 255})
			if next.R != cur.R || next.G != cur.G || next.B != cur.B {
				return Change{d.Name, params.Color{R: next.R, G: next.G, B: next.B, A: 255}}, true
			}
		}
	}
	return Change{}, false
}

func (c *ControlsPanel) drawActions(x, y, width int32, recording bool) Action {
	th := c.renderer.Theme
	btnW := (width - th.Padding) / 2
	btnH := int32(26)

	pressed := ActionNone
	for i, a := range panelActions {
		bx := x + int32(i%2)*(btnW+th.Padding)
		by := y + int32(i/2)*(btnH+6)
		label := a.String()
		if a == ActionRecord && recording {
			label = "Stop recording"
		}
		if gui.Button(rl.Rectangle{X: float32(bx), Y: float32(by), Width: float32(btnW), Height: float32(btnH)}, label) {
			pressed = a
		}
	}
	return pressed
}

// rowHeight returns the vertical space a descriptor's control takes.
func rowHeight(d params.Descriptor, pickerOpen bool, th Theme) int32 {
	switch d.Kind {
	case params.KindBool:
		return th.LineHeight + 10
	case params.KindColor:
		if pickerOpen {
			return th.LineHeight + th.PickerHeight + 12
		}
		return th.LineHeight + 6
	}
	return th.RowHeight
}

// panelHeight returns the full panel height including the button grid.
func panelHeight(descs []params.Descriptor, pickerOpen string, th Theme) int32 {
	h := th.Padding + th.LineHeight + 4
	for _, d := range descs {
		h += rowHeight(d, d.Name == pickerOpen, th)
	}
	rows := int32((len(panelActions) + 1) / 2)
	return h + th.Padding + rows*(26+6) + th.Padding
}

// wideRange reports whether a slider is too coarse to hit single steps.
func wideRange(d params.Descriptor) bool {
	return d.Step > 0 && (d.Max-d.Min)/d.Step > 1000
}

// formatValue renders a number with as many decimals as its step.
func formatValue(d params.Descriptor, v float64) string {
	decimals := 0
	if d.Step > 0 && d.Step < 1 {
		s := strconv.FormatFloat(d.Step, 'f', -1, 64)
		if i := strings.IndexByte(s, '.'); i >= 0 {
			decimals = len(s) - i - 1
		}
	}
	return fmt.Sprintf("%.*f", decimals, v)
}

func optionIndex(options []string, s string) int {
	for i, o := range options {
		if o == s {
			return i
		}
	}
	return 0
}
