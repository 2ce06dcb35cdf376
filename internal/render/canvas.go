package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/world"
)

// Zoom levels the camera steps through.
var zoomLevels = []float64{0.25, 0.5, 1, 2, 3}

const defaultZoomIdx = 2

// Anchor places a screen-space box.
type Anchor int

const (
	TopLeft Anchor = iota
	TopRight
	BottomLeft
	BottomRight
	Center
	TopCenter
	BottomCenter
)

type cell struct {
	ch rune
	fg colors.Color
	bg colors.Color
}

type box struct {
	text   string
	anchor Anchor
}

// Canvas is the frame buffer plus the camera. World cells are scaled by the
// zoom factor; screen boxes are composited over the grid at Render time.
type Canvas struct {
	width, height int
	CamX, CamY    float64
	zoomIdx       int

	cursor    world.Point
	hasCursor bool

	cells [][]cell
	boxes []box
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{zoomIdx: defaultZoomIdx}
	c.Resize(width, height)
	return c
}

func (c *Canvas) Size() (int, int) { return c.width, c.height }

func (c *Canvas) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.width, c.height = width, height
	c.cells = make([][]cell, height)
	for y := range c.cells {
		c.cells[y] = make([]cell, width)
	}
	c.Clear()
}

// Clear blanks the grid and drops queued boxes.
func (c *Canvas) Clear() {
	for y := range c.cells {
		for x := range c.cells[y] {
			c.cells[y][x] = cell{ch: ' '}
		}
	}
	c.boxes = c.boxes[:0]
}

func (c *Canvas) Zoom() float64 { return zoomLevels[c.zoomIdx] }

// ZoomIn and ZoomOut keep the screen center fixed. They report whether the
// level changed.
func (c *Canvas) ZoomIn() bool  { return c.setZoom(c.zoomIdx + 1) }
func (c *Canvas) ZoomOut() bool { return c.setZoom(c.zoomIdx - 1) }

func (c *Canvas) setZoom(idx int) bool {
	if idx < 0 || idx >= len(zoomLevels) || idx == c.zoomIdx {
		return false
	}
	cx, cy := c.centerWorld()
	c.zoomIdx = idx
	c.centerAt(cx, cy)
	return true
}

func (c *Canvas) centerWorld() (float64, float64) {
	z := c.Zoom()
	return c.CamX + float64(c.width)/2/z, c.CamY + float64(c.height)/2/z
}

func (c *Canvas) centerAt(x, y float64) {
	z := c.Zoom()
	c.CamX = x - float64(c.width)/2/z
	c.CamY = y - float64(c.height)/2/z
}

// CenterOn moves the camera so p is in the middle of the screen.
func (c *Canvas) CenterOn(p world.Point) {
	c.centerAt(float64(p.X)+0.5, float64(p.Y)+0.5)
}

// Pan moves the camera by screen cells.
func (c *Canvas) Pan(dx, dy int) {
	z := c.Zoom()
	c.CamX += float64(dx) / z
	c.CamY += float64(dy) / z
}

// ScreenToWorld maps a screen cell to the world cell under it.
func (c *Canvas) ScreenToWorld(x, y int) world.Point {
	z := c.Zoom()
	return world.Point{
		X: int(math.Floor(c.CamX + (float64(x)+0.5)/z)),
		Y: int(math.Floor(c.CamY + (float64(y)+0.5)/z)),
	}
}

// WorldToScreen returns the screen rectangle covered by world cell p.
func (c *Canvas) WorldToScreen(p world.Point) (x0, y0, x1, y1 int) {
	z := c.Zoom()
	x0 = int(math.Floor((float64(p.X) - c.CamX) * z))
	y0 = int(math.Floor((float64(p.Y) - c.CamY) * z))
	x1 = int(math.Floor((float64(p.X+1) - c.CamX) * z))
	y1 = int(math.Floor((float64(p.Y+1) - c.CamY) * z))
	if x1 == x0 {
		x1++
	}
	if y1 == y0 {
		y1++
	}
	return x0, y0, x1, y1
}

// SetCursor records the mouse position in screen cells.
func (c *Canvas) SetCursor(x, y int) {
	c.cursor = world.Point{X: x, Y: y}
	c.hasCursor = x >= 0 && y >= 0 && x < c.width && y < c.height
}

func (c *Canvas) ClearCursor() { c.hasCursor = false }

// CursorWorld is the world cell under the mouse, if it is over the canvas.
func (c *Canvas) CursorWorld() (world.Point, bool) {
	if !c.hasCursor {
		return world.Point{}, false
	}
	return c.ScreenToWorld(c.cursor.X, c.cursor.Y), true
}

// DrawWorld paints ch over every screen cell covered by world cell p.
func (c *Canvas) DrawWorld(p world.Point, ch rune, fg colors.Color) {
	x0, y0, x1, y1 := c.WorldToScreen(p)
	for y := max(y0, 0); y < min(y1, c.height); y++ {
		for x := max(x0, 0); x < min(x1, c.width); x++ {
			c.cells[y][x].ch = ch
			c.cells[y][x].fg = fg
		}
	}
}

// TintWorld sets the background of world cell p without touching its glyph.
func (c *Canvas) TintWorld(p world.Point, bg colors.Color) {
	x0, y0, x1, y1 := c.WorldToScreen(p)
	for y := max(y0, 0); y < min(y1, c.height); y++ {
		for x := max(x0, 0); x < min(x1, c.width); x++ {
			c.cells[y][x].bg = bg
		}
	}
}

// DrawWorldLine paints every cell of the segment a-b.
func (c *Canvas) DrawWorldLine(a, b world.Point, ch rune, fg colors.Color) {
	for _, p := range world.Line(a, b) {
		c.DrawWorld(p, ch, fg)
	}
}

// DrawScreenText writes s starting at screen cell (x, y), clipped to the row.
func (c *Canvas) DrawScreenText(x, y int, s string, fg colors.Color) {
	if y < 0 || y >= c.height {
		return
	}
	for _, r := range s {
		if x >= c.width {
			return
		}
		if x >= 0 {
			c.cells[y][x] = cell{ch: r, fg: fg, bg: c.cells[y][x].bg}
		}
		x++
	}
}

// DrawBox queues a bordered panel with the given lines at anchor.
func (c *Canvas) DrawBox(lines []string, anchor Anchor) {
	c.DrawStyledBox(lines, anchor, colors.White)
}

func (c *Canvas) DrawStyledBox(lines []string, anchor Anchor, border colors.Color) {
	if len(lines) == 0 {
		return
	}
	maxW := c.width - 4
	if maxW < 1 {
		maxW = 1
	}
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = Truncate(l, maxW)
	}
	text := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Render(strings.Join(trimmed, "\n"))
	c.boxes = append(c.boxes, box{text: text, anchor: anchor})
}

// BoxCount is the number of boxes queued this frame.
func (c *Canvas) BoxCount() int { return len(c.boxes) }

// Render flattens the grid and composites queued boxes in queue order.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		renderRow(&b, row)
	}
	out := b.String()

	// Boxes sharing an anchor stack away from it.
	offsets := map[Anchor]int{}
	for _, bx := range c.boxes {
		lines := splitLines(bx.text)
		w, h := maxLineWidth(lines), len(lines)
		x, y := c.place(bx.anchor, w, h, offsets[bx.anchor])
		offsets[bx.anchor] += h
		out = overlayAt(out, bx.text, x, y, c.width, c.height)
	}
	return out
}

func (c *Canvas) place(a Anchor, w, h, stack int) (int, int) {
	switch a {
	case TopRight:
		return c.width - w, stack
	case BottomLeft:
		return 0, c.height - h - stack
	case BottomRight:
		return c.width - w, c.height - h - stack
	case Center:
		return (c.width - w) / 2, (c.height-h)/2 + stack
	case TopCenter:
		return (c.width - w) / 2, stack
	case BottomCenter:
		return (c.width - w) / 2, c.height - h - stack
	default:
		return 0, stack
	}
}

func renderRow(b *strings.Builder, row []cell) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && row[i].fg == row[start].fg && row[i].bg == row[start].bg {
			continue
		}
		var run strings.Builder
		for _, cl := range row[start:i] {
			run.WriteRune(cl.ch)
		}
		st := lipgloss.NewStyle()
		if row[start].fg != "" {
			st = st.Foreground(row[start].fg)
		}
		if row[start].bg != "" {
			st = st.Background(row[start].bg)
		}
		b.WriteString(st.Render(run.String()))
		start = i
	}
}

// Plain returns the grid text without styles or boxes. Tests read it.
func (c *Canvas) Plain() string {
	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		rs := make([]rune, len(row))
		for x, cl := range row {
			rs[x] = cl.ch
		}
		lines[y] = string(rs)
	}
	return strings.Join(lines, "\n")
}

// CellAt returns the glyph and foreground at a screen cell.
func (c *Canvas) CellAt(x, y int) (rune, colors.Color) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return 0, ""
	}
	cl := c.cells[y][x]
	return cl.ch, cl.fg
}
