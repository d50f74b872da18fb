package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/graphgazer/graphgazer/pkg/scene"
)

// Node glyphs drawn on the canvas.
const (
	glyphNode        = "●"
	glyphHighlighted = "◉"
	glyphSelected    = "◎"
	glyphEdge        = "·"
)

// Pixel footprint of one terminal cell. Cells are roughly twice as tall
// as they are wide, so the vertical footprint doubles the horizontal one
// to keep circles circular.
const (
	cellPxW = 10
	cellPxH = 20
)

// termSurface is a terminal drawing surface backed by a grid of cells.
// Size reports pixels so viewport math matches other surface kinds; a
// zero dimension means the terminal size is not known yet.
type termSurface struct {
	cols int
	rows int
}

// Size reports the surface dimensions in pixels.
func (s *termSurface) Size() (int, int) {
	return s.cols * cellPxW, s.rows * cellPxH
}

// resize updates the surface dimensions in cells.
func (s *termSurface) resize(cols, rows int) {
	s.cols = cols
	s.rows = rows
}

// cell is one rendered canvas cell.
type cell struct {
	glyph string
	style lipgloss.Style
}

// termRenderer draws frames onto a grid of terminal cells and resolves
// mouse coordinates back to node ids.
type termRenderer struct {
	surface  *termSurface
	settings scene.Settings

	rows     [][]cell
	hits     map[[2]int]string // cell position -> node id
	disposed bool

	onClick      func(nodeID string)
	onRightClick func(nodeID string, x, y int)
}

// newTermRenderer constructs a renderer bound to the given surface.
func newTermRenderer(s *termSurface, settings scene.Settings) *termRenderer {
	return &termRenderer{surface: s, settings: settings}
}

// OnClick registers the left-click handler.
func (r *termRenderer) OnClick(handler func(nodeID string)) {
	r.onClick = handler
}

// OnRightClick registers the right-click handler.
func (r *termRenderer) OnRightClick(handler func(nodeID string, x, y int)) {
	r.onRightClick = handler
}

// Click resolves a left click at cell coordinates to a node and forwards
// it. Clicks on empty canvas forward an empty id.
func (r *termRenderer) Click(x, y int) {
	if r.disposed || r.onClick == nil {
		return
	}
	r.onClick(r.hitTest(x, y))
}

// RightClick resolves a right click at cell coordinates and forwards it.
func (r *termRenderer) RightClick(x, y int) {
	if r.disposed || r.onRightClick == nil {
		return
	}
	r.onRightClick(r.hitTest(x, y), x, y)
}

// hitTest returns the node id drawn at (x, y), also checking the
// neighboring cells so near-misses on small glyphs still land.
func (r *termRenderer) hitTest(x, y int) string {
	if id, ok := r.hits[[2]int{x, y}]; ok {
		return id
	}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if id, ok := r.hits[[2]int{x + dx, y + dy}]; ok {
				return id
			}
		}
	}
	return ""
}

// Draw renders one frame onto the cell grid.
func (r *termRenderer) Draw(f scene.Frame) {
	if r.disposed {
		return
	}
	cols, rows := r.surface.cols, r.surface.rows
	if cols <= 0 || rows <= 0 {
		return
	}

	r.rows = make([][]cell, rows)
	for y := range r.rows {
		r.rows[y] = make([]cell, cols)
	}
	r.hits = make(map[[2]int]string, f.Graph.NodeCount())

	// Edges first so nodes draw over them.
	if !f.Overlay.EdgesHidden {
		for _, e := range f.Graph.Edges() {
			src, dst := f.Graph.Node(e.Source), f.Graph.Node(e.Target)
			if src == nil || dst == nil {
				continue
			}
			if f.Overlay.Nodes[src.ID].Hidden || f.Overlay.Nodes[dst.ID].Hidden {
				continue
			}
			x0, y0 := r.projectCell(src.X, src.Y, f.Camera)
			x1, y1 := r.projectCell(dst.X, dst.Y, f.Camera)
			r.line(x0, y0, x1, y1, StyleDim)
		}
	}

	for _, n := range f.Graph.Nodes() {
		style, hasStyle := f.Overlay.Nodes[n.ID]
		if hasStyle && style.Hidden {
			continue
		}
		x, y := r.projectCell(n.X, n.Y, f.Camera)
		if x < 0 || x >= cols || y < 0 || y >= rows {
			continue
		}

		glyph := glyphNode
		color := n.Color
		bold := false
		switch {
		case n.ID == f.Selected:
			glyph = glyphSelected
			bold = true
		case hasStyle && style.Highlighted:
			glyph = glyphHighlighted
			bold = true
		}
		if hasStyle && style.Color != "" {
			color = style.Color
		}

		r.rows[y][x] = cell{glyph: glyph, style: nodeCellStyle(color, bold)}
		r.hits[[2]int{x, y}] = n.ID

		if hasStyle && style.LabelHidden {
			continue
		}
		r.label(x+2, y, n.DisplayLabel(), nodeCellStyle(color, bold), n.ID)
	}
}

// label writes text starting at (x, y), clipped to the canvas.
func (r *termRenderer) label(x, y int, text string, style lipgloss.Style, nodeID string) {
	if y < 0 || y >= len(r.rows) {
		return
	}
	for i, ch := range []rune(text) {
		cx := x + i
		if cx < 0 || cx >= len(r.rows[y]) {
			return
		}
		r.rows[y][cx] = cell{glyph: string(ch), style: style}
		r.hits[[2]int{cx, y}] = nodeID
	}
}

// line draws a Bresenham line of edge glyphs, skipping occupied cells.
func (r *termRenderer) line(x0, y0, x1, y1 int, style lipgloss.Style) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if y0 >= 0 && y0 < len(r.rows) && x0 >= 0 && x0 < len(r.rows[y0]) && r.rows[y0][x0].glyph == "" {
			r.rows[y0][x0] = cell{glyph: glyphEdge, style: style}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// View composes the current cell grid into a styled string.
func (r *termRenderer) View() string {
	var b strings.Builder
	for y, row := range r.rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if c.glyph == "" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(c.style.Render(c.glyph))
		}
	}
	return b.String()
}

// Dispose releases the renderer. Idempotent.
func (r *termRenderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	r.rows = nil
	r.hits = nil
}

// projectCell maps graph coordinates to cell coordinates: the camera
// projection in pixel space, then pixel to cell conversion.
func (r *termRenderer) projectCell(gx, gy float64, cam scene.Camera) (int, int) {
	wpx, hpx := r.surface.Size()
	px := (gx-cam.X)*cam.Zoom + float64(wpx)/2
	py := (gy-cam.Y)*cam.Zoom + float64(hpx)/2
	return int(px / cellPxW), int(py / cellPxH)
}

// nodeCellStyle builds a terminal style from a node color, stripping a
// trailing alpha channel when present.
func nodeCellStyle(color string, bold bool) lipgloss.Style {
	if len(color) == 9 && color[0] == '#' {
		color = color[:7]
	}
	style := lipgloss.NewStyle()
	if color != "" {
		style = style.Foreground(lipgloss.Color(color))
	} else {
		style = style.Foreground(colorWhite)
	}
	if bold {
		style = style.Bold(true)
	}
	return style
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
