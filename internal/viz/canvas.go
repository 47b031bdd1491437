package viz

import (
	"strings"

	"github.com/san-kum/nbodysim/internal/particles"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 by
// Height*4 sub-pixels; anything outside is dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// Plot draws every particle that falls inside the square view
// [-half, half] x [-half, half]. It returns how many were drawn.
func (c *Canvas) Plot(s *particles.Store, half float64) int {
	if half <= 0 {
		return 0
	}
	cw, ch := float64(c.Width*2), float64(c.Height*4)
	drawn := 0
	for i := 0; i < s.Len(); i++ {
		x, y := s.Position(i)
		if x < -half || x > half || y < -half || y > half {
			continue
		}
		px := int((x + half) / (2 * half) * (cw - 1))
		// screen y grows downward
		py := int((half - y) / (2 * half) * (ch - 1))
		c.Set(px, py)
		drawn++
	}
	return drawn
}

// Border draws the outline of the room inside the same view.
func (c *Canvas) Border(room particles.Room, half float64) {
	if half <= 0 {
		return
	}
	cw, ch := float64(c.Width*2), float64(c.Height*4)
	toX := func(x float64) int { return int((x + half) / (2 * half) * (cw - 1)) }
	toY := func(y float64) int { return int((half - y) / (2 * half) * (ch - 1)) }

	x0, x1 := toX(-room.HalfX), toX(room.HalfX)
	y0, y1 := toY(room.HalfY), toY(-room.HalfY)
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x0, y1, x1, y1)
	c.DrawLine(x0, y0, x0, y1)
	c.DrawLine(x1, y0, x1, y1)
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
