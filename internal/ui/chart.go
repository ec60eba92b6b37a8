package ui

import (
	"fmt"
	"math"
	"strings"

	"calc/internal/domain"
)

// RenderChart draws s as a plain-text scatter chart of width columns by
// height rows, with the y range on the left and the series labels under the
// x axis. A horizontal rule marks y = 0 when it is in range.
func RenderChart(s domain.Series, width, height int) string {
	n := len(s.Points)
	if n == 0 {
		return ""
	}
	width = max(width, 10)
	height = max(height, 3)

	minY, maxY := s.Points[0].Y, s.Points[0].Y
	for _, p := range s.Points[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	row := func(y float64) int {
		if maxY == minY {
			return height / 2
		}
		return int(math.Round((maxY - y) / (maxY - minY) * float64(height-1)))
	}
	col := func(i int) int {
		if n == 1 {
			return 0
		}
		return int(math.Round(float64(i) * float64(width-1) / float64(n-1)))
	}

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	if minY < 0 && maxY > 0 {
		zero := grid[row(0)]
		for c := range zero {
			zero[c] = '─'
		}
	}
	for i, p := range s.Points {
		grid[row(p.Y)][col(i)] = '•'
	}

	top, bottom := fmt.Sprintf("%.2f", maxY), fmt.Sprintf("%.2f", minY)
	gutter := max(len(top), len(bottom))

	var b strings.Builder
	for r, line := range grid {
		label := ""
		switch r {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		fmt.Fprintf(&b, "%*s │%s\n", gutter, label, string(line))
	}
	fmt.Fprintf(&b, "%s └%s\n", strings.Repeat(" ", gutter), strings.Repeat("─", width))

	axis := []rune(strings.Repeat(" ", gutter+2+width))
	next := 0
	for i, l := range s.Labels {
		if l == "" || i >= n {
			continue
		}
		at := gutter + 2 + col(i)
		if at < next || at+len(l) > len(axis) {
			continue
		}
		copy(axis[at:], []rune(l))
		next = at + len(l) + 1
	}
	b.WriteString(strings.TrimRight(string(axis), " "))
	return b.String()
}
