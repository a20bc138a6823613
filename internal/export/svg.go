package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/multistate/internal/promoter"
)

// CurveSVG renders y against x as a polyline. Non-finite points are
// skipped.
func CurveSVG(w io.Writer, xs, ys []float64, width, height int, stroke string) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("%w: %d x values for %d y values", promoter.ErrInvalidArgument, len(xs), len(ys))
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: canvas %dx%d", promoter.ErrInvalidArgument, width, height)
	}

	type point struct{ x, y float64 }
	points := make([]point, 0, len(xs))
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			points = append(points, point{xs[i], ys[i]})
		}
	}
	if len(points) < 2 {
		return fmt.Errorf("%w: need 2 finite points, got %d", promoter.ErrInvalidArgument, len(points))
	}

	minX, maxX := points[0].x, points[0].x
	minY, maxY := points[0].y, points[0].y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.x), math.Max(maxX, p.x)
		minY, maxY = math.Min(minY, p.y), math.Max(maxY, p.y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// 5% margin on every side
	minX -= rangeX * 0.05
	minY -= rangeY * 0.05
	rangeX *= 1.1
	rangeY *= 1.1

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`, width, height, width, height, stroke)

	for i, p := range points {
		x := (p.x - minX) / rangeX * float64(width)
		y := float64(height) - (p.y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
