package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/particles"
)

// ParticlesToSVG draws every particle of s as a dot inside a square view
// of half-width half, with the room outlined. Particles outside the view
// are left out.
func ParticlesToSVG(s *particles.Store, room particles.Room, half float64, size int) string {
	if s == nil || half <= 0 || size <= 0 {
		return ""
	}

	scale := float64(size) / (2 * half)
	toX := func(x float64) float64 { return (x + half) * scale }
	toY := func(y float64) float64 { return (half - y) * scale }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	if room.HalfX > 0 && room.HalfY > 0 {
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#444455"/>
`, toX(-room.HalfX), toY(room.HalfY), 2*room.HalfX*scale, 2*room.HalfY*scale))
	}

	dotRadius := float64(size) / 200
	if dotRadius < 1 {
		dotRadius = 1
	}

	sb.WriteString(`<g fill="#00ff88">
`)
	for i := 0; i < s.Len(); i++ {
		x, y := s.Position(i)
		if x < -half || x > half || y < -half || y > half {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, toX(x), toY(y), dotRadius))
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG draws a metric series as a polyline against time.
func SeriesToSVG(samples []metrics.Sample, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := samples[0].Time, samples[0].Time
	minY, maxY := samples[0].Value, samples[0].Value
	for _, p := range samples {
		if p.Time < minX {
			minX = p.Time
		}
		if p.Time > maxX {
			maxX = p.Time
		}
		if p.Value < minY {
			minY = p.Value
		}
		if p.Value > maxY {
			maxY = p.Value
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range samples {
		x := (p.Time - minX) / rangeX * float64(width)
		y := float64(height) - (p.Value-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
