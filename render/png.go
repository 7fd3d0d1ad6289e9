package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/colornames"

	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

const padding = 24.0

// Palette colors the entities of a scene
type Palette struct {
	Background color.Color
	Station    color.Color
	Player     color.Color
	Ghost      color.Color
	Fruit      color.Color
	Home       color.Color
	Target     color.Color
}

// DefaultPalette is the classic arcade look on a dark background
func DefaultPalette() Palette {
	return Palette{
		Background: colornames.Black,
		Station:    colornames.White,
		Player:     colornames.Yellow,
		Ghost:      colornames.Crimson,
		Fruit:      colornames.Limegreen,
		Home:       colornames.Deepskyblue,
		Target:     colornames.Fuchsia,
	}
}

// projection maps coordinates onto the canvas, keeping the aspect ratio of
// an equirectangular view at the scene's mean latitude
type projection struct {
	minX, maxY float64
	scale      float64
	offX, offY float64
	lonFactor  float64
}

func newProjection(scene Scene, w, h int) projection {
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	for _, s := range scene.Stations {
		minLat = math.Min(minLat, s.Coord.Lat)
		maxLat = math.Max(maxLat, s.Coord.Lat)
		minLon = math.Min(minLon, s.Coord.Lon)
		maxLon = math.Max(maxLon, s.Coord.Lon)
	}
	if len(scene.Stations) == 0 {
		minLat, maxLat, minLon, maxLon = 0, 0, 0, 0
	}

	p := projection{lonFactor: math.Cos((minLat + maxLat) / 2 * math.Pi / 180)}
	spanX := (maxLon - minLon) * p.lonFactor
	spanY := maxLat - minLat
	availW, availH := float64(w)-2*padding, float64(h)-2*padding

	p.scale = 1
	switch {
	case spanX > 0 && spanY > 0:
		p.scale = math.Min(availW/spanX, availH/spanY)
	case spanX > 0:
		p.scale = availW / spanX
	case spanY > 0:
		p.scale = availH / spanY
	}
	p.minX = minLon * p.lonFactor
	p.maxY = maxLat
	p.offX = padding + (availW-spanX*p.scale)/2
	p.offY = padding + (availH-spanY*p.scale)/2
	return p
}

func (p projection) point(c transit.Coordinate) (float64, float64) {
	x := p.offX + (c.Lon*p.lonFactor-p.minX)*p.scale
	y := p.offY + (p.maxY-c.Lat)*p.scale
	return x, y
}

// DrawPNG rasterizes scene onto a w by h canvas and writes it as PNG
func DrawPNG(scene Scene, w, h int, out io.Writer) error {
	return DrawPNGWithPalette(scene, w, h, DefaultPalette(), out)
}

// DrawPNGWithPalette is DrawPNG with custom colors
func DrawPNGWithPalette(scene Scene, w, h int, pal Palette, out io.Writer) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)
	dc.SetColor(pal.Background)
	dc.Clear()

	p := newProjection(scene, w, h)

	dc.SetLineWidth(4)
	for _, l := range scene.Lines {
		if len(l.Path) < 2 {
			continue
		}
		dc.SetHexColor(l.Color)
		x, y := p.point(l.Path[0])
		dc.MoveTo(x, y)
		for _, c := range l.Path[1:] {
			x, y = p.point(c)
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}

	dc.SetColor(pal.Station)
	for _, s := range scene.Stations {
		r := 3.0
		if s.Anchor {
			r = 5
		}
		x, y := p.point(s.Coord)
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}

	dot := func(m *Marker, c color.Color, r float64) {
		if m == nil {
			return
		}
		x, y := p.point(m.Coord)
		dc.SetColor(c)
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}
	dot(scene.Home, pal.Home, 8)
	dot(scene.Target, pal.Target, 8)
	for i := range scene.Fruits {
		dot(&scene.Fruits[i], pal.Fruit, 6)
	}
	for i := range scene.Ghosts {
		dot(&scene.Ghosts[i], pal.Ghost, 7)
	}
	dot(scene.Player, pal.Player, 9)

	if err := dc.EncodePNG(out); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
