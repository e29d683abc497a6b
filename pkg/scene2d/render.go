package scene2d

import (
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
)

var (
	backgroundColor = color.RGBA{255, 255, 255, 255}
	parcelColor     = color.RGBA{236, 232, 220, 255}
	buildableColor  = color.RGBA{198, 226, 186, 255}
	buildingColor   = color.RGBA{96, 96, 96, 255}
	accessoryColor  = color.RGBA{176, 132, 88, 255}
	wallColor       = color.RGBA{235, 235, 235, 255}
	outlineColor    = color.RGBA{30, 30, 30, 255}
)

// planMargin is the border around the drawing, in pixels.
const planMargin = 16.0

// transform maps site meters to pixels with the street at the bottom.
type transform struct {
	scale      float64
	minX, maxZ float64
	offX, offY float64
}

func newTransform(p *SitePlan, size int) transform {
	b := p.Bounds()
	if b.IsEmpty() {
		return transform{scale: 1, offX: planMargin, offY: planMargin}
	}
	w, d := b.X.Length(), b.Y.Length()
	avail := float64(size) - 2*planMargin
	s := avail / math.Max(math.Max(w, d), 1e-9)
	return transform{
		scale: s,
		minX:  b.X.Lo,
		maxZ:  b.Y.Hi,
		offX:  planMargin + (avail-w*s)/2,
		offY:  planMargin + (avail-d*s)/2,
	}
}

func (t transform) pixel(x, z float64) (float64, float64) {
	return t.offX + (x-t.minX)*t.scale, t.offY + (t.maxZ-z)*t.scale
}

// RenderPNG draws the plan as a size x size PNG.
func RenderPNG(w io.Writer, p *SitePlan, size int) error {
	if p == nil {
		return errors.New("render: nil site plan")
	}
	if size <= int(2*planMargin) {
		return errors.Errorf("render: size %d too small", size)
	}
	dc := gg.NewContext(size, size)
	dc.SetColor(backgroundColor)
	dc.Clear()

	t := newTransform(p, size)
	fillPolygon(dc, t, p.Parcel, parcelColor)
	fillPolygon(dc, t, p.Buildable, buildableColor)
	for _, b := range p.Buildings {
		fillPolygon(dc, t, b.Polygon, buildingColor)
	}
	if p.Accessory != nil {
		fillPolygon(dc, t, p.Accessory.Polygon, accessoryColor)
	}

	dc.SetColor(wallColor)
	dc.SetLineWidth(1)
	for _, seg := range p.Partitions {
		x1, y1 := t.pixel(seg[0][0], seg[0][1])
		x2, y2 := t.pixel(seg[1][0], seg[1][1])
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	if len(p.Parcel) >= 3 {
		tracePolygon(dc, t, p.Parcel)
		dc.SetColor(outlineColor)
		dc.SetLineWidth(2)
		dc.Stroke()
	}

	return errors.Wrap(dc.EncodePNG(w), "encode png")
}

func tracePolygon(dc *gg.Context, t transform, coords [][2]float64) {
	dc.NewSubPath()
	for i, c := range coords {
		x, y := t.pixel(c[0], c[1])
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}

func fillPolygon(dc *gg.Context, t transform, coords [][2]float64, c color.Color) {
	if len(coords) < 3 {
		return
	}
	tracePolygon(dc, t, coords)
	dc.SetColor(c)
	dc.Fill()
}
