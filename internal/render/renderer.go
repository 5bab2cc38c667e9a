// Package render composites the base image, the marks and the count label
// into frames for display and export.
package render

import (
	"fmt"
	"image"
	"image/color"
	"iter"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"

	"clickcounter/internal/annotation"
	"clickcounter/internal/model"
)

// Frame is a fully composited raster. Every Frame returned by this package
// is a fresh allocation that the caller owns.
type Frame = *image.RGBA

// Style holds the fixed drawing parameters for dots, the count label and the
// save confirmation.
type Style struct {
	DotRadius float64
	DotColor  color.RGBA

	HUDOrigin image.Point // baseline-left of the count label
	HUDSize   float64
	HUDColor  color.RGBA

	ToastOrigin image.Point
	ToastSize   float64
	ToastColor  color.RGBA
}

// DefaultStyle returns red 5px dots, a blue count label near the top-left
// corner and a green confirmation line below it.
func DefaultStyle() Style {
	return Style{
		DotRadius:   5,
		DotColor:    color.RGBA{R: 255, A: 255},
		HUDOrigin:   image.Pt(10, 30),
		HUDSize:     24,
		HUDColor:    color.RGBA{B: 255, A: 255},
		ToastOrigin: image.Pt(10, 60),
		ToastSize:   17,
		ToastColor:  color.RGBA{G: 255, A: 255},
	}
}

// Renderer draws frames. It holds no per-session state and may be reused.
type Renderer struct {
	style Style
	hud   text.Face
	toast text.Face
}

// New creates a Renderer with the given style.
func New(style Style) (*Renderer, error) {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to load label font: %w", err)
	}

	return &Renderer{
		style: style,
		hud:   source.Face(style.HUDSize),
		toast: source.Face(style.ToastSize),
	}, nil
}

// Style returns the renderer's drawing parameters.
func (r *Renderer) Style() Style {
	return r.style
}

// Render draws every mark in order onto a copy of base, then the count label.
// The label is drawn last so dots never cover it.
func (r *Renderer) Render(base image.Image, marks iter.Seq[model.Mark], count int) Frame {
	dc, pm, opaque := newCanvas(base)
	defer dc.Close()

	dc.SetColor(r.style.DotColor)
	for m := range marks {
		// Pixel (x, y) is centred at (x+0.5, y+0.5) in gg's coordinate space.
		dc.DrawCircle(float64(m.X)+0.5, float64(m.Y)+0.5, r.style.DotRadius)
		_ = dc.Fill()
	}

	dc.SetColor(r.style.HUDColor)
	dc.SetFont(r.hud)
	dc.DrawString(CountLabel(count), float64(r.style.HUDOrigin.X), float64(r.style.HUDOrigin.Y))

	return snapshot(dc, pm, opaque)
}

// RenderState renders the current contents of s over base.
func (r *Renderer) RenderState(base image.Image, s *annotation.State) Frame {
	return r.Render(base, s.Marks(), s.Count())
}

// Toast returns a copy of frame with message drawn in the confirmation slot.
// frame itself is left untouched.
func (r *Renderer) Toast(frame image.Image, message string) Frame {
	dc, pm, opaque := newCanvas(frame)
	defer dc.Close()

	dc.SetColor(r.style.ToastColor)
	dc.SetFont(r.toast)
	dc.DrawString(message, float64(r.style.ToastOrigin.X), float64(r.style.ToastOrigin.Y))

	return snapshot(dc, pm, opaque)
}

// CountLabel formats the heads-up count text.
func CountLabel(count int) string {
	return fmt.Sprintf("Count: %d", count)
}

// newCanvas copies src into a new pixmap anchored at the origin and returns a
// drawing context over it, and whether src was fully opaque. The copy is
// exact, so an empty overlay reproduces src pixel for pixel.
func newCanvas(src image.Image) (*gg.Context, *gg.Pixmap, bool) {
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	pm := gg.NewPixmap(b.Dx(), b.Dy())
	copy(pm.Data(), rgba.Pix)

	return gg.NewContextForPixmap(pm), pm, rgba.Opaque()
}

// snapshot copies the pixmap out as a Frame. Compositing in float can round
// the alpha of anti-aliased pixels over an opaque base down to 254; such
// frames are forced back to fully opaque.
func snapshot(dc *gg.Context, pm *gg.Pixmap, opaque bool) Frame {
	_ = dc.FlushGPU()
	frame := pm.ToImage()
	if opaque {
		for i := 3; i < len(frame.Pix); i += 4 {
			frame.Pix[i] = 0xff
		}
	}
	return frame
}
