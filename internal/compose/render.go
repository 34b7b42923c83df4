package compose

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/textilua/promoshop/internal/domain"
)

// LogicalCanvasSize is the fixed design-space edge; object positions and
// scales are expressed against it and mapped to the export size on render.
const LogicalCanvasSize = 600

// RenderLayer flattens the design objects onto a transparent square raster of
// the given edge size, in object order.
func RenderLayer(objects []*domain.DesignObject, size int) *image.NRGBA {
	if size <= 0 {
		size = LogicalCanvasSize
	}
	canvas := imaging.New(size, size, color.NRGBA{})
	f := float64(size) / LogicalCanvasSize
	for _, o := range objects {
		switch o.Kind {
		case domain.ObjectImage:
			canvas = renderImage(canvas, o, f)
		case domain.ObjectText:
			canvas = renderText(canvas, o, f)
		}
	}
	return canvas
}

func renderImage(canvas *image.NRGBA, o *domain.DesignObject, f float64) *image.NRGBA {
	if o.Bitmap == nil {
		return canvas
	}
	rect := image.Rect(
		int(math.Round(o.Crop.X)),
		int(math.Round(o.Crop.Y)),
		int(math.Round(o.Crop.X+o.Crop.W)),
		int(math.Round(o.Crop.Y+o.Crop.H)),
	)
	img := imaging.Crop(o.Bitmap, rect)
	if img.Bounds().Empty() {
		return canvas
	}

	if rm := o.Filters.Removal; rm != nil {
		img = applyRemoval(img, ParseHexColor(rm.Color), rm.Tolerance)
	}
	switch o.Filters.Tone {
	case domain.ToneInvert:
		img = imaging.Invert(img)
	case domain.ToneGrayscale:
		img = imaging.Grayscale(img)
	}
	if o.Filters.Tint != "" {
		img = applyTint(img, ParseHexColor(o.Filters.Tint))
	}

	w := int(math.Round(o.Crop.W * o.Scale * f))
	h := int(math.Round(o.Crop.H * o.Scale * f))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img = imaging.Resize(img, w, h, imaging.Lanczos)

	pt := image.Pt(int(math.Round(o.PosX*f)), int(math.Round(o.PosY*f)))
	return imaging.Overlay(canvas, img, pt, o.Opacity)
}

func renderText(canvas *image.NRGBA, o *domain.DesignObject, f float64) *image.NRGBA {
	content := strings.TrimRight(o.Content, " ")
	if strings.TrimSpace(content) == "" {
		return canvas
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, content).Ceil() + 2
	height := face.Height + 3

	txt := imaging.New(width, height, color.NRGBA{})
	src := image.NewUniform(ParseHexColor(o.Fill))
	d := &font.Drawer{Dst: txt, Src: src, Face: face, Dot: fixed.P(1, face.Ascent)}
	d.DrawString(content)
	if o.Bold {
		// Fake bold: restrike one pixel to the right.
		d.Dot = fixed.P(2, face.Ascent)
		d.DrawString(content)
	}

	scale := o.FontSize / float64(face.Height) * o.Scale * f
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 || h < 1 {
		return canvas
	}
	resized := imaging.Resize(txt, w, h, imaging.Lanczos)

	pt := image.Pt(int(math.Round(o.PosX*f)), int(math.Round(o.PosY*f)))
	return imaging.Overlay(canvas, resized, pt, o.Opacity)
}

func applyTint(img *image.NRGBA, tint color.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i+3] == 0 {
			continue
		}
		out.Pix[i] = tint.R
		out.Pix[i+1] = tint.G
		out.Pix[i+2] = tint.B
	}
	return out
}

func applyRemoval(img *image.NRGBA, target color.NRGBA, tolerance float64) *image.NRGBA {
	out := imaging.Clone(img)
	// Max distance in RGB space, so tolerance reads as a 0..1 fraction.
	maxDist := math.Sqrt(3 * 255 * 255)
	for i := 0; i < len(out.Pix); i += 4 {
		dr := float64(out.Pix[i]) - float64(target.R)
		dg := float64(out.Pix[i+1]) - float64(target.G)
		db := float64(out.Pix[i+2]) - float64(target.B)
		if math.Sqrt(dr*dr+dg*dg+db*db)/maxDist <= tolerance {
			out.Pix[i+3] = 0
		}
	}
	return out
}

// ParseHexColor parses #rrggbb (or #rgb) labels; anything else falls back to
// opaque black.
func ParseHexColor(s string) color.NRGBA {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	default:
		return color.NRGBA{A: 255}
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[i*2])
		lo, ok2 := hexNibble(s[i*2+1])
		if !ok1 || !ok2 {
			return color.NRGBA{A: 255}
		}
		v[i] = hi<<4 | lo
	}
	return color.NRGBA{R: v[0], G: v[1], B: v[2], A: 255}
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
