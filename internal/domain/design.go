package domain

import (
	"image"

	"github.com/google/uuid"
)

type ObjectKind string

const (
	ObjectImage ObjectKind = "image"
	ObjectText  ObjectKind = "text"
)

type ToneFilter string

const (
	ToneNone      ToneFilter = "none"
	ToneInvert    ToneFilter = "invert"
	ToneGrayscale ToneFilter = "grayscale"
)

// DefaultRemovalTolerance is deliberately generous so near-white photo
// backgrounds are caught, not just pure #ffffff.
const DefaultRemovalTolerance = 0.15

// RemoveColor is a chroma-key style background removal filter.
type RemoveColor struct {
	Color     string
	Tolerance float64
}

// FilterSet holds at most one filter per family. Tone filters (invert,
// grayscale) are mutually exclusive with each other; tint and background
// removal are independent families and survive tone changes.
type FilterSet struct {
	Tone    ToneFilter
	Tint    string
	Removal *RemoveColor
}

func (f *FilterSet) SetTone(t ToneFilter) {
	if t != ToneInvert && t != ToneGrayscale {
		t = ToneNone
	}
	f.Tone = t
}

// SetTint applies a full-opacity colorize that preserves alpha; "none" or ""
// removes it.
func (f *FilterSet) SetTint(color string) {
	if color == "" || color == "none" {
		f.Tint = ""
		return
	}
	f.Tint = color
}

// SetRemoval replaces any existing removal filter rather than stacking.
func (f *FilterSet) SetRemoval(color string, tolerance float64) {
	if color == "" {
		color = "#ffffff"
	}
	if tolerance <= 0 {
		tolerance = DefaultRemovalTolerance
	}
	f.Removal = &RemoveColor{Color: color, Tolerance: tolerance}
}

func (f *FilterSet) ClearRemoval() { f.Removal = nil }

// CropWindow is the sub-region of the source bitmap visible through an image
// object, in source pixels, independent of the render scale.
type CropWindow struct {
	X, Y float64
	W, H float64
}

type Edge string

const (
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// DesignObject is one drawable on the canvas. Image objects carry a decoded
// bitmap, a crop window into it and a filter set; text objects carry content
// and styling. Position and scale are in logical canvas units.
type DesignObject struct {
	ID      uuid.UUID
	Kind    ObjectKind
	PosX    float64
	PosY    float64
	Scale   float64
	Opacity float64
	Blend   string

	Bitmap     image.Image
	Crop       CropWindow
	Filters    FilterSet
	SourceName string
	SourceData []byte

	Content  string
	Font     string
	FontSize float64
	Bold     bool
	Italic   bool
	Fill     string
	Editing  bool
}

func NewImageObject(bitmap image.Image, name string, data []byte) *DesignObject {
	b := bitmap.Bounds()
	return &DesignObject{
		ID:         uuid.New(),
		Kind:       ObjectImage,
		Scale:      1,
		Opacity:    1,
		Bitmap:     bitmap,
		Crop:       CropWindow{W: float64(b.Dx()), H: float64(b.Dy())},
		Filters:    FilterSet{Tone: ToneNone},
		SourceName: name,
		SourceData: data,
	}
}

func NewTextObject(content string) *DesignObject {
	return &DesignObject{
		ID:       uuid.New(),
		Kind:     ObjectText,
		Scale:    1,
		Opacity:  1,
		Content:  content,
		Font:     "Arial",
		FontSize: 28,
		Bold:     true,
		Fill:     "#1f2937",
	}
}

// ScaleBy is the corner-handle gesture: uniform proportional scaling with the
// aspect ratio locked. The crop window is never touched.
func (o *DesignObject) ScaleBy(factor float64) {
	if factor <= 0 {
		return
	}
	s := o.Scale * factor
	if s < 0.02 {
		s = 0.02
	}
	if s > 50 {
		s = 50
	}
	o.Scale = s
}

// DragEdge is the edge-handle gesture: it grows or shrinks the visible crop
// window while holding the opposite edge fixed. delta is in canvas pixels,
// positive meaning outward. When the requested window would exceed the source
// bitmap's bounds the drag reverts to a pure scale so the source is never
// stretched past its pixels.
func (o *DesignObject) DragEdge(edge Edge, delta float64) {
	if o.Kind != ObjectImage || o.Bitmap == nil || o.Scale <= 0 {
		return
	}
	srcW := float64(o.Bitmap.Bounds().Dx())
	srcH := float64(o.Bitmap.Bounds().Dy())
	d := delta / o.Scale

	const minWindow = 1.0

	switch edge {
	case EdgeRight:
		nw := o.Crop.W + d
		if nw < minWindow {
			nw = minWindow
		}
		if o.Crop.X+nw > srcW {
			o.fallbackScale(o.Crop.W+d, o.Crop.W)
			return
		}
		o.Crop.W = nw
	case EdgeLeft:
		nx := o.Crop.X - d
		nw := o.Crop.W + d
		if nw < minWindow {
			nx -= minWindow - nw
			nw = minWindow
		}
		if nx < 0 {
			o.fallbackScale(o.Crop.W+d, o.Crop.W)
			return
		}
		o.Crop.X = nx
		o.Crop.W = nw
	case EdgeBottom:
		nh := o.Crop.H + d
		if nh < minWindow {
			nh = minWindow
		}
		if o.Crop.Y+nh > srcH {
			o.fallbackScale(o.Crop.H+d, o.Crop.H)
			return
		}
		o.Crop.H = nh
	case EdgeTop:
		ny := o.Crop.Y - d
		nh := o.Crop.H + d
		if nh < minWindow {
			ny -= minWindow - nh
			nh = minWindow
		}
		if ny < 0 {
			o.fallbackScale(o.Crop.H+d, o.Crop.H)
			return
		}
		o.Crop.Y = ny
		o.Crop.H = nh
	}
}

func (o *DesignObject) fallbackScale(requested, current float64) {
	if current <= 0 || requested <= 0 {
		return
	}
	o.ScaleBy(requested / current)
}

// MoveTo places the object's top-left corner in logical canvas units.
func (o *DesignObject) MoveTo(x, y float64) {
	o.PosX = x
	o.PosY = y
}
