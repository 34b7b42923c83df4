package compose

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/textilua/promoshop/internal/domain"
)

// Fetcher retrieves raw image bytes for a URL. The HTTP implementation relays
// through the same-origin proxy so composite pixels stay readable.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

const (
	exportSize   = 800
	fetchTimeout = 8 * time.Second
)

// Exporter flattens the product photo and the design layer into one PNG.
// Export never fails: any error on the way degrades to a design-only image.
type Exporter struct {
	fetcher Fetcher
	timeout time.Duration
	size    int
}

func NewExporter(f Fetcher) *Exporter {
	return &Exporter{fetcher: f, timeout: fetchTimeout, size: exportSize}
}

// Export merges the background image at bgURL with the design objects and
// returns the result as a PNG data URL. With no background, or when any fetch
// or decode step fails, the design layer is exported alone.
func (e *Exporter) Export(ctx context.Context, bgURL string, objects []*domain.DesignObject) string {
	layer := RenderLayer(objects, e.size)
	if bgURL == "" || e.fetcher == nil {
		return encodePNG(layer)
	}

	fctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	raw, err := e.fetcher.Fetch(fctx, bgURL)
	if err != nil {
		log.Warn().Err(err).Str("url", bgURL).Msg("background fetch failed, exporting design only")
		return encodePNG(layer)
	}
	bg, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Warn().Err(err).Str("url", bgURL).Msg("background decode failed, exporting design only")
		return encodePNG(layer)
	}

	canvas := imaging.Fill(bg, e.size, e.size, imaging.Center, imaging.Lanczos)
	out := imaging.Overlay(canvas, layer, image.Pt(0, 0), 1.0)
	return encodePNG(out)
}

func encodePNG(img image.Image) string {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil || buf.Len() == 0 {
		// Last-resort placeholder so callers always get some image.
		buf.Reset()
		_ = png.Encode(&buf, imaging.New(1, 1, color.NRGBA{}))
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}
