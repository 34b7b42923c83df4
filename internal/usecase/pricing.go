package usecase

import "math"

// Branding price table in UAH: method base rate adjusted by placement and
// print-area size. Unknown placements/sizes price at the neutral factor so a
// misconfigured option never zeroes a paid method.
var brandingMethodBase = map[string]float64{
	"print":      40,
	"dtf":        55,
	"embroidery": 90,
	"engraving":  60,
}

var brandingPlacementFactor = map[string]float64{
	"chest":  1.0,
	"back":   1.4,
	"sleeve": 0.8,
	"front":  1.0,
}

var brandingSizeFactor = map[string]float64{
	"small":  0.8,
	"medium": 1.0,
	"large":  1.5,
	"a4":     1.5,
	"a5":     1.0,
	"a6":     0.8,
}

// BrandingPrice maps (placement, size, method) to the per-unit customization
// surcharge. Method "none" (or empty) always prices at zero.
func BrandingPrice(placement, size, method string) float64 {
	base, ok := brandingMethodBase[method]
	if !ok {
		return 0
	}
	pf, ok := brandingPlacementFactor[placement]
	if !ok {
		pf = 1.0
	}
	sf, ok := brandingSizeFactor[size]
	if !ok {
		sf = 1.0
	}
	return Round2(base * pf * sf)
}

// VolumeDiscount returns the discount fraction for a quantity: 15% from 100
// units, 10% from 50.
func VolumeDiscount(qty int) float64 {
	switch {
	case qty >= 100:
		return 0.15
	case qty >= 50:
		return 0.10
	default:
		return 0
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
