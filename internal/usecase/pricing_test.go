package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBrandingPrice(t *testing.T) {
	cases := []struct {
		placement, size, method string
		want                    float64
	}{
		{"chest", "medium", "print", 40},
		{"back", "medium", "print", 56},
		{"sleeve", "small", "print", 25.6},
		{"chest", "large", "embroidery", 135},
		{"front", "a4", "engraving", 90},
		{"chest", "medium", "dtf", 55},

		{"chest", "medium", "none", 0},
		{"chest", "medium", "", 0},
		{"chest", "medium", "holography", 0},

		// Unknown placement/size fall back to the neutral factor.
		{"collar", "medium", "print", 40},
		{"chest", "xxl", "print", 40},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, BrandingPrice(c.placement, c.size, c.method), 1e-9,
			"%s/%s/%s", c.placement, c.size, c.method)
	}
}

func TestVolumeDiscount(t *testing.T) {
	assert.Zero(t, VolumeDiscount(1))
	assert.Zero(t, VolumeDiscount(49))
	assert.InDelta(t, 0.10, VolumeDiscount(50), 1e-9)
	assert.InDelta(t, 0.10, VolumeDiscount(99), 1e-9)
	assert.InDelta(t, 0.15, VolumeDiscount(100), 1e-9)
	assert.InDelta(t, 0.15, VolumeDiscount(10000), 1e-9)
}

func TestRound2(t *testing.T) {
	assert.InDelta(t, 1.23, Round2(1.2349), 1e-9)
	assert.InDelta(t, 1.24, Round2(1.2351), 1e-9)
	assert.InDelta(t, -2.5, Round2(-2.499), 1e-9)
}
