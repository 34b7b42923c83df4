package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantStockCoalescing(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"available field", `{"color":"Синій","available":7}`, 7},
		{"stock field", `{"color":"Синій","stock":12}`, 12},
		{"quantity field", `{"color":"Синій","quantity":3}`, 3},
		{"available wins over stock", `{"available":7,"stock":12}`, 7},
		{"stock wins over quantity", `{"stock":12,"quantity":3}`, 12},
		{"explicit zero available", `{"available":0,"quantity":3}`, 0},
		{"no field at all", `{"color":"Синій"}`, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var v Variant
			require.NoError(t, json.Unmarshal([]byte(c.body), &v))
			assert.Equal(t, c.want, v.AvailableCount())
		})
	}
}

func TestVariantJSONRoundFields(t *testing.T) {
	var v Variant
	require.NoError(t, json.Unmarshal([]byte(`{"color":"Чорний","size":"L","image":"https://cdn.example.com/v1.png","stock":4}`), &v))
	assert.Equal(t, "Чорний", v.Color)
	assert.Equal(t, "L", v.Size)
	assert.Equal(t, "https://cdn.example.com/v1.png", v.ImageURL)
	assert.Equal(t, 4, v.AvailableCount())
}
