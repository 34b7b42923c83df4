package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorsMatchSynonyms(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Синій", "Blue", true},
		{"синій", "син", true},
		{"Чорний", "Black", true},
		{"Black", "чорн", true},
		{"Білий", "White", true},
		{"Сірий", "Gray", true},
		{"Grey", "срібний", true},
		{"Navy", "Синій", true},
		{"Gold", "Жовтий", true},
		{"Бежевий", "Brown", true},
		{"Хакі", "Green", true},

		{"Red", "Green", false},
		{"Синій", "Зелений", false},
		{"Білий", "Чорний", false},
	}
	for _, c := range cases {
		t.Run(c.a+"/"+c.b, func(t *testing.T) {
			assert.Equal(t, c.want, ColorsMatch(c.a, c.b))
			assert.Equal(t, c.want, ColorsMatch(c.b, c.a), "matching must be symmetric")
		})
	}
}

func TestColorsMatchShadeDetail(t *testing.T) {
	assert.False(t, ColorsMatch("Blue (Navy)", "Blue (Royal)"))
	assert.True(t, ColorsMatch("Blue (Navy)", "Blue (Navy)"))
	// A plain label still matches a qualified one of the same base color.
	assert.True(t, ColorsMatch("Blue", "Blue (Navy)"))
	assert.True(t, ColorsMatch("Синій (Navy)", "Blue (Navy)"))
}

func TestColorsMatchEmpty(t *testing.T) {
	assert.False(t, ColorsMatch("", "Blue"))
	assert.False(t, ColorsMatch("Blue", ""))
	assert.False(t, ColorsMatch("", ""))
	assert.False(t, ColorsMatch("  ", "Blue"))
}

func TestColorsMatchCaseAndWhitespace(t *testing.T) {
	assert.True(t, ColorsMatch(" BLUE ", "blue"))
	assert.True(t, ColorsMatch("СИНІЙ", "синій"))
}

func TestHasColorDetail(t *testing.T) {
	assert.True(t, HasColorDetail("Blue (Navy)"))
	assert.False(t, HasColorDetail("Blue"))
}
