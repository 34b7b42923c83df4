package domain

import "strings"

// colorSynonyms folds Ukrainian and English color words (and common sub-shades)
// into one canonical entry per visual color. Stems like "чорн" cover inflected
// forms coming from free-text supplier feeds.
var colorSynonyms = map[string][]string{
	"black":  {"чорний", "чорн", "black"},
	"white":  {"білий", "біл", "white"},
	"red":    {"червоний", "червон", "red", "бордовий"},
	"blue":   {"синій", "син", "блакитний", "голубий", "blue", "navy", "royal"},
	"green":  {"зелений", "зелен", "хакі", "green"},
	"grey":   {"сірий", "сір", "grey", "gray", "silver", "срібний", "графіт"},
	"yellow": {"жовтий", "жовт", "yellow", "gold", "золотий"},
	"orange": {"помаранчевий", "оранжевий", "orange"},
	"purple": {"фіолетовий", "фіолет", "purple", "violet"},
	"pink":   {"рожевий", "рожев", "pink"},
	"brown":  {"коричневий", "коричн", "brown", "beige", "бежевий", "natural"},
}

// ColorsMatch reports whether two free-text color labels refer to the same
// visual color. It is a heuristic matcher, not exact equality: callers that
// want strict comparison for simple labels should combine it with
// HasColorDetail themselves.
func ColorsMatch(a, b string) bool {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return false
	}
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	// "Blue (Navy)" and "Blue (Royal)" are distinct shades even though the
	// base word matches.
	da, db := colorDetail(a), colorDetail(b)
	if da != "" && db != "" && da != db {
		return false
	}

	if a == b {
		return true
	}

	ba, bb := baseColorWord(a), baseColorWord(b)
	ca, cb := canonicalColor(ba), canonicalColor(bb)
	if ca != "" && ca == cb {
		return true
	}
	// One side may already be the canonical key the other maps to.
	if ca != "" && ca == bb {
		return true
	}
	if cb != "" && cb == ba {
		return true
	}

	if ba == "" || bb == "" {
		return false
	}
	if ba == bb {
		return true
	}
	// Inflected or partial forms: "син" vs "синій".
	return strings.Contains(ba, bb) || strings.Contains(bb, ba)
}

// HasColorDetail reports whether the label carries a parenthesized shade
// qualifier, e.g. "Blue (Navy)".
func HasColorDetail(s string) bool {
	return colorDetail(strings.ToLower(s)) != ""
}

func colorDetail(s string) string {
	open := strings.Index(s, "(")
	if open < 0 {
		return ""
	}
	close := strings.Index(s[open:], ")")
	if close < 0 {
		return strings.TrimSpace(s[open+1:])
	}
	return strings.TrimSpace(s[open+1 : open+close])
}

func baseColorWord(s string) string {
	end := len(s)
	for i, r := range s {
		if r == ' ' || r == '/' || r == '(' {
			end = i
			break
		}
	}
	return strings.TrimSpace(s[:end])
}

func canonicalColor(word string) string {
	if word == "" {
		return ""
	}
	if _, ok := colorSynonyms[word]; ok {
		return word
	}
	for canon, syns := range colorSynonyms {
		for _, syn := range syns {
			if word == syn {
				return canon
			}
		}
	}
	return ""
}
