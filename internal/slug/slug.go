// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug generates and checks category slugs. A slug is 1 to MaxLen
// characters from [-a-zA-Z0-9_].
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the longest slug the database accepts.
const MaxLen = 64

var (
	// disallowed matches anything Generate drops.
	disallowed = regexp.MustCompile(`[^a-z0-9_\s/-]`)
	// separators become a single hyphen.
	separators = regexp.MustCompile(`[\s/-]+`)

	valid = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// translit spells Cyrillic letters in Latin so Russian and Ukrainian
// titles still produce a slug.
var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "i", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "iu", 'я': "ia",
	'є': "ie", 'і': "i", 'ї': "i", 'ґ': "g",
}

// transliterate replaces every known Cyrillic letter of a lowercase string.
func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if lat, ok := translit[r]; ok {
			b.WriteString(lat)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fold strips combining marks so that "Café" becomes "Cafe".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Generate creates a slug from a title. Cyrillic is transliterated and
// other scripts without a Latin spelling are dropped.
// Example: "Café Life, 2026!" → "cafe-life-2026"
func Generate(s string) string {
	result := transliterate(strings.ToLower(strings.TrimSpace(s)))
	result = fold(result)
	result = disallowed.ReplaceAllString(result, "")
	result = separators.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	if len(result) > MaxLen {
		result = strings.TrimRight(result[:MaxLen], "-")
	}
	return result
}

// Valid reports whether s is an acceptable slug.
func Valid(s string) bool {
	return len(s) <= MaxLen && valid.MatchString(s)
}
