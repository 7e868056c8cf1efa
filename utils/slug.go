package utils

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify converts arbitrary text into a URL-safe slug: diacritics are
// stripped via NFD normalization, the result is lowercased, whitespace
// collapses to single hyphens, and anything non-alphanumeric is dropped.
func Slugify(text string) string {
	if text == "" {
		return ""
	}

	// Decompose and drop combining marks (accents).
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(strings.TrimSpace(stripped)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r), r == '-', r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

// UniqueSlug builds a slug from text, optionally suffixed with the last
// four digits of the current timestamp to reduce collisions.
func UniqueSlug(text string, addTimestamp bool) string {
	base := Slugify(text)
	if base == "" {
		return ""
	}
	if !addTimestamp {
		return base
	}
	ts := time.Now().UnixMilli() % 10000
	return base + "-" + padTimestamp(ts)
}

func padTimestamp(ts int64) string {
	digits := []byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && ts > 0; i-- {
		digits[i] = byte('0' + ts%10)
		ts /= 10
	}
	return string(digits)
}
