package core

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DeriveSlug turns a human title into a filesystem-safe identifier.
// Accents are folded to their base letters before normalization so that
// "Café Ünïcode" and "Cafe Unicode" land on the same slug.
func DeriveSlug(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return "", &InvalidTitleError{Title: title, Reason: "title is empty"}
	}

	// transform chains keep state, so one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, trimmed)
	if err != nil {
		folded = trimmed
	}

	normalized, err := slug.Normalize(folded)
	if err != nil {
		return "", &InvalidTitleError{Title: title, Reason: err.Error()}
	}
	normalized = strings.Trim(normalized, "-_")
	if !IsSafeSlug(normalized) {
		return "", &InvalidTitleError{Title: title, Reason: "title has no addressable characters"}
	}
	return normalized, nil
}

// IsSafeSlug reports whether s can be used as a file name inside the content
// directory without escaping it.
func IsSafeSlug(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	if strings.ContainsAny(s, `/\:*?"<>|`) {
		return false
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}
	return !strings.HasPrefix(s, ".")
}
