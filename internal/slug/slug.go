// Package slug builds the French URL segments used for listing pages,
// e.g. /entreprise/restauration-et-alimentation/montreal/le-filet.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	listingPrefix = "/entreprise"
	maxLength     = 80
	fallback      = "entreprise"
)

var ligatures = strings.NewReplacer("œ", "oe", "Œ", "oe", "æ", "ae", "Æ", "ae", "ß", "ss", "&", " et ")

// Slugify lowercases s, strips accents and joins words with hyphens.
// "Café Olimpico & Fils" becomes "cafe-olimpico-et-fils".
func Slugify(s string) string {
	s = ligatures.Replace(s)
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			hyphen = false
		case b.Len() > 0 && !hyphen:
			b.WriteByte('-')
			hyphen = true
		}
	}

	out := strings.TrimRight(b.String(), "-")
	if len(out) > maxLength {
		out = strings.TrimRight(out[:maxLength], "-")
	}
	return out
}

// ForName slugifies a business name, never returning an empty slug.
func ForName(name string) string {
	if s := Slugify(name); s != "" {
		return s
	}
	return fallback
}

// WithSuffix returns base for n <= 1 and "base-n" otherwise.
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}

// Unique returns the first of base, base-2, base-3... for which taken
// reports false.
func Unique(base string, taken func(candidate string) (bool, error)) (string, error) {
	for n := 1; ; n++ {
		candidate := WithSuffix(base, n)
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
}

// ListingPath composes the public URL of a listing. Missing category or
// city segments fall back to generic ones.
func ListingPath(categorySlug, city, businessSlug string) string {
	category := Slugify(categorySlug)
	if category == "" {
		category = "autres"
	}
	citySlug := Slugify(city)
	if citySlug == "" {
		citySlug = "quebec"
	}
	return strings.Join([]string{listingPrefix, category, citySlug, businessSlug}, "/")
}

// ParseListingPath splits a listing URL back into category, city and slug.
func ParseListingPath(path string) (category, city, businessSlug string, ok bool) {
	rest, found := strings.CutPrefix(path, listingPrefix+"/")
	if !found {
		return "", "", "", false
	}
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// legacyPrefixes are listing URL roots used before /entreprise.
var legacyPrefixes = []string{"/fr/entreprise", "/en/business", "/entreprises", "/business", "/listing"}

// splitListingPath strips a known listing root and returns the remaining
// non-empty segments. legacy reports whether the root was an old one.
func splitListingPath(path string) (segments []string, legacy, ok bool) {
	root := ""
	for _, prefix := range append([]string{listingPrefix}, legacyPrefixes...) {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			root = prefix
			break
		}
	}
	if root == "" {
		return nil, false, false
	}
	for _, part := range strings.Split(strings.TrimPrefix(path, root), "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments, root != listingPrefix, true
}

// ResolveLegacy maps an old or non-canonical listing URL to its current
// path. It covers the former roots (/entreprises, /business, /en/business,
// /fr/entreprise, /listing) and /entreprise paths whose segments are not
// slugified, e.g. /business/Restaurants/Montréal/Le-Filet/ becomes
// /entreprise/restaurants/montreal/le-filet. ok is false for paths that are
// already canonical or not listing paths at all.
func ResolveLegacy(path string) (newPath string, ok bool) {
	segments, legacy, found := splitListingPath(path)
	if !found || len(segments) != 3 {
		return "", false
	}
	category, city, business := Slugify(segments[0]), Slugify(segments[1]), Slugify(segments[2])
	if category == "" || city == "" || business == "" {
		return "", false
	}
	newPath = ListingPath(category, city, business)
	if !legacy && newPath == path {
		return "", false
	}
	return newPath, true
}

// LegacySlug extracts the business slug from the flat one-segment listing
// URLs (/entreprise/le-filet, /business/le-filet). Resolving those needs the
// stored category and city.
func LegacySlug(path string) (string, bool) {
	segments, _, found := splitListingPath(path)
	if !found || len(segments) != 1 {
		return "", false
	}
	s := Slugify(segments[0])
	return s, s != ""
}
