// Package match scores alternate-catalog songs against canonical tracks.
package match

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	bracketRegex    = regexp.MustCompile(`\[[^\]]*\]`)
	parenRegex      = regexp.MustCompile(`\([^)]*\)`)
	featRegex       = regexp.MustCompile(`(^|\s)(feat|ft)\.`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// NormalizeTitle lower-cases a title and drops "[...]" and "(...)"
// segments, which usually carry remix or featuring notes that differ
// between catalogs.
func NormalizeTitle(s string) string {
	s = basicNormalize(s)
	s = bracketRegex.ReplaceAllString(s, " ")
	s = parenRegex.ReplaceAllString(s, " ")
	return collapse(s)
}

// NormalizeArtist lower-cases an artist name, spells "&" as "and" and
// removes "feat." / "ft." tokens.
func NormalizeArtist(s string) string {
	s = basicNormalize(s)
	s = strings.ReplaceAll(s, "&", "and")
	s = featRegex.ReplaceAllString(s, "$1")
	return collapse(s)
}

// Query builds the alternate-catalog search string for a title and artist.
func Query(title, artist string) string {
	return strings.TrimSpace(NormalizeTitle(title) + " " + NormalizeArtist(artist))
}

func basicNormalize(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
