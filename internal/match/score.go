package match

import (
	"strings"

	"github.com/wenslauce/Music-Wave/internal/playlist"
)

const (
	// ExactPoints is awarded per category for an exact normalized match.
	ExactPoints = 100
	// PartialPoints is awarded per category when one string contains the other.
	PartialPoints = 50
	// MaxScore is a perfect title and artist match.
	MaxScore = 2 * ExactPoints
	// Threshold is the lowest score a candidate needs to be used.
	Threshold = PartialPoints
)

// Candidate is the part of an alternate-catalog song the scorer looks at.
type Candidate struct {
	Title   string
	Artists []string
}

// Score rates how well c matches t, from 0 to MaxScore.
// Title and artist each contribute at most once: exact beats containment.
func Score(t playlist.Track, c Candidate) int {
	title := NormalizeTitle(t.Title)
	artist := NormalizeArtist(t.Artist.Name)

	score := 0
	candTitle := NormalizeTitle(c.Title)
	switch {
	case exact(title, candTitle):
		score += ExactPoints
	case contains(title, candTitle):
		score += PartialPoints
	}

	artists := make([]string, 0, len(c.Artists))
	for _, a := range c.Artists {
		artists = append(artists, NormalizeArtist(a))
	}
	switch {
	case anyMatch(artist, artists, exact):
		score += ExactPoints
	case anyMatch(artist, artists, contains):
		score += PartialPoints
	}

	return score
}

// Best returns the index and score of the best candidate, scanning in the
// given order. The first candidate with the highest score wins and a
// perfect score ends the scan. ok is false when nothing reaches Threshold.
func Best(t playlist.Track, candidates []Candidate) (index, score int, ok bool) {
	index = -1
	for i := range candidates {
		s := Score(t, candidates[i])
		if s > score {
			index, score = i, s
		}
		if s == MaxScore {
			break
		}
	}
	return index, score, index >= 0 && score >= Threshold
}

// exact and contains never match an empty string.
func exact(a, b string) bool {
	return a != "" && a == b
}

func contains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func anyMatch(s string, list []string, fn func(a, b string) bool) bool {
	for _, item := range list {
		if fn(s, item) {
			return true
		}
	}
	return false
}
