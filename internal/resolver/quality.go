package resolver

import (
	"net/url"
	"path"
	"strings"

	"github.com/wenslauce/Music-Wave/internal/saavn"
)

// DefaultQualities lists tiers from best to worst.
var DefaultQualities = []string{"320", "160", "96", "48", "12"}

// DefaultContainer is the preferred file format of the top tier.
const DefaultContainer = "mp4"

// tierMarker strips a "kbps" suffix so "320kbps" and "320" compare equal.
func tierMarker(quality string) string {
	q := strings.ToLower(strings.TrimSpace(quality))
	return strings.TrimSuffix(q, "kbps")
}

func urlPath(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Path
	}
	return rawURL
}

// hasContainer reports whether the URL path ends in ".<container>".
func hasContainer(rawURL, container string) bool {
	return strings.EqualFold(strings.TrimPrefix(path.Ext(urlPath(rawURL)), "."), container)
}

// namesTier reports whether the URL's file name carries the tier suffix,
// as in "abc_320.mp4". Markers elsewhere in the URL are ignored.
func namesTier(rawURL, marker string) bool {
	name := strings.ToLower(path.Base(urlPath(rawURL)))
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.HasSuffix(name, "_"+marker)
}

// rankURLs orders a song's download URLs by preference:
//  1. top tier in the preferred container,
//  2. any entry labeled top tier or whose file name carries its marker,
//  3. remaining entries tier by tier in descending order,
//  4. the first listed URL.
//
// Duplicates and empty URLs are dropped. Probing walks this list so each
// failure steps down one tier.
func rankURLs(urls []saavn.DownloadURL, qualities []string, container string) []saavn.DownloadURL {
	if len(urls) == 0 || len(qualities) == 0 {
		return firstNonEmpty(urls)
	}

	var ranked []saavn.DownloadURL
	seen := make(map[string]bool)
	add := func(d saavn.DownloadURL) {
		if d.URL == "" || seen[d.URL] {
			return
		}
		seen[d.URL] = true
		ranked = append(ranked, d)
	}

	top := tierMarker(qualities[0])
	for _, d := range urls {
		if tierMarker(d.Quality) == top && hasContainer(d.URL, container) {
			add(d)
		}
	}
	for _, d := range urls {
		if tierMarker(d.Quality) == top || namesTier(d.URL, top) {
			add(d)
		}
	}
	for _, q := range qualities {
		marker := tierMarker(q)
		for _, d := range urls {
			if tierMarker(d.Quality) == marker {
				add(d)
			}
		}
	}
	if len(ranked) == 0 {
		return firstNonEmpty(urls)
	}
	return ranked
}

func firstNonEmpty(urls []saavn.DownloadURL) []saavn.DownloadURL {
	for _, d := range urls {
		if d.URL != "" {
			return []saavn.DownloadURL{d}
		}
	}
	return nil
}
