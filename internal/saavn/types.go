package saavn

import "html"

// DownloadURL is one encoding of a song offered by the catalog.
type DownloadURL struct {
	Quality string `json:"quality"` // e.g. "320kbps"
	URL     string `json:"url"`
}

// ArtistRef is an artist credited on a song.
type ArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Song is a search hit. It only lives for one resolution.
type Song struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Duration     *int          `json:"duration"`
	DownloadURLs []DownloadURL `json:"downloadUrl"`
	Artists      struct {
		Primary []ArtistRef `json:"primary"`
	} `json:"artists"`
	Album *struct {
		ID   *string `json:"id"`
		Name *string `json:"name"`
	} `json:"album"`
}

// PrimaryArtists returns the names of the primary artists.
func (s *Song) PrimaryArtists() []string {
	names := make([]string, 0, len(s.Artists.Primary))
	for _, a := range s.Artists.Primary {
		names = append(names, html.UnescapeString(a.Name))
	}
	return names
}

// Title returns the song name with HTML entities decoded.
func (s *Song) Title() string {
	return html.UnescapeString(s.Name)
}

type searchResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		Total   int    `json:"total"`
		Start   int    `json:"start"`
		Results []Song `json:"results"`
	} `json:"data"`
}
