package playlist

// Playlist holds an ordered collection of validated tracks.
// A Playlist is never edited after construction; the queue swaps in a new
// one when the user plays a different list.
type Playlist struct {
	tracks []Track
}

// NewPlaylist keeps the valid tracks in their original order.
// It returns the playlist and the number of tracks rejected.
func NewPlaylist(tracks []Track) (*Playlist, int) {
	valid := make([]Track, 0, len(tracks))
	rejected := 0
	for i := range tracks {
		if tracks[i].Validate() != nil {
			rejected++
			continue
		}
		valid = append(valid, tracks[i])
	}
	return &Playlist{tracks: valid}, rejected
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at the given index, or nil if out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	t := p.tracks[index]
	return &t
}

// IndexOf returns the position of the track with the given ID, or -1.
func (p *Playlist) IndexOf(id string) int {
	for i := range p.tracks {
		if p.tracks[i].ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}
