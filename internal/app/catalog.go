package app

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/wenslauce/Music-Wave/internal/deezer"
	"github.com/wenslauce/Music-Wave/internal/errmsg"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/ui/results"
)

const catalogTimeout = 15 * time.Second

// chartsCmd loads the start page.
func (m Model) chartsCmd(seq int) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		chart, err := catalog.Charts(ctx)
		if err != nil {
			return CatalogErrorMsg{Op: errmsg.OpCatalogCharts, Err: err, Seq: seq}
		}
		return PageMsg{Title: "Top charts", Items: chartItems(chart), Seq: seq}
	}
}

// searchCmd runs a catalog search for query.
func (m Model) searchCmd(query string, seq int) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		res, err := catalog.Search(ctx, query, deezer.FilterAll)
		if err != nil {
			return CatalogErrorMsg{Op: errmsg.OpCatalogSearch, Subject: query, Err: err, Seq: seq}
		}
		return PageMsg{Title: "Search: " + query, Items: searchItems(res), Seq: seq}
	}
}

// openCmd loads the page behind an album, artist or playlist item.
func (m Model) openCmd(it results.Item, seq int) tea.Cmd {
	catalog := m.catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), catalogTimeout)
		defer cancel()

		switch it.Kind {
		case results.KindAlbum:
			album, err := catalog.Album(ctx, it.ID)
			if err != nil {
				return CatalogErrorMsg{Op: errmsg.OpOpenAlbum, Subject: it.Title, Err: err, Seq: seq}
			}
			return PageMsg{Title: "Album: " + album.Title, Items: albumItems(album), Push: true, Seq: seq}
		case results.KindArtist:
			ov, err := catalog.ArtistOverview(ctx, it.ID)
			if err != nil {
				return CatalogErrorMsg{Op: errmsg.OpOpenArtist, Subject: it.Title, Err: err, Seq: seq}
			}
			return PageMsg{Title: "Artist: " + ov.Artist.Name, Items: artistItems(ov), Push: true, Seq: seq}
		case results.KindPlaylist:
			pl, err := catalog.Playlist(ctx, it.ID)
			if err != nil {
				return CatalogErrorMsg{Op: errmsg.OpOpenPlaylist, Subject: it.Title, Err: err, Seq: seq}
			}
			return PageMsg{Title: "Playlist: " + pl.Title, Items: playlistItems(pl), Push: true, Seq: seq}
		default:
			return nil
		}
	}
}

func trackItems(tracks []deezer.Track) []results.Item {
	converted := deezer.Tracks(tracks)
	items := make([]results.Item, len(converted))
	for i := range converted {
		items[i] = trackItem(&converted[i])
	}
	return items
}

func albumItems(a *deezer.Album) []results.Item {
	converted := deezer.AlbumTracks(a)
	items := make([]results.Item, len(converted))
	for i := range converted {
		items[i] = trackItem(&converted[i])
	}
	return items
}

func artistItems(ov *deezer.ArtistOverview) []results.Item {
	items := trackItems(ov.TopTracks)
	for _, a := range ov.Albums {
		items = append(items, albumItem(a))
	}
	return items
}

func playlistItems(p *deezer.Playlist) []results.Item {
	if p.Tracks == nil {
		return nil
	}
	return trackItems(p.Tracks.Data)
}

func searchItems(res *deezer.SearchResult) []results.Item {
	items := trackItems(res.Tracks)
	for _, a := range res.Artists {
		items = append(items, artistItem(a))
	}
	for _, a := range res.Albums {
		items = append(items, albumItem(a))
	}
	for _, p := range res.Playlists {
		items = append(items, playlistItem(p))
	}
	return items
}

func chartItems(c *deezer.Chart) []results.Item {
	items := trackItems(c.Tracks.Data)
	for _, a := range c.Albums.Data {
		items = append(items, albumItem(a))
	}
	for _, a := range c.Artists.Data {
		items = append(items, artistItem(a))
	}
	for _, p := range c.Playlists.Data {
		items = append(items, playlistItem(p))
	}
	return items
}

func trackItem(t *playlist.Track) results.Item {
	return results.Item{
		Kind:     results.KindTrack,
		Title:    t.Title,
		Subtitle: t.Artist.Name,
		Duration: t.Duration,
		Track:    t,
	}
}

func albumItem(a deezer.Album) results.Item {
	sub := ""
	if a.Artist != nil {
		sub = a.Artist.Name
	}
	return results.Item{Kind: results.KindAlbum, ID: a.ID, Title: a.Title, Subtitle: sub}
}

func artistItem(a deezer.Artist) results.Item {
	sub := ""
	if a.NbFan > 0 {
		sub = humanize.Comma(int64(a.NbFan)) + " fans"
	}
	return results.Item{Kind: results.KindArtist, ID: a.ID, Title: a.Name, Subtitle: sub}
}

func playlistItem(p deezer.Playlist) results.Item {
	sub := p.Owner()
	if p.NbTracks > 0 {
		if sub != "" {
			sub += " · "
		}
		sub += fmt.Sprintf("%d tracks", p.NbTracks)
	}
	return results.Item{Kind: results.KindPlaylist, ID: p.ID, Title: p.Title, Subtitle: sub}
}
