package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Filter restricts a search to one kind of item.
type Filter int

const (
	FilterAll Filter = iota
	FilterTrack
	FilterArtist
	FilterAlbum
	FilterPlaylist
)

func (f Filter) String() string {
	switch f {
	case FilterTrack:
		return "track"
	case FilterArtist:
		return "artist"
	case FilterAlbum:
		return "album"
	case FilterPlaylist:
		return "playlist"
	default:
		return "all"
	}
}

// Editorial chart regions.
const (
	RegionWorldwide int64 = 0
	RegionUS        int64 = 23
	RegionUK        int64 = 67
	RegionKenya     int64 = 341
)

// Search returns items matching query. FilterAll queries the general search
// endpoint and groups hits by their type.
func (c *Client) Search(ctx context.Context, query string, filter Filter) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{}, nil
	}
	params := url.Values{"q": {query}}

	var res SearchResult
	var err error
	switch filter {
	case FilterTrack:
		res.Tracks, err = list[Track](ctx, c, "/search/track", params)
	case FilterArtist:
		res.Artists, err = list[Artist](ctx, c, "/search/artist", params)
	case FilterAlbum:
		res.Albums, err = list[Album](ctx, c, "/search/album", params)
	case FilterPlaylist:
		res.Playlists, err = list[Playlist](ctx, c, "/search/playlist", params)
	default:
		err = c.searchAll(ctx, params, &res)
	}
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", filter, err)
	}
	return &res, nil
}

func (c *Client) searchAll(ctx context.Context, params url.Values, res *SearchResult) error {
	var page Page[json.RawMessage]
	if err := c.get(ctx, "/search", params, &page); err != nil {
		return err
	}
	for _, raw := range page.Data {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			continue
		}
		var err error
		switch head.Type {
		case "track", "":
			var t Track
			if err = json.Unmarshal(raw, &t); err == nil {
				res.Tracks = append(res.Tracks, t)
			}
		case "artist":
			var a Artist
			if err = json.Unmarshal(raw, &a); err == nil {
				res.Artists = append(res.Artists, a)
			}
		case "album":
			var a Album
			if err = json.Unmarshal(raw, &a); err == nil {
				res.Albums = append(res.Albums, a)
			}
		case "playlist":
			var p Playlist
			if err = json.Unmarshal(raw, &p); err == nil {
				res.Playlists = append(res.Playlists, p)
			}
		}
		if err != nil {
			c.logger.Debug("skipping undecodable search hit", "type", head.Type, "err", err)
		}
	}
	return nil
}

// Album returns an album with its track listing.
func (c *Client) Album(ctx context.Context, id int64) (*Album, error) {
	return one[Album](ctx, c, fmt.Sprintf("/album/%d", id))
}

// Artist returns an artist.
func (c *Client) Artist(ctx context.Context, id int64) (*Artist, error) {
	return one[Artist](ctx, c, fmt.Sprintf("/artist/%d", id))
}

// Playlist returns a playlist with its track listing.
func (c *Client) Playlist(ctx context.Context, id int64) (*Playlist, error) {
	return one[Playlist](ctx, c, fmt.Sprintf("/playlist/%d", id))
}

// ArtistTopTracks returns an artist's most popular tracks.
func (c *Client) ArtistTopTracks(ctx context.Context, id int64) ([]Track, error) {
	return list[Track](ctx, c, fmt.Sprintf("/artist/%d/top", id), nil)
}

// ArtistAlbums returns an artist's albums.
func (c *Client) ArtistAlbums(ctx context.Context, id int64) ([]Album, error) {
	return list[Album](ctx, c, fmt.Sprintf("/artist/%d/albums", id), nil)
}

// ArtistOverview fetches an artist, its top tracks and its albums
// concurrently. The first failure cancels the remaining requests.
func (c *Client) ArtistOverview(ctx context.Context, id int64) (*ArtistOverview, error) {
	var ov ArtistOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a, err := c.Artist(gctx, id)
		ov.Artist = a
		return err
	})
	g.Go(func() error {
		tracks, err := c.ArtistTopTracks(gctx, id)
		ov.TopTracks = tracks
		return err
	})
	g.Go(func() error {
		albums, err := c.ArtistAlbums(gctx, id)
		ov.Albums = albums
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("artist %d overview: %w", id, err)
	}
	return &ov, nil
}

// Charts returns the worldwide charts.
func (c *Client) Charts(ctx context.Context) (*Chart, error) {
	return one[Chart](ctx, c, "/chart")
}

// NewReleases returns the chart of new albums.
func (c *Client) NewReleases(ctx context.Context) ([]Album, error) {
	return list[Album](ctx, c, "/chart/0/albums", nil)
}

// EditorialCharts returns the editorial worldwide charts.
func (c *Client) EditorialCharts(ctx context.Context) (*Chart, error) {
	return c.RegionalChart(ctx, RegionWorldwide)
}

// RegionalChart returns the editorial charts for a region.
func (c *Client) RegionalChart(ctx context.Context, regionID int64) (*Chart, error) {
	return one[Chart](ctx, c, fmt.Sprintf("/editorial/%d/charts", regionID))
}

// EditorialSelections returns the editors' album picks.
func (c *Client) EditorialSelections(ctx context.Context) ([]Album, error) {
	return list[Album](ctx, c, "/editorial/0/selections", nil)
}

// EditorialReleases returns the editors' new releases.
func (c *Client) EditorialReleases(ctx context.Context) ([]Album, error) {
	return list[Album](ctx, c, "/editorial/0/releases", nil)
}

// TopRadios returns the most popular radios.
func (c *Client) TopRadios(ctx context.Context) ([]Radio, error) {
	return list[Radio](ctx, c, "/radio/top", nil)
}

// Genres returns all browse genres.
func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	return list[Genre](ctx, c, "/genre", nil)
}

// Genre returns one genre.
func (c *Client) Genre(ctx context.Context, id int64) (*Genre, error) {
	return one[Genre](ctx, c, fmt.Sprintf("/genre/%d", id))
}

// GenreArtists returns the featured artists of a genre.
func (c *Client) GenreArtists(ctx context.Context, id int64) ([]Artist, error) {
	return list[Artist](ctx, c, fmt.Sprintf("/genre/%d/artists", id), nil)
}

// GenrePlaylists returns the featured playlists of a genre.
func (c *Client) GenrePlaylists(ctx context.Context, id int64) ([]Playlist, error) {
	return list[Playlist](ctx, c, fmt.Sprintf("/genre/%d/playlists", id), nil)
}

// GenreAlbums returns the featured albums of a genre.
func (c *Client) GenreAlbums(ctx context.Context, id int64) ([]Album, error) {
	return list[Album](ctx, c, fmt.Sprintf("/genre/%d/albums", id), nil)
}

func one[T any](ctx context.Context, c *Client, path string) (*T, error) {
	var v T
	if err := c.get(ctx, path, nil, &v); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return &v, nil
}

func list[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	var page Page[T]
	if err := c.get(ctx, path, params, &page); err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return page.Data, nil
}
