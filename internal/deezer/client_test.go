package deezer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithRateLimit(0)}, opts...)
	c := New(srv.URL+"/", opts...)
	c.retryDelay = time.Millisecond
	return c
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mapCache) Set(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = data
}

func TestNew_Defaults(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, 10*time.Second, c.httpClient.Timeout)
	assert.Equal(t, initialDelay, c.retryDelay)
}

func TestSearch_Track(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search/track", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "daft punk", r.URL.Query().Get("q"))
		assert.Contains(t, r.Header.Get("User-Agent"), "musicwave")
		fmt.Fprint(w, `{"data":[{"id":3135556,"title":"Harder, Better, Faster, Stronger","duration":224,
			"preview":"https://cdn/preview.mp3","artist":{"id":27,"name":"Daft Punk"},
			"album":{"id":302127,"title":"Discovery","cover_small":"s","cover_medium":"m","cover_big":"b"},"type":"track"}],"total":1}`)
	})
	c := newTestClient(t, mux)

	res, err := c.Search(context.Background(), "  daft punk ", FilterTrack)
	require.NoError(t, err)
	require.Len(t, res.Tracks, 1)
	assert.Empty(t, res.Artists)

	tr := res.Tracks[0].ToTrack()
	assert.Equal(t, "3135556", tr.ID)
	assert.Equal(t, "Harder, Better, Faster, Stronger", tr.Title)
	assert.Equal(t, "Daft Punk", tr.Artist.Name)
	assert.Equal(t, "27", tr.Artist.ID)
	assert.Equal(t, "Discovery", tr.Album.Title)
	assert.Equal(t, 224*time.Second, tr.Duration)
	assert.Equal(t, "https://cdn/preview.mp3", tr.PreviewURL)
	assert.Equal(t, "b", tr.Artwork.Best())
	assert.NoError(t, tr.Validate())
}

func TestSearch_AllGroupsByType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[
			{"id":1,"title":"T","type":"track","artist":{"id":2,"name":"A"},"album":{"id":3,"title":"B"}},
			{"id":2,"name":"A","type":"artist"},
			{"id":3,"title":"B","type":"album"},
			{"id":4,"title":"P","type":"playlist","user":{"id":9,"name":"someone"}},
			{"id":5,"title":"Podcast","type":"podcast"}
		]}`)
	})
	c := newTestClient(t, mux)

	res, err := c.Search(context.Background(), "x", FilterAll)
	require.NoError(t, err)
	assert.Len(t, res.Tracks, 1)
	assert.Len(t, res.Artists, 1)
	assert.Len(t, res.Albums, 1)
	require.Len(t, res.Playlists, 1)
	assert.Equal(t, "someone", res.Playlists[0].Owner())
}

func TestSearch_EmptyQuery(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	res, err := c.Search(context.Background(), "   ", FilterAll)
	require.NoError(t, err)
	assert.Empty(t, res.Tracks)
	assert.Zero(t, hits.Load())
}

func TestAlbum_TracksInheritAlbum(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/album/302127", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":302127,"title":"Discovery","cover_big":"big","nb_tracks":2,
			"tracks":{"data":[
				{"id":1,"title":"One More Time","duration":320,"artist":{"id":27,"name":"Daft Punk"}},
				{"id":2,"title":"Aerodynamic","duration":212,"artist":{"id":27,"name":"Daft Punk"}}
			]}}`)
	})
	c := newTestClient(t, mux)

	a, err := c.Album(context.Background(), 302127)
	require.NoError(t, err)
	assert.Equal(t, 2, a.NbTracks)

	tracks := AlbumTracks(a)
	require.Len(t, tracks, 2)
	for _, tr := range tracks {
		assert.Equal(t, "Discovery", tr.Album.Title)
		assert.Equal(t, "302127", tr.Album.ID)
		assert.Equal(t, "big", tr.Artwork.Large)
		assert.NoError(t, tr.Validate())
	}
}

func TestAlbumTracks_Nil(t *testing.T) {
	assert.Nil(t, AlbumTracks(nil))
	assert.Nil(t, AlbumTracks(&Album{ID: 1}))
}

func TestToTrack_MissingFieldsInvalid(t *testing.T) {
	tr := Track{ID: 1, Title: "Untitled"}.ToTrack()
	assert.Empty(t, tr.Artist.ID)
	assert.Error(t, tr.Validate())
}

func TestGet_APIErrorNotFound(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"error":{"type":"DataException","message":"no data","code":800}}`)
	}))

	_, err := c.Artist(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "DataException", apiErr.Type)
	assert.Equal(t, int32(1), hits.Load(), "data errors are not retried")
}

func TestGet_HTTPNotFound(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.Playlist(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"id":5,"name":"Genre"}`)
	}))

	g, err := c.Genre(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Genre", g.Name)
	assert.Equal(t, int32(3), hits.Load())
}

func TestGet_RetriesQuotaErrors(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			fmt.Fprint(w, `{"error":{"type":"Exception","message":"Quota limit exceeded","code":4}}`)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":1,"name":"Pop"}]}`)
	}))

	genres, err := c.Genres(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 1)
	assert.Equal(t, int32(2), hits.Load())
}

func TestGet_GivesUpAfterMaxRetries(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.TopRadios(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 4 attempts")
	assert.Equal(t, int32(maxRetries+1), hits.Load())
}

func TestGet_ClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.Charts(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestGet_UsesCache(t *testing.T) {
	var hits atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"data":[{"id":7,"title":"Fresh"}]}`)
	}), WithCache(&mapCache{}))

	for range 3 {
		albums, err := c.NewReleases(context.Background())
		require.NoError(t, err)
		require.Len(t, albums, 1)
		assert.Equal(t, "Fresh", albums[0].Title)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestGet_CorruptCacheEntryRefetched(t *testing.T) {
	cache := &mapCache{}
	cache.Set("/genre/1", []byte("not json"))
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":1,"name":"Rock"}`)
	}), WithCache(cache))

	g, err := c.Genre(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Rock", g.Name)

	data, _ := cache.Get("/genre/1")
	assert.JSONEq(t, `{"id":1,"name":"Rock"}`, string(data))
}

func TestGet_ErrorsAreNotCached(t *testing.T) {
	cache := &mapCache{}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"type":"DataException","message":"no data","code":800}}`)
	}), WithCache(cache))

	_, err := c.Genre(context.Background(), 1)
	require.Error(t, err)
	_, ok := cache.Get("/genre/1")
	assert.False(t, ok)
}

func TestArtistOverview(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/artist/27", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":27,"name":"Daft Punk","nb_fan":100}`)
	})
	mux.HandleFunc("/artist/27/top", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":1,"title":"Get Lucky"},{"id":2,"title":"Around the World"}]}`)
	})
	mux.HandleFunc("/artist/27/albums", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":10,"title":"Discovery"}]}`)
	})
	c := newTestClient(t, mux)

	ov, err := c.ArtistOverview(context.Background(), 27)
	require.NoError(t, err)
	assert.Equal(t, "Daft Punk", ov.Artist.Name)
	assert.Len(t, ov.TopTracks, 2)
	assert.Len(t, ov.Albums, 1)
}

func TestArtistOverview_FailsWhenAnyPartFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/artist/27", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":27,"name":"Daft Punk"}`)
	})
	mux.HandleFunc("/artist/27/top", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":{"type":"DataException","message":"no data","code":800}}`)
	})
	mux.HandleFunc("/artist/27/albums", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	})
	c := newTestClient(t, mux)

	_, err := c.ArtistOverview(context.Background(), 27)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEndpointPaths(t *testing.T) {
	var got []string
	var mu sync.Mutex
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.URL.Path)
		mu.Unlock()
		fmt.Fprint(w, `{"data":[]}`)
	}))
	ctx := context.Background()

	calls := []func() error{
		func() error { _, err := c.ArtistTopTracks(ctx, 1); return err },
		func() error { _, err := c.ArtistAlbums(ctx, 1); return err },
		func() error { _, err := c.EditorialCharts(ctx); return err },
		func() error { _, err := c.RegionalChart(ctx, RegionKenya); return err },
		func() error { _, err := c.EditorialSelections(ctx); return err },
		func() error { _, err := c.EditorialReleases(ctx); return err },
		func() error { _, err := c.GenreArtists(ctx, 132); return err },
		func() error { _, err := c.GenrePlaylists(ctx, 132); return err },
		func() error { _, err := c.GenreAlbums(ctx, 132); return err },
		func() error { _, err := c.Search(ctx, "q", FilterArtist); return err },
		func() error { _, err := c.Search(ctx, "q", FilterAlbum); return err },
		func() error { _, err := c.Search(ctx, "q", FilterPlaylist); return err },
	}
	for _, call := range calls {
		require.NoError(t, call())
	}

	assert.Equal(t, []string{
		"/artist/1/top",
		"/artist/1/albums",
		"/editorial/0/charts",
		"/editorial/341/charts",
		"/editorial/0/selections",
		"/editorial/0/releases",
		"/genre/132/artists",
		"/genre/132/playlists",
		"/genre/132/albums",
		"/search/artist",
		"/search/album",
		"/search/playlist",
	}, got)
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "all", FilterAll.String())
	assert.Equal(t, "track", FilterTrack.String())
	assert.Equal(t, "playlist", FilterPlaylist.String())
}
