package notify

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenslauce/Music-Wave/internal/playback"
)

var _ playback.Surface = (*Surface)(nil)

type sentNotice struct {
	method   string
	replaces uint32
	icon     string
	summary  string
	body     string
	hints    map[string]dbus.Variant
	id       uint32
}

// recordingBus stands in for the notification server.
type recordingBus struct {
	mu     sync.Mutex
	nextID uint32
	err    error
	closed []uint32
	got    chan sentNotice
}

func newRecordingBus() *recordingBus {
	return &recordingBus{nextID: 7, got: make(chan sentNotice, 8)}
}

func (b *recordingBus) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...any) *dbus.Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	if method == closeMethod {
		b.closed = append(b.closed, args[0].(uint32))
		return &dbus.Call{}
	}
	n := sentNotice{
		method:   method,
		replaces: args[1].(uint32),
		icon:     args[2].(string),
		summary:  args[3].(string),
		body:     args[4].(string),
		hints:    args[6].(map[string]dbus.Variant),
	}
	if b.err != nil {
		b.got <- n
		return &dbus.Call{Err: b.err}
	}
	n.id = b.nextID
	b.got <- n
	return &dbus.Call{Body: []any{b.nextID}}
}

func (b *recordingBus) setErr(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

func receive(t *testing.T, ch <-chan sentNotice) sentNotice {
	t.Helper()
	select {
	case n := <-ch:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("no notification sent")
		return sentNotice{}
	}
}

func startSurface(t *testing.T, s *Surface) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	stop := func() {
		cancel()
		<-done
	}
	t.Cleanup(stop)
	return stop
}

func TestSurface_NotifiesAndReplaces(t *testing.T) {
	bus := newRecordingBus()
	s := newSurface(bus, nil, nil)
	startSurface(t, s)

	s.SetNowPlaying(playback.NowPlaying{Title: "One More Time", Artist: "Daft Punk", Album: "Discovery"})
	first := receive(t, bus.got)
	assert.Equal(t, notifyMethod, first.method)
	assert.Equal(t, "One More Time", first.summary)
	assert.Equal(t, "Daft Punk - Discovery", first.body)
	assert.Equal(t, appIcon, first.icon)
	assert.Equal(t, trackCategory, first.hints["category"].Value())
	assert.Equal(t, urgencyLow, first.hints["urgency"].Value())
	assert.NotContains(t, first.hints, "image-path")
	assert.Zero(t, first.replaces)

	s.SetNowPlaying(playback.NowPlaying{Title: "Aerodynamic", Artist: "Daft Punk"})
	second := receive(t, bus.got)
	assert.Equal(t, "Daft Punk", second.body)
	assert.Equal(t, uint32(7), second.replaces)
}

func TestSurface_ErrorKeepsPreviousID(t *testing.T) {
	bus := newRecordingBus()
	s := newSurface(bus, nil, nil)
	startSurface(t, s)

	s.SetNowPlaying(playback.NowPlaying{Title: "A"})
	receive(t, bus.got)

	bus.setErr(errors.New("server gone"))
	s.SetNowPlaying(playback.NowPlaying{Title: "B"})
	receive(t, bus.got)

	bus.setErr(nil)
	s.SetNowPlaying(playback.NowPlaying{Title: "C"})
	third := receive(t, bus.got)
	assert.Equal(t, uint32(7), third.replaces)
}

func TestSurface_WithdrawsOnStop(t *testing.T) {
	bus := newRecordingBus()
	s := newSurface(bus, nil, nil)
	stop := startSurface(t, s)

	s.SetNowPlaying(playback.NowPlaying{Title: "A"})
	receive(t, bus.got)
	stop()

	bus.mu.Lock()
	defer bus.mu.Unlock()
	assert.Equal(t, []uint32{7}, bus.closed)
}

func TestSurface_NothingToWithdraw(t *testing.T) {
	bus := newRecordingBus()
	s := newSurface(bus, nil, nil)
	stop := startSurface(t, s)
	stop()

	bus.mu.Lock()
	defer bus.mu.Unlock()
	assert.Empty(t, bus.closed)
}

func TestSurface_AttachesArtwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{0xFF, 0xD8, 0xFF})
	}))
	defer srv.Close()

	bus := newRecordingBus()
	s := newSurface(bus, NewArtwork(t.TempDir(), srv.Client(), nil), nil)
	startSurface(t, s)

	s.SetNowPlaying(playback.NowPlaying{Title: "A", ArtworkURL: srv.URL + "/cover/500x500-000000-80-0-0.jpg"})
	got := receive(t, bus.got)
	require.Contains(t, got.hints, "image-path")
	imgPath, ok := got.hints["image-path"].Value().(string)
	require.True(t, ok)
	data, err := os.ReadFile(imgPath)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data)
}

func TestSurface_ArtworkFailureStillNotifies(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	bus := newRecordingBus()
	s := newSurface(bus, NewArtwork(t.TempDir(), srv.Client(), nil), nil)
	startSurface(t, s)

	s.SetNowPlaying(playback.NowPlaying{Title: "A", ArtworkURL: srv.URL + "/missing.jpg"})
	got := receive(t, bus.got)
	assert.Equal(t, "A", got.summary)
	assert.NotContains(t, got.hints, "image-path")
}

func TestArtwork_FetchCaches(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	a := NewArtwork(dir, srv.Client(), nil)
	url := srv.URL + "/images/cover.png?size=big"

	p1, err := a.Fetch(context.Background(), url)
	require.NoError(t, err)
	p2, err := a.Fetch(context.Background(), url)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
	assert.Equal(t, dir, filepath.Dir(p1))
	assert.Equal(t, ".png", filepath.Ext(p1))
	assert.Equal(t, int32(1), hits.Load())
}

func TestArtwork_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, maxArtworkSize+1))
	}))
	defer srv.Close()

	dir := t.TempDir()
	a := NewArtwork(dir, srv.Client(), nil)

	_, err := a.Fetch(context.Background(), srv.URL+"/huge.jpg")
	require.Error(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestArtwork_EmptyURL(t *testing.T) {
	a := NewArtwork(t.TempDir(), nil, nil)
	_, err := a.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestArtworkFileName(t *testing.T) {
	tests := []struct {
		url string
		ext string
	}{
		{"https://cdn/a.jpg", ".jpg"},
		{"https://cdn/a.JPEG", ".jpeg"},
		{"https://cdn/a.webp?x=1", ".webp"},
		{"https://cdn/cover", ".jpg"},
		{"https://cdn/a.gif", ".jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.ext, filepath.Ext(artworkFileName(tt.url)))
		})
	}
	assert.NotEqual(t, artworkFileName("https://cdn/a.jpg"), artworkFileName("https://cdn/b.jpg"))
}

func TestTrackBody(t *testing.T) {
	assert.Equal(t, "A - B", trackBody(playback.NowPlaying{Artist: "A", Album: "B"}))
	assert.Equal(t, "A", trackBody(playback.NowPlaying{Artist: "A"}))
	assert.Equal(t, "B", trackBody(playback.NowPlaying{Album: "B"}))
}

func TestThumbnail(t *testing.T) {
	encode := func(w, h int) []byte {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, img))
		return buf.Bytes()
	}

	t.Run("large image is scaled", func(t *testing.T) {
		out := thumbnail(encode(1000, 500))
		img, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, thumbnailSize, img.Bounds().Dx())
		assert.Equal(t, thumbnailSize/2, img.Bounds().Dy())
	})

	t.Run("small image unchanged", func(t *testing.T) {
		in := encode(100, 100)
		assert.Equal(t, in, thumbnail(in))
	})

	t.Run("undecodable data unchanged", func(t *testing.T) {
		in := []byte("not an image")
		assert.Equal(t, in, thumbnail(in))
	})
}
