package playback

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/resolver"
	"github.com/wenslauce/Music-Wave/internal/transport"
)

type fakeResolver struct {
	mu      sync.Mutex
	results map[string]resolver.Result
	gates   map[string]chan struct{}
	calls   []string
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{
		results: make(map[string]resolver.Result),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeResolver) Resolve(ctx context.Context, t playlist.Track) resolver.Result {
	f.mu.Lock()
	f.calls = append(f.calls, t.ID)
	res, ok := f.results[t.ID]
	gate := f.gates[t.ID]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return resolver.Result{}
		}
	}
	if !ok {
		return resolver.Result{Kind: resolver.Resolved, URL: streamURL(t.ID), Quality: "320kbps", Score: 200}
	}
	return res
}

func (f *fakeResolver) set(id string, r resolver.Result) {
	f.mu.Lock()
	f.results[id] = r
	f.mu.Unlock()
}

func (f *fakeResolver) block(id string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[id] = gate
	return gate
}

func (f *fakeResolver) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

func streamURL(id string) string  { return "https://aac.example/" + id + "_320.mp4" }
func previewURL(id string) string { return "https://cdn.example/preview/" + id + ".mp3" }

func track(id, title, artist string) playlist.Track {
	return playlist.Track{
		ID:         id,
		Title:      title,
		Artist:     playlist.Artist{Name: artist},
		Album:      playlist.Album{Title: "Album " + id},
		Duration:   30 * time.Second,
		PreviewURL: previewURL(id),
		Artwork:    playlist.Artwork{Medium: "https://img.example/" + id + "/250.jpg"},
	}
}

func twoTracks() []playlist.Track {
	return []playlist.Track{
		track("1", "Song A", "Artist X"),
		track("2", "Song B", "Artist Y"),
	}
}

type harness struct {
	s  *Session
	tr *transport.Mock
	r  *fakeResolver
}

// start runs a session inside the current synctest bubble. The returned
// function stops it and waits for Run to return.
func start(t *testing.T, opts ...Option) (*harness, func()) {
	t.Helper()
	tr := transport.NewMock()
	r := newFakeResolver()
	q := playlist.NewQueue(playlist.WithRand(rand.New(rand.NewPCG(1, 2))))
	s := New(q, tr, r, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()

	return &harness{s: s, tr: tr, r: r}, func() {
		cancel()
		<-errc
	}
}

func (h *harness) snapshot(t *testing.T) Snapshot {
	t.Helper()
	snap, err := h.s.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return snap
}

func (h *harness) playList(t *testing.T, items []playlist.Track, startID string) {
	t.Helper()
	if err := h.s.PlayList(items, startID); err != nil {
		t.Fatalf("PlayList() error = %v", err)
	}
	synctest.Wait()
}

func TestSession_PlayList_StartsFirstTrack(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "")

		snap := h.snapshot(t)
		if snap.State != StatePlaying {
			t.Errorf("State = %v, want Playing", snap.State)
		}
		if snap.Index != 0 {
			t.Errorf("Index = %d, want 0", snap.Index)
		}
		if snap.Source.Kind != resolver.Resolved || snap.Source.Quality != "320kbps" {
			t.Errorf("Source = %+v, want resolved 320kbps", snap.Source)
		}
		if got := h.tr.URL(); got != streamURL("1") {
			t.Errorf("transport URL = %q, want %q", got, streamURL("1"))
		}
		if h.tr.State() != transport.Playing {
			t.Errorf("transport state = %v, want Playing", h.tr.State())
		}
	})
}

func TestSession_PlayList_StartID(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "2")

		snap := h.snapshot(t)
		if snap.Index != 1 || snap.Track == nil || snap.Track.ID != "2" {
			t.Errorf("current = %d %+v, want index 1 track 2", snap.Index, snap.Track)
		}
		if got := h.r.Calls(); !slices.Equal(got, []string{"2"}) {
			t.Errorf("resolver calls = %v, want [2]", got)
		}
	})
}

func TestSession_PlayList_AllInvalid(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		err := h.s.PlayList([]playlist.Track{{ID: "x"}, {Title: "no id"}}, "")
		if !errors.Is(err, playlist.ErrEmptyQueue) {
			t.Fatalf("PlayList() error = %v, want ErrEmptyQueue", err)
		}
		synctest.Wait()

		snap := h.snapshot(t)
		if snap.Index != -1 || snap.Track != nil || snap.State != StateStopped {
			t.Errorf("snapshot = %+v, want empty stopped session", snap)
		}
		if len(h.r.Calls()) != 0 {
			t.Errorf("resolver was called for an empty queue")
		}
	})
}

func TestSession_EndedAdvancesThenStops(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "")

		h.tr.SimulateEnded()
		synctest.Wait()

		snap := h.snapshot(t)
		if snap.Index != 1 || snap.State != StatePlaying {
			t.Fatalf("after first end: index %d state %v, want 1 Playing", snap.Index, snap.State)
		}

		h.tr.SimulateEnded()
		synctest.Wait()

		snap = h.snapshot(t)
		if snap.Index != 1 {
			t.Errorf("Index = %d, want 1 (unchanged at end of queue)", snap.Index)
		}
		if snap.State != StateStopped {
			t.Errorf("State = %v, want Stopped", snap.State)
		}
	})
}

func TestSession_RepeatOneRestartsWithoutResolving(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "")
		if err := h.s.SetRepeatMode(playlist.RepeatOne); err != nil {
			t.Fatal(err)
		}

		h.tr.SimulateEnded()
		synctest.Wait()

		if got := h.r.Calls(); len(got) != 1 {
			t.Errorf("resolver calls = %v, want exactly one", got)
		}
		if got := h.tr.SeekCalls(); !slices.Equal(got, []time.Duration{0}) {
			t.Errorf("seek calls = %v, want [0]", got)
		}
		if got := h.tr.PlayCalls(); got != 2 {
			t.Errorf("play calls = %d, want 2", got)
		}
		if got := h.tr.LoadCalls(); len(got) != 1 {
			t.Errorf("load calls = %v, want one", got)
		}
		snap := h.snapshot(t)
		if snap.Index != 0 || snap.State != StatePlaying {
			t.Errorf("index %d state %v, want 0 Playing", snap.Index, snap.State)
		}
	})
}

func TestSession_RepeatAllWraps(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "2")
		if err := h.s.SetRepeatMode(playlist.RepeatAll); err != nil {
			t.Fatal(err)
		}

		h.tr.SimulateEnded()
		synctest.Wait()

		snap := h.snapshot(t)
		if snap.Index != 0 || snap.State != StatePlaying {
			t.Errorf("index %d state %v, want 0 Playing", snap.Index, snap.State)
		}
	})
}

func TestSession_UnresolvableStopsWithoutAdvancing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()
		sub := h.s.Subscribe()

		h.r.set("1", resolver.Result{Kind: resolver.Unresolvable})
		h.playList(t, twoTracks(), "")

		snap := h.snapshot(t)
		if snap.State != StateStopped {
			t.Errorf("State = %v, want Stopped", snap.State)
		}
		if snap.Index != 0 {
			t.Errorf("Index = %d, want 0 (no auto-advance)", snap.Index)
		}
		if snap.Err == nil || !errors.Is(snap.Err.Err, ErrUnresolvable) {
			t.Fatalf("Err = %+v, want ErrUnresolvable", snap.Err)
		}
		if len(h.tr.LoadCalls()) != 0 {
			t.Errorf("transport loaded %v, want nothing", h.tr.LoadCalls())
		}

		select {
		case ev := <-sub.Error:
			if ev.Message != "Failed to find a stream 'Song A': no playable stream for track" {
				t.Errorf("Message = %q", ev.Message)
			}
			if ev.Track == nil || ev.Track.ID != "1" {
				t.Errorf("Track = %+v, want track 1", ev.Track)
			}
		default:
			t.Error("no error event published")
		}
	})
}

func TestSession_StartFailureRetriesWithPreview(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.tr.SetLoadError(streamURL("1"), errors.New("403 forbidden"))
		h.playList(t, twoTracks(), "")

		snap := h.snapshot(t)
		if snap.State != StatePlaying {
			t.Errorf("State = %v, want Playing", snap.State)
		}
		if !snap.Source.IsPreview() || snap.Source.URL != previewURL("1") {
			t.Errorf("Source = %+v, want preview", snap.Source)
		}
		want := []string{streamURL("1"), previewURL("1")}
		if got := h.tr.LoadCalls(); !slices.Equal(got, want) {
			t.Errorf("load calls = %v, want %v", got, want)
		}
		if snap.Err != nil {
			t.Errorf("Err = %+v, want nil", snap.Err)
		}
	})
}

func TestSession_StartFailureAfterPreviewSurfacesError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.tr.SetPlayError(streamURL("1"), errors.New("device busy"))
		h.tr.SetPlayError(previewURL("1"), errors.New("device busy"))
		h.playList(t, twoTracks(), "")

		snap := h.snapshot(t)
		if snap.State != StateStopped {
			t.Errorf("State = %v, want Stopped", snap.State)
		}
		if snap.Err == nil || !errors.Is(snap.Err.Err, ErrTransportStart) {
			t.Fatalf("Err = %+v, want ErrTransportStart", snap.Err)
		}
		if got := len(h.tr.LoadCalls()); got != 2 {
			t.Errorf("load calls = %d, want 2 (stream then preview)", got)
		}
		if snap.Index != 0 {
			t.Errorf("Index = %d, want 0", snap.Index)
		}
	})
}

func TestSession_PreviewFailureDoesNotRetry(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.r.set("1", resolver.Result{Kind: resolver.FellBackToPreview, URL: previewURL("1")})
		h.tr.SetLoadError(previewURL("1"), errors.New("404"))
		h.playList(t, twoTracks(), "")

		if got := h.tr.LoadCalls(); !slices.Equal(got, []string{previewURL("1")}) {
			t.Errorf("load calls = %v, want only the preview", got)
		}
		snap := h.snapshot(t)
		if snap.Err == nil || !errors.Is(snap.Err.Err, ErrTransportStart) {
			t.Errorf("Err = %+v, want ErrTransportStart", snap.Err)
		}
	})
}

func TestSession_RuntimeErrorFallsBackOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "")

		h.tr.Emit(transport.Event{Kind: transport.Error, Err: errors.New("decoder error")})
		synctest.Wait()

		snap := h.snapshot(t)
		if snap.State != StatePlaying || !snap.Source.IsPreview() {
			t.Fatalf("after first error: state %v source %+v, want playing preview", snap.State, snap.Source)
		}

		h.tr.Emit(transport.Event{Kind: transport.Error, Err: errors.New("decoder error")})
		synctest.Wait()

		snap = h.snapshot(t)
		if snap.State != StateStopped {
			t.Errorf("State = %v, want Stopped", snap.State)
		}
		if snap.Err == nil || !errors.Is(snap.Err.Err, ErrTransportRuntime) {
			t.Errorf("Err = %+v, want ErrTransportRuntime", snap.Err)
		}
		if snap.Index != 0 {
			t.Errorf("Index = %d, want 0", snap.Index)
		}
	})
}

func TestSession_StaleResolutionDiscarded(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		gate := h.r.block("1")
		h.playList(t, twoTracks(), "")

		snap := h.snapshot(t)
		if snap.State != StateLoading {
			t.Fatalf("State = %v, want Loading", snap.State)
		}

		if err := h.s.Next(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()
		close(gate)
		synctest.Wait()

		snap = h.snapshot(t)
		if snap.Index != 1 || snap.State != StatePlaying {
			t.Errorf("index %d state %v, want 1 Playing", snap.Index, snap.State)
		}
		if got := h.tr.LoadCalls(); !slices.Equal(got, []string{streamURL("2")}) {
			t.Errorf("load calls = %v, want only track 2", got)
		}
	})
}

func TestSession_SupersededMetadataIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "")
		gate := h.r.block("2")
		if err := h.s.Next(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()

		h.tr.Emit(transport.Event{Kind: transport.MetadataLoaded, URL: streamURL("1"), Duration: 200 * time.Second})
		synctest.Wait()
		if snap := h.snapshot(t); snap.State != StateLoading || snap.Duration != 0 {
			t.Errorf("state %v duration %v, want Loading 0", snap.State, snap.Duration)
		}

		close(gate)
		synctest.Wait()
		h.tr.Emit(transport.Event{Kind: transport.MetadataLoaded, URL: streamURL("1"), Duration: 200 * time.Second})
		h.tr.Emit(transport.Event{Kind: transport.MetadataLoaded, URL: streamURL("2"), Duration: 90 * time.Second})
		synctest.Wait()
		if d := h.snapshot(t).Duration; d != 90*time.Second {
			t.Errorf("Duration = %v, want 90s", d)
		}
	})
}

func TestSession_ProgressAndSeekPercent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()
		sub := h.s.Subscribe()

		h.tr.SetDuration(200 * time.Second)
		h.playList(t, twoTracks(), "")

		h.tr.Emit(transport.Event{Kind: transport.TimeUpdate, Position: 50 * time.Second, Duration: 200 * time.Second})
		synctest.Wait()

		snap := h.snapshot(t)
		if snap.Progress != 25 {
			t.Errorf("Progress = %v, want 25", snap.Progress)
		}

		var last PositionChange
		for len(sub.PositionChanged) > 0 {
			last = <-sub.PositionChanged
		}
		if last.Percent != 25 {
			t.Errorf("PositionChange.Percent = %v, want 25", last.Percent)
		}

		if err := h.s.SeekPercent(50); err != nil {
			t.Fatal(err)
		}
		if err := h.s.SeekPercent(150); err != nil {
			t.Fatal(err)
		}
		want := []time.Duration{100 * time.Second, 200 * time.Second}
		if got := h.tr.SeekCalls(); !slices.Equal(got, want) {
			t.Errorf("seek calls = %v, want %v", got, want)
		}
		if snap := h.snapshot(t); snap.Progress != 100 {
			t.Errorf("Progress after seek = %v, want 100", snap.Progress)
		}
	})
}

func TestSession_SeekPercentIgnoredWhenStopped(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.tr.SetDuration(200 * time.Second)
		if err := h.s.SeekPercent(50); err != nil {
			t.Fatal(err)
		}
		if got := h.tr.SeekCalls(); len(got) != 0 {
			t.Errorf("seek calls = %v, want none", got)
		}
	})
}

func TestSession_JumpToClearsError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.r.set("1", resolver.Result{Kind: resolver.Unresolvable})
		h.playList(t, twoTracks(), "")
		if h.snapshot(t).Err == nil {
			t.Fatal("expected an error after unresolvable track")
		}

		if err := h.s.JumpTo(1); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()

		snap := h.snapshot(t)
		if snap.Err != nil {
			t.Errorf("Err = %+v, want nil", snap.Err)
		}
		if snap.Index != 1 || snap.State != StatePlaying {
			t.Errorf("index %d state %v, want 1 Playing", snap.Index, snap.State)
		}

		if err := h.s.JumpTo(7); err != nil {
			t.Fatal(err)
		}
		if snap := h.snapshot(t); snap.Index != 1 {
			t.Errorf("out-of-range JumpTo moved to %d", snap.Index)
		}
	})
}

func TestSession_RetryAndClearError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.r.set("1", resolver.Result{Kind: resolver.Unresolvable})
		h.playList(t, twoTracks(), "")

		if err := h.s.ClearError(); err != nil {
			t.Fatal(err)
		}
		if h.snapshot(t).Err != nil {
			t.Error("ClearError() did not reset the error")
		}

		h.r.set("1", resolver.Result{Kind: resolver.Resolved, URL: streamURL("1"), Quality: "160kbps"})
		if err := h.s.Retry(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()

		snap := h.snapshot(t)
		if snap.State != StatePlaying || snap.Source.Quality != "160kbps" {
			t.Errorf("state %v source %+v, want Playing 160kbps", snap.State, snap.Source)
		}
		if got := h.r.Calls(); len(got) != 2 {
			t.Errorf("resolver calls = %v, want 2", got)
		}
	})
}

func TestSession_NavigationBoundaries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		if err := h.s.Next(); err != nil {
			t.Fatalf("Next() on empty queue error = %v", err)
		}
		if err := h.s.Previous(); err != nil {
			t.Fatalf("Previous() on empty queue error = %v", err)
		}

		h.playList(t, twoTracks(), "")

		if err := h.s.Previous(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()
		if snap := h.snapshot(t); snap.Index != 0 || snap.State != StatePlaying {
			t.Errorf("Previous at start: index %d state %v, want 0 Playing", snap.Index, snap.State)
		}

		if err := h.s.Next(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()
		if err := h.s.Previous(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()
		if snap := h.snapshot(t); snap.Index != 0 {
			t.Errorf("Next then Previous: index %d, want 0", snap.Index)
		}

		if err := h.s.JumpTo(1); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()
		if err := h.s.Next(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()
		if snap := h.snapshot(t); snap.Index != 1 || snap.State != StateStopped {
			t.Errorf("Next at end: index %d state %v, want 1 Stopped", snap.Index, snap.State)
		}
	})
}

func TestSession_PauseResume(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "")

		if err := h.s.TogglePause(); err != nil {
			t.Fatal(err)
		}
		if snap := h.snapshot(t); snap.State != StatePaused {
			t.Errorf("State = %v, want Paused", snap.State)
		}
		if h.tr.State() != transport.Paused {
			t.Errorf("transport state = %v, want Paused", h.tr.State())
		}

		// Ended is ignored while paused.
		h.tr.Emit(transport.Event{Kind: transport.Ended})
		synctest.Wait()
		if snap := h.snapshot(t); snap.Index != 0 {
			t.Errorf("Ended while paused advanced to %d", snap.Index)
		}

		if err := h.s.TogglePause(); err != nil {
			t.Fatal(err)
		}
		if snap := h.snapshot(t); snap.State != StatePlaying {
			t.Errorf("State = %v, want Playing", snap.State)
		}
	})
}

func TestSession_PauseWhileLoading(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		gate := h.r.block("1")
		h.playList(t, twoTracks(), "")

		if err := h.s.Pause(); err != nil {
			t.Fatal(err)
		}
		close(gate)
		synctest.Wait()

		if snap := h.snapshot(t); snap.State != StatePaused {
			t.Errorf("State = %v, want Paused", snap.State)
		}
		if got := h.tr.PlayCalls(); got != 0 {
			t.Errorf("play calls = %d, want 0", got)
		}

		if err := h.s.Play(); err != nil {
			t.Fatal(err)
		}
		if snap := h.snapshot(t); snap.State != StatePlaying {
			t.Errorf("State = %v, want Playing", snap.State)
		}
	})
}

func TestSession_StopKeepsPosition(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()

		h.playList(t, twoTracks(), "2")
		if err := h.s.Stop(); err != nil {
			t.Fatal(err)
		}

		snap := h.snapshot(t)
		if snap.State != StateStopped || snap.Index != 1 {
			t.Errorf("state %v index %d, want Stopped 1", snap.State, snap.Index)
		}

		if err := h.s.Play(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()
		if snap := h.snapshot(t); snap.State != StatePlaying || snap.Index != 1 {
			t.Errorf("state %v index %d, want Playing 1", snap.State, snap.Index)
		}
	})
}

func TestSession_Modes(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()
		sub := h.s.Subscribe()

		for i, want := range []playlist.RepeatMode{playlist.RepeatAll, playlist.RepeatOne, playlist.RepeatOff} {
			got, err := h.s.CycleRepeat()
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Errorf("CycleRepeat() #%d = %v, want %v", i+1, got, want)
			}
		}

		on, err := h.s.ToggleShuffle()
		if err != nil || !on {
			t.Fatalf("ToggleShuffle() = %v, %v; want true", on, err)
		}
		if err := h.s.SetShuffle(false); err != nil {
			t.Fatal(err)
		}

		if got := len(sub.ModeChanged); got != 5 {
			t.Errorf("mode events = %d, want 5", got)
		}
		if snap := h.snapshot(t); snap.Shuffle || snap.RepeatMode != playlist.RepeatOff {
			t.Errorf("modes = %v/%v, want Off/false", snap.RepeatMode, snap.Shuffle)
		}
	})
}

func TestSession_VolumeAndMute(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t, WithVolume(0.8))
		defer stop()

		if err := h.s.SetVolume(0.4); err != nil {
			t.Fatal(err)
		}
		if got := h.tr.Volume(); got != 0.4 {
			t.Errorf("transport volume = %v, want 0.4", got)
		}

		muted, err := h.s.ToggleMute()
		if err != nil || !muted {
			t.Fatalf("ToggleMute() = %v, %v; want true", muted, err)
		}
		if !h.tr.Muted() {
			t.Error("transport not muted")
		}

		snap := h.snapshot(t)
		if snap.Volume != 0.4 || !snap.Muted {
			t.Errorf("volume %v muted %v, want 0.4 true", snap.Volume, snap.Muted)
		}
	})
}

func TestSession_NowPlayingPushedOnActivation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got []NowPlaying
		surface := SurfaceFunc(func(np NowPlaying) { got = append(got, np) })

		h, stop := start(t, WithSurface(surface))
		defer stop()

		h.playList(t, twoTracks(), "")
		h.tr.SimulateEnded()
		synctest.Wait()
		h.snapshot(t)

		if len(got) != 2 {
			t.Fatalf("now playing updates = %d, want 2", len(got))
		}
		first := got[0]
		if first.Title != "Song A" || first.Artist != "Artist X" || first.Album != "Album 1" {
			t.Errorf("first update = %+v", first)
		}
		if first.ArtworkURL != "https://img.example/1/250.jpg" {
			t.Errorf("ArtworkURL = %q", first.ArtworkURL)
		}
		if got[1].TrackID != "2" || got[1].Index != 1 {
			t.Errorf("second update = %+v, want track 2 at index 1", got[1])
		}
	})
}

func TestSession_TrackChangeEvents(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, stop := start(t)
		defer stop()
		sub := h.s.Subscribe()

		h.playList(t, twoTracks(), "")
		if err := h.s.Next(); err != nil {
			t.Fatal(err)
		}
		synctest.Wait()

		first := <-sub.TrackChanged
		if first.Previous != nil || first.Current.ID != "1" || first.Index != 0 {
			t.Errorf("first TrackChange = %+v", first)
		}
		second := <-sub.TrackChanged
		if second.Previous == nil || second.Previous.ID != "1" || second.Current.ID != "2" || second.PreviousIndex != 0 {
			t.Errorf("second TrackChange = %+v", second)
		}

		q := <-sub.QueueChanged
		if len(q.Tracks) != 2 || q.Index != 0 {
			t.Errorf("QueueChange = %+v", q)
		}
	})
}

func TestSession_Close(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h, _ := start(t)
		sub := h.s.Subscribe()

		if err := h.s.Close(); err != nil {
			t.Fatal(err)
		}
		<-sub.Done

		if err := h.s.Next(); !errors.Is(err, ErrClosed) {
			t.Errorf("Next() after Close error = %v, want ErrClosed", err)
		}
		if !h.tr.Closed() {
			t.Error("transport was not closed")
		}
		if err := h.s.Close(); err != nil {
			t.Errorf("second Close() error = %v", err)
		}
	})
}
