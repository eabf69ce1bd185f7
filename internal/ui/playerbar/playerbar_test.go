package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/wenslauce/Music-Wave/internal/icons"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/resolver"
)

func testSnapshot() playback.Snapshot {
	return playback.Snapshot{
		State: playback.StatePlaying,
		Track: &playlist.Track{
			ID:     "1",
			Title:  "Blinding Lights",
			Artist: playlist.Artist{Name: "The Weeknd"},
			Album:  playlist.Album{Title: "After Hours"},
		},
		Index:    1,
		QueueLen: 5,
		Source: playback.Source{
			Kind:    resolver.Resolved,
			URL:     "https://aac.example/1_320.mp4",
			Quality: "320kbps",
		},
		Position: 83 * time.Second,
		Duration: 200 * time.Second,
		Progress: 41.5,
		Volume:   0.8,
	}
}

func plain(s string) string {
	return ansi.Strip(s)
}

func TestRender_EmptyWhenNothingCurrent(t *testing.T) {
	s := NewState(playback.Snapshot{Index: -1}, ModeCompact, "")
	if got := Render(s, 80); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestRender_Compact(t *testing.T) {
	icons.Init("none")
	out := plain(Render(NewState(testSnapshot(), ModeCompact, ""), 120))

	for _, want := range []string{"Blinding Lights · The Weeknd", "FULL 320kbps", "1:23 / 3:20", ">"} {
		if !strings.Contains(out, want) {
			t.Errorf("compact bar missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n") + 1; n != Height(ModeCompact) {
		t.Errorf("compact height = %d, want %d", n, Height(ModeCompact))
	}
}

func TestRender_Expanded(t *testing.T) {
	icons.Init("none")
	snap := testSnapshot()
	snap.Shuffle = true
	snap.RepeatMode = playlist.RepeatOne
	out := plain(Render(NewState(snap, ModeExpanded, ""), 100))

	for _, want := range []string{"Blinding Lights", "The Weeknd · After Hours", "2/5", "FULL 320kbps", "[S]", "[1]", "vol  80%"} {
		if !strings.Contains(out, want) {
			t.Errorf("expanded bar missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n") + 1; n != Height(ModeExpanded) {
		t.Errorf("expanded height = %d, want %d", n, Height(ModeExpanded))
	}
}

func TestRender_PreviewBadge(t *testing.T) {
	snap := testSnapshot()
	snap.Source = playback.Source{Kind: resolver.FellBackToPreview, URL: "https://cdn.example/p.mp3"}
	out := plain(Render(NewState(snap, ModeCompact, ""), 120))

	if !strings.Contains(out, "PREVIEW") {
		t.Errorf("missing preview badge:\n%s", out)
	}
	if strings.Contains(out, "FULL") {
		t.Errorf("preview shown as full stream:\n%s", out)
	}
}

func TestRender_NoBadgeBeforeResolution(t *testing.T) {
	snap := testSnapshot()
	snap.State = playback.StateLoading
	snap.Source = playback.Source{}
	out := plain(Render(NewState(snap, ModeCompact, "⣾"), 120))

	if strings.Contains(out, "FULL") || strings.Contains(out, "PREVIEW") {
		t.Errorf("badge shown while resolving:\n%s", out)
	}
	if !strings.Contains(out, "⣾") {
		t.Errorf("missing spinner frame:\n%s", out)
	}
}

func TestRender_Error(t *testing.T) {
	snap := testSnapshot()
	snap.State = playback.StateStopped
	snap.Err = &playback.ErrorEvent{Message: "Could not find a playable stream"}
	out := plain(Render(NewState(snap, ModeCompact, ""), 120))

	if !strings.Contains(out, "Could not find a playable stream") {
		t.Errorf("missing error message:\n%s", out)
	}
	if !strings.Contains(out, "r retry") {
		t.Errorf("missing retry hint:\n%s", out)
	}
}

func TestRender_NarrowWidthDoesNotOverflow(t *testing.T) {
	for _, width := range []int{30, 50, 80} {
		for _, mode := range []DisplayMode{ModeCompact, ModeExpanded} {
			out := Render(NewState(testSnapshot(), mode, ""), width)
			for _, line := range strings.Split(out, "\n") {
				if w := ansi.StringWidth(line); w > width {
					t.Errorf("mode %d width %d: line width %d: %q", mode, width, w, plain(line))
				}
			}
		}
	}
}

func TestNewState_FallsBackToTrackDuration(t *testing.T) {
	snap := testSnapshot()
	snap.Duration = 0
	snap.Track.Duration = 3 * time.Minute

	if got := NewState(snap, ModeCompact, "").Duration; got != 3*time.Minute {
		t.Errorf("Duration = %v, want 3m", got)
	}
}
