// Package playerbar renders the now-playing bar at the bottom of the screen.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/wenslauce/Music-Wave/internal/icons"
	"github.com/wenslauce/Music-Wave/internal/playback"
	"github.com/wenslauce/Music-Wave/internal/playlist"
	"github.com/wenslauce/Music-Wave/internal/ui/render"
	"github.com/wenslauce/Music-Wave/internal/ui/styles"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // single line
	ModeExpanded                    // metadata, progress and status rows
)

const minBarWidth = 10

// State holds everything needed to render the player bar.
type State struct {
	Status     playback.State
	Title      string
	Artist     string
	Album      string
	Position   time.Duration
	Duration   time.Duration
	Progress   float64 // 0 to 100
	Source     playback.Source
	RepeatMode playlist.RepeatMode
	Shuffle    bool
	Volume     float64
	Muted      bool
	Index      int
	QueueLen   int
	Err        string

	// Spinner is the current spinner frame shown while loading.
	Spinner     string
	DisplayMode DisplayMode
}

// NewState builds a State from a session snapshot.
func NewState(snap playback.Snapshot, mode DisplayMode, spinner string) State {
	s := State{
		Status:      snap.State,
		Position:    snap.Position,
		Duration:    snap.Duration,
		Progress:    snap.Progress,
		Source:      snap.Source,
		RepeatMode:  snap.RepeatMode,
		Shuffle:     snap.Shuffle,
		Volume:      snap.Volume,
		Muted:       snap.Muted,
		Index:       snap.Index,
		QueueLen:    snap.QueueLen,
		Spinner:     spinner,
		DisplayMode: mode,
	}
	if t := snap.Track; t != nil {
		s.Title = t.Title
		s.Artist = t.Artist.Name
		s.Album = t.Album.Title
		if s.Duration == 0 {
			s.Duration = t.Duration
		}
	}
	if snap.Err != nil {
		s.Err = snap.Err.Message
	}
	return s
}

// Visible reports whether there is anything to show.
func (s State) Visible() bool {
	return s.Title != "" || s.Err != ""
}

// Height returns the rendered height including borders.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 6
	}
	return 3
}

// Render returns the player bar for the given width, or "" when there is
// no current track.
func Render(s State, width int) string {
	if !s.Visible() {
		return ""
	}
	innerWidth := max(width-6, 0)

	var content string
	if s.DisplayMode == ModeExpanded {
		content = renderExpanded(s, innerWidth)
	} else {
		content = renderCompact(s, innerWidth)
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = render.TruncateStyled(line, innerWidth)
	}
	content = strings.Join(lines, "\n")
	return styles.T().S().Panel.Padding(0, 2).Width(max(width-2, 0)).Render(content)
}

func renderCompact(s State, width int) string {
	if s.Err != "" {
		return errorLine(s, width)
	}

	right := statusIcon(s) + "  " + timeText(s)
	if badge := sourceBadge(s.Source, s.Status); badge != "" {
		right = badge + "  " + right
	}
	rightWidth := lipgloss.Width(right)

	info := s.Title
	if s.Artist != "" {
		info += " · " + s.Artist
	}
	infoWidth := min(lipgloss.Width(info), max(width-rightWidth-minBarWidth-4, 10))
	left := styles.T().S().Title.Render(render.Truncate(info, infoWidth))

	barWidth := max(width-infoWidth-rightWidth-4, 0)
	if barWidth < minBarWidth {
		return render.Row(left, right, width)
	}
	return left + "  " + progressBar(s.Progress, barWidth) + "  " + right
}

func renderExpanded(s State, width int) string {
	st := styles.T().S()

	title := st.Title.Render(render.Truncate(s.Title, width))
	meta := strings.Join(nonEmpty(s.Artist, s.Album), " · ")
	metaLine := st.Muted.Render(render.Truncate(meta, width))

	var progressLine string
	if s.Err != "" {
		progressLine = errorLine(s, width)
	} else {
		left := statusIcon(s) + "  " + timeText(s)
		barWidth := width - lipgloss.Width(left) - 2
		if barWidth >= minBarWidth {
			progressLine = left + "  " + progressBar(s.Progress, barWidth)
		} else {
			progressLine = left
		}
	}

	statusLine := render.Row(statusLeft(s), statusRight(s), width)

	return strings.Join([]string{title, metaLine, progressLine, statusLine}, "\n")
}

// statusLeft shows the queue position and the stream source.
func statusLeft(s State) string {
	var parts []string
	if s.QueueLen > 0 && s.Index >= 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", s.Index+1, s.QueueLen))
	}
	if badge := sourceBadge(s.Source, s.Status); badge != "" {
		parts = append(parts, badge)
	}
	return strings.Join(parts, "  ")
}

// statusRight shows playback modes and the volume.
func statusRight(s State) string {
	st := styles.T().S()
	var parts []string
	if s.Shuffle {
		parts = append(parts, st.Playing.Render(icons.Shuffle()))
	}
	switch s.RepeatMode {
	case playlist.RepeatAll:
		parts = append(parts, st.Playing.Render(icons.RepeatAll()))
	case playlist.RepeatOne:
		parts = append(parts, st.Playing.Render(icons.RepeatOne()))
	case playlist.RepeatOff:
	}
	parts = append(parts, volumeText(s.Volume, s.Muted))
	return strings.Join(parts, "  ")
}

func statusIcon(s State) string {
	if s.Status == playback.StateLoading && s.Spinner != "" {
		return styles.T().S().Playing.Render(s.Spinner)
	}
	return styles.T().S().Playing.Render(icons.Status(s.Status == playback.StatePlaying, s.Status == playback.StateLoading))
}

func timeText(s State) string {
	return styles.T().S().Muted.Render(render.Duration(s.Position) + " / " + render.Duration(s.Duration))
}

// sourceBadge labels the stream as the full track or the preview clip.
// Nothing is shown until a stream has been chosen.
func sourceBadge(src playback.Source, status playback.State) string {
	if src.URL == "" || status == playback.StateStopped {
		return ""
	}
	st := styles.T().S()
	if src.IsPreview() {
		return st.BadgePreview.Render("PREVIEW")
	}
	label := "FULL"
	if src.Quality != "" {
		label += " " + src.Quality
	}
	return st.BadgeFull.Render(label)
}

func volumeText(volume float64, muted bool) string {
	return styles.T().S().Muted.Render(fmt.Sprintf("%s %3d%%", icons.Volume(muted), int(volume*100+0.5)))
}

func errorLine(s State, width int) string {
	hint := styles.T().S().Subtle.Render("r retry · c dismiss")
	msg := styles.T().S().Error.Render(render.Truncate(s.Err, max(width-lipgloss.Width(hint)-2, 10)))
	return render.Row(msg, hint, width)
}

func progressBar(percent float64, width int) string {
	t := styles.T()
	bar := progress.New(
		progress.WithGradient(string(t.Primary), string(t.Secondary)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	return bar.ViewAs(min(max(percent/100, 0), 1))
}

func nonEmpty(vals ...string) []string {
	out := vals[:0:0]
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
