package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/nfnt/resize"

	"github.com/wenslauce/Music-Wave/internal/logging"
)

const (
	maxArtworkSize = 5 << 20

	// Notification servers show small thumbnails; larger covers are scaled
	// down before caching.
	thumbnailSize = 256
)

// Artwork downloads remote cover images to a local directory so that
// notification servers can display them.
type Artwork struct {
	dir        string
	httpClient *http.Client
	logger     *log.Logger
}

// NewArtwork creates an artwork cache in dir. An empty dir selects
// musicwave/artwork under the XDG cache dir.
func NewArtwork(dir string, hc *http.Client, logger *log.Logger) *Artwork {
	if dir == "" {
		dir = filepath.Join(xdg.CacheHome, "musicwave", "artwork")
	}
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Artwork{dir: dir, httpClient: hc, logger: logging.OrDiscard(logger)}
}

// Fetch returns the local path of the image at rawURL, downloading it on
// first use.
func (a *Artwork) Fetch(ctx context.Context, rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("no artwork url")
	}

	dst := filepath.Join(a.dir, artworkFileName(rawURL))
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtworkSize+1))
	if err != nil {
		return "", fmt.Errorf("read artwork: %w", err)
	}
	if len(data) > maxArtworkSize {
		return "", fmt.Errorf("artwork larger than %s", humanize.IBytes(maxArtworkSize))
	}

	data = thumbnail(data)

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", err
	}
	// Readers only ever see complete files.
	tmp, err := os.CreateTemp(a.dir, ".artwork-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	a.logger.Debug("cached artwork", "url", rawURL, "size", humanize.IBytes(uint64(len(data))))
	return dst, nil
}

func artworkFileName(rawURL string) string {
	h := fnv.New64a()
	h.Write([]byte(rawURL))

	ext := strings.ToLower(path.Ext(strings.SplitN(rawURL, "?", 2)[0]))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("%x%s", h.Sum64(), ext)
}

// thumbnail scales JPEG and PNG images down to thumbnailSize, keeping the
// aspect ratio. Other formats and small images are returned unchanged.
func thumbnail(data []byte) []byte {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	b := img.Bounds()
	if b.Dx() <= thumbnailSize && b.Dy() <= thumbnailSize {
		return data
	}

	small := resize.Thumbnail(thumbnailSize, thumbnailSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, small, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, small)
	default:
		return data
	}
	if err != nil {
		return data
	}
	return buf.Bytes()
}
