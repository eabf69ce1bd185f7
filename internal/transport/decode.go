package transport

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
)

// Format is a container format the transport can decode.
type Format string

const (
	FormatUnknown Format = ""
	FormatMP3     Format = "mp3"
	FormatMP4     Format = "mp4"
	FormatFLAC    Format = "flac"
)

// memFile serves a downloaded stream to decoders that need seeking.
type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

// sniffFormat detects the container from the stream header, then from the
// URL extension.
func sniffFormat(data []byte, rawURL string) Format {
	if kind := identify(data); kind != FormatUnknown {
		return kind
	}

	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".mp3":
		return FormatMP3
	case ".mp4", ".m4a", ".aac":
		return FormatMP4
	case ".flac":
		return FormatFLAC
	}
	return FormatUnknown
}

func identify(data []byte) Format {
	tagFormat, fileType, err := tag.Identify(bytes.NewReader(data))
	if err == nil {
		switch {
		case fileType == tag.FLAC:
			return FormatFLAC
		case tagFormat == tag.MP4:
			return FormatMP4
		case fileType == tag.MP3:
			return FormatMP3
		}
	}
	// Bare MPEG audio frames carry no tag header.
	if len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return FormatMP3
	}
	return FormatUnknown
}

// decode opens data with the decoder for its format.
func decode(data []byte, rawURL string) (beep.StreamSeekCloser, beep.Format, Format, error) {
	f := memFile{bytes.NewReader(data)}
	kind := sniffFormat(data, rawURL)

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch kind {
	case FormatMP3:
		streamer, format, err = decodeMP3(f)
	case FormatMP4:
		streamer, format, err = decodeMP4(f)
	case FormatFLAC:
		streamer, format, err = flac.Decode(f)
	default:
		return nil, beep.Format{}, kind, fmt.Errorf("unsupported stream format: %s", rawURL)
	}
	if err != nil {
		return nil, beep.Format{}, kind, fmt.Errorf("decode %s: %w", kind, err)
	}
	return streamer, format, kind, nil
}
