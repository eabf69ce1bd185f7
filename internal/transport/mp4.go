package transport

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// mp4Stream decodes AAC or ALAC samples from an MP4 container.
type mp4Stream struct {
	container  *m4a.Reader
	closer     io.Closer
	codec      m4a.CodecType
	aac        *faad2.Decoder
	alac       *alac.Alac
	sampleSize int
	channels   int
	totalLen   int
	next       int // index of the next container sample
	pending    [][2]float64
	err        error
}

func decodeMP4(rc io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	container, err := m4a.Open(rc)
	if err != nil {
		return nil, beep.Format{}, err
	}

	sampleRate := container.SampleRate()
	channels := container.Channels()
	s := &mp4Stream{
		container:  container,
		closer:     rc,
		codec:      container.Codec(),
		sampleSize: int(container.SampleSize()),
		channels:   int(channels),
		totalLen:   int(container.Duration().Seconds() * float64(sampleRate)),
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: 2,
		Precision:   2,
	}

	switch s.codec {
	case m4a.CodecAAC:
		decoder, err := faad2.NewDecoder(context.Background())
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := decoder.Init(context.Background(), container.CodecConfig()); err != nil {
			decoder.Close(context.Background())
			return nil, beep.Format{}, err
		}
		s.aac = decoder
	case m4a.CodecALAC:
		decoder, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(sampleRate),
			SampleSize:  s.sampleSize,
			NumChannels: s.channels,
			FrameSize:   4096,
		})
		if err != nil {
			return nil, beep.Format{}, err
		}
		s.alac = decoder
		if s.sampleSize == 24 {
			format.Precision = 3
		}
	default:
		return nil, beep.Format{}, errors.New("mp4: unsupported codec")
	}

	return s, format, nil
}

func (s *mp4Stream) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}

	for n < len(samples) {
		if len(s.pending) > 0 {
			c := copy(samples[n:], s.pending)
			s.pending = s.pending[c:]
			n += c
			continue
		}
		if s.next >= s.container.SampleCount() {
			return n, n > 0
		}

		data, err := s.container.ReadSample(s.next)
		if err != nil {
			s.err = err
			return n, n > 0
		}
		s.next++

		if s.pending, err = s.decodeSample(data); err != nil {
			s.err = err
			return n, n > 0
		}
	}
	return n, true
}

func (s *mp4Stream) decodeSample(data []byte) ([][2]float64, error) {
	if s.aac != nil {
		pcm, err := s.aac.Decode(context.Background(), data)
		if err != nil {
			return nil, err
		}
		return int16Frames(pcm, s.channels), nil
	}
	raw := s.alac.Decode(data)
	if s.sampleSize == 24 {
		return le24Frames(raw, s.channels), nil
	}
	return le16Frames(raw, s.channels), nil
}

func (s *mp4Stream) Err() error { return s.err }

func (s *mp4Stream) Len() int { return s.totalLen }

func (s *mp4Stream) Position() int {
	pos := s.container.SampleTime(s.next)
	return int(pos.Seconds() * float64(s.container.SampleRate()))
}

func (s *mp4Stream) Seek(p int) error {
	p = min(max(p, 0), s.totalLen)
	pos := time.Duration(float64(p) / float64(s.container.SampleRate()) * float64(time.Second))
	s.next = s.container.SeekToTime(pos)
	s.pending = nil
	s.err = nil
	return nil
}

func (s *mp4Stream) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	return s.closer.Close()
}
