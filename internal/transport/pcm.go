package transport

import "encoding/binary"

const (
	scale16 = 32768.0   // 2^15
	scale24 = 8388608.0 // 2^23
)

// int16Frames converts interleaved 16-bit samples to stereo frames,
// duplicating mono.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	if channels == 2 {
		frames := make([][2]float64, len(pcm)/2)
		for i := range frames {
			frames[i][0] = float64(pcm[i*2]) / scale16
			frames[i][1] = float64(pcm[i*2+1]) / scale16
		}
		return frames
	}
	frames := make([][2]float64, len(pcm))
	for i, sample := range pcm {
		v := float64(sample) / scale16
		frames[i] = [2]float64{v, v}
	}
	return frames
}

// le16Frames converts little-endian 16-bit PCM bytes to stereo frames.
func le16Frames(data []byte, channels int) [][2]float64 {
	bytesPerFrame := 2 * channels
	frames := make([][2]float64, len(data)/bytesPerFrame)
	for i := range frames {
		off := i * bytesPerFrame
		left := int16(binary.LittleEndian.Uint16(data[off:])) //nolint:gosec // audio samples
		right := left
		if channels == 2 {
			right = int16(binary.LittleEndian.Uint16(data[off+2:])) //nolint:gosec // audio samples
		}
		frames[i] = [2]float64{float64(left) / scale16, float64(right) / scale16}
	}
	return frames
}

// le24Frames converts little-endian 24-bit PCM bytes to stereo frames.
func le24Frames(data []byte, channels int) [][2]float64 {
	bytesPerFrame := 3 * channels
	frames := make([][2]float64, len(data)/bytesPerFrame)
	for i := range frames {
		off := i * bytesPerFrame
		left := int24(data[off:])
		right := left
		if channels == 2 {
			right = int24(data[off+3:])
		}
		frames[i] = [2]float64{float64(left) / scale24, float64(right) / scale24}
	}
	return frames
}

func int24(b []byte) int32 {
	v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if v&0x800000 != 0 {
		v |= ^0xFFFFFF
	}
	return v
}
