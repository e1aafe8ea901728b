// Package container implements the IVF framing format used to deliver VP8
// frame payloads to the decoder. IVF is a minimal container: a fixed
// 32-byte file header naming the codec and picture size, followed by a
// sequence of frames, each a 12-byte header (payload size + presentation
// timestamp) immediately followed by that many bytes of raw VP8 bitstream.
//
// This package is an ambient collaborator (spec.md section 1's "container/
// IVF demuxer... not respecified here"): it exists so the decoder is
// runnable end-to-end, grounded on the pack's chunk-header-then-payload
// parsing idiom rather than on the VP8 specification itself.
package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	fileHeaderSize  = 32
	frameHeaderSize = 12
	fourCCDKIF      = 0x46494b44 // "DKIF" little-endian
)

// Common errors.
var (
	ErrInvalidHeader = errors.New("ivf: invalid file header")
	ErrTruncated     = errors.New("ivf: truncated data")
	ErrUnsupported   = errors.New("ivf: unsupported codec")
)

// FourCCVP8 is the codec tag IVF uses for VP8 payloads ("VP80").
var FourCCVP8 = [4]byte{'V', 'P', '8', '0'}

// Header holds the parsed 32-byte IVF file header.
type Header struct {
	Codec       [4]byte
	Width       int
	Height      int
	FrameRate   uint32
	TimeScale   uint32
	FrameCount  uint32
}

// ParseHeader validates and parses the fixed IVF file header from data.
// Returns the header and the number of bytes consumed.
func ParseHeader(data []byte) (Header, int, error) {
	if len(data) < fileHeaderSize {
		return Header{}, 0, ErrTruncated
	}
	if binary.LittleEndian.Uint32(data[0:4]) != fourCCDKIF {
		return Header{}, 0, ErrInvalidHeader
	}
	// bytes 4-5: header version (ignored), 6-7: header size (ignored beyond
	// the fixed 32 bytes this decoder understands).
	var h Header
	copy(h.Codec[:], data[8:12])
	h.Width = int(binary.LittleEndian.Uint16(data[12:14]))
	h.Height = int(binary.LittleEndian.Uint16(data[14:16]))
	h.FrameRate = binary.LittleEndian.Uint32(data[16:20])
	h.TimeScale = binary.LittleEndian.Uint32(data[20:24])
	h.FrameCount = binary.LittleEndian.Uint32(data[24:28])
	if h.Codec != FourCCVP8 {
		return Header{}, 0, fmt.Errorf("%w: %q", ErrUnsupported, h.Codec)
	}
	if h.Width == 0 || h.Height == 0 {
		return Header{}, 0, ErrInvalidHeader
	}
	return h, fileHeaderSize, nil
}

// FrameHeader is the 12-byte header preceding every IVF frame payload.
type FrameHeader struct {
	PayloadSize uint32
	Timestamp   uint64
}

// ReadFrameHeader reads one frame header from data.
func ReadFrameHeader(data []byte) (FrameHeader, error) {
	if len(data) < frameHeaderSize {
		return FrameHeader{}, ErrTruncated
	}
	return FrameHeader{
		PayloadSize: binary.LittleEndian.Uint32(data[0:4]),
		Timestamp:   binary.LittleEndian.Uint64(data[4:12]),
	}, nil
}

// Reader incrementally demuxes an IVF byte stream into VP8 frame payloads.
// It implements the decoder's FramePayloadSource interface (one NextPayload
// call per frame), keeping the file entirely in memory as a single slice --
// IVF has no resumable/streaming chunk structure worth modeling separately.
type Reader struct {
	Header Header
	buf    []byte
	pos    int
}

// NewReader parses data's IVF file header and returns a Reader positioned
// at the first frame.
func NewReader(data []byte) (*Reader, error) {
	h, n, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return &Reader{Header: h, buf: data, pos: n}, nil
}

// NextPayload returns the next frame's raw VP8 bitstream bytes, or io.EOF
// once every frame has been consumed.
func (r *Reader) NextPayload() ([]byte, error) {
	if r.pos >= len(r.buf) {
		return nil, io.EOF
	}
	fh, err := ReadFrameHeader(r.buf[r.pos:])
	if err != nil {
		return nil, err
	}
	start := r.pos + frameHeaderSize
	end := start + int(fh.PayloadSize)
	if end > len(r.buf) {
		return nil, ErrTruncated
	}
	r.pos = end
	return r.buf[start:end], nil
}

// EOF reports whether every frame has been consumed.
func (r *Reader) EOF() bool { return r.pos >= len(r.buf) }
