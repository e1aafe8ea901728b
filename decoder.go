package vp8

import (
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	internalvp8 "github.com/raptorcodec/vp8/internal/vp8"
)

// Raster is one decoded frame's planar YUV 4:2:0 picture.
type Raster = internalvp8.Raster

// RasterAllocator hands out Rasters for Decoder.Advance to decode into,
// recycling previously-released ones.
type RasterAllocator struct {
	inner *internalvp8.RasterAllocator
}

// NewRasterAllocator creates an allocator with nothing in its freelist yet.
func NewRasterAllocator() *RasterAllocator {
	return &RasterAllocator{inner: internalvp8.NewRasterAllocator()}
}

// NewRaster returns a fresh Raster handle; its planes are sized lazily, the
// first time a Decoder decodes into it.
func (a *RasterAllocator) NewRaster() *Raster {
	return a.inner.NewRaster(0, 0)
}

// FramePayloadSource supplies one VP8 frame payload (the bytes following
// any container framing) per call. internal/container.Reader implements
// this for IVF files; any other demuxer can plug in the same way without
// this package depending on it.
type FramePayloadSource interface {
	NextPayload() ([]byte, error)
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithSource attaches the payload source Advance reads frames from. A
// Decoder with no source configured returns an error from Advance.
func WithSource(src FramePayloadSource) Option {
	return func(d *Decoder) { d.src = src }
}

// WithLogger attaches a structured logger; the first decoded frame's
// dimensions (and any difference from the caller's hint) and frame decode
// failures are logged at Debug level, never per macroblock. The default is
// a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Decoder) { d.log = log }
}

// Decoder decodes successive frames of one VP8 bitstream, maintaining
// entropy-table and reference-frame state across calls.
type Decoder struct {
	fd  *internalvp8.FrameDecoder
	src FramePayloadSource
	log *slog.Logger

	widthHint, heightHint int
	sessionID              uuid.UUID
	eof                    bool
	sawDimensions          bool
}

// NewDecoder returns a Decoder ready to decode a bitstream whose first
// frame is expected to be a key frame near (widthHint, heightHint); a key
// frame's own dimensions always take precedence once decoded (pass 0, 0
// if the caller has no hint).
func NewDecoder(widthHint, heightHint int, opts ...Option) *Decoder {
	d := &Decoder{
		fd:        internalvp8.NewFrameDecoder(),
		log:       slog.New(slog.DiscardHandler),
		widthHint: widthHint, heightHint: heightHint,
		sessionID: uuid.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// EOF reports whether the configured source has no more frames.
func (d *Decoder) EOF() bool { return d.eof }

// Advance decodes one frame payload from the configured source into dst,
// growing/resetting dst's planes to the frame's dimensions as needed.
// It returns io.EOF (unwrapped, so callers can compare with ==) once the
// source is exhausted; any other error is an *Error and leaves the
// decoder unusable for continued decode, per this package's no-resync
// error policy.
func (d *Decoder) Advance(dst *Raster) error {
	if d.eof {
		return io.EOF
	}
	if d.src == nil {
		return invalidStream("no FramePayloadSource configured (use WithSource)")
	}

	payload, err := d.src.NextPayload()
	if errors.Is(err, io.EOF) {
		d.eof = true
		return io.EOF
	}
	if err != nil {
		return wrapInvalid(err, "reading frame payload")
	}

	r, err := d.fd.DecodeFrame(payload)
	if err != nil {
		d.log.Debug("frame decode failed", "session", d.sessionID, "err", err)
		return err
	}

	if !d.sawDimensions {
		d.sawDimensions = true
		if d.widthHint != 0 && d.heightHint != 0 && (d.widthHint != r.Width || d.heightHint != r.Height) {
			d.log.Debug("key frame dimensions differ from caller hint, adopting decoded size",
				"session", d.sessionID, "hint_width", d.widthHint, "hint_height", d.heightHint,
				"width", r.Width, "height", r.Height)
		}
		d.log.Debug("first frame decoded", "session", d.sessionID, "width", r.Width, "height", r.Height)
	}

	dst.CopyFrom(r)
	return nil
}

func invalidStream(msg string) error {
	return internalvp8.NewInvalidStream("%s", msg)
}

func wrapInvalid(err error, msg string) error {
	return internalvp8.WrapInvalid(err, msg)
}
