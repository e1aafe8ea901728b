package vp8

import (
	"sync/atomic"

	"github.com/raptorcodec/vp8/internal/pool"
)

// Raster is one decoded frame's planar YUV 4:2:0 picture, reference-counted
// so it can sit in more than one of the LAST/GOLDEN/ALTREF slots at once
// without being copied. Planes include a border wide enough for the loop
// filter and for whole/half-pixel motion compensation to read past the
// visible edge.
type Raster struct {
	Width, Height int
	YStride       int
	UVStride      int

	Y, U, V []byte // includes border; VisibleY etc. below give the cropped view

	borderY  int
	borderUV int
	refs     atomic.Int32
}

const (
	rasterBorder   = 32 // luma border, pixels on each side
	rasterBorderUV = 16
)

func newRaster(width, height int) *Raster {
	mbW := (width + 15) >> 4
	mbH := (height + 15) >> 4
	yW, yH := mbW*16+2*rasterBorder, mbH*16+2*rasterBorder
	uvW, uvH := mbW*8+2*rasterBorderUV, mbH*8+2*rasterBorderUV

	r := &Raster{
		Width: width, Height: height,
		YStride: yW, UVStride: uvW,
		borderY: rasterBorder, borderUV: rasterBorderUV,
	}
	r.Y = pool.Get(yW * yH)
	r.U = pool.Get(uvW * uvH)
	r.V = pool.Get(uvW * uvH)
	r.refs.Store(1)
	return r
}

func (r *Raster) reset(width, height int) {
	mbW := (width + 15) >> 4
	mbH := (height + 15) >> 4
	yW, yH := mbW*16+2*rasterBorder, mbH*16+2*rasterBorder
	uvW, uvH := mbW*8+2*rasterBorderUV, mbH*8+2*rasterBorderUV

	if len(r.Y) < yW*yH {
		pool.Put(r.Y)
		r.Y = pool.Get(yW * yH)
	}
	if len(r.U) < uvW*uvH {
		pool.Put(r.U)
		r.U = pool.Get(uvW * uvH)
	}
	if len(r.V) < uvW*uvH {
		pool.Put(r.V)
		r.V = pool.Get(uvW * uvH)
	}
	r.Width, r.Height = width, height
	r.YStride, r.UVStride = yW, uvW
	r.refs.Store(1)
}

// yOrigin/uvOrigin return the plane offset of pixel (0,0) of the visible
// image, past the border.
func (r *Raster) yOrigin() int  { return r.borderY*r.YStride + r.borderY }
func (r *Raster) uvOrigin() int { return r.borderUV*r.UVStride + r.borderUV }

// VisibleY/VisibleU/VisibleV return the cropped, border-free planes for
// output or display.
func (r *Raster) VisibleY() []byte {
	return cropPlane(r.Y, r.yOrigin(), r.YStride, r.Width, r.Height)
}

func (r *Raster) VisibleU() []byte {
	cw, ch := (r.Width+1)/2, (r.Height+1)/2
	return cropPlane(r.U, r.uvOrigin(), r.UVStride, cw, ch)
}

func (r *Raster) VisibleV() []byte {
	cw, ch := (r.Width+1)/2, (r.Height+1)/2
	return cropPlane(r.V, r.uvOrigin(), r.UVStride, cw, ch)
}

// CopyFrom resizes r to src's dimensions (reusing its existing pool
// allocation where it already fits) and copies src's whole Y/U/V planes,
// border included, into it. This is how the public decoder hands decoded frames to a
// caller-supplied Raster handle without that handle aliasing a slot this
// package's own reference-counting may later recycle.
func (r *Raster) CopyFrom(src *Raster) {
	if r.YStride != src.YStride || r.UVStride != src.UVStride || r.Width != src.Width || r.Height != src.Height {
		r.reset(src.Width, src.Height)
	}
	copy(r.Y, src.Y)
	copy(r.U, src.U)
	copy(r.V, src.V)
	r.borderY, r.borderUV = src.borderY, src.borderUV
}

func cropPlane(plane []byte, origin, stride, w, h int) []byte {
	out := make([]byte, w*h)
	for row := 0; row < h; row++ {
		copy(out[row*w:row*w+w], plane[origin+row*stride:origin+row*stride+w])
	}
	return out
}

func (r *Raster) retain() { r.refs.Add(1) }

func (r *Raster) release() {
	if r.refs.Add(-1) == 0 {
		pool.Put(r.Y)
		pool.Put(r.U)
		pool.Put(r.V)
	}
}

// RasterAllocator hands out Rasters for the decoder to reconstruct into,
// recycling ones whose reference count has dropped to zero.
type RasterAllocator struct {
	freelist []*Raster
}

// NewRasterAllocator creates an allocator with no rasters yet in its
// freelist; the first few frames each allocate fresh.
func NewRasterAllocator() *RasterAllocator {
	return &RasterAllocator{}
}

// NewRaster returns a Raster sized for width x height, reusing a
// previously-released one when possible.
func (a *RasterAllocator) NewRaster(width, height int) *Raster {
	for i := len(a.freelist) - 1; i >= 0; i-- {
		r := a.freelist[i]
		if r.refs.Load() == 0 {
			a.freelist[i] = a.freelist[len(a.freelist)-1]
			a.freelist = a.freelist[:len(a.freelist)-1]
			r.reset(width, height)
			a.freelist = append(a.freelist, r)
			return r
		}
	}
	r := newRaster(width, height)
	a.freelist = append(a.freelist, r)
	return r
}

// RefSlots holds the decoder's three persistent reference-frame rasters.
// Update follows RFC 6386 section 9.7: refresh flags take priority over the
// copy-from selectors, and every slot transition adjusts refcounts so a
// raster is only returned to the pool once nothing references it.
type RefSlots struct {
	Last, Golden, AltRef *Raster
}

func (s *RefSlots) update(current *Raster, h InterHeader, isKeyFrame bool) {
	if isKeyFrame {
		s.setGolden(current)
		s.setAltRef(current)
		s.setLast(current)
		return
	}

	_, preAltRef, preLast := s.Golden, s.AltRef, s.Last

	switch h.CopyToGolden {
	case 1:
		s.setGolden(preLast)
	case 2:
		s.setGolden(preAltRef)
	}
	if h.RefreshGolden {
		s.setGolden(current)
	}

	switch h.CopyToAltRef {
	case 1:
		s.setAltRef(preLast)
	case 2:
		s.setAltRef(preAltRef)
	}
	if h.RefreshAltRef {
		s.setAltRef(current)
	}

	if h.RefreshLast {
		s.setLast(current)
	}
}

func (s *RefSlots) setLast(r *Raster) { s.setSlot(&s.Last, r) }
func (s *RefSlots) setGolden(r *Raster) { s.setSlot(&s.Golden, r) }
func (s *RefSlots) setAltRef(r *Raster) { s.setSlot(&s.AltRef, r) }

func (s *RefSlots) setSlot(slot **Raster, r *Raster) {
	if *slot == r {
		return
	}
	if r != nil {
		r.retain()
	}
	old := *slot
	*slot = r
	if old != nil {
		old.release()
	}
}

// frame selects the raster a macroblock's reference frame selector refers
// to, per the header's ReferenceFrame enum.
func (s *RefSlots) frame(ref ReferenceFrame) *Raster {
	switch ref {
	case RefLast:
		return s.Last
	case RefGolden:
		return s.Golden
	case RefAltRef:
		return s.AltRef
	default:
		return nil
	}
}
