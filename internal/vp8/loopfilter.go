package vp8

// In-loop deblocking filter. Two variants are selectable per frame: the
// Simple filter (luma-only, 2-tap/4-tap) and the Normal filter (luma+chroma,
// with an additional high-edge-variance gate choosing between a 2-tap and a
// wider 4-/6-tap filter). Both operate directly on a reconstructed raster's
// planes, filtering macroblock edges then inner 4x4 sub-block edges, left
// edge before top edge, matching the bitstream's row-major reconstruction
// order so a macroblock's right/bottom neighbors always see filtered pixels
// from it by the time they are filtered themselves.

func abs(x int) int      { return int(kabs0(x)) }
func sclip1v(v int) int  { return int(ksclip1(v)) }
func sclip2v(v int) int  { return int(ksclip2(v)) }
func clamp255(v int) byte { return clip8b(v) }

// filterMacroblock applies one macroblock's worth of loop filtering. yOff/
// uvOff are this macroblock's top-left offset into the raster's Y/U/V
// planes (strides yStride/uvStride). filterInner controls whether the
// inner 4x4 edges are filtered at all (false for a 16x16-predicted,
// all-zero-coefficient macroblock).
func filterMacroblock(r *Raster, mbX, mbY int, info FInfo, simple, filterInner bool) {
	if info.Limit == 0 {
		return
	}
	limit := int(info.Limit)
	ilevel := int(info.InnerLvl)
	hevT := int(info.HevThresh)

	yStride := r.YStride
	yOff := r.yOrigin() + mbY*16*yStride + mbX*16

	if simple {
		if mbX > 0 {
			simpleHFilter16(r.Y, yOff, yStride, limit+4)
		}
		if filterInner {
			simpleHFilter16i(r.Y, yOff, yStride, limit)
		}
		if mbY > 0 {
			simpleVFilter16(r.Y, yOff, yStride, limit+4)
		}
		if filterInner {
			simpleVFilter16i(r.Y, yOff, yStride, limit)
		}
		return
	}

	uvStride := r.UVStride
	uvOff := r.uvOrigin() + mbY*8*uvStride + mbX*8

	if mbX > 0 {
		filterLoop26H(r.Y, yOff, yStride, 16, limit+4, ilevel, hevT)
		filterLoop26H(r.U, uvOff, uvStride, 8, limit+4, ilevel, hevT)
		filterLoop26H(r.V, uvOff, uvStride, 8, limit+4, ilevel, hevT)
	}
	if filterInner {
		filterInner16H(r.Y, yOff, yStride, limit, ilevel, hevT)
		filterInner8H(r.U, uvOff, uvStride, limit, ilevel, hevT)
		filterInner8H(r.V, uvOff, uvStride, limit, ilevel, hevT)
	}
	if mbY > 0 {
		filterLoop26V(r.Y, yOff, yStride, 16, limit+4, ilevel, hevT)
		filterLoop26V(r.U, uvOff, uvStride, 8, limit+4, ilevel, hevT)
		filterLoop26V(r.V, uvOff, uvStride, 8, limit+4, ilevel, hevT)
	}
	if filterInner {
		filterInner16V(r.Y, yOff, yStride, limit, ilevel, hevT)
		filterInner8V(r.U, uvOff, uvStride, limit, ilevel, hevT)
		filterInner8V(r.V, uvOff, uvStride, limit, ilevel, hevT)
	}
}

// ---- Simple filter ----

func simpleVFilter16(p []byte, base, stride, thresh int) {
	thresh2 := 2*thresh + 1
	for i := 0; i < 16; i++ {
		off := base + i
		p1, p0 := int(p[off-2*stride]), int(p[off-stride])
		q0, q1 := int(p[off]), int(p[off+stride])
		if 4*abs(p0-q0)+abs(p1-q1) <= thresh2 {
			doFilter2(p, off, stride)
		}
	}
}

func simpleHFilter16(p []byte, base, stride, thresh int) {
	thresh2 := 2*thresh + 1
	for j := 0; j < 16; j++ {
		off := base + j*stride
		p1, p0 := int(p[off-2]), int(p[off-1])
		q0, q1 := int(p[off]), int(p[off+1])
		if 4*abs(p0-q0)+abs(p1-q1) <= thresh2 {
			doFilter2(p, off, 1)
		}
	}
}

func simpleVFilter16i(p []byte, base, stride, thresh int) {
	for k := 1; k <= 3; k++ {
		simpleVFilter16(p, base+k*4*stride, stride, thresh)
	}
}

func simpleHFilter16i(p []byte, base, stride, thresh int) {
	for k := 1; k <= 3; k++ {
		simpleHFilter16(p, base+k*4, stride, thresh)
	}
}

// ---- Normal filter ----

func filterLoop26V(p []byte, base, stride, width, thresh, ithresh, hevThresh int) {
	thresh2 := 2*thresh + 1
	for i := 0; i < width; i++ {
		off := base + i
		if !needsFilter2(p, off, stride, thresh2, ithresh) {
			continue
		}
		if isHEV(p[off-2*stride], p[off-stride], p[off], p[off+stride], hevThresh) {
			doFilter2(p, off, stride)
		} else {
			doFilter6(p, off, stride)
		}
	}
}

func filterLoop26H(p []byte, base, stride, height, thresh, ithresh, hevThresh int) {
	thresh2 := 2*thresh + 1
	for j := 0; j < height; j++ {
		off := base + j*stride
		if !needsFilter2(p, off, 1, thresh2, ithresh) {
			continue
		}
		if isHEV(p[off-2], p[off-1], p[off], p[off+1], hevThresh) {
			doFilter2(p, off, 1)
		} else {
			doFilter6(p, off, 1)
		}
	}
}

func filterLoop24V(p []byte, base, stride, width, thresh, ithresh, hevThresh int) {
	thresh2 := 2*thresh + 1
	for i := 0; i < width; i++ {
		off := base + i
		if !needsFilter2(p, off, stride, thresh2, ithresh) {
			continue
		}
		if isHEV(p[off-2*stride], p[off-stride], p[off], p[off+stride], hevThresh) {
			doFilter2(p, off, stride)
		} else {
			doFilter4(p, off, stride)
		}
	}
}

func filterLoop24H(p []byte, base, stride, height, thresh, ithresh, hevThresh int) {
	thresh2 := 2*thresh + 1
	for j := 0; j < height; j++ {
		off := base + j*stride
		if !needsFilter2(p, off, 1, thresh2, ithresh) {
			continue
		}
		if isHEV(p[off-2], p[off-1], p[off], p[off+1], hevThresh) {
			doFilter2(p, off, 1)
		} else {
			doFilter4(p, off, 1)
		}
	}
}

func filterInner16V(p []byte, base, stride, thresh, ithresh, hevThresh int) {
	for k := 1; k <= 3; k++ {
		filterLoop24V(p, base+k*4*stride, stride, 16, thresh, ithresh, hevThresh)
	}
}

func filterInner16H(p []byte, base, stride, thresh, ithresh, hevThresh int) {
	for k := 1; k <= 3; k++ {
		filterLoop24H(p, base+k*4, stride, 16, thresh, ithresh, hevThresh)
	}
}

func filterInner8V(p []byte, base, stride, thresh, ithresh, hevThresh int) {
	filterLoop24V(p, base+4*stride, stride, 8, thresh, ithresh, hevThresh)
}

func filterInner8H(p []byte, base, stride, thresh, ithresh, hevThresh int) {
	filterLoop24H(p, base+4, stride, 8, thresh, ithresh, hevThresh)
}

func needsFilter2(p []byte, off, step, thresh, ithresh int) bool {
	p3, p2, p1, p0 := int(p[off-4*step]), int(p[off-3*step]), int(p[off-2*step]), int(p[off-step])
	q0, q1, q2, q3 := int(p[off]), int(p[off+step]), int(p[off+2*step]), int(p[off+3*step])
	if 4*abs(p0-q0)+abs(p1-q1) > thresh {
		return false
	}
	return abs(p3-p2) <= ithresh && abs(p2-p1) <= ithresh && abs(p1-p0) <= ithresh &&
		abs(q3-q2) <= ithresh && abs(q2-q1) <= ithresh && abs(q1-q0) <= ithresh
}

func isHEV(p1, p0, q0, q1 byte, thresh int) bool {
	return abs(int(p1)-int(p0)) > thresh || abs(int(q0)-int(q1)) > thresh
}

func doFilter2(p []byte, off, step int) {
	p1, p0 := int(p[off-2*step]), int(p[off-step])
	q0, q1 := int(p[off]), int(p[off+step])
	a := 3*(q0-p0) + sclip1v(p1-q1)
	a1 := sclip2v((a + 4) >> 3)
	a2 := sclip2v((a + 3) >> 3)
	p[off-step] = clamp255(p0 + a2)
	p[off] = clamp255(q0 - a1)
}

func doFilter4(p []byte, off, step int) {
	p1, p0 := int(p[off-2*step]), int(p[off-step])
	q0, q1 := int(p[off]), int(p[off+step])
	a := 3 * (q0 - p0)
	a1 := sclip2v((a + 4) >> 3)
	a2 := sclip2v((a + 3) >> 3)
	a3 := (a1 + 1) >> 1
	p[off-2*step] = clamp255(p1 + a3)
	p[off-step] = clamp255(p0 + a2)
	p[off] = clamp255(q0 - a1)
	p[off+step] = clamp255(q1 - a3)
}

func doFilter6(p []byte, off, step int) {
	p2, p1, p0 := int(p[off-3*step]), int(p[off-2*step]), int(p[off-step])
	q0, q1, q2 := int(p[off]), int(p[off+step]), int(p[off+2*step])
	a := sclip1v(3*(q0-p0) + sclip1v(p1-q1))
	a1 := (27*a + 63) >> 7
	a2 := (18*a + 63) >> 7
	a3 := (9*a + 63) >> 7
	p[off-3*step] = clamp255(p2 + a3)
	p[off-2*step] = clamp255(p1 + a2)
	p[off-step] = clamp255(p0 + a1)
	p[off] = clamp255(q0 - a1)
	p[off+step] = clamp255(q1 - a2)
	p[off+2*step] = clamp255(q2 - a3)
}
