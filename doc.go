// Package vp8 implements a VP8 video bitstream decoder: the boolean
// arithmetic decoder, frame and macroblock header parsing, residual token
// decode, dequantization and inverse transforms, intra/inter prediction,
// and the in-loop deblocking filter, producing YUV 4:2:0 rasters bit-exact
// to RFC 6386.
//
// The core decode pipeline lives in internal/vp8; this package wraps it in
// the public control surface (Decoder, Raster, RasterAllocator) a caller
// drives frame by frame via a FramePayloadSource, typically an IVF reader
// from internal/container.
package vp8
