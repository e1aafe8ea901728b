package vp8

import internalvp8 "github.com/raptorcodec/vp8/internal/vp8"

// Error is returned by every exported decode operation; Kind lets callers
// distinguish InvalidStream/Unsupported/ResourceExhausted programmatically
// instead of matching error strings.
type Error = internalvp8.Error

// Kind classifies why a decode failed.
type Kind = internalvp8.Kind

const (
	KindInvalidStream    = internalvp8.KindInvalidStream
	KindUnsupported      = internalvp8.KindUnsupported
	KindResourceExhausted = internalvp8.KindResourceExhausted
)
