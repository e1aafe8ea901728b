// Command vp8play decodes a VP8 bitstream carried in an IVF file and writes
// the decoded frames as raw planar YUV 4:2:0 to stdout or a file.
//
// Usage:
//
//	vp8play decode [--out FILE] [--log-level LEVEL] [--log-file FILE] <input.ivf>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raptorcodec/vp8/cmd/vp8play/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmd.NewRoot(ctx).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
