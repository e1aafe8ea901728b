package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raptorcodec/vp8"
	"github.com/raptorcodec/vp8/internal/container"
)

// NewDecodeCmd returns the "decode" subcommand: IVF in, raw planar YUV out.
func NewDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <input.ivf>",
		Short: "decode an IVF/VP8 file to raw YUV 4:2:0 frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			return runDecode(args[0], out)
		},
	}
	cmd.Flags().StringP("out", "o", "", `output path for raw YUV (default: stdout, "-" also means stdout)`)
	return cmd
}

func runDecode(inputPath, outPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("decode: reading %s: %w", inputPath, err)
	}

	reader, err := container.NewReader(data)
	if err != nil {
		return fmt.Errorf("decode: parsing IVF: %w", err)
	}

	var w io.Writer = os.Stdout
	if outPath != "" && outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("decode: creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	dec := vp8.NewDecoder(reader.Header.Width, reader.Header.Height,
		vp8.WithSource(reader),
		vp8.WithLogger(slog.Default()),
	)

	alloc := vp8.NewRasterAllocator()
	dst := alloc.NewRaster()

	frames := 0
	for {
		err := dec.Advance(dst)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("decode: frame %d: %w", frames, err)
		}

		if _, err := w.Write(dst.VisibleY()); err != nil {
			return fmt.Errorf("decode: writing frame %d: %w", frames, err)
		}
		if _, err := w.Write(dst.VisibleU()); err != nil {
			return fmt.Errorf("decode: writing frame %d: %w", frames, err)
		}
		if _, err := w.Write(dst.VisibleV()); err != nil {
			return fmt.Errorf("decode: writing frame %d: %w", frames, err)
		}
		frames++
	}

	slog.Info("decode complete", "frames", frames, "input", inputPath)
	return nil
}
