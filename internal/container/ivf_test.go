package container

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIVF(width, height int, payloads [][]byte) []byte {
	buf := make([]byte, fileHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], fourCCDKIF)
	binary.LittleEndian.PutUint16(buf[6:8], fileHeaderSize)
	copy(buf[8:12], FourCCVP8[:])
	binary.LittleEndian.PutUint16(buf[12:14], uint16(width))
	binary.LittleEndian.PutUint16(buf[14:16], uint16(height))
	binary.LittleEndian.PutUint32(buf[16:20], 30)
	binary.LittleEndian.PutUint32(buf[20:24], 1)
	binary.LittleEndian.PutUint32(buf[24:28], uint32(len(payloads)))

	for i, p := range payloads {
		fh := make([]byte, frameHeaderSize)
		binary.LittleEndian.PutUint32(fh[0:4], uint32(len(p)))
		binary.LittleEndian.PutUint64(fh[4:12], uint64(i))
		buf = append(buf, fh...)
		buf = append(buf, p...)
	}
	return buf
}

func TestParseHeader(t *testing.T) {
	data := buildIVF(176, 144, nil)
	h, n, err := ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, fileHeaderSize, n, "bytes consumed")
	assert.Equal(t, 176, h.Width)
	assert.Equal(t, 144, h.Height)
}

func TestParseHeader_WrongSignature(t *testing.T) {
	data := buildIVF(176, 144, nil)
	data[0] = 'X'
	_, _, err := ParseHeader(data)
	assert.Equal(t, ErrInvalidHeader, err)
}

func TestParseHeader_WrongCodec(t *testing.T) {
	data := buildIVF(176, 144, nil)
	copy(data[8:12], "VP9 ")
	_, _, err := ParseHeader(data)
	assert.Error(t, err, "expected error for unsupported codec")
}

func TestReader_NextPayload(t *testing.T) {
	frames := [][]byte{{1, 2, 3}, {4, 5, 6, 7}, {8}}
	data := buildIVF(16, 16, frames)

	r, err := NewReader(data)
	require.NoError(t, err)
	for i, want := range frames {
		got, err := r.NextPayload()
		require.NoErrorf(t, err, "frame %d", i)
		assert.Equalf(t, want, got, "frame %d", i)
	}
	assert.True(t, r.EOF(), "expected EOF after consuming every frame")
	_, err = r.NextPayload()
	assert.Equal(t, io.EOF, err)
}

func TestReader_TruncatedFrame(t *testing.T) {
	data := buildIVF(16, 16, [][]byte{{1, 2, 3, 4, 5}})
	r, err := NewReader(data[:len(data)-2])
	require.NoError(t, err)
	_, err = r.NextPayload()
	assert.Equal(t, ErrTruncated, err)
}
