// Package output wraps the destination stream of a generated script with
// buffering, byte accounting and optional compression.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression names a stream compression format
type Compression string

const (
	CompressNone Compression = "none"
	CompressGzip Compression = "gzip"
	CompressZstd Compression = "zstd"
	CompressLZ4  Compression = "lz4"
)

var ErrUnknownCompression = errors.New("unknown compression")

const bufferSize = 64 * 1024

// ParseCompression validates a compression name. Empty means none.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return CompressNone, nil
	case CompressNone, CompressGzip, CompressZstd, CompressLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// Sink is the writer a generator emits into. Close must be called to flush
// the compressor and buffer; it does not close the destination.
type Sink struct {
	top     io.Writer
	comp    io.WriteCloser
	buf     *bufio.Writer
	counter *countingWriter
	closed  bool
}

// NewSink wraps dst
func NewSink(dst io.Writer, c Compression) (*Sink, error) {
	counter := &countingWriter{w: dst}
	buf := bufio.NewWriterSize(counter, bufferSize)
	s := &Sink{top: buf, buf: buf, counter: counter}

	switch c {
	case CompressNone, "":
	case CompressGzip:
		s.comp = gzip.NewWriter(buf)
	case CompressZstd:
		enc, err := zstd.NewWriter(buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		s.comp = enc
	case CompressLZ4:
		s.comp = lz4.NewWriter(buf)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, c)
	}
	if s.comp != nil {
		s.top = s.comp
	}
	return s, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errors.New("write to closed sink")
	}
	return s.top.Write(p)
}

// Close flushes all pending output. Calling it twice is a no-op.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if s.comp != nil {
		if err := s.comp.Close(); err != nil {
			return fmt.Errorf("failed to finish compressed stream: %w", err)
		}
	}
	if err := s.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

// Abort drops output still held in the buffer and releases the compressor
// without delivering its trailer. Bytes already flushed to the destination
// stay there. Abort after Close is a no-op.
func (s *Sink) Abort() {
	if s.closed {
		return
	}
	s.closed = true

	s.buf.Reset(io.Discard)
	if s.comp != nil {
		_ = s.comp.Close()
	}
	_ = s.buf.Flush()
}

// Written returns the number of bytes delivered to the destination
func (s *Sink) Written() int64 {
	return s.counter.n
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
