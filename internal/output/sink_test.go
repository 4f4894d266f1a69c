package output

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

const script = "/* AUTO-GENERATED SECURITY EVENT DATA */\nINSERT INTO t VALUES\n(1, 'a'),\n(2, 'b');\n"

func TestSink_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		comp   Compression
		reader func(io.Reader) (io.Reader, error)
	}{
		{
			name:   "none",
			comp:   CompressNone,
			reader: func(r io.Reader) (io.Reader, error) { return r, nil },
		},
		{
			name:   "gzip",
			comp:   CompressGzip,
			reader: func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
		},
		{
			name: "zstd",
			comp: CompressZstd,
			reader: func(r io.Reader) (io.Reader, error) {
				dec, err := zstd.NewReader(r)
				if err != nil {
					return nil, err
				}
				return dec.IOReadCloser(), nil
			},
		},
		{
			name:   "lz4",
			comp:   CompressLZ4,
			reader: func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var dst bytes.Buffer
			sink, err := NewSink(&dst, tt.comp)
			if err != nil {
				t.Fatalf("NewSink() returned error: %v", err)
			}
			for _, line := range strings.SplitAfter(script, "\n") {
				if _, err := io.WriteString(sink, line); err != nil {
					t.Fatalf("Write() returned error: %v", err)
				}
			}

			if dst.Len() != 0 {
				t.Errorf("output reached destination before Close: %d bytes", dst.Len())
			}
			if err := sink.Close(); err != nil {
				t.Fatalf("Close() returned error: %v", err)
			}
			if err := sink.Close(); err != nil {
				t.Errorf("second Close() returned error: %v", err)
			}
			if sink.Written() != int64(dst.Len()) {
				t.Errorf("Written() = %d, destination has %d", sink.Written(), dst.Len())
			}

			r, err := tt.reader(&dst)
			if err != nil {
				t.Fatalf("failed to open reader: %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("failed to read back: %v", err)
			}
			if string(got) != script {
				t.Errorf("round trip mismatch:\n%s", got)
			}
		})
	}
}

func TestSink_WriteAfterClose(t *testing.T) {
	t.Parallel()

	sink, err := NewSink(io.Discard, CompressNone)
	if err != nil {
		t.Fatalf("NewSink() returned error: %v", err)
	}
	sink.Close()
	if _, err := sink.Write([]byte("x")); err == nil {
		t.Error("expected error writing to closed sink")
	}
}

func TestSink_Abort(t *testing.T) {
	t.Parallel()

	for _, c := range []Compression{CompressNone, CompressGzip, CompressZstd, CompressLZ4} {
		t.Run(string(c), func(t *testing.T) {
			t.Parallel()

			var dst bytes.Buffer
			sink, err := NewSink(&dst, c)
			if err != nil {
				t.Fatalf("NewSink() returned error: %v", err)
			}
			if _, err := io.WriteString(sink, "INSERT INTO t VALUES\n(1, 'a'),\n"); err != nil {
				t.Fatalf("Write() returned error: %v", err)
			}

			sink.Abort()
			if dst.Len() != 0 {
				t.Errorf("aborted sink delivered %d bytes", dst.Len())
			}
			if sink.Written() != 0 {
				t.Errorf("Written() = %d after Abort", sink.Written())
			}
			if err := sink.Close(); err != nil {
				t.Errorf("Close() after Abort returned error: %v", err)
			}
			if dst.Len() != 0 {
				t.Errorf("Close() after Abort delivered %d bytes", dst.Len())
			}
			if _, err := sink.Write([]byte("x")); err == nil {
				t.Error("expected error writing to aborted sink")
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Compression
		wantErr bool
	}{
		{"", CompressNone, false},
		{"none", CompressNone, false},
		{"GZIP", CompressGzip, false},
		{" zstd", CompressZstd, false},
		{"lz4", CompressLZ4, false},
		{"bzip2", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownCompression) {
				t.Errorf("ParseCompression(%q) = %v, want ErrUnknownCompression", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseCompression(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}

	if _, err := NewSink(io.Discard, "brotli"); !errors.Is(err, ErrUnknownCompression) {
		t.Errorf("NewSink(brotli) = %v", err)
	}
}
