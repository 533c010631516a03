package tracing

import (
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// Compression is the codec wrapped around a trace file.
type Compression int

// Supported compressions, picked by the last file suffix.
const (
	NoCompression Compression = iota
	LZ4
	Snappy
)

func (c Compression) suffix() string {
	switch c {
	case LZ4:
		return ".lz4"
	case Snappy:
		return ".snappy"
	default:
		return ""
	}
}

func compressionOf(path string) (Compression, string) {
	for _, c := range []Compression{LZ4, Snappy} {
		if strings.HasSuffix(path, c.suffix()) {
			return c, strings.TrimSuffix(path, c.suffix())
		}
	}

	return NoCompression, path
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// compressWriter wraps w. Closing the result flushes the codec but does not
// close w.
func compressWriter(w io.Writer, c Compression) io.WriteCloser {
	switch c {
	case LZ4:
		return lz4.NewWriter(w)
	case Snappy:
		return snappy.NewBufferedWriter(w)
	default:
		return nopWriteCloser{w}
	}
}

func decompressReader(r io.Reader, c Compression) io.Reader {
	switch c {
	case LZ4:
		return lz4.NewReader(r)
	case Snappy:
		return snappy.NewReader(r)
	default:
		return r
	}
}
