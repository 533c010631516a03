package tracing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrUnknownFormat is returned for paths that do not end in .json or .csv,
// optionally followed by .lz4 or .snappy.
var ErrUnknownFormat = errors.New("unknown trace format")

type codec interface {
	encode(w io.Writer, t Trace) error
	decode(r io.Reader) (Trace, error)
}

func codecOf(path string) (codec, Compression, error) {
	compression, base := compressionOf(path)

	switch filepath.Ext(base) {
	case ".json":
		return jsonCodec{}, compression, nil
	case ".csv":
		return csvCodec{}, compression, nil
	default:
		return nil, compression, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Write encodes the trace into w in the format the path names. The path is
// only used to pick the format.
func Write(w io.Writer, path string, t Trace) error {
	c, compression, err := codecOf(path)
	if err != nil {
		return err
	}

	cw := compressWriter(w, compression)

	if err := c.encode(cw, t); err != nil {
		return err
	}

	return cw.Close()
}

// Read decodes a trace from r in the format the path names.
func Read(r io.Reader, path string) (Trace, error) {
	c, compression, err := codecOf(path)
	if err != nil {
		return Trace{}, err
	}

	return c.decode(decompressReader(r, compression))
}

// Export writes the trace to a new file. An existing file is overwritten.
func Export(path string, t Trace) (err error) {
	if _, _, err := codecOf(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Write(f, path, t)
}

// Import reads a trace file written by Export.
func Import(path string) (Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return Trace{}, err
	}
	defer f.Close()

	t, err := Read(f, path)
	if err != nil {
		return Trace{}, fmt.Errorf("reading %s: %w", path, err)
	}

	return t, nil
}
