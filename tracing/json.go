package tracing

import (
	"encoding/json"
	"io"
)

type jsonCodec struct{}

func (jsonCodec) encode(w io.Writer, t Trace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(t)
}

func (jsonCodec) decode(r io.Reader) (Trace, error) {
	var t Trace

	err := json.NewDecoder(r).Decode(&t)

	return t, err
}
