package production

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/hsmx/internal/core"
)

// SnapshotCodec encodes and decodes machine snapshots. Where the bytes are
// kept is up to the caller.
type SnapshotCodec interface {
	Encode(w io.Writer, s core.Snapshot) error
	Decode(r io.Reader) (core.Snapshot, error)
	// Extension is the conventional file extension, without the dot.
	Extension() string
}

// JSONCodec encodes snapshots as JSON.
type JSONCodec struct {
	Indent bool
}

func (c JSONCodec) Encode(w io.Writer, s core.Snapshot) error {
	enc := json.NewEncoder(w)
	if c.Indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

func (c JSONCodec) Decode(r io.Reader) (core.Snapshot, error) {
	var s core.Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return core.Snapshot{}, fmt.Errorf("json decode: %w", err)
	}
	return s, nil
}

func (JSONCodec) Extension() string { return "json" }

// YAMLCodec encodes snapshots as YAML.
type YAMLCodec struct{}

func (YAMLCodec) Encode(w io.Writer, s core.Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

func (YAMLCodec) Decode(r io.Reader) (core.Snapshot, error) {
	var s core.Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return core.Snapshot{}, fmt.Errorf("yaml decode: %w", err)
	}
	return s, nil
}

func (YAMLCodec) Extension() string { return "yaml" }

// CodecFor returns the codec registered under format ("json" or "yaml").
func CodecFor(format string) (SnapshotCodec, error) {
	switch strings.ToLower(format) {
	case "json":
		return JSONCodec{Indent: true}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
}
