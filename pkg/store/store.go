// Package store persists green trees as zstd-compressed files.
//
// A store is the magic string "GSTZ" followed by a single zstd frame whose
// payload is the output of green.WriteTo.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/yaklabco/gosyntax/pkg/green"
)

// ErrBadHeader is returned when the input does not start with the store magic.
var ErrBadHeader = errors.New("not a syntax tree store")

const magic = "GSTZ"

// Level names accepted by WithLevel.
const (
	LevelFastest = "fastest"
	LevelDefault = "default"
	LevelBetter  = "better"
	LevelBest    = "best"
)

type options struct {
	level zstd.EncoderLevel
}

// Option configures Save.
type Option func(*options)

// WithLevel selects the compression level by name. Unknown names keep the
// default level.
func WithLevel(name string) Option {
	return func(o *options) {
		if ok, level := zstd.EncoderLevelFromString(name); ok {
			o.level = level
		}
	}
}

// ValidLevel reports whether name is a recognized compression level.
func ValidLevel(name string) bool {
	ok, _ := zstd.EncoderLevelFromString(name)
	return ok
}

// Save writes root to w.
func Save(w io.Writer, root green.Node, opts ...Option) error {
	o := options{level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&o)
	}

	if _, err := io.WriteString(w, magic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(o.level))
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}
	if _, err := green.WriteTo(enc, root); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush encoder: %w", err)
	}
	return nil
}

// Load reads a tree written by Save.
func Load(r io.Reader) (green.Node, error) {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrBadHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !bytes.Equal(header, []byte(magic)) {
		return nil, ErrBadHeader
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	defer dec.Close()

	root, err := green.ReadFrom(dec)
	if err != nil {
		return nil, fmt.Errorf("load tree: %w", err)
	}
	return root, nil
}
