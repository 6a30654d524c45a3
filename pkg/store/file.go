package store

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yaklabco/gosyntax/pkg/green"
)

// DefaultFileMode is the permission mode for newly created store files.
const DefaultFileMode os.FileMode = 0644

// SaveFile writes root to path atomically: the store is written to a temp
// file in the same directory, synced, and renamed over path. On error the
// original file is left untouched.
func SaveFile(ctx context.Context, path string, root green.Node, opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	buffered := bufio.NewWriter(tmp)
	if err := Save(buffered, root, opts...); err != nil {
		return err
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, DefaultFileMode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// LoadFile reads a store file.
func LoadFile(path string) (green.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	return Load(bufio.NewReader(f))
}
