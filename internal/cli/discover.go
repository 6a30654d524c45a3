package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gosyntax/internal/logging"
)

// markdownExtensions are the file extensions collected from directory arguments.
var markdownExtensions = []string{".md", ".markdown"}

// expandPaths replaces directory arguments with the Markdown files beneath
// them. File arguments are kept as given, whatever their extension. Files
// found in a directory are sorted; argument order is otherwise preserved and
// duplicates are dropped.
func expandPaths(ctx context.Context, args []string) ([]string, error) {
	seen := make(map[string]struct{}, len(args))
	var files []string
	add := func(path string) {
		key := filepath.Clean(path)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}

		found, err := walkMarkdown(ctx, arg)
		if err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Debug("expanded directory",
			logging.FieldPath, arg,
			logging.FieldFiles, len(found),
		)
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// walkMarkdown returns the Markdown files under root, skipping hidden entries.
func walkMarkdown(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := path != root && strings.HasPrefix(entry.Name(), ".")
		if entry.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden || !entry.Type().IsRegular() {
			return nil
		}
		if slices.Contains(markdownExtensions, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	slices.Sort(files)
	return files, nil
}
