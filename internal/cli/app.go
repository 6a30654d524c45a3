package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gosyntax/internal/configloader"
	"github.com/yaklabco/gosyntax/internal/logging"
	"github.com/yaklabco/gosyntax/internal/ui/pretty"
	"github.com/yaklabco/gosyntax/pkg/config"
	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/mdsyntax"
)

// app is the per-invocation environment shared by subcommands.
type app struct {
	ctx    context.Context
	cfg    *config.Config
	out    io.Writer
	styles *pretty.Styles
	width  int
}

// newApp resolves configuration and output settings for cmd. Only flags the
// user actually set override configured values.
func newApp(cmd *cobra.Command, root *rootFlags, overrides configloader.CLIFlags) (*app, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logging.Default())
	logger := logging.FromContext(ctx)

	if cmd.Flags().Changed("color") {
		overrides.Color = root.color
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: root.configPath,
		Flags:        overrides,
	})
	if err != nil {
		return nil, errors.Join(errors.New("failed to load configuration"), err)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, result.LoadedFrom)
	}

	cfg := result.Config
	logger.Debug("configuration resolved",
		logging.FieldFlavor, cfg.Flavor,
		logging.FieldLevel, cfg.Store.Level,
	)

	out := cmd.OutOrStdout()
	return &app{
		ctx:    ctx,
		cfg:    cfg,
		out:    out,
		styles: pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, out)),
		width:  pretty.TerminalWidth(out),
	}, nil
}

// parserOptions maps configuration onto parser options.
func parserOptions(cfg *config.Config) mdsyntax.Options {
	return mdsyntax.Options{
		Flavor:             string(cfg.Flavor),
		DetectLanguages:    cfg.DetectLanguages,
		TrailingWhitespace: cfg.Diagnostics.TrailingWhitespace,
		HardTabs:           cfg.Diagnostics.HardTabs,
	}
}

// parseArgs expands directory arguments and parses the resulting files.
func (a *app) parseArgs(args []string) ([]*mdsyntax.Document, error) {
	paths, err := expandPaths(a.ctx, args)
	if err != nil {
		return nil, err
	}
	return a.parseFiles(paths)
}

// parseFiles parses paths concurrently and returns documents in argument order.
func (a *app) parseFiles(paths []string) ([]*mdsyntax.Document, error) {
	parser := mdsyntax.New(parserOptions(a.cfg))
	docs := make([]*mdsyntax.Document, len(paths))

	g, ctx := errgroup.WithContext(a.ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			doc, err := parseFile(ctx, parser, path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func parseFile(ctx context.Context, parser *mdsyntax.Parser, path string) (*mdsyntax.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	start := time.Now()
	doc, err := parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	logging.FromContext(ctx).Debug("parsed",
		logging.FieldPath, path,
		logging.FieldBytes, len(content),
		logging.FieldDuration, time.Since(start),
	)
	return doc, nil
}

// collectStats counts nodes, tokens, trivia and diagnostics in root.
func collectStats(root green.Node, size int) pretty.Stats {
	stats := pretty.Stats{
		Files:      1,
		Bytes:      size,
		BySeverity: make(map[green.Severity]int),
		Kinds:      make(map[green.Kind]int),
	}
	countKinds(root, &stats)

	for d := range green.Diagnostics(root) {
		stats.Diagnostics++
		stats.BySeverity[d.Severity]++
	}
	return stats
}

func countKinds(n green.Node, stats *pretty.Stats) {
	switch {
	case n == nil:
		return
	case n.IsList():
		for child := range green.Children(n) {
			countKinds(child, stats)
		}
	case n.IsToken():
		tok, _ := n.(*green.Token)
		stats.Tokens++
		stats.Kinds[n.Kind()]++
		countKinds(tok.Leading(), stats)
		countKinds(tok.Trailing(), stats)
	case n.IsTrivia():
		stats.Trivia++
		stats.Kinds[n.Kind()]++
	default:
		stats.Nodes++
		stats.Kinds[n.Kind()]++
		for child := range green.Children(n) {
			countKinds(child, stats)
		}
	}
}
