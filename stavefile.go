//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"i":   Install,
	"fmt": Lint.Fmt,
	"bc":  Bench.Corpus,
	"tt":  Test.Tree,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// ---------------------------------------------------------------------------
// Top-level targets
// ---------------------------------------------------------------------------

// Build compiles the gosyntax binary with version info.
// Skips recompilation when source files have not changed.
func Build() error {
	rebuild, err := target.Dir("bin/gosyntax", "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println("bin/gosyntax is up to date")
		return nil
	}
	fmt.Println("Building gosyntax...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/gosyntax", "./cmd/gosyntax")
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes the binary, coverage output and stores written by Bench.Corpus.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html", benchStoreDir} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs gosyntax to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing gosyntax...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/gosyntax")
}

// Uninstall removes gosyntax from $GOBIN or $GOPATH/bin.
func Uninstall() error {
	fmt.Println("Uninstalling gosyntax...")
	binPath, err := findInstalledBinary("gosyntax")
	if err != nil {
		return err
	}
	if err := os.Remove(binPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Println("gosyntax is not installed")
			return nil
		}
		return fmt.Errorf("remove binary: %w", err)
	}
	fmt.Printf("Removed %s\n", binPath)
	return nil
}

// Deps downloads and tidies module dependencies.
func Deps() error {
	if err := sh.RunV("go", "mod", "download"); err != nil {
		return err
	}
	return sh.RunV("go", "mod", "tidy")
}

// Coverage writes an HTML coverage report from the last test run.
func Coverage() error {
	st.Deps(Test.Default)
	if err := sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html"); err != nil {
		return err
	}
	fmt.Println("Wrote coverage.html")
	return nil
}

// ---------------------------------------------------------------------------
// Test namespace
// ---------------------------------------------------------------------------

// Default runs all tests under the race detector with coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	return gotestsum("pkgname-and-test-fails", "./...", "-coverprofile=coverage.out", "-covermode=atomic")
}

// Verbose runs all tests, printing every test name.
func (Test) Verbose() error {
	fmt.Println("Running tests (verbose)...")
	return gotestsum("standard-verbose", "./...")
}

// Tree repeats the tree, pool and store tests several times to shake out
// races in lazy red node materialization and pooled scratch space.
func (Test) Tree() error {
	fmt.Println("Running tree tests repeatedly...")
	return gotestsum("pkgname-and-test-fails", "-count=5", "./pkg/green/...", "./pkg/red/...", "./pkg/pool/...", "./pkg/store/...")
}

// ---------------------------------------------------------------------------
// Lint namespace
// ---------------------------------------------------------------------------

// Default runs golangci-lint and applies its fixes.
func (Lint) Default() error {
	return golangci(true)
}

// CI runs golangci-lint without touching files.
func (Lint) CI() error {
	return golangci(false)
}

// Fmt rewrites Go files with gofmt.
func (Lint) Fmt() error {
	fmt.Println("Formatting code...")
	return sh.RunV("gofmt", "-w", "cmd", "internal", "pkg", "stavefile.go")
}

// FmtCheck fails when gofmt would change any file.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", "cmd", "internal", "pkg", "stavefile.go")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("files need gofmt (run 'stave lint:fmt'):\n%s", out)
	}
	return nil
}

// Vet runs go vet over every package.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// ---------------------------------------------------------------------------
// CI namespace
// ---------------------------------------------------------------------------

// Gate runs the checks CI requires before merging.
func (CI) Gate() {
	st.SerialDeps(
		Lint.FmtCheck,
		Lint.Vet,
		Lint.CI,
		Build,
		Test.Default,
		CI.ModTidy,
		CI.Cross,
	)
}

// ModTidy fails when go mod tidy changes go.mod or go.sum.
func (CI) ModTidy() error {
	files := []string{"go.mod", "go.sum"}
	before := make(map[string][]byte, len(files))
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", name, err)
		}
		before[name] = data
	}

	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}

	for _, name := range files {
		after, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s after tidy: %w", name, err)
		}
		if !bytes.Equal(before[name], after) {
			return fmt.Errorf("%s is not tidy; run 'go mod tidy' and commit the result", name)
		}
	}
	return nil
}

// Cross builds the CLI for every supported GOOS/GOARCH pair. The store's
// zstd codec has per-architecture assembly, so each pair is built.
func (CI) Cross() error {
	for _, goos := range []string{"linux", "darwin", "windows", "freebsd"} {
		for _, goarch := range []string{"amd64", "arm64"} {
			env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
			if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/gosyntax"); err != nil {
				return fmt.Errorf("build %s/%s: %w", goos, goarch, err)
			}
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Bench namespace
// ---------------------------------------------------------------------------

// Default runs the Go benchmarks in pkg without the unit tests.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./pkg/...")
}

// benchStoreDir holds the stores written by Bench.Corpus.
const benchStoreDir = "bin/bench"

// Corpus parses every Markdown file in the repository with the built
// binary, prints the kind table, then times a store round trip of the
// largest file at each compression level.
func (Bench) Corpus() error {
	st.Deps(Build)
	files, err := markdownFiles(".")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("no Markdown files found")
		return nil
	}

	fmt.Printf("Parsing %d Markdown files...\n", len(files))
	start := time.Now()
	if err := sh.RunV("bin/gosyntax", append([]string{"stats"}, files...)...); err != nil {
		return err
	}
	fmt.Printf("Parsed in %s\n", time.Since(start).Round(time.Millisecond))

	largest, err := largestFile(files)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(benchStoreDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", benchStoreDir, err)
	}
	for _, level := range []string{"fastest", "default", "better", "best"} {
		out := filepath.Join(benchStoreDir, level+".gst")
		start := time.Now()
		if err := sh.RunV("bin/gosyntax", "parse", "--quiet", "--level", level, "--out", out, largest); err != nil {
			return err
		}
		if _, err := sh.Output("bin/gosyntax", "dump", out); err != nil {
			return err
		}
		info, err := os.Stat(out)
		if err != nil {
			return fmt.Errorf("stat %s: %w", out, err)
		}
		fmt.Printf("  %-8s %8d bytes  %s\n", level, info.Size(), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers (unexported, not targets)
// ---------------------------------------------------------------------------

// gotestsum runs go test through gotestsum with the race detector, using
// STAVE_NUM_PROCESSORS (default 4) for package and test parallelism.
func gotestsum(format string, args ...string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := append([]string{"tool", "gotestsum", "-f", format, "--", "-race", "-p", procs, "-parallel", procs}, args...)
	return sh.RunV("go", cmdArgs...)
}

// golangci runs golangci-lint over the module, applying fixes when fix is set.
func golangci(fix bool) error {
	args := []string{"run"}
	if fix {
		args = append(args, "--fix")
	}
	return sh.RunV("golangci-lint", append(args, "./...")...)
}

// gitOutput runs a git command and returns trimmed stdout, or empty on error.
func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf(
		"-X main.version=%s -X main.commit=%s -X main.date=%s",
		version, commit, date,
	)
}

// findInstalledBinary returns the path where go install would place the binary.
func findInstalledBinary(name string) (string, error) {
	if gobin := os.Getenv("GOBIN"); gobin != "" {
		return filepath.Join(gobin, name), nil
	}
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home directory: %w", err)
		}
		gopath = filepath.Join(home, "go")
	}
	return filepath.Join(gopath, "bin", name), nil
}

// markdownFiles lists Markdown files under root, skipping hidden and
// reference directories.
func markdownFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "bin") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(name, ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// largestFile returns the biggest of files.
func largestFile(files []string) (string, error) {
	var best string
	var bestSize int64 = -1
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", f, err)
		}
		if info.Size() > bestSize {
			best, bestSize = f, info.Size()
		}
	}
	return best, nil
}
