package store_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gosyntax/pkg/green"
	"github.com/yaklabco/gosyntax/pkg/store"
)

const kindLine = green.KindFirstGrammar + 300

func sampleTree() green.Node {
	lines := make([]green.Node, 0, 200)
	for range 200 {
		lines = append(lines, green.NewToken(kindLine, "the same line of text", nil,
			green.NewTrivia(green.KindEndOfLine, "\n")))
	}
	return green.WithAnnotations(green.NewNode(kindLine, green.NewList(lines...)), green.NewAnnotation("k", "v"))
}

func compress(t *testing.T, payload []byte) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll(payload, nil)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	for _, level := range []string{store.LevelFastest, store.LevelDefault, store.LevelBetter, store.LevelBest} {
		t.Run(level, func(t *testing.T) {
			t.Parallel()

			tree := sampleTree()
			var buf bytes.Buffer
			require.NoError(t, store.Save(&buf, tree, store.WithLevel(level)))
			assert.True(t, strings.HasPrefix(buf.String(), "GSTZ"))
			assert.Less(t, buf.Len(), tree.FullWidth()/4, "repetitive trees compress well")

			loaded, err := store.Load(&buf)
			require.NoError(t, err)
			assert.True(t, green.Equivalent(tree, loaded))
		})
	}
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	assert.True(t, store.ValidLevel("best"))
	assert.True(t, store.ValidLevel("fastest"))
	assert.False(t, store.ValidLevel("extreme"))
	assert.False(t, store.ValidLevel(""))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := store.Load(strings.NewReader(""))
	require.ErrorIs(t, err, store.ErrBadHeader)

	_, err = store.Load(strings.NewReader("GS"))
	require.ErrorIs(t, err, store.ErrBadHeader)

	_, err = store.Load(strings.NewReader("NOPE and more"))
	require.ErrorIs(t, err, store.ErrBadHeader)

	_, err = store.Load(strings.NewReader("GSTZ not zstd"))
	require.Error(t, err)
}

func TestLoad_CorruptPayload(t *testing.T) {
	t.Parallel()

	// A valid zstd frame around bytes that are not a tree.
	var buf bytes.Buffer
	require.NoError(t, store.Save(&buf, nil))
	data := buf.Bytes()

	var framed bytes.Buffer
	framed.WriteString("GSTZ")
	framed.Write(compress(t, []byte("not a tree")))
	_, err := store.Load(&framed)
	require.ErrorIs(t, err, green.ErrCorrupt)

	loaded, err := store.Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

// Not parallel: the goroutine stack limit is process wide.
func TestLoad_DeeplyNestedPayload(t *testing.T) {
	defer debug.SetMaxStack(debug.SetMaxStack(16 << 20))

	const depth = 300_000

	// Records of the form {node, kind, one child} that never close.
	payload := []byte("GSYN\x01")
	payload = append(payload, bytes.Repeat([]byte{0x01, 0x40, 0x01}, depth)...)

	var framed bytes.Buffer
	framed.WriteString("GSTZ")
	framed.Write(compress(t, payload))

	_, err := store.Load(&framed)
	require.ErrorIs(t, err, green.ErrCorrupt)
}

func TestSaveFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tree.gst")
	tree := sampleTree()

	require.NoError(t, store.SaveFile(context.Background(), path, tree, store.WithLevel(store.LevelBest)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, store.DefaultFileMode, info.Mode().Perm())

	loaded, err := store.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, green.FullText(tree), green.FullText(loaded))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestSaveFile_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "tree.gst")
	err := store.SaveFile(ctx, path, sampleTree())
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, path)
}

func TestSaveFile_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "tree.gst")
	require.Error(t, store.SaveFile(context.Background(), path, sampleTree()))

	_, err := store.LoadFile(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}
