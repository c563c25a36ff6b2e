package viewer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	require.NoError(t, os.WriteFile(path, []byte(triangle), 0o644))

	w, err := Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(triangle+"\n"), 0o644))

	select {
	case got := <-w.Changes():
		want, _ := filepath.Abs(path)
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := Watch(filepath.Join(t.TempDir(), "gone", "scene.json"))
	assert.Error(t, err)
}

func TestWatchCloseTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.json")
	w, err := Watch(path)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestPending(t *testing.T) {
	ch := make(chan string, 3)
	assert.False(t, Pending(ch))

	ch <- "a"
	ch <- "a"
	assert.True(t, Pending(ch))
	assert.False(t, Pending(ch))

	close(ch)
	assert.False(t, Pending(ch))
}
