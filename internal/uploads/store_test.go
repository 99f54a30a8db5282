package uploads

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"leaf.png", true},
		{"leaf.jpg", true},
		{"leaf.JPEG", true},
		{"leaf.txt", false},
		{"leaf", false},
		{"leaf.png.exe", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.filename), tt.filename)
	}
}

func TestStore_Save(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	savedName, path, err := store.Save(strings.NewReader("image-bytes"), "leaf.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(savedName, "_leaf.jpg"))
	assert.Equal(t, filepath.Join(store.Dir(), savedName), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))
}

func TestStore_Save_StripsDirectoryComponents(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	savedName, _, err := store.Save(strings.NewReader("x"), "../../etc/passwd.png")
	require.NoError(t, err)
	assert.NotContains(t, savedName, "/")
	assert.True(t, strings.HasSuffix(savedName, "_passwd.png"))
}

func TestStore_Save_UniqueNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		savedName, _, err := store.Save(strings.NewReader("x"), "same.jpg")
		require.NoError(t, err)
		assert.False(t, seen[savedName], "saved names must be unique even within one millisecond")
		seen[savedName] = true
	}
}

func TestStore_SweepOlderThan(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	oldName, oldPath, err := store.Save(strings.NewReader("old"), "old.jpg")
	require.NoError(t, err)
	_, newPath, err := store.Save(strings.NewReader("new"), "new.jpg")
	require.NoError(t, err)

	// Age the first file past the cutoff.
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(oldPath, past, past))

	removed, err := store.SweepOlderThan(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err), "aged file %s should be removed", oldName)
	_, err = os.Stat(newPath)
	assert.NoError(t, err, "recent file must survive the sweep")
}
