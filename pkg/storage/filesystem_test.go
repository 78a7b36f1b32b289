package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "exports"))
	require.NoError(t, err)

	name, err := store.Save("run/option_1.csv", []byte("Day,Slot\n"))
	require.NoError(t, err)
	assert.Equal(t, "run/option_1.csv", name)

	raw, err := os.ReadFile(store.Path(name))
	require.NoError(t, err)
	assert.Equal(t, "Day,Slot\n", string(raw))
}

func TestLocalStorageRejectsEscapingNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "../outside.csv", "/tmp/abs.csv", "a/../../b.csv"} {
		_, err := store.Save(name, []byte("x"))
		assert.Error(t, err, name)
	}
}
