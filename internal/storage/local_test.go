package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	full := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestLocalProviderReadAndStat(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data/readings.csv", "id,value\n1,42\n")

	p := NewLocalProvider(dir)
	ctx := context.Background()
	path := ParsePath("data/readings.csv")

	ok, err := p.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	content, err := p.ReadBytes(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "id,value\n1,42\n", string(content))

	obj, err := p.Stat(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), obj.SizeBytes)
	assert.False(t, obj.IsDir)
	assert.False(t, obj.LastModified.IsZero())
}

func TestLocalProviderMissingFile(t *testing.T) {
	p := NewLocalProvider(t.TempDir())
	ctx := context.Background()

	ok, err := p.Exists(ctx, ParsePath("absent.csv"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.Stat(ctx, ParsePath("absent.csv"))
	assert.Error(t, err)

	_, err = p.Open(ctx, ParsePath("absent.csv"))
	assert.Error(t, err)
}

func TestLocalProviderList(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "exports/a.csv", "a")
	writeFile(t, dir, "exports/b.csv", "b")
	writeFile(t, dir, "exports/nested/c.csv", "c")

	p := NewLocalProvider(dir)
	objects, err := p.List(context.Background(), ParsePath("exports"))
	require.NoError(t, err)

	names := make([]string, 0, len(objects))
	for _, o := range objects {
		names = append(names, o.Path.FileName())
	}
	assert.ElementsMatch(t, []string{"a.csv", "b.csv", "nested"}, names)
}
