package storage

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestLocalFileStorage_Save_SameFilenameKeepsBothFiles(t *testing.T) {
	ctx := context.Background()

	fs, err := NewLocalFileStorage(t.TempDir(), "http://localhost:8080/uploads", 0)
	require.NoError(t, err)

	pathEN, _, err := fs.Save(ctx, fileHeader(t, "pizza.png", "english bytes"), "PRODUCT/abc")
	require.NoError(t, err)
	pathRU, _, err := fs.Save(ctx, fileHeader(t, "pizza.png", "russian bytes"), "PRODUCT/abc")
	require.NoError(t, err)

	assert.NotEqual(t, pathEN, pathRU)

	contentEN, err := os.ReadFile(fs.GetFullPath(pathEN))
	require.NoError(t, err)
	contentRU, err := os.ReadFile(fs.GetFullPath(pathRU))
	require.NoError(t, err)

	assert.Equal(t, "english bytes", string(contentEN))
	assert.Equal(t, "russian bytes", string(contentRU))
}

func TestLocalFileStorage_Save_KeepsClientFilename(t *testing.T) {
	fs, err := NewLocalFileStorage(t.TempDir(), "http://localhost:8080/uploads", 0)
	require.NoError(t, err)

	path, size, err := fs.Save(context.Background(), fileHeader(t, "menu.pdf", "pdf"), "PRODUCT/abc")

	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
	assert.True(t, strings.HasSuffix(path, "_menu.pdf"), "stored name keeps the original filename: %s", path)
	assert.True(t, strings.HasPrefix(path, "PRODUCT/abc/"), "stored under the owner subpath: %s", path)
}

func TestLocalFileStorage_Save_MaxSize(t *testing.T) {
	fs, err := NewLocalFileStorage(t.TempDir(), "http://localhost:8080/uploads", 5)
	require.NoError(t, err)

	_, _, err = fs.Save(context.Background(), fileHeader(t, "big.png", "way too large"), "PRODUCT/abc")

	require.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLocalFileStorage_Delete(t *testing.T) {
	ctx := context.Background()

	fs, err := NewLocalFileStorage(t.TempDir(), "http://localhost:8080/uploads", 0)
	require.NoError(t, err)

	path, _, err := fs.Save(ctx, fileHeader(t, "gone.png", "bytes"), "STORY/xyz")
	require.NoError(t, err)

	require.NoError(t, fs.Delete(ctx, path))
	_, err = os.Stat(fs.GetFullPath(path))
	assert.True(t, os.IsNotExist(err))
}
