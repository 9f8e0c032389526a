package storage

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func TestNormalizeFilename(t *testing.T) {
	got := normalizeFilename("Horaires Paris (2025).XLSX")
	assert.Regexp(t, regexp.MustCompile(`^Horaires_Paris_2025_\d{8}_\d{6}\.xlsx$`), got)

	got = normalizeFilename("../../(((.csv")
	assert.Regexp(t, regexp.MustCompile(`^timetable_\d{8}_\d{6}\.csv$`), got)
}

func TestLocalStorage_SaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(dir)
	content := []byte("Jour,Date,Imsak\n")

	key, err := ls.SaveFile(fileHeader(t, "avril.csv", content), "avril.csv")
	require.NoError(t, err)
	assert.NotContains(t, key, string(os.PathSeparator))

	_, err = os.Stat(filepath.Join(dir, key))
	require.NoError(t, err)

	got, err := ReadAll(ls, key)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestLocalStorage_OpenStaysInUploadDir(t *testing.T) {
	dir := t.TempDir()
	ls := NewLocalStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.csv"), []byte("x"), 0o600))

	_, err := ls.Open("../secret.csv")
	assert.Error(t, err)
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "application/vnd.ms-excel", getContentType("a.xls"))
	assert.Equal(t, "text/csv", getContentType("a.CSV"))
	assert.Equal(t, "application/octet-stream", getContentType("a.pdf"))
}
