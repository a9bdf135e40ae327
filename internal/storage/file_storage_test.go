package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath_PathTraversalDots(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStore(tempDir)
	require.NoError(t, err)

	ls := store.(*localStore)

	tests := []struct {
		name string
		path string
	}{
		{"simple traversal", "../etc/passwd"},
		{"double traversal", "../../etc/passwd"},
		{"nested traversal", "subdir/../../../etc/passwd"},
		{"windows style", "..\\..\\windows\\system32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ls.validatePath(tt.path)
			assert.ErrorIs(t, err, ErrPathTraversal)
		})
	}
}

func TestValidatePath_ValidPath(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStore(tempDir)
	require.NoError(t, err)

	ls := store.(*localStore)

	tests := []struct {
		name string
		path string
	}{
		{"simple file", "receipt.pdf"},
		{"subdirectory", "ab/receipt.pdf"},
		{"uuid style", "ab/ab123456-7890.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ls.validatePath(tt.path)
			assert.NoError(t, err)
			assert.True(t, strings.HasPrefix(result, tempDir))
		})
	}
}

func TestGet_PathTraversal(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStore(tempDir)
	require.NoError(t, err)

	_, err = store.Get("../../../etc/passwd")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestDelete_PathTraversal(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStore(tempDir)
	require.NoError(t, err)

	err = store.Delete("../../../etc/passwd")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestGet_FileNotFound(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStore(tempDir)
	require.NoError(t, err)

	_, err = store.Get("nonexistent.pdf")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestValidateEvidence_Extensions(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{"pdf accepted", "receipt.pdf", false},
		{"jpg accepted", "receipt.jpg", false},
		{"png accepted", "scan.png", false},
		{"eml accepted", "order-confirmation.eml", false},
		{"heic accepted", "photo.heic", false},
		{"uppercase pdf accepted", "RECEIPT.PDF", false},
		{"exe rejected", "malware.exe", true},
		{"sh rejected", "script.sh", true},
		{"zip rejected", "archive.zip", true},
		{"no extension rejected", "receipt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvidence(tt.filename, 1024)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedExt)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEvidence_SizeLimit(t *testing.T) {
	err := ValidateEvidence("receipt.pdf", MaxFileSize-1)
	assert.NoError(t, err)

	err = ValidateEvidence("receipt.pdf", MaxFileSize)
	assert.NoError(t, err)

	err = ValidateEvidence("receipt.pdf", MaxFileSize+1)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestSaveAndGet_RoundTrip(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStore(tempDir)
	require.NoError(t, err)

	content := strings.NewReader("receipt bytes")
	path, err := store.Save("receipt.pdf", content)
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.True(t, strings.HasSuffix(path, ".pdf"))

	reader, err := store.Get(path)
	require.NoError(t, err)
	defer reader.Close()

	buf := make([]byte, 100)
	n, _ := reader.Read(buf)
	assert.Equal(t, "receipt bytes", string(buf[:n]))
}

func TestDelete_RemovesFile(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStore(tempDir)
	require.NoError(t, err)

	content := strings.NewReader("receipt bytes")
	path, err := store.Save("receipt.pdf", content)
	require.NoError(t, err)

	err = store.Delete(path)
	assert.NoError(t, err)

	_, err = store.Get(path)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestDelete_NonexistentFile(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStore(tempDir)
	require.NoError(t, err)

	err = store.Delete("nonexistent.pdf")
	assert.NoError(t, err)
}

func TestNewLocalStore_CreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	newDir := filepath.Join(tempDir, "new", "nested", "dir")

	_, err := NewLocalStore(newDir)
	assert.NoError(t, err)

	info, err := os.Stat(newDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
