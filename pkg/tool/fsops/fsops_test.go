package fsops

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhg/filemcp/pkg/errmodel"
)

func TestReadFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/data/hello.txt", []byte("hello world"), 0o644))

	got, err := ReadFile(fsys, "/data/hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	_, err = ReadFile(fsys, "/data/missing.txt")
	require.Error(t, err)
	assert.True(t, errmodel.IsCategory(err, errmodel.CategoryNotFound))
	assert.Equal(t, "Error: File not found: /data/missing.txt", errmodel.Text(err))

	_, err = ReadFile(fsys, "/data")
	require.Error(t, err)
	assert.True(t, errmodel.IsCategory(err, errmodel.CategoryWrongKind))
	assert.Equal(t, "Error: Not a file: /data", errmodel.Text(err))
}

func TestReadFileRejectsInvalidUTF8(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/bin.dat", []byte{0xff, 0xfe, 0x01}, 0o644))

	_, err := ReadFile(fsys, "/bin.dat")
	require.Error(t, err)
	assert.True(t, errmodel.IsCategory(err, errmodel.CategoryHost))
}

func TestWriteFileRoundTrip(t *testing.T) {
	fsys := afero.NewMemMapFs()

	msg, err := WriteFile(fsys, "/deep/nested/dir/out.txt", "payload")
	require.NoError(t, err)
	assert.Equal(t, "Successfully wrote to /deep/nested/dir/out.txt", msg)

	got, err := ReadFile(fsys, "/deep/nested/dir/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	// Overwrite, then the empty string.
	_, err = WriteFile(fsys, "/deep/nested/dir/out.txt", "replaced")
	require.NoError(t, err)
	got, err = ReadFile(fsys, "/deep/nested/dir/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "replaced", got)

	_, err = WriteFile(fsys, "/deep/nested/dir/out.txt", "")
	require.NoError(t, err)
	got, err = ReadFile(fsys, "/deep/nested/dir/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestListDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/ws/sub", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/ws/b.txt", []byte("b"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/ws/a.txt", []byte("a"), 0o644))

	// Entries sort by name regardless of kind.
	got, err := ListDirectory(fsys, "/ws")
	require.NoError(t, err)
	assert.Equal(t, "[FILE] a.txt\n[FILE] b.txt\n[DIR] sub", got)

	_, err = ListDirectory(fsys, "/nope")
	require.Error(t, err)
	assert.Equal(t, "Error: Directory not found: /nope", errmodel.Text(err))

	_, err = ListDirectory(fsys, "/ws/a.txt")
	require.Error(t, err)
	assert.Equal(t, "Error: Not a directory: /ws/a.txt", errmodel.Text(err))
}

func TestListDirectoryEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/empty", 0o755))

	got, err := ListDirectory(fsys, "/empty")
	require.NoError(t, err)
	assert.Equal(t, "(empty directory)", got)
}

func TestCreateDirectoryIdempotent(t *testing.T) {
	fsys := afero.NewMemMapFs()

	msg, err := CreateDirectory(fsys, "/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, "Successfully created directory: /a/b/c", msg)

	// Second call must not error.
	msg, err = CreateDirectory(fsys, "/a/b/c")
	require.NoError(t, err)
	assert.Equal(t, "Successfully created directory: /a/b/c", msg)

	ok, err := afero.DirExists(fsys, "/a/b/c")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeleteFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/doomed.txt", []byte("x"), 0o644))
	require.NoError(t, fsys.MkdirAll("/dir", 0o755))

	msg, err := DeleteFile(fsys, "/doomed.txt")
	require.NoError(t, err)
	assert.Equal(t, "Successfully deleted: /doomed.txt", msg)

	exists, err := afero.Exists(fsys, "/doomed.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = DeleteFile(fsys, "/doomed.txt")
	require.Error(t, err)
	assert.Equal(t, "Error: File not found: /doomed.txt", errmodel.Text(err))

	// Directories are rejected, not recursed into.
	_, err = DeleteFile(fsys, "/dir")
	require.Error(t, err)
	assert.Equal(t, "Error: Not a file: /dir", errmodel.Text(err))
	ok, err := afero.DirExists(fsys, "/dir")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileInfo(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/info.txt", []byte("12345"), 0o644))

	got, err := FileInfo(fsys, "/info.txt")
	require.NoError(t, err)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Path: /info.txt", lines[0])
	assert.Equal(t, "Type: File", lines[1])
	assert.Equal(t, "Size: 5 bytes", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "Modified: "))
	assert.NotEqual(t, "Modified: ", lines[3])

	// Deterministic for an unchanged file.
	again, err := FileInfo(fsys, "/info.txt")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = FileInfo(fsys, "/gone")
	require.Error(t, err)
	assert.Equal(t, "Error: Path not found: /gone", errmodel.Text(err))
}

func TestFileInfoDirectory(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/d", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/d/child.txt", []byte("ignored by shallow stat"), 0o644))

	got, err := FileInfo(fsys, "/d")
	require.NoError(t, err)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Type: Directory", lines[1])
	// Shallow stat size, never the recursive content size.
	assert.True(t, strings.HasPrefix(lines[2], "Size: "))
}
