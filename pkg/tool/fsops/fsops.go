// Package fsops implements the file operations behind the tool catalog.
//
// Every operation runs against an afero.Fs so production uses the OS
// filesystem and tests run on an in-memory one. Paths are used verbatim:
// no normalization, no symlink resolution, no sandboxing. Outcome text and
// error messages are part of the wire contract; do not reword them.
package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"

	"github.com/wilhg/filemcp/pkg/errmodel"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ReadFile returns the full contents of the file at path as UTF-8 text.
func ReadFile(fsys afero.Fs, path string) (string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errmodel.NotFound("File not found: "+path, map[string]any{"path": path})
		}
		return "", errmodel.From(err)
	}
	if !info.Mode().IsRegular() {
		return "", errmodel.WrongKind("Not a file: "+path, map[string]any{"path": path})
	}
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", errmodel.From(err)
	}
	if !utf8.Valid(b) {
		return "", errmodel.Host("invalid UTF-8 in file: "+path, map[string]any{"path": path}, nil)
	}
	return string(b), nil
}

// WriteFile creates any missing parent directories and writes content to
// path, overwriting an existing file. An empty content string writes an
// empty file.
func WriteFile(fsys afero.Fs, path, content string) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := fsys.MkdirAll(dir, dirPerm); err != nil {
			return "", errmodel.From(err)
		}
	}
	if err := afero.WriteFile(fsys, path, []byte(content), filePerm); err != nil {
		return "", errmodel.From(err)
	}
	return "Successfully wrote to " + path, nil
}

// ListDirectory enumerates the immediate children of the directory at path,
// sorted by name, one "[DIR] name" or "[FILE] name" line each. Symlinked
// entries are classified by what they resolve to. An empty directory yields
// the literal "(empty directory)".
func ListDirectory(fsys afero.Fs, path string) (string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errmodel.NotFound("Directory not found: "+path, map[string]any{"path": path})
		}
		return "", errmodel.From(err)
	}
	if !info.IsDir() {
		return "", errmodel.WrongKind("Not a directory: "+path, map[string]any{"path": path})
	}
	entries, err := afero.ReadDir(fsys, path)
	if err != nil {
		return "", errmodel.From(err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	if len(entries) == 0 {
		return "(empty directory)", nil
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		isDir := e.IsDir()
		if e.Mode()&os.ModeSymlink != 0 {
			if target, err := fsys.Stat(filepath.Join(path, e.Name())); err == nil {
				isDir = target.IsDir()
			}
		}
		kind := "FILE"
		if isDir {
			kind = "DIR"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", kind, e.Name()))
	}
	return strings.Join(lines, "\n"), nil
}

// CreateDirectory creates the directory at path together with any missing
// parents. Calling it for an existing directory is a no-op success; an
// existing non-directory at path fails through the generic host path.
func CreateDirectory(fsys afero.Fs, path string) (string, error) {
	if err := fsys.MkdirAll(path, dirPerm); err != nil {
		return "", errmodel.From(err)
	}
	return "Successfully created directory: " + path, nil
}

// DeleteFile removes the regular file at path. Directories are rejected;
// delete_file never recurses.
func DeleteFile(fsys afero.Fs, path string) (string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errmodel.NotFound("File not found: "+path, map[string]any{"path": path})
		}
		return "", errmodel.From(err)
	}
	if !info.Mode().IsRegular() {
		return "", errmodel.WrongKind("Not a file: "+path, map[string]any{"path": path})
	}
	if err := fsys.Remove(path); err != nil {
		return "", errmodel.From(err)
	}
	return "Successfully deleted: " + path, nil
}

// FileInfo reports the absolute path, kind, size, and last-modified time of
// the entry at path as four lines. For directories the size is whatever the
// host stat reports for the entry itself, not its recursive content.
func FileInfo(fsys afero.Fs, path string) (string, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errmodel.NotFound("Path not found: "+path, map[string]any{"path": path})
		}
		return "", errmodel.From(err)
	}
	abs := path
	if !filepath.IsAbs(abs) {
		if a, err := filepath.Abs(abs); err == nil {
			abs = a
		}
	}
	kind := "File"
	if info.IsDir() {
		kind = "Directory"
	}
	lines := []string{
		"Path: " + abs,
		"Type: " + kind,
		fmt.Sprintf("Size: %d bytes", info.Size()),
		"Modified: " + info.ModTime().UTC().Format(time.RFC3339Nano),
	}
	return strings.Join(lines, "\n"), nil
}
