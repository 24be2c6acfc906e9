// Package vfs defines the filesystem capability contract the shell runs
// over, with remote (AGFS), local, and in-memory implementations.
package vfs

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Error kinds. Every implementation translates its native failures into one
// of these before they reach shell logic.
var (
	ErrNotFound   = errors.New("no such file or directory")
	ErrPermission = errors.New("permission denied")
	ErrIsDir      = errors.New("is a directory")
	ErrNotDir     = errors.New("not a directory")
	ErrExists     = errors.New("file exists")
	ErrNotEmpty   = errors.New("directory not empty")
	ErrConnection = errors.New("connection error")
)

// PathError decorates an error kind with the operation and path that
// produced it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// MetaData carries extensible server-side metadata attached to AGFS entries.
type MetaData struct {
	Name    string            `json:"name,omitempty"`
	Type    string            `json:"type,omitempty"`
	Content map[string]string `json:"content,omitempty"`
}

// FileInfo describes one file or directory.
type FileInfo struct {
	Name    string    `json:"name"`
	Path    string    `json:"path,omitempty"`
	Size    int64     `json:"size"`
	Mode    uint32    `json:"mode"`
	ModTime time.Time `json:"mtime"`
	IsDir   bool      `json:"is_dir"`
	Symlink bool      `json:"is_symlink,omitempty"`
	Meta    MetaData  `json:"meta,omitempty"`
}

// FileSystem is the capability contract consumed by the shell and its
// builtin commands. Paths are absolute; the shell resolves relative paths
// before calling in.
type FileSystem interface {
	// ReadFile returns the whole file.
	ReadFile(path string) ([]byte, error)
	// ReadFileAt reads at most limit bytes starting at offset. limit < 0
	// means to the end.
	ReadFileAt(path string, offset, limit int64) ([]byte, error)
	// OpenReader streams file content.
	OpenReader(path string) (io.ReadCloser, error)
	// WriteFile replaces or appends to the file, creating it if needed.
	WriteFile(path string, data []byte, appendTo bool) error
	// ListDir returns directory entries sorted by name.
	ListDir(path string) ([]FileInfo, error)
	// Stat returns metadata for one path.
	Stat(path string) (FileInfo, error)
	// Mkdir creates a directory, parents included.
	Mkdir(path string) error
	// Remove deletes a file, or a directory when recursive is set.
	Remove(path string, recursive bool) error
	// Copy duplicates a file, or a tree when recursive is set.
	Copy(src, dst string, recursive bool) error
	// Move renames a file or directory.
	Move(src, dst string) error
	// Symlink creates a symbolic link at linkName pointing to target.
	Symlink(target, linkName string) error
	// Readlink returns a symlink's target.
	Readlink(path string) (string, error)
}

// Exists reports whether the path can be stat'd.
func Exists(fs FileSystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// IsDir reports whether the path exists and is a directory.
func IsDir(fs FileSystem, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.IsDir
}
