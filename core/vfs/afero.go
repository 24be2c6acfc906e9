package vfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/spf13/afero"
)

// AferoFS adapts any afero.Fs to the FileSystem contract. It backs both the
// local-only mode and the in-memory filesystem used by tests.
type AferoFS struct {
	fs afero.Fs
}

var _ FileSystem = (*AferoFS)(nil)

// NewAferoFS wraps an existing afero filesystem.
func NewAferoFS(backing afero.Fs) *AferoFS {
	return &AferoFS{fs: backing}
}

// NewLocal returns a FileSystem rooted at dir on the host filesystem.
func NewLocal(dir string) *AferoFS {
	return NewAferoFS(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewMock returns an empty in-memory FileSystem.
func NewMock() *AferoFS {
	return NewAferoFS(afero.NewMemMapFs())
}

// translate maps afero/os errors onto the vfs error kinds.
func translate(op, p string, err error) error {
	if err == nil {
		return nil
	}

	kind := err
	switch {
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		kind = ErrPermission
	case errors.Is(err, fs.ErrExist):
		kind = ErrExists
	}
	return &PathError{Op: op, Path: p, Err: kind}
}

func (a *AferoFS) ReadFile(p string) ([]byte, error) {
	info, err := a.fs.Stat(p)
	if err != nil {
		return nil, translate("read", p, err)
	}
	if info.IsDir() {
		return nil, &PathError{Op: "read", Path: p, Err: ErrIsDir}
	}

	data, err := afero.ReadFile(a.fs, p)
	if err != nil {
		return nil, translate("read", p, err)
	}
	return data, nil
}

func (a *AferoFS) ReadFileAt(p string, offset, limit int64) ([]byte, error) {
	data, err := a.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return sliceRange(data, offset, limit), nil
}

func (a *AferoFS) OpenReader(p string) (io.ReadCloser, error) {
	if IsDir(a, p) {
		return nil, &PathError{Op: "open", Path: p, Err: ErrIsDir}
	}
	fd, err := a.fs.Open(p)
	if err != nil {
		return nil, translate("open", p, err)
	}
	return fd, nil
}

func (a *AferoFS) WriteFile(p string, data []byte, appendTo bool) error {
	if IsDir(a, p) {
		return &PathError{Op: "write", Path: p, Err: ErrIsDir}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	fd, err := a.fs.OpenFile(p, flags, 0644)
	if err != nil {
		return translate("write", p, err)
	}
	defer fd.Close()

	_, err = fd.Write(data)
	return translate("write", p, err)
}

func (a *AferoFS) ListDir(p string) ([]FileInfo, error) {
	info, err := a.fs.Stat(p)
	if err != nil {
		return nil, translate("list", p, err)
	}
	if !info.IsDir() {
		return nil, &PathError{Op: "list", Path: p, Err: ErrNotDir}
	}

	entries, err := afero.ReadDir(a.fs, p)
	if err != nil {
		return nil, translate("list", p, err)
	}

	out := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		out = append(out, fromOsInfo(path.Join(p, entry.Name()), entry))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (a *AferoFS) Stat(p string) (FileInfo, error) {
	info, err := a.fs.Stat(p)
	if err != nil {
		return FileInfo{}, translate("stat", p, err)
	}
	return fromOsInfo(p, info), nil
}

func (a *AferoFS) Mkdir(p string) error {
	if Exists(a, p) {
		return &PathError{Op: "mkdir", Path: p, Err: ErrExists}
	}
	return translate("mkdir", p, a.fs.MkdirAll(p, 0755))
}

func (a *AferoFS) Remove(p string, recursive bool) error {
	info, err := a.fs.Stat(p)
	if err != nil {
		return translate("remove", p, err)
	}

	if info.IsDir() && !recursive {
		return &PathError{Op: "remove", Path: p, Err: ErrIsDir}
	}
	if recursive {
		return translate("remove", p, a.fs.RemoveAll(p))
	}
	return translate("remove", p, a.fs.Remove(p))
}

func (a *AferoFS) Copy(src, dst string, recursive bool) error {
	info, err := a.fs.Stat(src)
	if err != nil {
		return translate("copy", src, err)
	}

	if info.IsDir() {
		if !recursive {
			return &PathError{Op: "copy", Path: src, Err: ErrIsDir}
		}
		return a.copyTree(src, dst)
	}

	data, err := a.ReadFile(src)
	if err != nil {
		return err
	}
	if IsDir(a, dst) {
		dst = path.Join(dst, path.Base(src))
	}
	return a.WriteFile(dst, data, false)
}

func (a *AferoFS) copyTree(src, dst string) error {
	if err := a.fs.MkdirAll(dst, 0755); err != nil {
		return translate("copy", dst, err)
	}

	entries, err := afero.ReadDir(a.fs, src)
	if err != nil {
		return translate("copy", src, err)
	}
	for _, entry := range entries {
		from := path.Join(src, entry.Name())
		to := path.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := a.copyTree(from, to); err != nil {
				return err
			}
			continue
		}
		data, err := a.ReadFile(from)
		if err != nil {
			return err
		}
		if err := a.WriteFile(to, data, false); err != nil {
			return err
		}
	}
	return nil
}

func (a *AferoFS) Move(src, dst string) error {
	if !Exists(a, src) {
		return &PathError{Op: "move", Path: src, Err: ErrNotFound}
	}
	if IsDir(a, dst) {
		dst = path.Join(dst, path.Base(src))
	}
	return translate("move", src, a.fs.Rename(src, dst))
}

func (a *AferoFS) Symlink(target, linkName string) error {
	linker, ok := a.fs.(afero.Linker)
	if !ok {
		return &PathError{Op: "symlink", Path: linkName, Err: ErrPermission}
	}
	return translate("symlink", linkName, linker.SymlinkIfPossible(target, linkName))
}

func (a *AferoFS) Readlink(p string) (string, error) {
	reader, ok := a.fs.(afero.LinkReader)
	if !ok {
		return "", &PathError{Op: "readlink", Path: p, Err: ErrNotFound}
	}
	target, err := reader.ReadlinkIfPossible(p)
	return target, translate("readlink", p, err)
}

func fromOsInfo(p string, info os.FileInfo) FileInfo {
	return FileInfo{
		Name:    info.Name(),
		Path:    p,
		Size:    info.Size(),
		Mode:    uint32(info.Mode()),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
		Symlink: info.Mode()&os.ModeSymlink != 0,
	}
}

func sliceRange(data []byte, offset, limit int64) []byte {
	if offset < 0 {
		offset = 0
	}
	if offset >= int64(len(data)) {
		return nil
	}
	data = data[offset:]
	if limit >= 0 && limit < int64(len(data)) {
		data = data[:limit]
	}
	return data
}
