package vfs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T) *AferoFS {
	t.Helper()
	fs := NewMock()
	require.NoError(t, fs.Mkdir("/home/alice"))
	require.NoError(t, fs.WriteFile("/home/alice/notes.txt", []byte("hello\nworld\n"), false))
	require.NoError(t, fs.WriteFile("/home/alice/todo.txt", []byte("ship it"), false))
	return fs
}

func TestAferoFS_ReadWrite(t *testing.T) {
	fs := newTestFS(t)

	data, err := fs.ReadFile("/home/alice/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(data))

	require.NoError(t, fs.WriteFile("/home/alice/notes.txt", []byte("more\n"), true))
	data, err = fs.ReadFile("/home/alice/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\nmore\n", string(data))
}

func TestAferoFS_ReadFileAt(t *testing.T) {
	fs := newTestFS(t)

	data, err := fs.ReadFileAt("/home/alice/notes.txt", 6, 5)
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))

	data, err = fs.ReadFileAt("/home/alice/notes.txt", 6, -1)
	require.NoError(t, err)
	assert.Equal(t, "world\n", string(data))

	data, err = fs.ReadFileAt("/home/alice/notes.txt", 100, -1)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestAferoFS_ErrorKinds(t *testing.T) {
	fs := newTestFS(t)

	_, err := fs.ReadFile("/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = fs.ReadFile("/home/alice")
	assert.ErrorIs(t, err, ErrIsDir)

	_, err = fs.ListDir("/home/alice/notes.txt")
	assert.ErrorIs(t, err, ErrNotDir)

	err = fs.Mkdir("/home/alice")
	assert.ErrorIs(t, err, ErrExists)

	err = fs.Remove("/home/alice", false)
	assert.ErrorIs(t, err, ErrIsDir)

	var pathErr *PathError
	_, err = fs.ReadFile("/missing")
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, "/missing", pathErr.Path)
}

func TestAferoFS_ListDir(t *testing.T) {
	fs := newTestFS(t)

	entries, err := fs.ListDir("/home/alice")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "notes.txt", entries[0].Name)
	assert.Equal(t, "todo.txt", entries[1].Name)
	assert.False(t, entries[0].IsDir)
	assert.EqualValues(t, 12, entries[0].Size)
}

func TestAferoFS_CopyMoveRemove(t *testing.T) {
	fs := newTestFS(t)

	require.NoError(t, fs.Copy("/home/alice/notes.txt", "/home/alice/copy.txt", false))
	data, err := fs.ReadFile("/home/alice/copy.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(data))

	require.NoError(t, fs.Move("/home/alice/copy.txt", "/home/alice/moved.txt"))
	assert.False(t, Exists(fs, "/home/alice/copy.txt"))
	assert.True(t, Exists(fs, "/home/alice/moved.txt"))

	require.NoError(t, fs.Remove("/home/alice/moved.txt", false))
	assert.False(t, Exists(fs, "/home/alice/moved.txt"))

	// Recursive copy then recursive remove.
	require.NoError(t, fs.Copy("/home/alice", "/backup", true))
	assert.True(t, Exists(fs, "/backup/notes.txt"))
	require.NoError(t, fs.Remove("/backup", true))
	assert.False(t, Exists(fs, "/backup"))
}

func TestRemote_ReadAndErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/read":
			if r.URL.Query().Get("path") == "/etc/motd" {
				w.Write([]byte("welcome to agfs\n"))
				return
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "missing", "code": "not_found"})
		case "/api/v1/stat":
			json.NewEncoder(w).Encode(FileInfo{Name: "motd", Size: 16})
		case "/api/v1/dir":
			json.NewEncoder(w).Encode([]FileInfo{{Name: "motd"}})
		default:
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"code": "permission_denied"})
		}
	}))
	defer server.Close()

	remote := NewRemote(server.URL, WithReadThrottle(1<<20))

	data, err := remote.ReadFile("/etc/motd")
	require.NoError(t, err)
	assert.Equal(t, "welcome to agfs\n", string(data))

	_, err = remote.ReadFile("/nope")
	assert.ErrorIs(t, err, ErrNotFound)

	info, err := remote.Stat("/etc/motd")
	require.NoError(t, err)
	assert.Equal(t, "motd", info.Name)

	entries, err := remote.ListDir("/etc")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	err = remote.Mkdir("/secret")
	assert.ErrorIs(t, err, ErrPermission)
}

func TestRemote_ConnectionError(t *testing.T) {
	remote := NewRemote("http://127.0.0.1:1") // nothing listens here
	_, err := remote.ReadFile("/etc/motd")
	assert.ErrorIs(t, err, ErrConnection)
}
