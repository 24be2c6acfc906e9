package vfs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/juju/ratelimit"
)

// Remote speaks the AGFS JSON-over-HTTP protocol. All failures are
// translated into the vfs error kinds; transport problems surface as
// ErrConnection.
type Remote struct {
	baseURL string
	client  *http.Client

	// readBucket, when set, throttles streamed reads.
	readBucket *ratelimit.Bucket
}

var _ FileSystem = (*Remote)(nil)

// RemoteOption configures a Remote client.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) { r.client = client }
}

// WithReadThrottle caps streamed read bandwidth in bytes per second. Zero or
// negative disables throttling.
func WithReadThrottle(bytesPerSec int64) RemoteOption {
	return func(r *Remote) {
		if bytesPerSec > 0 {
			r.readBucket = ratelimit.NewBucketWithRate(float64(bytesPerSec), bytesPerSec)
		}
	}
}

// NewRemote returns a client for the AGFS server at baseURL.
func NewRemote(baseURL string, opts ...RemoteOption) *Remote {
	r := &Remote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// serverError is the AGFS error response body.
type serverError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (r *Remote) endpoint(name string, query url.Values) string {
	return r.baseURL + "/api/v1/" + name + "?" + query.Encode()
}

func (r *Remote) do(op, path string, req *http.Request) (*http.Response, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &PathError{Op: op, Path: path, Err: ErrConnection}
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, &PathError{Op: op, Path: path, Err: decodeError(resp)}
	}
	return resp, nil
}

// decodeError maps an AGFS error response onto the vfs error kinds, using
// the structured code when present and the HTTP status otherwise.
func decodeError(resp *http.Response) error {
	var body serverError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	switch body.Code {
	case "not_found":
		return ErrNotFound
	case "permission_denied":
		return ErrPermission
	case "is_directory":
		return ErrIsDir
	case "not_a_directory":
		return ErrNotDir
	case "exists":
		return ErrExists
	case "not_empty":
		return ErrNotEmpty
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusForbidden, http.StatusUnauthorized:
		return ErrPermission
	case http.StatusConflict:
		return ErrExists
	}
	if body.Error != "" {
		return fmt.Errorf("server error: %s", body.Error)
	}
	return fmt.Errorf("server error: %s", resp.Status)
}

func (r *Remote) get(op, name, path string, query url.Values) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, r.endpoint(name, query), nil)
	if err != nil {
		return nil, &PathError{Op: op, Path: path, Err: err}
	}
	return r.do(op, path, req)
}

func (r *Remote) post(op, name, path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &PathError{Op: op, Path: path, Err: err}
	}
	req, err := http.NewRequest(http.MethodPost, r.endpoint(name, url.Values{}), bytes.NewReader(payload))
	if err != nil {
		return &PathError{Op: op, Path: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.do(op, path, req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (r *Remote) ReadFile(path string) ([]byte, error) {
	return r.ReadFileAt(path, 0, -1)
}

func (r *Remote) ReadFileAt(path string, offset, limit int64) ([]byte, error) {
	rc, err := r.openRange(path, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := ioutil.ReadAll(rc)
	if err != nil {
		return nil, &PathError{Op: "read", Path: path, Err: ErrConnection}
	}
	return data, nil
}

func (r *Remote) OpenReader(path string) (io.ReadCloser, error) {
	return r.openRange(path, 0, -1)
}

func (r *Remote) openRange(path string, offset, limit int64) (io.ReadCloser, error) {
	query := url.Values{"path": {path}}
	if offset > 0 {
		query.Set("offset", strconv.FormatInt(offset, 10))
	}
	if limit >= 0 {
		query.Set("limit", strconv.FormatInt(limit, 10))
	}

	resp, err := r.get("read", "read", path, query)
	if err != nil {
		return nil, err
	}

	if r.readBucket == nil {
		return resp.Body, nil
	}
	return &throttledReader{
		Reader: ratelimit.Reader(resp.Body, r.readBucket),
		closer: resp.Body,
	}, nil
}

type throttledReader struct {
	io.Reader
	closer io.Closer
}

func (t *throttledReader) Close() error {
	return t.closer.Close()
}

func (r *Remote) WriteFile(path string, data []byte, appendTo bool) error {
	return r.post("write", "write", path, map[string]interface{}{
		"path":   path,
		"data":   data,
		"append": appendTo,
	})
}

func (r *Remote) ListDir(path string) ([]FileInfo, error) {
	resp, err := r.get("list", "dir", path, url.Values{"path": {path}})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var entries []FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, &PathError{Op: "list", Path: path, Err: ErrConnection}
	}
	return entries, nil
}

func (r *Remote) Stat(path string) (FileInfo, error) {
	resp, err := r.get("stat", "stat", path, url.Values{"path": {path}})
	if err != nil {
		return FileInfo{}, err
	}
	defer resp.Body.Close()

	var info FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return FileInfo{}, &PathError{Op: "stat", Path: path, Err: ErrConnection}
	}
	return info, nil
}

func (r *Remote) Mkdir(path string) error {
	return r.post("mkdir", "mkdir", path, map[string]string{"path": path})
}

func (r *Remote) Remove(path string, recursive bool) error {
	return r.post("remove", "remove", path, map[string]interface{}{
		"path":      path,
		"recursive": recursive,
	})
}

func (r *Remote) Copy(src, dst string, recursive bool) error {
	return r.post("copy", "copy", src, map[string]interface{}{
		"source":    src,
		"dest":      dst,
		"recursive": recursive,
	})
}

func (r *Remote) Move(src, dst string) error {
	return r.post("move", "move", src, map[string]string{
		"source": src,
		"dest":   dst,
	})
}

func (r *Remote) Symlink(target, linkName string) error {
	return r.post("symlink", "symlink", linkName, map[string]string{
		"target": target,
		"link":   linkName,
	})
}

func (r *Remote) Readlink(path string) (string, error) {
	resp, err := r.get("readlink", "readlink", path, url.Values{"path": {path}})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		Target string `json:"target"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &PathError{Op: "readlink", Path: path, Err: ErrConnection}
	}
	return body.Target, nil
}
