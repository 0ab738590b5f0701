package bwire

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

const fileCacheControl = "private, max-age=3600"

// ServeFile answers r with the file at name. It honors If-None-Match with 304 and single byte ranges with
// 206; a Range that cannot be served falls back to the full file. A missing file is a 404 [*Error].
func ServeFile(r *Request, name string) (*Response, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, errors.Wrap(err, "resolve file path")
	}

	f, err := os.Open(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewError(CodeNotFound, err)
	} else if err != nil {
		return nil, errors.Wrap(err, "open file")
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "stat file")
	}

	if fi.IsDir() {
		_ = f.Close()
		return nil, NewError(CodeNotFound, errors.Newf("%s is a directory", name))
	}

	size := fi.Size()
	etag := fileETag(abs, fi.ModTime(), size)

	if inm, ok := r.Header(HeaderIfNoneMatch); ok && (inm == "*" || inm == etag) {
		_ = f.Close()

		return NewResponse(StatusNotModified).
			SetHeader(HeaderETag, etag).
			SetHeader(HeaderCacheControl, fileCacheControl), nil
	}

	resp := NewResponse(StatusOK).
		SetHeader(HeaderETag, etag).
		SetHeader(HeaderLastModified, fi.ModTime().UTC().Format(http.TimeFormat)).
		SetHeader(HeaderCacheControl, fileCacheControl).
		SetHeader(HeaderAcceptRanges, "bytes").
		ContentType(detectMIME(abs))

	from, to, ok := byteRange(r, etag, size)
	if !ok {
		return resp.Stream(f, size), nil
	}

	if _, err := f.Seek(from, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "seek file")
	}

	resp.status = StatusPartialContent

	return resp.
		SetHeader(HeaderContentRange, fmt.Sprintf("bytes %d-%d/%d", from, to, size)).
		Stream(f, to-from+1), nil
}

// fileETag is a quoted hash over the absolute path, modification time and size.
func fileETag(abs string, mod time.Time, size int64) string {
	sum := xxhash.Sum64String(abs + "|" + strconv.FormatInt(mod.UnixNano(), 10) + "|" + strconv.FormatInt(size, 10))
	return `"` + strconv.FormatUint(sum, 16) + `"`
}

// byteRange returns the inclusive range requested by a "bytes=<from>-<to>" Range header. An end that is
// missing or not a number means the end of the file, an end past the file is clamped. A Range sent with an
// If-Range that does not match etag is ignored.
func byteRange(r *Request, etag string, size int64) (from, to int64, ok bool) {
	hdr, ok := r.Header(HeaderRange)
	if !ok {
		return 0, 0, false
	}

	if ir, ok := r.Header(HeaderIfRange); ok && ir != etag {
		return 0, 0, false
	}

	rng, ok := strings.CutPrefix(hdr, "bytes=")
	if !ok || strings.Contains(rng, ",") {
		return 0, 0, false
	}

	fromStr, toStr, ok := strings.Cut(rng, "-")
	if !ok {
		return 0, 0, false
	}

	from, err := strconv.ParseInt(fromStr, 10, 64)
	if err != nil || from < 0 || from >= size {
		return 0, 0, false
	}

	to = size - 1
	if n, err := strconv.ParseInt(toStr, 10, 64); err == nil && n < to {
		to = n
	}

	if to < from {
		return 0, 0, false
	}

	return from, to, true
}

// FileServer serves GET and HEAD requests with the file at the request path under root. It is meant to be
// mounted with [Router.Mount] so the mount prefix is stripped. Paths with ".." segments are rejected with
// 403; other methods pass.
func FileServer(root string) Handler {
	return HandlerFunc(func(_ context.Context, r *Request) (*Response, error) {
		if r.Method() != MethodGet && r.Method() != MethodHead {
			return Pass()
		}

		if slices.Contains(strings.Split(r.Path(), "/"), "..") {
			return nil, NewError(CodeForbidden, errors.Newf("path %q escapes the file root", r.Path()))
		}

		rel := path.Clean(r.Path())
		if rel == "/" {
			return nil, NewError(CodeNotFound, errors.New("no file name"))
		}

		return ServeFile(r, filepath.Join(root, filepath.FromSlash(rel)))
	})
}
