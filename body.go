package bwire

import (
	"io"
	"sync"

	"github.com/cockroachdb/errors"
)

type bodyKind uint8

const (
	bodyBytes bodyKind = iota + 1
	bodyStream
)

// Body is a response entity. It is either a byte slice held in memory or a stream with a declared length. A
// stream is owned by the response it is attached to and is closed exactly once, whether it was written or not.
type Body struct {
	kind bodyKind
	data []byte
	src  io.ReadCloser
	size int64

	closeOnce sync.Once
	closeErr  error
}

// BytesBody returns an in-memory body.
func BytesBody(b []byte) *Body {
	return &Body{kind: bodyBytes, data: b, size: int64(len(b))}
}

// StreamBody returns a body that copies exactly size bytes from src.
func StreamBody(src io.ReadCloser, size int64) *Body {
	if src == nil {
		panic("bwire: stream body without a source")
	}

	if size < 0 {
		panic("bwire: stream body with negative length")
	}

	return &Body{kind: bodyStream, src: src, size: size}
}

// Len returns the number of bytes the body will write.
func (b *Body) Len() int64 { return b.size }

// Close releases the stream behind the body. Calling it more than once is allowed; only the first call
// reaches the source.
func (b *Body) Close() error {
	b.closeOnce.Do(func() {
		if b.kind == bodyStream {
			b.closeErr = b.src.Close()
		}
	})

	return b.closeErr
}

// writeTo copies the body onto w. It does not close the body.
func (b *Body) writeTo(w io.Writer, buf []byte) error {
	switch b.kind {
	case bodyBytes:
		if _, err := w.Write(b.data); err != nil {
			return errors.Wrap(err, "write body")
		}
	case bodyStream:
		n, err := io.CopyBuffer(w, io.LimitReader(b.src, b.size), buf)
		if err != nil {
			return errors.Wrapf(err, "stream body after %d of %d bytes", n, b.size)
		}

		if n < b.size {
			return errors.Wrapf(io.ErrUnexpectedEOF, "stream body ended after %d of %d bytes", n, b.size)
		}
	default:
		return errors.Newf("unknown body kind %d", b.kind)
	}

	return nil
}
