package transport

import (
	"context"
	"io"
	"net/url"

	"github.com/robotalks/metal.go/pkg/host"
)

type captureConn struct {
	io.ReadCloser
}

// Write implements io.Writer, a capture can't be answered.
func (captureConn) Write([]byte) (int, error) {
	return 0, host.ErrReadOnly
}

// OpenCapture opens a recorded session as a connection. Sessions which
// expected answers fail with host.ErrReadOnly.
func OpenCapture(path string) (io.ReadWriteCloser, error) {
	r, err := host.OpenCapture(path)
	if err != nil {
		return nil, err
	}
	return captureConn{ReadCloser: r}, nil
}

func dialFile(ctx context.Context, u *url.URL) (io.ReadWriteCloser, error) {
	path := u.Opaque
	if path == "" {
		path = u.Path
	}
	return OpenCapture(path)
}
