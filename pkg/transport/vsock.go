package transport

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/mdlayher/vsock"
)

// ParseVsock extracts the context ID and port of vsock://cid:port.
func ParseVsock(u *url.URL) (cid, port uint32, err error) {
	c, err := strconv.ParseUint(u.Hostname(), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: context id %q", ErrInvalidAddress, u.Hostname())
	}
	p, err := strconv.ParseUint(u.Port(), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: port %q", ErrInvalidAddress, u.Port())
	}
	return uint32(c), uint32(p), nil
}

func dialVsock(ctx context.Context, u *url.URL) (io.ReadWriteCloser, error) {
	cid, port, err := ParseVsock(u)
	if err != nil {
		return nil, err
	}
	return vsock.Dial(cid, port, nil)
}
