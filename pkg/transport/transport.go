// Package transport connects the host to targets.
//
// A target is addressed by URL:
//
//	tcp://host:port                        raw byte stream
//	ws://host:port/path                    binary WebSocket frames
//	mqtt://broker:1883/prefix/?device=dev  MQTT topics prefix/dev/tx and prefix/dev/rx
//	vsock://cid:port                       virtio socket
//	exec:path?arg=a&arg=b                  subprocess on stdin and stdout
//	file:path                              recorded capture, read only
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"sort"
	"sync"

	"github.com/golang/glog"
)

// Dialer opens a connection to the target at u.
type Dialer func(ctx context.Context, u *url.URL) (io.ReadWriteCloser, error)

var (
	// ErrUnsupportedScheme indicates a URL scheme without a Dialer.
	ErrUnsupportedScheme = errors.New("unsupported transport scheme")
	// ErrInvalidAddress indicates a URL missing parts for its scheme.
	ErrInvalidAddress = errors.New("invalid transport address")
)

var (
	dialersLock sync.RWMutex
	dialers     = map[string]Dialer{
		"tcp":   dialTCP,
		"ws":    dialWebsocket,
		"wss":   dialWebsocket,
		"mqtt":  dialMQTT,
		"vsock": dialVsock,
		"exec":  dialExec,
		"file":  dialFile,
	}
)

// Register installs d for scheme, replacing any existing one.
func Register(scheme string, d Dialer) {
	dialersLock.Lock()
	dialers[scheme] = d
	dialersLock.Unlock()
}

// Schemes lists the registered schemes.
func Schemes() []string {
	dialersLock.RLock()
	defer dialersLock.RUnlock()
	schemes := make([]string, 0, len(dialers))
	for scheme := range dialers {
		schemes = append(schemes, scheme)
	}
	sort.Strings(schemes)
	return schemes
}

// Dial connects to the target at rawURL.
func Dial(ctx context.Context, rawURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	dialersLock.RLock()
	d, ok := dialers[u.Scheme]
	dialersLock.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	glog.V(2).Infof("transport: dial %s", u.Redacted())
	return d(ctx, u)
}

func dialTCP(ctx context.Context, u *url.URL) (io.ReadWriteCloser, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %s has no host", ErrInvalidAddress, u)
	}
	var d net.Dialer
	return d.DialContext(ctx, "tcp", u.Host)
}
