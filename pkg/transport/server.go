package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	"github.com/golang/glog"

	"github.com/robotalks/metal.go/pkg/framework"
)

// Server accepts connections on tcp:// or ws:// URLs. It lets a target
// wait for the host to dial in.
type Server struct {
	URL   *url.URL
	Serve func(io.ReadWriteCloser)

	ln net.Listener
}

// Listen creates a Server listening on rawURL. Each connection is passed
// to serve, which owns it.
func Listen(rawURL string, serve func(io.ReadWriteCloser)) (*Server, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	switch u.Scheme {
	case "tcp", "ws":
	default:
		return nil, fmt.Errorf("%w: can't listen on %q", ErrUnsupportedScheme, u.Scheme)
	}
	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("transport: listening on %s://%s", u.Scheme, ln.Addr())
	return &Server{URL: u, Serve: serve, ln: ln}, nil
}

// Addr is the listening address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// DialURL is the URL dialing this server.
func (s *Server) DialURL() string {
	u := *s.URL
	u.Host = s.ln.Addr().String()
	return u.String()
}

// Name implements framework.Named.
func (s *Server) Name() string {
	return "server:" + s.URL.Scheme
}

// Run implements framework.Runnable.
func (s *Server) Run(ctx context.Context) error {
	if s.URL.Scheme == "ws" {
		srv := &http.Server{Handler: s.websocketMux()}
		return framework.RunWithContextCloser(ctx, srv, func() error {
			if err := srv.Serve(s.ln); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	return framework.RunWithContextCloser(ctx, s.ln, func() error {
		for {
			conn, err := s.ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return nil
				}
				return err
			}
			glog.V(2).Infof("transport: accepted %s", conn.RemoteAddr())
			go s.Serve(conn)
		}
	})
}

func (s *Server) websocketMux() http.Handler {
	mux := http.NewServeMux()
	path := s.URL.Path
	if path == "" {
		path = "/"
	}
	mux.Handle(path, WebsocketHandler(s.Serve))
	return mux
}
