package transport

import (
	"context"
	"io"
	"net/url"

	"golang.org/x/net/websocket"
)

// WebsocketPackets carries packets in binary WebSocket messages.
type WebsocketPackets websocket.Conn

// NewWebsocketPackets wraps conn.
func NewWebsocketPackets(conn *websocket.Conn) *WebsocketPackets {
	conn.PayloadType = websocket.BinaryFrame
	return (*WebsocketPackets)(conn)
}

// ReadPacket implements PacketReader.
func (p *WebsocketPackets) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *WebsocketPackets) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *WebsocketPackets) Close() error {
	return (*websocket.Conn)(p).Close()
}

func dialWebsocket(ctx context.Context, u *url.URL) (io.ReadWriteCloser, error) {
	origin := &url.URL{Scheme: "http", Host: u.Host}
	if u.Scheme == "wss" {
		origin.Scheme = "https"
	}
	config, err := websocket.NewConfig(u.String(), origin.String())
	if err != nil {
		return nil, err
	}
	conn, err := config.DialContext(ctx)
	if err != nil {
		return nil, err
	}
	return NewPacketConn(NewWebsocketPackets(conn)), nil
}

// WebsocketHandler serves each WebSocket connection with serve.
func WebsocketHandler(serve func(io.ReadWriteCloser)) websocket.Handler {
	return func(conn *websocket.Conn) {
		serve(NewPacketConn(NewWebsocketPackets(conn)))
	}
}
