// Package client implements the OpenRGB SDK session: one TCP connection,
// version negotiation at connect time, and the request/response operations
// built on the wire codec in internal/protocol.
package client

import (
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

// Client is a session with an OpenRGB SDK server. The protocol version is
// negotiated once when the session is established and never changes.
//
// All exchanges are serialized through a single mutex held across the full
// write-request-then-read-response sequence. The protocol carries no request
// ids, so a response can only be attributed to a request by never having two
// in flight; fire-and-forget writes take the same mutex so another caller's
// exchange cannot split them.
//
// A transport error invalidates the session. There is no automatic
// reconnection; establish a fresh session (which renegotiates the version)
// instead.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	version uint32
	logger  zerolog.Logger
}

// Connect dials the OpenRGB server at addr and negotiates a session.
func Connect(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, &protocol.ConnectionError{Addr: addr, Err: err}
	}
	return NewClient(conn)
}

// ConnectTimeout dials with a connect timeout. The timeout covers the dial
// only; established sessions block indefinitely, matching the protocol's
// lack of in-band cancellation.
func ConnectTimeout(addr string, timeout time.Duration) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, &protocol.ConnectionError{Addr: addr, Err: err}
	}
	return NewClient(conn)
}

// NewClient negotiates a session over an already-connected conn. The client
// advertises its maximum supported version and adopts the minimum of that
// and the server's advertised version. On error the conn is closed and no
// partially negotiated session is returned.
func NewClient(conn net.Conn) (*Client, error) {
	c := &Client{
		conn:    conn,
		version: protocol.MaxProtocolVersion,
		logger:  log.With().Str("component", "client").Str("server", conn.RemoteAddr().String()).Logger(),
	}

	w := protocol.NewWriter(protocol.MaxProtocolVersion)
	w.WriteU32(protocol.MaxProtocolVersion)
	payload, err := c.exchange(0, protocol.PacketRequestProtocolVersion, w.Bytes())
	if err != nil {
		conn.Close()
		return nil, &protocol.ConnectionError{Addr: conn.RemoteAddr().String(), Err: err}
	}
	server, err := protocol.NewReader(payload, protocol.MaxProtocolVersion).ReadU32()
	if err != nil {
		conn.Close()
		return nil, &protocol.ConnectionError{Addr: conn.RemoteAddr().String(), Err: err}
	}
	if server < c.version {
		c.version = server
	}

	c.logger.Debug().
		Uint32("server_version", server).
		Uint32("session_version", c.version).
		Msg("Negotiated OpenRGB session")
	return c, nil
}

// Version returns the negotiated protocol version.
func (c *Client) Version() uint32 {
	return c.version
}

// Close closes the underlying connection. Any blocked exchange fails with
// the transport error.
func (c *Client) Close() error {
	return c.conn.Close()
}

// exchange performs one request/response round trip as an atomic unit and
// returns the response payload.
func (c *Client) exchange(deviceID uint32, id protocol.PacketID, payload []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := protocol.WritePacket(c.conn, deviceID, id, payload); err != nil {
		return nil, err
	}
	return protocol.ReadPacket(c.conn, deviceID, id)
}

// send writes one fire-and-forget packet. It competes for the same mutex
// as exchange so it can never land inside another caller's round trip.
func (c *Client) send(deviceID uint32, id protocol.PacketID, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return protocol.WritePacket(c.conn, deviceID, id, payload)
}

// requireVersion rejects an operation gated above the session version,
// before any bytes are written.
func (c *Client) requireVersion(op string, id protocol.PacketID) error {
	if min := id.MinVersion(); c.version < min {
		return &protocol.UnsupportedOperationError{
			Operation:  op,
			Required:   min,
			Negotiated: c.version,
		}
	}
	return nil
}

// encode serializes v at the session version.
func (c *Client) encode(v protocol.Encodable) ([]byte, error) {
	w := protocol.NewWriter(c.version)
	if err := w.WriteValue(v); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
