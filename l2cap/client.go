// Package l2cap dials and drives connection-oriented L2CAP channels
// against a target device's HID service PSMs.
package l2cap

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bluejack/bluejack/internal/log"
)

// HID service PSMs on the target. Fixed by the profile, not configurable.
const (
	PSMControl      uint16 = 1  // SDP/control
	PSMHIDControl   uint16 = 17 // HID control
	PSMHIDInterrupt uint16 = 19 // HID interrupt, carries the reports
)

const (
	sendWindow   = 500 * time.Millisecond
	pollInterval = time.Millisecond
	recvBufSize  = 64
)

// Client owns one non-blocking L2CAP socket to a fixed PSM on the
// target. A transport error on send invalidates the client; it never
// reconnects itself.
type Client struct {
	addr      string
	bdaddr    [6]byte
	port      uint16
	fd        int
	connected bool
	logger    *slog.Logger
	raw       log.RawLogger
}

// NewClient validates the target address and returns an unconnected client.
func NewClient(addr string, port uint16, logger *slog.Logger, raw log.RawLogger) (*Client, error) {
	bdaddr, err := ParseAddr(addr)
	if err != nil {
		return nil, err
	}
	return &Client{
		addr:   addr,
		bdaddr: bdaddr,
		port:   port,
		fd:     -1,
		logger: logger,
		raw:    raw,
	}, nil
}

// Port returns the PSM this client dials.
func (c *Client) Port() uint16 { return c.port }

// Connected reports whether the client currently holds a live socket.
func (c *Client) Connected() bool { return c.connected }

// Connect opens the L2CAP connection and switches the socket to
// non-blocking mode. A timeout of zero blocks until the kernel gives up.
func (c *Client) Connect(timeout time.Duration) error {
	c.logger.Info("connecting", "addr", c.addr, "port", c.port)

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_L2CAP)
	if err != nil {
		return &ConnectError{Addr: c.addr, Port: c.port, Err: err}
	}
	if timeout > 0 {
		tv := unix.NsecToTimeval(timeout.Nanoseconds())
		_ = unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_SNDTIMEO, &tv)
	}

	sa := &unix.SockaddrL2{
		PSM:      c.port,
		Addr:     c.bdaddr,
		AddrType: unix.BDADDR_BREDR,
	}
	if err := unix.Connect(fd, sa); err != nil {
		_ = unix.Close(fd)
		c.connected = false
		c.logger.Error("connect failed", "addr", c.addr, "port", c.port, "error", err)
		return &ConnectError{Addr: c.addr, Port: c.port, Err: err}
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		c.connected = false
		return &ConnectError{Addr: c.addr, Port: c.port, Err: err}
	}

	c.fd = fd
	c.connected = true
	c.logger.Debug("connected", "addr", c.addr, "port", c.port)
	return nil
}

// Send writes one report, spinning on would-block for up to the send
// window. Any other transport error, or the window expiring without a
// successful write, invalidates the client and surfaces ErrReconnect.
func (c *Client) Send(data []byte) error {
	if !c.connected {
		return fmt.Errorf("port %d not connected: %w", c.port, ErrReconnect)
	}

	deadline := time.Now().Add(sendWindow)
	for {
		_, err := unix.Write(c.fd, data)
		if err == nil {
			c.raw.Log(true, c.port, data)
			return nil
		}
		if err != unix.EAGAIN {
			c.logger.Error("send failed", "port", c.port, "error", err)
			c.invalidate()
			return fmt.Errorf("write on port %d: %v: %w", c.port, err, ErrReconnect)
		}
		if time.Now().After(deadline) {
			c.logger.Error("send window expired", "port", c.port)
			c.invalidate()
			return fmt.Errorf("send window expired on port %d: %w", c.port, ErrReconnect)
		}
		time.Sleep(pollInterval)
	}
}

// Recv polls for inbound data until timeout elapses. A zero-length read
// means the peer disconnected; the client is marked unconnected and nil
// is returned. Would-block is tolerated; other errors propagate.
func (c *Client) Recv(timeout time.Duration) ([]byte, error) {
	start := time.Now()
	buf := make([]byte, recvBufSize)
	for {
		if !c.connected {
			return nil, nil
		}
		n, err := unix.Read(c.fd, buf)
		if err == nil {
			if n == 0 {
				c.connected = false
				return nil, nil
			}
			data := append([]byte(nil), buf[:n]...)
			c.raw.Log(false, c.port, data)
			return data, nil
		}
		if err != unix.EAGAIN {
			return nil, fmt.Errorf("l2cap: read on port %d: %w", c.port, err)
		}
		if time.Since(start) >= timeout {
			return nil, nil
		}
		time.Sleep(pollInterval)
	}
}

// Close releases the socket. Idempotent; a closed or never-connected
// client is a no-op.
func (c *Client) Close() {
	if c.connected {
		_ = unix.Close(c.fd)
	}
	c.connected = false
	c.fd = -1
}

func (c *Client) invalidate() {
	if c.fd >= 0 {
		_ = unix.Close(c.fd)
	}
	c.connected = false
	c.fd = -1
}
