package l2cap

import (
	"log/slog"
	"sort"
	"time"

	"github.com/bluejack/bluejack/internal/log"
)

// Channel is the connection surface the manager batches. *Client is the
// production implementation.
type Channel interface {
	Connect(timeout time.Duration) error
	Send(data []byte) error
	Recv(timeout time.Duration) ([]byte, error)
	Close()
	Port() uint16
}

// Manager owns the set of channels for one session attempt, keyed by
// PSM. Channels connect and close as a unit: a single connect failure
// fails the batch, and callers recreate every channel before retrying.
type Manager struct {
	addr           string
	channels       map[uint16]Channel
	connectTimeout time.Duration
	logger         *slog.Logger

	// newChannel is swapped out by tests.
	newChannel func(addr string, port uint16) (Channel, error)
}

// NewManager returns a manager dialing the given target address.
func NewManager(addr string, connectTimeout time.Duration, logger *slog.Logger, raw log.RawLogger) *Manager {
	return &Manager{
		addr:           addr,
		channels:       make(map[uint16]Channel),
		connectTimeout: connectTimeout,
		logger:         logger,
		newChannel: func(addr string, port uint16) (Channel, error) {
			return NewClient(addr, port, logger, raw)
		},
	}
}

// CreateConnection registers a fresh unconnected channel for the port,
// replacing any prior entry.
func (m *Manager) CreateConnection(port uint16) (Channel, error) {
	ch, err := m.newChannel(m.addr, port)
	if err != nil {
		return nil, err
	}
	m.channels[port] = ch
	return ch, nil
}

// Channel returns the registered channel for the port, or nil.
func (m *Manager) Channel(port uint16) Channel {
	return m.channels[port]
}

// ConnectAll connects every registered channel and requires all to
// succeed. The first failure aborts the batch; no partial-success state
// is kept, callers recreate all channels before the next attempt.
func (m *Manager) ConnectAll() error {
	for _, port := range m.ports() {
		if err := m.channels[port].Connect(m.connectTimeout); err != nil {
			m.logger.Error("connection failure", "addr", m.addr, "port", port, "error", err)
			return err
		}
	}
	return nil
}

// CloseAll closes every registered channel. Each channel's Close is
// idempotent, so already-dead channels are harmless.
func (m *Manager) CloseAll() {
	for _, port := range m.ports() {
		m.channels[port].Close()
	}
}

func (m *Manager) ports() []uint16 {
	ports := make([]uint16, 0, len(m.channels))
	for p := range m.channels {
		ports = append(ports, p)
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i] < ports[j] })
	return ports
}
