package l2cap

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluejack/bluejack/internal/log"
)

type fakeChannel struct {
	port       uint16
	connectErr error
	connects   int
	closes     int
}

func (f *fakeChannel) Connect(time.Duration) error {
	f.connects++
	return f.connectErr
}

func (f *fakeChannel) Send([]byte) error                  { return nil }
func (f *fakeChannel) Recv(time.Duration) ([]byte, error) { return nil, nil }
func (f *fakeChannel) Close()                             { f.closes++ }
func (f *fakeChannel) Port() uint16                       { return f.port }

func newTestManager(t *testing.T) (*Manager, map[uint16]*fakeChannel) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := NewManager("AA:BB:CC:DD:EE:FF", time.Second, logger, log.NewRaw(nil))
	fakes := make(map[uint16]*fakeChannel)
	m.newChannel = func(addr string, port uint16) (Channel, error) {
		f := &fakeChannel{port: port}
		fakes[port] = f
		return f, nil
	}
	return m, fakes
}

func TestConnectAllConnectsEveryChannel(t *testing.T) {
	m, fakes := newTestManager(t)
	for _, port := range []uint16{PSMControl, PSMHIDControl, PSMHIDInterrupt} {
		_, err := m.CreateConnection(port)
		require.NoError(t, err)
	}

	require.NoError(t, m.ConnectAll())
	for port, f := range fakes {
		assert.Equal(t, 1, f.connects, "port %d", port)
	}
}

func TestConnectAllAbortsOnFirstFailure(t *testing.T) {
	m, fakes := newTestManager(t)
	for _, port := range []uint16{PSMControl, PSMHIDControl, PSMHIDInterrupt} {
		_, err := m.CreateConnection(port)
		require.NoError(t, err)
	}
	boom := errors.New("boom")
	fakes[PSMHIDControl].connectErr = boom

	err := m.ConnectAll()
	assert.ErrorIs(t, err, boom)
	// Ports connect in ascending order, so 19 is never attempted.
	assert.Equal(t, 1, fakes[PSMControl].connects)
	assert.Equal(t, 1, fakes[PSMHIDControl].connects)
	assert.Equal(t, 0, fakes[PSMHIDInterrupt].connects)
}

func TestCreateConnectionReplacesExisting(t *testing.T) {
	m, _ := newTestManager(t)

	first, err := m.CreateConnection(PSMHIDInterrupt)
	require.NoError(t, err)
	second, err := m.CreateConnection(PSMHIDInterrupt)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Same(t, second, m.Channel(PSMHIDInterrupt))
}

func TestCloseAll(t *testing.T) {
	m, fakes := newTestManager(t)
	for _, port := range []uint16{PSMControl, PSMHIDInterrupt} {
		_, err := m.CreateConnection(port)
		require.NoError(t, err)
	}

	m.CloseAll()
	m.CloseAll()
	for port, f := range fakes {
		assert.Equal(t, 2, f.closes, "port %d", port)
	}
}

func TestChannelUnknownPortIsNil(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Nil(t, m.Channel(PSMHIDInterrupt))
}
