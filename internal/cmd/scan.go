package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/bluejack/bluejack/internal/devices"
)

// Scan discovers nearby devices and appends them to the known-devices
// file for later target selection.
type Scan struct {
	Adapter      string        `help:"Bluetooth adapter to use" default:"hci0" env:"BLUEJACK_ADAPTER"`
	Window       time.Duration `help:"Discovery window" default:"10s"`
	KnownDevices string        `help:"Flat file of remembered targets" default:"known_devices.txt" type:"path"`
}

// Run is called by kong when the scan command is executed.
func (s *Scan) Run(logger *slog.Logger) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}

	found, err := devices.Scan(conn, s.Adapter, s.Window, logger)
	if err != nil {
		return err
	}
	for _, d := range found {
		fmt.Println(d.String())
	}
	return devices.AppendKnown(s.KnownDevices, found)
}
