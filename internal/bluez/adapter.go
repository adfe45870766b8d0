package bluez

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/godbus/dbus/v5"
)

// Adapter controls one local Bluetooth controller via the system bus
// plus hciconfig for the properties BlueZ does not expose writable.
type Adapter struct {
	iface  string
	conn   *dbus.Conn
	obj    dbus.BusObject
	logger *slog.Logger
}

// NewAdapter resolves the adapter object and verifies it exists.
func NewAdapter(conn *dbus.Conn, iface string, logger *slog.Logger) (*Adapter, error) {
	obj := conn.Object(Service, dbus.ObjectPath(AdapterPath(iface)))
	if _, err := obj.GetProperty(adapterIface + ".Address"); err != nil {
		logger.Error("unable to find adapter, aborting", "adapter", iface, "error", err)
		return nil, fmt.Errorf("bluez: adapter %s not found: %w", iface, err)
	}
	return &Adapter{iface: iface, conn: conn, obj: obj, logger: logger}, nil
}

// SetPowered flips the adapter power state via the Powered property.
func (a *Adapter) SetPowered(on bool) error {
	call := a.obj.Call(propertiesIface+".Set", 0, adapterIface, "Powered", dbus.MakeVariant(on))
	if call.Err != nil {
		return fmt.Errorf("bluez: set Powered=%v on %s: %w", on, a.iface, call.Err)
	}
	return nil
}

// SetProperty sets an hciconfig-level adapter property (name, class)
// and verifies it took effect; BlueZ silently drops some writes when
// the adapter is busy, so set-then-verify is mandatory.
func (a *Adapter) SetProperty(prop, value string) error {
	if err := runCommand(a.logger, "hciconfig", a.iface, prop, value); err != nil {
		return err
	}
	out, err := exec.Command("hciconfig", a.iface, prop).CombinedOutput()
	if err != nil {
		return fmt.Errorf("bluez: verify %s on %s: %w", prop, a.iface, err)
	}
	if !strings.Contains(string(out), value) {
		a.logger.Error("unable to set adapter property, aborting", "prop", prop, "output", strings.TrimSpace(string(out)))
		return fmt.Errorf("bluez: failed to set %s on %s", prop, a.iface)
	}
	return nil
}

// EnableSSP switches the adapter into Secure Simple Pairing mode.
func (a *Adapter) EnableSSP() error {
	if err := runCommand(a.logger, "hciconfig", a.iface, "sspmode", "1"); err != nil {
		a.logger.Error("failed to enable SSP", "adapter", a.iface, "error", err)
		return fmt.Errorf("bluez: enable SSP on %s: %w", a.iface, err)
	}
	return nil
}

// RemoveDevice deletes the pairing record for a target so the next
// attempt starts from a clean unpaired state. Missing devices are not
// an error.
func (a *Adapter) RemoveDevice(addr string) error {
	path := dbus.ObjectPath(DevicePath(a.iface, addr))
	call := a.obj.Call(adapterIface+".RemoveDevice", 0, path)
	if call.Err != nil {
		if strings.Contains(call.Err.Error(), "DoesNotExist") {
			return nil
		}
		return fmt.Errorf("bluez: remove device %s: %w", addr, call.Err)
	}
	a.logger.Info("removed device", "addr", addr)
	return nil
}
