// Package bluez wraps the host Bluetooth collaborators: adapter
// property control, HID profile registration, the pairing agent and
// paired-device cleanup. Everything here is a thin surface over the
// system D-Bus daemon and hciconfig; it keeps no interesting state.
package bluez

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

const (
	Service     = "org.bluez"
	AgentIface  = "org.bluez.Agent1"
	DeviceIface = "org.bluez.Device1"

	agentManagerIface   = "org.bluez.AgentManager1"
	profileManagerIface = "org.bluez.ProfileManager1"
	adapterIface        = "org.bluez.Adapter1"
	propertiesIface     = "org.freedesktop.DBus.Properties"
)

// DevicePath returns the BlueZ object path for a device on an adapter,
// e.g. /org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF.
func DevicePath(iface, addr string) string {
	dev := "dev_" + strings.ReplaceAll(strings.ToUpper(addr), ":", "_")
	return fmt.Sprintf("/org/bluez/%s/%s", iface, dev)
}

// AdapterPath returns the BlueZ object path for an adapter interface.
func AdapterPath(iface string) string {
	return "/org/bluez/" + iface
}

// RestartDaemon bounces the host Bluetooth daemon and waits for it to
// settle. Registration must happen against a fresh daemon or stale
// profile state from a previous run can linger.
func RestartDaemon(logger *slog.Logger) error {
	logger.Info("restarting bluetooth daemon")
	if err := runCommand(logger, "service", "bluetooth", "restart"); err != nil {
		return err
	}
	time.Sleep(5 * time.Second)
	return nil
}

func runCommand(logger *slog.Logger, name string, args ...string) error {
	logger.Debug("executing command", "cmd", name+" "+strings.Join(args, " "))
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("bluez: %s %s: %v: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return nil
}
