package bluez

import (
	"fmt"
	"os/exec"
	"strings"
)

// Preflight verifies the host tooling before any connection attempt:
// bluetoothctl must run and at least one controller must be present.
// A failure here is fatal for the whole run; nothing retries it.
func Preflight() error {
	if err := exec.Command("bluetoothctl", "--version").Run(); err != nil {
		return fmt.Errorf("bluetoothctl is not installed or not working properly: %w", err)
	}
	out, err := exec.Command("bluetoothctl", "list").CombinedOutput()
	if err != nil {
		return fmt.Errorf("bluetoothctl list: %w", err)
	}
	if !strings.Contains(string(out), "Controller") {
		return fmt.Errorf("no Bluetooth adapters have been detected")
	}
	return nil
}
