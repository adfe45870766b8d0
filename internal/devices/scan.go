package devices

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/bluejack/bluejack/internal/bluez"
)

// Scan runs BlueZ discovery on the adapter for the given window and
// returns every device the daemon has seen, visible or cached.
func Scan(conn *dbus.Conn, iface string, window time.Duration, logger *slog.Logger) ([]Device, error) {
	adapter := conn.Object(bluez.Service, dbus.ObjectPath(bluez.AdapterPath(iface)))

	logger.Info("scanning for devices", "adapter", iface, "window", window)
	if call := adapter.Call("org.bluez.Adapter1.StartDiscovery", 0); call.Err != nil {
		return nil, fmt.Errorf("devices: start discovery: %w", call.Err)
	}
	time.Sleep(window)
	if call := adapter.Call("org.bluez.Adapter1.StopDiscovery", 0); call.Err != nil {
		logger.Debug("stop discovery", "error", call.Err)
	}

	var managed map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	root := conn.Object(bluez.Service, "/")
	if err := root.Call("org.freedesktop.DBus.ObjectManager.GetManagedObjects", 0).Store(&managed); err != nil {
		return nil, fmt.Errorf("devices: get managed objects: %w", err)
	}

	var out []Device
	for _, ifaces := range managed {
		props, ok := ifaces[bluez.DeviceIface]
		if !ok {
			continue
		}
		addr, _ := props["Address"].Value().(string)
		if addr == "" {
			continue
		}
		name, _ := props["Name"].Value().(string)
		out = append(out, Device{Addr: addr, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Addr < out[j].Addr })
	logger.Info("scan complete", "found", len(out))
	return out, nil
}
