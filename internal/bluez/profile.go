package bluez

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/godbus/dbus/v5"
)

const (
	profilePath = "/bluejack/profile"
	hidUUID     = "00001124-0000-1000-8000-00805f9b34fb"
)

// Boot keyboard report descriptor: 8 modifier bits, 6 keycode slots.
var keyboardDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop Ctrls)
	0x09, 0x06, // Usage (Keyboard)
	0xa1, 0x01, // Collection (Application)
	0x85, 0x01, // Report ID (1)
	0x95, 0x08, // Report Count (8)
	0x75, 0x01, // Report Size (1)
	0x05, 0x07, // Usage Page (Kbrd/Keypad)
	0x19, 0xe0, // Usage Minimum (0xE0)
	0x29, 0xe7, // Usage Maximum (0xE7)
	0x15, 0x00, // Logical Minimum (0)
	0x25, 0x01, // Logical Maximum (1)
	0x81, 0x02, // Input
	0x95, 0x06, // Report Count (6)
	0x75, 0x08, // Report Size (8)
	0x15, 0x00, // Logical Minimum (0)
	0x25, 0xff, // Logical Maximum (255)
	0x05, 0x07, // Usage Page (Kbrd/Keypad)
	0x19, 0x00, // Usage Minimum (0x00)
	0x29, 0xff, // Usage Maximum (0xFF)
	0x81, 0x00, // Input
	0xc0, // End Collection
}

// SDP record for an HID keyboard service. The report descriptor hex is
// injected at registration time.
var sdpRecordTemplate = template.Must(template.New("sdp").Parse(`<?xml version="1.0" encoding="UTF-8" ?>
<record>
  <attribute id="0x0001">
    <sequence><uuid value="0x1124" /></sequence>
  </attribute>
  <attribute id="0x0004">
    <sequence>
      <sequence><uuid value="0x0100" /><uint16 value="0x0011" /></sequence>
      <sequence><uuid value="0x0011" /></sequence>
    </sequence>
  </attribute>
  <attribute id="0x0005">
    <sequence><uuid value="0x1002" /></sequence>
  </attribute>
  <attribute id="0x0006">
    <sequence><uint16 value="0x656e" /><uint16 value="0x006a" /><uint16 value="0x0100" /></sequence>
  </attribute>
  <attribute id="0x0009">
    <sequence>
      <sequence><uuid value="0x1124" /><uint16 value="0x0100" /></sequence>
    </sequence>
  </attribute>
  <attribute id="0x000d">
    <sequence>
      <sequence>
        <sequence><uuid value="0x0100" /><uint16 value="0x0013" /></sequence>
        <sequence><uuid value="0x0011" /></sequence>
      </sequence>
    </sequence>
  </attribute>
  <attribute id="0x0100">
    <text value="{{.Name}}" />
  </attribute>
  <attribute id="0x0101">
    <text value="Keyboard" />
  </attribute>
  <attribute id="0x0201">
    <uint16 value="0x0111" />
  </attribute>
  <attribute id="0x0202">
    <uint8 value="0x40" />
  </attribute>
  <attribute id="0x0203">
    <uint8 value="0x00" />
  </attribute>
  <attribute id="0x0204">
    <boolean value="true" />
  </attribute>
  <attribute id="0x0205">
    <boolean value="true" />
  </attribute>
  <attribute id="0x0206">
    <sequence>
      <sequence>
        <uint8 value="0x22" />
        <text encoding="hex" value="{{.Descriptor}}" />
      </sequence>
    </sequence>
  </attribute>
  <attribute id="0x0207">
    <sequence>
      <sequence><uint16 value="0x0409" /><uint16 value="0x0100" /></sequence>
    </sequence>
  </attribute>
  <attribute id="0x020b">
    <uint16 value="0x0100" />
  </attribute>
  <attribute id="0x020c">
    <uint16 value="0x0c80" />
  </attribute>
  <attribute id="0x020d">
    <boolean value="false" />
  </attribute>
  <attribute id="0x020e">
    <boolean value="true" />
  </attribute>
</record>
`))

// profile implements org.bluez.Profile1. The connection plumbing is a
// no-op: channels are dialed outbound, the record only advertises the
// HID host role to the daemon.
type profile struct {
	logger *slog.Logger
}

func (p *profile) Release() *dbus.Error {
	p.logger.Debug("profile released")
	return nil
}

func (p *profile) NewConnection(device dbus.ObjectPath, fd dbus.UnixFD, props map[string]dbus.Variant) *dbus.Error {
	p.logger.Debug("profile NewConnection", "device", device)
	return nil
}

func (p *profile) RequestDisconnection(device dbus.ObjectPath) *dbus.Error {
	p.logger.Debug("profile RequestDisconnection", "device", device)
	return nil
}

// Profile holds an HID profile registration for the session lifetime.
type Profile struct {
	conn       *dbus.Conn
	logger     *slog.Logger
	registered bool
}

func NewProfile(conn *dbus.Conn, logger *slog.Logger) *Profile {
	return &Profile{conn: conn, logger: logger}
}

// SDPRecord renders the service record with the keyboard descriptor.
func SDPRecord(name string) (string, error) {
	var buf bytes.Buffer
	err := sdpRecordTemplate.Execute(&buf, struct {
		Name       string
		Descriptor string
	}{Name: name, Descriptor: hex.EncodeToString(keyboardDescriptor)})
	if err != nil {
		return "", fmt.Errorf("bluez: render SDP record: %w", err)
	}
	return buf.String(), nil
}

// Register exports the profile object and registers the HID service
// record with the daemon.
func (p *Profile) Register(name string) error {
	record, err := SDPRecord(name)
	if err != nil {
		return err
	}
	if err := p.conn.Export(&profile{logger: p.logger}, profilePath, "org.bluez.Profile1"); err != nil {
		return fmt.Errorf("bluez: export profile: %w", err)
	}

	opts := map[string]dbus.Variant{
		"ServiceRecord":         dbus.MakeVariant(record),
		"Role":                  dbus.MakeVariant("server"),
		"RequireAuthentication": dbus.MakeVariant(false),
		"RequireAuthorization":  dbus.MakeVariant(false),
	}
	mgr := p.conn.Object(Service, "/org/bluez")
	if call := mgr.Call(profileManagerIface+".RegisterProfile", 0, dbus.ObjectPath(profilePath), hidUUID, opts); call.Err != nil {
		return fmt.Errorf("bluez: register HID profile: %w", call.Err)
	}
	p.registered = true
	p.logger.Info("HID profile registered", "name", name)
	return nil
}

// Unregister drops the profile registration. Idempotent.
func (p *Profile) Unregister() {
	if !p.registered {
		return
	}
	mgr := p.conn.Object(Service, "/org/bluez")
	if call := mgr.Call(profileManagerIface+".UnregisterProfile", 0, dbus.ObjectPath(profilePath)); call.Err != nil {
		p.logger.Error("unregister HID profile", "error", call.Err)
	}
	_ = p.conn.Export(nil, profilePath, "org.bluez.Profile1")
	p.registered = false
}
