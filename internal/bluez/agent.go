package bluez

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
)

const agentPath = "/bluejack/agent"

// agent implements org.bluez.Agent1 and waves every pairing request
// through for the one device path it is scoped to.
type agent struct {
	targetPath dbus.ObjectPath
	logger     *slog.Logger
}

func (a *agent) Release() *dbus.Error {
	a.logger.Debug("agent released")
	return nil
}

func (a *agent) RequestPinCode(device dbus.ObjectPath) (string, *dbus.Error) {
	a.logger.Debug("agent RequestPinCode", "device", device)
	return "0000", nil
}

func (a *agent) DisplayPinCode(device dbus.ObjectPath, pincode string) *dbus.Error {
	a.logger.Debug("agent DisplayPinCode", "device", device, "pincode", pincode)
	return nil
}

func (a *agent) RequestPasskey(device dbus.ObjectPath) (uint32, *dbus.Error) {
	a.logger.Debug("agent RequestPasskey", "device", device)
	return 0, nil
}

func (a *agent) DisplayPasskey(device dbus.ObjectPath, passkey uint32, entered uint16) *dbus.Error {
	a.logger.Debug("agent DisplayPasskey", "device", device, "passkey", passkey)
	return nil
}

func (a *agent) RequestConfirmation(device dbus.ObjectPath, passkey uint32) *dbus.Error {
	a.logger.Debug("agent RequestConfirmation", "device", device, "passkey", passkey)
	return nil
}

func (a *agent) RequestAuthorization(device dbus.ObjectPath) *dbus.Error {
	a.logger.Debug("agent RequestAuthorization", "device", device)
	return nil
}

func (a *agent) AuthorizeService(device dbus.ObjectPath, uuid string) *dbus.Error {
	a.logger.Debug("agent AuthorizeService", "device", device, "uuid", uuid)
	return nil
}

func (a *agent) Cancel() *dbus.Error {
	a.logger.Debug("agent request cancelled")
	return nil
}

// PairingAgent registers a NoInputNoOutput agent for the lifetime of
// one connection attempt. Start before connecting, Stop on teardown.
type PairingAgent struct {
	conn       *dbus.Conn
	iface      string
	targetAddr string
	logger     *slog.Logger
	registered bool
}

func NewPairingAgent(conn *dbus.Conn, iface, targetAddr string, logger *slog.Logger) *PairingAgent {
	return &PairingAgent{conn: conn, iface: iface, targetAddr: targetAddr, logger: logger}
}

// Start exports the agent object and registers it as the default
// pairing agent, then marks the target trusted so the daemon accepts
// the inbound HID connection without prompting.
func (p *PairingAgent) Start() error {
	p.logger.Debug("starting pairing agent", "target", p.targetAddr)

	target := dbus.ObjectPath(DevicePath(p.iface, p.targetAddr))
	if err := p.conn.Export(&agent{targetPath: target, logger: p.logger}, agentPath, AgentIface); err != nil {
		return fmt.Errorf("bluez: export agent: %w", err)
	}

	mgr := p.conn.Object(Service, "/org/bluez")
	if call := mgr.Call(agentManagerIface+".RegisterAgent", 0, dbus.ObjectPath(agentPath), "NoInputNoOutput"); call.Err != nil {
		return fmt.Errorf("bluez: register agent: %w", call.Err)
	}
	if call := mgr.Call(agentManagerIface+".RequestDefaultAgent", 0, dbus.ObjectPath(agentPath)); call.Err != nil {
		return fmt.Errorf("bluez: request default agent: %w", call.Err)
	}

	// Trusting may fail before the device object exists; the agent
	// still answers the pairing prompt in that case.
	dev := p.conn.Object(Service, target)
	if call := dev.Call(propertiesIface+".Set", 0, DeviceIface, "Trusted", dbus.MakeVariant(true)); call.Err != nil {
		p.logger.Debug("could not pre-trust target", "target", p.targetAddr, "error", call.Err)
	}

	p.registered = true
	time.Sleep(250 * time.Millisecond)
	p.logger.Debug("pairing agent started")
	return nil
}

// Stop unregisters and unexports the agent. Idempotent.
func (p *PairingAgent) Stop() {
	if !p.registered {
		return
	}
	p.logger.Debug("terminating pairing agent")
	mgr := p.conn.Object(Service, "/org/bluez")
	if call := mgr.Call(agentManagerIface+".UnregisterAgent", 0, dbus.ObjectPath(agentPath)); call.Err != nil {
		p.logger.Error("error terminating pairing agent", "error", call.Err)
	}
	_ = p.conn.Export(nil, agentPath, AgentIface)
	p.registered = false
}
