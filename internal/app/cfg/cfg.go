// Package cfg implements functionality to configure an app.
//
// The configuration objects defined here need only be implemented once,
// but can be applied to multiple app types. In order to support a new type,
// a configuration need only implement an ApplyX method for it.
package cfg

import (
	"time"

	"github.com/Mystfit/MVNSwitchboard/internal"
	"github.com/Mystfit/MVNSwitchboard/internal/app/apps"
)

// PortCfg carries the engine's UDP remote control port.
type PortCfg struct {
	port uint16
}

// NewPortCfg creates a new PortCfg from the given port.
func NewPortCfg(port uint16) *PortCfg {
	return &PortCfg{port: port}
}

// PortFromEnv creates a new PortCfg from the current environment.
func PortFromEnv() *PortCfg {
	return &PortCfg{port: uint16(internal.RemotePort)}
}

// ApplyControlApp sets the remote port the control app sends to.
func (cfg PortCfg) ApplyControlApp(app *apps.ControlApp) error {
	app.RemotePort = cfg.port
	return nil
}

// ApplyEngineApp sets the port the simulated engine listens on.
func (cfg PortCfg) ApplyEngineApp(app *apps.EngineApp) error {
	app.Port = cfg.port
	return nil
}

// AddrCfg carries the engine's IP address.
type AddrCfg struct {
	ip string
}

// NewAddrCfg creates a new AddrCfg from the given address.
func NewAddrCfg(ip string) *AddrCfg {
	return &AddrCfg{ip: ip}
}

// AddrFromEnv creates a new AddrCfg from the current environment.
func AddrFromEnv() *AddrCfg {
	return &AddrCfg{ip: internal.RemoteIP}
}

// ApplyControlApp sets the engine address the control app connects to.
func (cfg AddrCfg) ApplyControlApp(app *apps.ControlApp) error {
	app.RemoteIP = cfg.ip
	return nil
}

// RecordCfg carries the take parameters for a recording run.
type RecordCfg struct {
	slate       string
	take        int
	description string
	recordFor   time.Duration
}

// NewRecordCfg creates a new RecordCfg from the given take parameters.
func NewRecordCfg(slate string, take int, description string, recordFor time.Duration) *RecordCfg {
	return &RecordCfg{
		slate:       slate,
		take:        take,
		description: description,
		recordFor:   recordFor,
	}
}

// RecordFromEnv creates a new RecordCfg from the current environment.
func RecordFromEnv() *RecordCfg {
	return &RecordCfg{
		slate:       internal.Slate,
		take:        internal.Take,
		description: internal.Description,
		recordFor:   time.Duration(internal.RecordSeconds) * time.Second,
	}
}

// ApplyControlApp sets the take parameters on the control app.
func (cfg RecordCfg) ApplyControlApp(app *apps.ControlApp) error {
	app.Slate = cfg.slate
	app.Take = cfg.take
	app.Description = cfg.description
	app.RecordFor = cfg.recordFor
	return nil
}
