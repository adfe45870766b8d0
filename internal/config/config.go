// Package config defines the top-level CLI grammar parsed by kong.
package config

import "github.com/bluejack/bluejack/internal/cmd"

// Log groups the logging flags shared by every command.
type Log struct {
	Level   string `help:"Log level (trace, debug, info, notice, warn, error)" enum:"trace,debug,info,notice,warn,error" default:"info" env:"BLUEJACK_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of stdout/stderr" env:"BLUEJACK_LOG_FILE"`
	RawFile string `help:"Write raw HID report hex dumps to this file" env:"BLUEJACK_LOG_RAW_FILE"`
}

// CLI is the root command structure.
type CLI struct {
	Log    Log    `embed:"" prefix:"log."`
	Config string `help:"Path to a config file (json, yaml or toml)" type:"path"`

	Attack cmd.Attack        `cmd:"" help:"Pair with a target's HID profile and inject a Duckyscript payload"`
	Scan   cmd.Scan          `cmd:"" help:"Discover nearby devices and remember them"`
	Cfg    cmd.ConfigCommand `cmd:"" name:"config" help:"Configuration file helpers"`
}
