package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/bluejack/bluejack/internal/devices"
	"github.com/bluejack/bluejack/l2cap"
)

const (
	menuScan   = "Scan for devices"
	menuManual = "Enter address manually"
)

// chooseTarget offers the remembered devices plus scan and manual
// entry. Requires a TTY; scripted runs must pass --target.
func chooseTarget(knownPath, adapter string, window time.Duration, logger *slog.Logger) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no target given and stdin is not a terminal; pass --target")
	}

	for {
		known, err := devices.LoadKnown(knownPath)
		if err != nil {
			return "", err
		}

		items := make([]string, 0, len(known)+2)
		for _, d := range known {
			items = append(items, d.String())
		}
		items = append(items, menuScan, menuManual)

		sel := promptui.Select{
			Label: "Select target device",
			Items: items,
			Size:  12,
		}
		idx, choice, err := sel.Run()
		if err != nil {
			return "", err
		}

		switch choice {
		case menuScan:
			if err := scanInto(knownPath, adapter, window, logger); err != nil {
				logger.Error("scan failed", "error", err)
			}
			continue
		case menuManual:
			prompt := promptui.Prompt{
				Label: "Target address (XX:XX:XX:XX:XX:XX)",
				Validate: func(s string) error {
					if !l2cap.ValidAddr(s) {
						return fmt.Errorf("not a valid MAC address")
					}
					return nil
				},
			}
			return prompt.Run()
		default:
			return known[idx].Addr, nil
		}
	}
}

// choosePayload lists the payload directory and prompts for one file.
func choosePayload(dir string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("no payload given and stdin is not a terminal; pass --payload")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("payload folder %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no payloads found in %s", dir)
	}
	sort.Strings(names)

	sel := promptui.Select{
		Label: "Select payload",
		Items: names,
		Size:  12,
	}
	_, choice, err := sel.Run()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, choice), nil
}

func scanInto(knownPath, adapter string, window time.Duration, logger *slog.Logger) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}
	found, err := devices.Scan(conn, adapter, window, logger)
	if err != nil {
		return err
	}
	return devices.AppendKnown(knownPath, found)
}
