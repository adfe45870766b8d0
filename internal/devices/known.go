// Package devices persists discovered targets and drives BlueZ
// discovery scans feeding that list.
package devices

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Device is one remembered target.
type Device struct {
	Addr string
	Name string
}

func (d Device) String() string {
	if d.Name == "" {
		return d.Addr
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Addr)
}

// LoadKnown reads the flat known-devices file, one "address,name" per
// line. A missing file is an empty list, not an error.
func LoadKnown(path string) ([]Device, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("devices: open %s: %w", path, err)
	}
	defer f.Close()

	var out []Device
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		addr, name, _ := strings.Cut(line, ",")
		out = append(out, Device{Addr: addr, Name: name})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("devices: read %s: %w", path, err)
	}
	return out, nil
}

// AppendKnown appends devices not already present in the file, in one
// bulk write.
func AppendKnown(path string, devs []Device) error {
	existing, err := LoadKnown(path)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, d := range existing {
		seen[d.Addr] = true
	}

	var buf strings.Builder
	for _, d := range devs {
		if seen[d.Addr] {
			continue
		}
		seen[d.Addr] = true
		buf.WriteString(d.Addr + "," + d.Name + "\n")
	}
	if buf.Len() == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("devices: open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(buf.String()); err != nil {
		return fmt.Errorf("devices: write %s: %w", path, err)
	}
	return nil
}
