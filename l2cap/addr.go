package l2cap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var macPattern = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

// ValidAddr reports whether s is a colon-separated 6-octet hex MAC.
func ValidAddr(s string) bool {
	return macPattern.MatchString(s)
}

// ParseAddr converts a MAC string into the byte order SockaddrL2
// expects (bdaddr is little-endian on the wire, so octets reverse).
func ParseAddr(s string) ([6]byte, error) {
	var bdaddr [6]byte
	if !ValidAddr(s) {
		return bdaddr, fmt.Errorf("l2cap: bad address %q, want XX:XX:XX:XX:XX:XX", s)
	}
	for i, part := range strings.Split(s, ":") {
		octet, err := strconv.ParseUint(part, 16, 8)
		if err != nil {
			return bdaddr, fmt.Errorf("l2cap: bad address %q: %w", s, err)
		}
		bdaddr[5-i] = byte(octet)
	}
	return bdaddr, nil
}
