// Package knx provides the KNX address value types and the group-address
// prefix normalization used to filter telegrams.
package knx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// GroupAddress is a 3-level KNX group address (main/middle/sub).
type GroupAddress struct {
	// 5-bit
	Main uint8

	// 3-bit
	Middle uint8

	// 8-bit
	Sub uint8
}

// GroupAddressFromUint16 splits the wire representation of a group address into its 3 levels.
func GroupAddressFromUint16(v uint16) GroupAddress {
	return GroupAddress{
		Main:   uint8((v >> 11) & 0x1F),
		Middle: uint8((v >> 8) & 0x07),
		Sub:    uint8(v & 0xFF),
	}
}

// String formats the address as main/middle/sub.
func (g GroupAddress) String() string {
	return fmt.Sprintf("%d/%d/%d", g.Main, g.Middle, g.Sub)
}

// Prefix returns the main/middle/ prefix of the address.
func (g GroupAddress) Prefix() string {
	return fmt.Sprintf("%d/%d/", g.Main, g.Middle)
}

// ParseGroupAddress parses a numeric main/middle/sub string.
func ParseGroupAddress(s string) (GroupAddress, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return GroupAddress{}, &MalformedAddressError{Address: s, Reason: "expected main/middle/sub"}
	}
	limits := [3]uint64{0x1F, 0x07, 0xFF}
	var vals [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil || v > limits[i] {
			return GroupAddress{}, &MalformedAddressError{Address: s, Reason: fmt.Sprintf("component %q out of range", p)}
		}
		vals[i] = uint8(v)
	}
	return GroupAddress{Main: vals[0], Middle: vals[1], Sub: vals[2]}, nil
}

// IndividualAddress is the physical address (area.line.device) of a bus device.
type IndividualAddress struct {
	Area   uint8
	Line   uint8
	Device uint8
}

// IndividualAddressFromUint16 splits the wire representation of an individual address.
func IndividualAddressFromUint16(v uint16) IndividualAddress {
	return IndividualAddress{
		Area:   uint8((v >> 12) & 0x0F),
		Line:   uint8((v >> 8) & 0x0F),
		Device: uint8(v & 0xFF),
	}
}

// String formats the address as area.line.device.
func (a IndividualAddress) String() string {
	return fmt.Sprintf("%d.%d.%d", a.Area, a.Line, a.Device)
}

// MalformedAddressError is returned when an address is absent or not in main/middle/sub form.
type MalformedAddressError struct {
	Address string
	Reason  string
}

func (e *MalformedAddressError) Error() string {
	if e.Address == "" {
		return fmt.Sprintf("malformed group address: %s", e.Reason)
	}
	return fmt.Sprintf("malformed group address %q: %s", e.Address, e.Reason)
}

// IsMalformedAddress reports whether the cause of err is a MalformedAddressError.
func IsMalformedAddress(err error) bool {
	_, ok := errors.Cause(err).(*MalformedAddressError)
	return ok
}

// NormalizePrefix derives the main/middle/ prefix of a raw address string.
// The sub-group may be empty, so an already normalized prefix maps onto itself.
func NormalizePrefix(addr string) (string, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return "", &MalformedAddressError{Reason: "address missing"}
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 {
		return "", &MalformedAddressError{Address: addr, Reason: "fewer than 2 components"}
	}
	if len(parts) != 3 {
		return "", &MalformedAddressError{Address: addr, Reason: fmt.Sprintf("expected 3 components, got %d", len(parts))}
	}
	main, middle := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if main == "" || middle == "" {
		return "", &MalformedAddressError{Address: addr, Reason: "empty main or middle group"}
	}
	return main + "/" + middle + "/", nil
}
