// Package converter provides routines that convert between the RawData hex
// strings of an ETS telegram log and decoded KNX frame headers.
package converter

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/boatkit-io/knxsplit/pkg/knx"
)

const (
	// HeaderLength is the number of capture header bytes preceding the control field.
	HeaderLength = 11

	// MaxAckHexLength is the longest RawData string still treated as a short acknowledgement.
	MaxAckHexLength = 24

	// minFrameLength covers the header, control field, source and destination.
	minFrameLength = HeaderLength + 1 + 2 + 2
)

// FrameHeader captures the addressing information decoded from a RawData string.
type FrameHeader struct {
	// Ack frames carry no destination; Source and Destination are zero.
	Ack bool

	Control     uint8
	Source      knx.IndividualAddress
	Destination knx.GroupAddress
}

// IsAck reports whether raw is a short acknowledgement frame.
func IsAck(raw string) bool {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	return strings.HasSuffix(raw, "CC") && len(raw) <= MaxAckHexLength
}

// DecodeRaw parses a RawData hex string into a FrameHeader.
// Frames too short to carry a destination return a MalformedAddressError.
func DecodeRaw(raw string) (FrameHeader, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FrameHeader{}, &knx.MalformedAddressError{Reason: "RawData missing"}
	}
	if IsAck(raw) {
		return FrameHeader{Ack: true}, nil
	}

	data, err := hex.DecodeString(raw)
	if err != nil {
		return FrameHeader{}, &knx.MalformedAddressError{Address: raw, Reason: fmt.Sprintf("RawData is not hex: %v", err)}
	}
	if len(data) < minFrameLength {
		return FrameHeader{}, &knx.MalformedAddressError{Address: raw, Reason: fmt.Sprintf("RawData too short for destination: %d bytes", len(data))}
	}

	stream := NewDataStream(data)
	var h FrameHeader
	if err := stream.skip(HeaderLength); err != nil {
		return FrameHeader{}, errors.Wrap(err, "skip capture header")
	}
	if h.Control, err = stream.readUint8(); err != nil {
		return FrameHeader{}, errors.Wrap(err, "read control field")
	}
	src, err := stream.readUint16()
	if err != nil {
		return FrameHeader{}, errors.Wrap(err, "read source address")
	}
	dst, err := stream.readUint16()
	if err != nil {
		return FrameHeader{}, errors.Wrap(err, "read destination address")
	}
	h.Source = knx.IndividualAddressFromUint16(src)
	h.Destination = knx.GroupAddressFromUint16(dst)
	return h, nil
}
