// Package telegram models one record of a KNX communication log.
package telegram

import (
	"github.com/beevik/etree"

	"github.com/boatkit-io/knxsplit/pkg/converter"
	"github.com/boatkit-io/knxsplit/pkg/knx"
)

const (
	// DefaultAddressAttr names the attribute holding an explicit group address.
	DefaultAddressAttr = "GroupAddress"

	// DefaultRawDataAttr names the attribute holding the captured frame as hex.
	DefaultRawDataAttr = "RawData"
)

// Options selects the attributes an address is read from.
type Options struct {
	AddressAttr string
	RawDataAttr string
}

// DefaultOptions returns the attribute names used by ETS exports.
func DefaultOptions() Options {
	return Options{
		AddressAttr: DefaultAddressAttr,
		RawDataAttr: DefaultRawDataAttr,
	}
}

// Telegram contains one record element and the addressing context decoded from it.
type Telegram struct {
	// position among the records of the input document
	Index int

	// the record as read; written back verbatim
	Element *etree.Element

	// main/middle/sub as found or decoded, empty when unknown
	Address string

	// area.line.device of the sender, empty when unknown
	Source string

	// short acknowledgement frame without a destination
	Ack bool

	addrErr error
}

// New provides the addressing context for a record element.
// An explicit address attribute wins over decoding RawData.
func New(index int, el *etree.Element, opts Options) *Telegram {
	t := &Telegram{Index: index, Element: el}

	if opts.AddressAttr != "" {
		if attr := el.SelectAttr(opts.AddressAttr); attr != nil {
			t.Address = attr.Value
			return t
		}
	}

	if opts.RawDataAttr == "" {
		t.addrErr = &knx.MalformedAddressError{Reason: "address attribute missing"}
		return t
	}
	raw := el.SelectAttr(opts.RawDataAttr)
	if raw == nil {
		t.addrErr = &knx.MalformedAddressError{Reason: "neither " + opts.AddressAttr + " nor " + opts.RawDataAttr + " present"}
		return t
	}
	h, err := converter.DecodeRaw(raw.Value)
	if err != nil {
		t.addrErr = err
		return t
	}
	if h.Ack {
		t.Ack = true
		t.addrErr = &knx.MalformedAddressError{Address: raw.Value, Reason: "acknowledgement frame has no destination"}
		return t
	}
	t.Address = h.Destination.String()
	t.Source = h.Source.String()
	return t
}

// Prefix returns the main/middle/ prefix of the telegram's group address.
func (t *Telegram) Prefix() (string, error) {
	if t.addrErr != nil {
		return "", t.addrErr
	}
	return knx.NormalizePrefix(t.Address)
}
