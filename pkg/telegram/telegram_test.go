package telegram

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boatkit-io/knxsplit/pkg/knx"
)

func element(attrs ...string) *etree.Element {
	el := etree.NewElement("Telegram")
	for i := 0; i+1 < len(attrs); i += 2 {
		el.CreateAttr(attrs[i], attrs[i+1])
	}
	return el
}

func TestNewFromAddressAttr(t *testing.T) {
	tg := New(3, element("Timestamp", "2024-05-01T10:00:00", "GroupAddress", "0/7/23"), DefaultOptions())

	assert.Equal(t, 3, tg.Index)
	assert.Equal(t, "0/7/23", tg.Address)
	assert.False(t, tg.Ack)
	p, err := tg.Prefix()
	require.NoError(t, err)
	assert.Equal(t, "0/7/", p)
}

func TestNewAddressAttrWinsOverRawData(t *testing.T) {
	el := element("GroupAddress", "2/1/5", "RawData", "0000000000000000000000BC11050717010081")
	tg := New(0, el, DefaultOptions())

	assert.Equal(t, "2/1/5", tg.Address)
	assert.Empty(t, tg.Source)
}

func TestNewFromRawData(t *testing.T) {
	el := element("Service", "L_Data.ind", "RawData", "0000000000000000000000BC11050717010081")
	tg := New(0, el, DefaultOptions())

	assert.Equal(t, "0/7/23", tg.Address)
	assert.Equal(t, "1.1.5", tg.Source)
	p, err := tg.Prefix()
	require.NoError(t, err)
	assert.Equal(t, "0/7/", p)
}

func TestNewAck(t *testing.T) {
	tg := New(0, element("RawData", "2E00B06011050717CC"), DefaultOptions())

	assert.True(t, tg.Ack)
	_, err := tg.Prefix()
	assert.True(t, knx.IsMalformedAddress(err))
}

func TestNewMalformed(t *testing.T) {
	tests := []struct {
		name string
		el   *etree.Element
		opts Options
	}{
		{"missing sub-group", element("GroupAddress", "0/7"), DefaultOptions()},
		{"no address at all", element("Timestamp", "x"), DefaultOptions()},
		{"short RawData", element("RawData", "0000000000000000000000BC1105"), DefaultOptions()},
		{"RawData disabled", element("RawData", "0000000000000000000000BC11050717"), Options{AddressAttr: "GroupAddress"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg := New(0, tt.el, tt.opts)
			_, err := tg.Prefix()
			assert.True(t, knx.IsMalformedAddress(err), "got %v", err)
		})
	}
}

func TestNewCustomAttrs(t *testing.T) {
	opts := Options{AddressAttr: "Destination", RawDataAttr: "Frame"}
	tg := New(0, element("Destination", "4/2/1"), opts)
	assert.Equal(t, "4/2/1", tg.Address)

	tg = New(0, element("Frame", "0000000000000000000000BC110C1105"), opts)
	assert.Equal(t, "2/1/5", tg.Address)
}
