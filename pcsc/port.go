package pcsc

import (
	"context"
	"fmt"
	"time"
)

// directTransmitHeader is the ACR122U "Direct Transmit" pseudo-APDU
// header: FF 00 00 00 Lc, where Lc is the length of the raw contactless
// frame that follows. This is the standard convention for passing a raw
// ISO/IEC 14443-3 Type A frame through a PC/SC reader driver without
// going through the reader's own high-level pseudo-APDUs (FF B0 ..,
// FF 86 ..) that teacher's classic.ReadBlock/Authenticate used.
var directTransmitHeader = [4]byte{0xFF, 0x00, 0x00, 0x00}

// successSW is the PC/SC status word appended after a successful Direct
// Transmit response.
var successSW = [2]byte{0x90, 0x00}

// Port implements transceiver.Port by wrapping every frame.* command in a
// Direct Transmit pseudo-APDU and unwrapping the card's raw response from
// the reader's SW1/SW2 trailer.
type Port struct {
	reader *Reader
}

// NewPort wraps reader as a transceiver.Port.
func NewPort(reader *Reader) *Port { return &Port{reader: reader} }

// Init connects to the card in the reader's currently selected slot.
func (p *Port) Init(ctx context.Context) error {
	return p.reader.Connect()
}

// Deinit releases the reader's resources.
func (p *Port) Deinit(ctx context.Context) error {
	return p.reader.Close()
}

// Transceive wraps tx in a Direct Transmit pseudo-APDU, transmits it, and
// strips the trailing PC/SC status word from the response.
func (p *Port) Transceive(ctx context.Context, tx []byte) ([]byte, error) {
	cmd, err := wrapDirectTransmit(tx)
	if err != nil {
		return nil, err
	}
	rsp, err := p.reader.card.Transmit(cmd)
	if err != nil {
		return nil, fmt.Errorf("pcsc: transmit: %w", err)
	}
	return unwrapDirectTransmit(rsp)
}

// wrapDirectTransmit builds the Direct Transmit pseudo-APDU for tx. It is
// a pure function so the framing it produces can be tested without a real
// PC/SC card handle.
func wrapDirectTransmit(tx []byte) ([]byte, error) {
	if len(tx) > 255 {
		return nil, fmt.Errorf("pcsc: frame too long: %d bytes", len(tx))
	}
	cmd := make([]byte, 0, 5+len(tx))
	cmd = append(cmd, directTransmitHeader[:]...)
	cmd = append(cmd, byte(len(tx)))
	cmd = append(cmd, tx...)
	return cmd, nil
}

// unwrapDirectTransmit strips the trailing PC/SC status word from rsp,
// returning an error if the reader reported anything other than success.
func unwrapDirectTransmit(rsp []byte) ([]byte, error) {
	if len(rsp) < 2 {
		return nil, fmt.Errorf("pcsc: response too short: % X", rsp)
	}
	sw1, sw2 := rsp[len(rsp)-2], rsp[len(rsp)-1]
	if sw1 != successSW[0] || sw2 != successSW[1] {
		return nil, fmt.Errorf("pcsc: reader status %02X%02X", sw1, sw2)
	}
	return rsp[:len(rsp)-2], nil
}

// DelayMs sleeps for the requested duration, respecting ctx cancellation.
func (p *Port) DelayMs(ctx context.Context, ms uint32) {
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
	case <-ctx.Done():
	}
}
