// Package pcsc adapts a PC/SC reader (an ACR122U-class device) into the
// transceiver.Port contract the classic package requires, so the driver
// can be exercised against real hardware instead of only a scripted mock.
//
// Reader is adapted from the teacher repo's hardware.Reader: the same
// context/reader lifecycle (EstablishContext, ListReaders, WaitForCard,
// Connect, Close), trimmed of the teacher's multi-card-type detection
// (DESFire/NTAG/Ultralight probing), which is out of this driver's scope.
package pcsc

import (
	"fmt"
	"time"

	"github.com/ebfe/scard"
)

// Reader owns the PC/SC context and the connected card handle. It is the
// thing a pcsc.Port wraps to implement transceiver.Port.
type Reader struct {
	ctx    *scard.Context
	card   *scard.Card
	reader string
}

// NewReader establishes a PC/SC context.
func NewReader() (*Reader, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("pcsc: establish context: %w", err)
	}
	return &Reader{ctx: ctx}, nil
}

// ListReaders returns the names of every PC/SC reader the context sees.
func (r *Reader) ListReaders() ([]string, error) {
	readers, err := r.ctx.ListReaders()
	if err != nil {
		return nil, fmt.Errorf("pcsc: list readers: %w", err)
	}
	return readers, nil
}

// UseReader selects which reader name subsequent Connect calls target.
func (r *Reader) UseReader(name string) { r.reader = name }

// WaitForCard blocks until a card is present in the selected reader.
func (r *Reader) WaitForCard(timeout time.Duration) error {
	states := []scard.ReaderState{{Reader: r.reader, CurrentState: scard.StateUnaware}}
	for {
		if err := r.ctx.GetStatusChange(states, timeout); err != nil {
			return fmt.Errorf("pcsc: wait for card: %w", err)
		}
		if states[0].EventState&scard.StatePresent != 0 {
			return nil
		}
	}
}

// Connect opens a shared connection to the card in the selected reader.
func (r *Reader) Connect() error {
	if r.reader == "" {
		return fmt.Errorf("pcsc: no reader selected, call UseReader first")
	}
	card, err := r.ctx.Connect(r.reader, scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		return fmt.Errorf("pcsc: connect: %w", err)
	}
	r.card = card
	return nil
}

// Close disconnects the card (leaving it powered) and releases the
// context.
func (r *Reader) Close() error {
	if r.card != nil {
		r.card.Disconnect(scard.LeaveCard)
	}
	if r.ctx != nil {
		return r.ctx.Release()
	}
	return nil
}
