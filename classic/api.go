package classic

import (
	"context"

	"github.com/libdriver/mifare-classic/frame"
)

// trailerGuard enforces "trailer blocks are not data blocks": every
// card-oriented operation except the permission get/set pair must reject a
// target block that is its sector's trailer, before issuing any frame at
// all.
func (h *Handle) trailerGuard(block byte) error {
	if IsTrailerBlock(block) {
		return ErrTrailerBlock
	}
	return nil
}

// authenticateCached authenticates block using the UID cached on the
// handle: the one from the last successful SelectCL1 (which Search
// performs) or Authenticate, or the zero UID if neither has ever succeeded
// (spec §4.6 documents this as well-defined, if unusual, behavior).
func (h *Handle) authenticateCached(ctx context.Context, block byte, kind KeyKind, key [6]byte) error {
	return h.Authenticate(ctx, h.uid, block, kind, key)
}

// Read authenticates block's sector and reads its 16 data bytes. block
// must not be a sector trailer.
func (h *Handle) Read(ctx context.Context, block byte, kind KeyKind, key [6]byte) ([16]byte, error) {
	var data [16]byte
	if err := h.trailerGuard(block); err != nil {
		return data, err
	}
	if err := h.authenticateCached(ctx, block, kind, key); err != nil {
		return data, err
	}
	rx, err := h.exchange(ctx, frame.Read(block))
	if err != nil {
		return data, err
	}
	return frame.ParseReadResponse(rx)
}

// Write authenticates block's sector and writes 16 data bytes to it. block
// must not be a sector trailer.
func (h *Handle) Write(ctx context.Context, block byte, kind KeyKind, key [6]byte, data [16]byte) error {
	if err := h.trailerGuard(block); err != nil {
		return err
	}
	if err := h.authenticateCached(ctx, block, kind, key); err != nil {
		return err
	}
	return h.writeRaw(ctx, block, data)
}

// writeRaw performs the two-phase WRITE exchange without the trailer guard
// or authentication step, so SetSectorPermission can reuse it against a
// trailer block.
func (h *Handle) writeRaw(ctx context.Context, block byte, data [16]byte) error {
	rx, err := h.exchange(ctx, frame.WritePhase1(block))
	if err != nil {
		return err
	}
	if err := frame.ParseAck(rx); err != nil {
		return err
	}
	rx2, err := h.exchange(ctx, frame.WritePhase2(data))
	if err != nil {
		return err
	}
	return frame.ParseAck(rx2)
}

// ValueInit writes block as a fresh value block holding value at addr.
func (h *Handle) ValueInit(ctx context.Context, block byte, kind KeyKind, key [6]byte, value int32, addr byte) error {
	return h.Write(ctx, block, kind, key, ValuePack(value, addr))
}

// ValueWrite overwrites an existing value block with a new value and
// address. Identical on the wire to ValueInit; kept as a distinct method
// name because the two are distinct operations at the API layer (spec
// §4.6 lists them separately).
func (h *Handle) ValueWrite(ctx context.Context, block byte, kind KeyKind, key [6]byte, value int32, addr byte) error {
	return h.Write(ctx, block, kind, key, ValuePack(value, addr))
}

// ValueRead reads block and decodes it as a value block, returning the
// signed value and its address byte.
func (h *Handle) ValueRead(ctx context.Context, block byte, kind KeyKind, key [6]byte) (int32, byte, error) {
	data, err := h.Read(ctx, block, kind, key)
	if err != nil {
		return 0, 0, err
	}
	return ValueUnpack(data)
}

// ValueIncrement adds delta to block's value-block register and
// immediately transfers the result back to block, per spec §4.4: the
// arithmetic commands only mutate a transient card register until
// TRANSFER commits it.
func (h *Handle) ValueIncrement(ctx context.Context, block byte, kind KeyKind, key [6]byte, delta uint32) error {
	return h.valueArith(ctx, block, kind, key, frame.Increment, delta)
}

// ValueDecrement subtracts delta from block's value-block register and
// immediately transfers the result back to block.
func (h *Handle) ValueDecrement(ctx context.Context, block byte, kind KeyKind, key [6]byte, delta uint32) error {
	return h.valueArith(ctx, block, kind, key, frame.Decrement, delta)
}

func (h *Handle) valueArith(ctx context.Context, block byte, kind KeyKind, key [6]byte, open func(byte) []byte, delta uint32) error {
	return h.valueOp(ctx, block, kind, key, open, frame.Operand(delta))
}

// ValueRestore copies block's stored value into the card's transient
// arithmetic register and immediately transfers it back, refreshing the
// block's redundancy encoding without changing its value. Its operand
// phase sends an all-zero 4-byte operand per spec §9's open question: the
// standard doesn't mandate a value and the original driver sends zeros.
func (h *Handle) ValueRestore(ctx context.Context, block byte, kind KeyKind, key [6]byte) error {
	return h.valueOp(ctx, block, kind, key, frame.Restore, frame.RestoreOperand())
}

func (h *Handle) valueOp(ctx context.Context, block byte, kind KeyKind, key [6]byte, open func(byte) []byte, operand []byte) error {
	if err := h.trailerGuard(block); err != nil {
		return err
	}
	if err := h.authenticateCached(ctx, block, kind, key); err != nil {
		return err
	}
	rx, err := h.exchange(ctx, open(block))
	if err != nil {
		return err
	}
	if err := frame.ParseAck(rx); err != nil {
		return err
	}
	// The operand phase expects no response; a transport failure here
	// still surfaces, but there is no ACK nibble to validate.
	if _, err := h.exchange(ctx, operand); err != nil {
		return err
	}
	return h.transfer(ctx, block)
}

// transfer issues TRANSFER for block, committing the card's transient
// arithmetic register to it.
func (h *Handle) transfer(ctx context.Context, block byte) error {
	rx, err := h.exchange(ctx, frame.Transfer(block))
	if err != nil {
		return err
	}
	return frame.ParseAck(rx)
}

// SetSectorPermission writes sector's trailer with keyA, the packed access
// bits built from perm, userData, and keyB. The operation authenticates
// against the trailer block itself, which permission operations target by
// construction (the trailer guard does not apply here).
func (h *Handle) SetSectorPermission(ctx context.Context, sector byte, kind KeyKind, authKey [6]byte, keyA [6]byte, perm AccessBits, keyB [6]byte) error {
	trailer := SectorLastBlock(sector)
	if err := h.authenticateCached(ctx, trailer, kind, authKey); err != nil {
		return err
	}
	access := PackAccessBits(perm)

	var data [16]byte
	copy(data[0:6], keyA[:])
	copy(data[6:10], access[:])
	copy(data[10:16], keyB[:])

	return h.writeRaw(ctx, trailer, data)
}

// GetSectorPermission reads sector's trailer and unpacks its access bits
// and user-data byte. Only those are returned: the trailer's Key A and
// Key B bytes are read but discarded.
func (h *Handle) GetSectorPermission(ctx context.Context, sector byte, kind KeyKind, authKey [6]byte) (AccessBits, error) {
	trailer := SectorLastBlock(sector)
	if err := h.authenticateCached(ctx, trailer, kind, authKey); err != nil {
		return AccessBits{}, err
	}
	rx, err := h.exchange(ctx, frame.Read(trailer))
	if err != nil {
		return AccessBits{}, err
	}
	data, err := frame.ParseReadResponse(rx)
	if err != nil {
		return AccessBits{}, err
	}
	var access [4]byte
	copy(access[:], data[6:10])
	return UnpackAccessBits(access)
}
