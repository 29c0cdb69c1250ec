package classic

import (
	"context"

	"github.com/libdriver/mifare-classic/frame"
)

// KeyKind re-exports frame.KeyKind so callers never need to import frame
// for the one enum the public API surfaces.
type KeyKind = frame.KeyKind

const (
	KeyA = frame.KeyA
	KeyB = frame.KeyB
)

// Key pairs a 6-byte sector key with the slot it authenticates.
type Key struct {
	Kind  KeyKind
	Value [6]byte
}

// namedKey is one entry in DefaultKeys: a commonly deployed factory or
// vendor key pair, kept around for the same "try the well-known keys
// first" workflow the teacher's TryStandardKeys implemented against
// PC/SC pseudo-APDUs.
type namedKey struct {
	KeyA  [6]byte
	KeyB  [6]byte
	Usage string
}

// DefaultKeys lists MIFARE Classic keys observed in the field across
// common deployments, in the same spirit (and with the same key material)
// as the teacher's TryStandardKeys table, adapted here as plain data the
// session-level frame codec can authenticate with directly instead of
// PC/SC "load key into reader" pseudo-APDUs.
var DefaultKeys = map[string]namedKey{
	"factory": {
		KeyA:  [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		KeyB:  [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		Usage: "Factory default",
	},
	"access_hid": {
		KeyA:  [6]byte{0xA0, 0xA1, 0xA2, 0xA3, 0xA4, 0xA5},
		KeyB:  [6]byte{0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5},
		Usage: "HID access control",
	},
	"zero": {
		KeyA:  [6]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		KeyB:  [6]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		Usage: "Hotel/student cards",
	},
	"chinese": {
		KeyA:  [6]byte{0xD3, 0xF7, 0xD3, 0xF7, 0xD3, 0xF7},
		KeyB:  [6]byte{0xD3, 0xF7, 0xD3, 0xF7, 0xD3, 0xF7},
		Usage: "Chinese door locks",
	},
	"mifare_std": {
		KeyA:  [6]byte{0x1A, 0x98, 0x2C, 0x7E, 0x45, 0x9A},
		KeyB:  [6]byte{0xD3, 0xF7, 0xD3, 0xF7, 0xD3, 0xF7},
		Usage: "MIFARE standard",
	},
	"nfc": {
		KeyA:  [6]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		KeyB:  [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		Usage: "NFC Forum",
	},
	"sony": {
		KeyA:  [6]byte{0x12, 0x34, 0xAB, 0xCD, 0xEF, 0x12},
		KeyB:  [6]byte{0x34, 0xAB, 0xCD, 0xEF, 0x12, 0x34},
		Usage: "Sony/FeliCa",
	},
}

// TryDefaultKeys authenticates block with every key in DefaultKeys, trying
// Key A then Key B for each named entry, and returns the name and key of
// the first one that succeeds. It returns ("", Key{}, ErrNak) if none of
// them authenticate — mirroring the teacher's TryStandardKeys probing
// loop, but driven through this driver's own Authenticate instead of a
// PC/SC reader's key-slot APDUs.
func (h *Handle) TryDefaultKeys(ctx context.Context, uid [4]byte, block byte) (string, Key, error) {
	for _, name := range defaultKeyOrder {
		entry := DefaultKeys[name]
		if err := h.Authenticate(ctx, uid, block, KeyA, entry.KeyA); err == nil {
			return name, Key{Kind: KeyA, Value: entry.KeyA}, nil
		}
		if err := h.Authenticate(ctx, uid, block, KeyB, entry.KeyB); err == nil {
			return name, Key{Kind: KeyB, Value: entry.KeyB}, nil
		}
	}
	return "", Key{}, ErrNak
}

// defaultKeyOrder fixes iteration order over DefaultKeys (map order is
// randomized in Go) so TryDefaultKeys is deterministic across calls.
var defaultKeyOrder = []string{
	"factory", "access_hid", "zero", "chinese", "mifare_std", "nfc", "sony",
}
