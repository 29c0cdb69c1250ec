package classic

import (
	"context"
	"testing"

	"github.com/libdriver/mifare-classic/crc"
	"github.com/libdriver/mifare-classic/frame"
	"github.com/libdriver/mifare-classic/transceiver/mock"
)

var testKey = [6]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}

// TestTrailerGuardRejectsWithoutFrames mirrors spec §8 scenario 5: reading
// a trailer block must fail before any frame is sent.
func TestTrailerGuardRejectsWithoutFrames(t *testing.T) {
	h, port := newTestHandle(t)
	if _, err := h.Read(context.Background(), 7, KeyA, testKey); err != ErrTrailerBlock {
		t.Fatalf("Read(trailer) err = %v, want ErrTrailerBlock", err)
	}
	if port.CallCount() != 0 {
		t.Errorf("Read(trailer) issued %d frames, want 0", port.CallCount())
	}

	var data [16]byte
	if err := h.Write(context.Background(), 7, KeyA, testKey, data); err != ErrTrailerBlock {
		t.Fatalf("Write(trailer) err = %v, want ErrTrailerBlock", err)
	}
	if port.CallCount() != 0 {
		t.Errorf("Write(trailer) issued %d frames, want 0", port.CallCount())
	}
}

func ackExchange(tx []byte) mock.Exchange {
	return mock.Exchange{TX: tx, RX: []byte{0x0A}}
}

func authExchange(block byte, key [6]byte) mock.Exchange {
	return mock.Exchange{TX: frame.Auth(KeyA, block, key, [4]byte{})}
}

func readBlockExchange(block byte, data [16]byte) mock.Exchange {
	return mock.Exchange{TX: frame.Read(block), RX: crc.Append(append([]byte{}, data[:]...))}
}

// TestValueRoundTrip mirrors spec §8 scenario 3.
func TestValueRoundTrip(t *testing.T) {
	block := byte(5)
	packed := ValuePack(-10, 5)

	h, _ := newTestHandle(t,
		authExchange(block, testKey),
		ackExchange(frame.WritePhase1(block)),
		ackExchange(frame.WritePhase2(packed)),
		authExchange(block, testKey),
		readBlockExchange(block, packed),
	)
	ctx := context.Background()

	if err := h.ValueInit(ctx, block, KeyA, testKey, -10, 5); err != nil {
		t.Fatalf("ValueInit: %v", err)
	}
	v, addr, err := h.ValueRead(ctx, block, KeyA, testKey)
	if err != nil {
		t.Fatalf("ValueRead: %v", err)
	}
	if v != -10 || addr != 5 {
		t.Errorf("ValueRead() = (%d, %d), want (-10, 5)", v, addr)
	}
}

func TestValueReadRejectsCorruption(t *testing.T) {
	block := byte(5)
	packed := ValuePack(-10, 5)
	packed[4] ^= 0xFF

	h, _ := newTestHandle(t,
		authExchange(block, testKey),
		readBlockExchange(block, packed),
	)
	if _, _, err := h.ValueRead(context.Background(), block, KeyA, testKey); err != ErrValueInvalid {
		t.Fatalf("err = %v, want ErrValueInvalid", err)
	}
}

// TestValueIncrementChainsTransfer mirrors spec §8 scenario 4's first step:
// value_increment must issue INCREMENT then the operand then TRANSFER.
func TestValueIncrementChainsTransfer(t *testing.T) {
	block := byte(5)

	h, port := newTestHandle(t,
		authExchange(block, testKey),
		ackExchange(frame.Increment(block)),
		mock.Exchange{TX: frame.Operand(6), RX: nil},
		ackExchange(frame.Transfer(block)),
	)
	if err := h.ValueIncrement(context.Background(), block, KeyA, testKey, 6); err != nil {
		t.Fatalf("ValueIncrement: %v", err)
	}
	if port.CallCount() != 4 {
		t.Errorf("CallCount() = %d, want 4", port.CallCount())
	}
}

func TestValueDecrementChainsTransfer(t *testing.T) {
	block := byte(5)

	h, _ := newTestHandle(t,
		authExchange(block, testKey),
		ackExchange(frame.Decrement(block)),
		mock.Exchange{TX: frame.Operand(5), RX: nil},
		ackExchange(frame.Transfer(block)),
	)
	if err := h.ValueDecrement(context.Background(), block, KeyA, testKey, 5); err != nil {
		t.Fatalf("ValueDecrement: %v", err)
	}
}

func TestValueRestoreChainsTransfer(t *testing.T) {
	block := byte(5)

	h, port := newTestHandle(t,
		authExchange(block, testKey),
		ackExchange(frame.Restore(block)),
		mock.Exchange{TX: frame.RestoreOperand(), RX: nil},
		ackExchange(frame.Transfer(block)),
	)
	if err := h.ValueRestore(context.Background(), block, KeyA, testKey); err != nil {
		t.Fatalf("ValueRestore: %v", err)
	}
	if port.CallCount() != 4 {
		t.Errorf("CallCount() = %d, want 4", port.CallCount())
	}
}

// TestSectorPermissionRoundTrip mirrors spec §8 scenario 6.
func TestSectorPermissionRoundTrip(t *testing.T) {
	sector := byte(0)
	trailer := SectorLastBlock(sector)
	perm := AccessBits{Group0: 0, Group1: 0, Group2: 0, Trailer: 1, UserData: 0x69}
	keyA := testKey
	keyB := testKey
	trailerBytes := func() [16]byte {
		var b [16]byte
		copy(b[0:6], keyA[:])
		access := PackAccessBits(perm)
		copy(b[6:10], access[:])
		copy(b[10:16], keyB[:])
		return b
	}()

	h, _ := newTestHandle(t,
		authExchange(trailer, testKey),
		ackExchange(frame.WritePhase1(trailer)),
		ackExchange(frame.WritePhase2(trailerBytes)),
		authExchange(trailer, testKey),
		readBlockExchange(trailer, trailerBytes),
	)
	ctx := context.Background()

	if err := h.SetSectorPermission(ctx, sector, KeyA, testKey, keyA, perm, keyB); err != nil {
		t.Fatalf("SetSectorPermission: %v", err)
	}
	got, err := h.GetSectorPermission(ctx, sector, KeyA, testKey)
	if err != nil {
		t.Fatalf("GetSectorPermission: %v", err)
	}
	if got != perm {
		t.Errorf("GetSectorPermission() = %+v, want %+v", got, perm)
	}
}
