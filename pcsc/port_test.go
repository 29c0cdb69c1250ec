package pcsc

import "testing"

func TestWrapDirectTransmit(t *testing.T) {
	got, err := wrapDirectTransmit([]byte{0x26})
	if err != nil {
		t.Fatalf("wrapDirectTransmit: %v", err)
	}
	want := []byte{0xFF, 0x00, 0x00, 0x00, 0x01, 0x26}
	if len(got) != len(want) {
		t.Fatalf("wrapDirectTransmit(0x26) = % X, want % X", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wrapDirectTransmit(0x26) = % X, want % X", got, want)
		}
	}
}

func TestWrapDirectTransmitRejectsOversizeFrame(t *testing.T) {
	if _, err := wrapDirectTransmit(make([]byte, 256)); err == nil {
		t.Fatal("expected an error for a 256-byte frame")
	}
}

func TestUnwrapDirectTransmit(t *testing.T) {
	rsp := []byte{0x01, 0x02, 0x03, 0x90, 0x00}
	data, err := unwrapDirectTransmit(rsp)
	if err != nil {
		t.Fatalf("unwrapDirectTransmit: %v", err)
	}
	if len(data) != 3 || data[0] != 0x01 || data[2] != 0x03 {
		t.Errorf("unwrapDirectTransmit() = % X", data)
	}
}

func TestUnwrapDirectTransmitRejectsFailureStatus(t *testing.T) {
	if _, err := unwrapDirectTransmit([]byte{0x63, 0x00}); err == nil {
		t.Fatal("expected an error for a non-success status word")
	}
}

func TestUnwrapDirectTransmitRejectsShortResponse(t *testing.T) {
	if _, err := unwrapDirectTransmit([]byte{0x90}); err == nil {
		t.Fatal("expected an error for a response shorter than 2 bytes")
	}
}
