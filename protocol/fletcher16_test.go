package protocol

import "testing"

func TestFletcher16Reference(t *testing.T) {
	testCases := []struct {
		data     []byte
		expected uint16
	}{
		{[]byte("abcde"), 0xC8F0},
		{[]byte{}, 0x0000},
		{[]byte{0x01, 0x00}, 0x0201},
		// 0xFF reduces to zero under mod 255; a mod-256 implementation
		// would return 0xFFFF here.
		{[]byte{0xFF}, 0x0000},
		{[]byte{0x07, 0x01, 0x01}, 0x1809},
	}

	for _, tc := range testCases {
		if got := Fletcher16(tc.data); got != tc.expected {
			t.Errorf("Fletcher16(% x) = 0x%04X, want 0x%04X", tc.data, got, tc.expected)
		}
	}
}

func TestFletcher16AppendLinearity(t *testing.T) {
	// Computing over a region must equal computing over its two halves
	// concatenated; the checksum is a pure function of the byte stream.
	region := []byte{0x09, 0x08, 0xFF, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	for split := 0; split <= len(region); split++ {
		joined := append(append([]byte{}, region[:split]...), region[split:]...)
		if got, want := Fletcher16(joined), Fletcher16(region); got != want {
			t.Errorf("split %d: Fletcher16 = 0x%04X, want 0x%04X", split, got, want)
		}
	}
}

func TestChecksumBytes(t *testing.T) {
	testCases := []struct {
		region []byte
		c0, c1 byte
	}{
		// Handshake region 01 00: fletcher 0x0201, so f0=0x01, f1=0x02,
		// c0 = 0xFF - 0x03 = 0xFC, c1 = 0xFF - 0xFD = 0x02.
		{[]byte{0x01, 0x00}, 0xFC, 0x02},
	}

	for _, tc := range testCases {
		c0, c1 := ChecksumBytes(tc.region)
		if c0 != tc.c0 || c1 != tc.c1 {
			t.Errorf("ChecksumBytes(% x) = (%02X, %02X), want (%02X, %02X)",
				tc.region, c0, c1, tc.c0, tc.c1)
		}
	}
}

func TestChecksumBytesDetectsCorruption(t *testing.T) {
	// The listener accepts a frame only when the complement pair it
	// derives matches the trailer; a single flipped payload bit must
	// change the pair.
	region := []byte{0x0B, 0x04, 0x00, 0x64, 0x00, 0x32}
	c0, c1 := ChecksumBytes(region)

	for i := range region {
		corrupted := append([]byte{}, region...)
		corrupted[i] ^= 0x01
		d0, d1 := ChecksumBytes(corrupted)
		if d0 == c0 && d1 == c1 {
			t.Errorf("flipping byte %d left the trailer at (%02X, %02X)", i, c0, c1)
		}
	}
}
