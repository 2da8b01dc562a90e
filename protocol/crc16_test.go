package protocol

import "testing"

func TestCRC16(t *testing.T) {
	testCases := []struct {
		data     []byte
		expected uint16
	}{
		{data: []byte{}, expected: 0xFFFF},
		{data: []byte("123456789"), expected: 0x6F91},
		{data: []byte("PF seq=1 mode=stop"), expected: 0xFE47},
	}

	for i, tc := range testCases {
		if result := CRC16(tc.data); result != tc.expected {
			t.Errorf("Test case %d: CRC16(%q) = 0x%04X, expected 0x%04X", i, tc.data, result, tc.expected)
		}
	}
}

func TestCRC16Different(t *testing.T) {
	// Test that different inputs produce different outputs
	data1 := []byte("rpm=10")
	data2 := []byte("rpm=11")

	crc1 := CRC16(data1)
	crc2 := CRC16(data2)

	if crc1 == crc2 {
		t.Errorf("CRC16 collision: both inputs produced %04X", crc1)
	}
}

func TestHex16(t *testing.T) {
	for _, v := range []uint16{0, 0x000F, 0x6F91, 0xFFFF} {
		s := appendHex16(nil, v)
		got, ok := parseHex16(s)
		if !ok || got != v {
			t.Errorf("Hex round trip of 0x%04X via %q gave 0x%04X ok=%v", v, s, got, ok)
		}
	}

	if got, ok := parseHex16([]byte("6f91")); !ok || got != 0x6F91 {
		t.Errorf("Expected lowercase hex accepted, got 0x%04X ok=%v", got, ok)
	}
	for _, bad := range []string{"", "123", "12345", "12G4"} {
		if _, ok := parseHex16([]byte(bad)); ok {
			t.Errorf("Expected %q rejected", bad)
		}
	}
}
