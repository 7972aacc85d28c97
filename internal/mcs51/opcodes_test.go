package mcs51

import "testing"

func TestWidthSpotCheck(t *testing.T) {
	cases := map[int]uint8{
		0x00: 1, // NOP
		0x01: 2, // AJMP
		0x02: 3, // LJMP
		0x75: 3, // MOV direct,#data
		0x85: 3, // MOV direct,direct
		0xe4: 1, // CLR A
		0xd5: 3, // DJNZ direct,rel
		0xd8: 2, // DJNZ R0,rel
	}
	for op, want := range cases {
		if got := Width[op]; got != want {
			t.Errorf("Width[%#02x] = %d, want %d", op, got, want)
		}
	}
}

func TestDirectBitRoundTrip(t *testing.T) {
	for direct := uint8(0x20); direct <= 0x2f; direct++ {
		for bit := uint8(0); bit < 8; bit++ {
			b := DirectToBit(direct, bit)
			gotDirect, gotBit := BitToDirect(b)
			if gotDirect != direct || gotBit != bit {
				t.Errorf("DirectToBit(%#02x,%d)=%#02x BitToDirect=(%#02x,%d)", direct, bit, b, gotDirect, gotBit)
			}
		}
	}
}

func TestAJMPTarget(t *testing.T) {
	target := AJMPTarget(0xe1, 0x1302, 0x45)
	want := uint16(0x1745)
	if target != want {
		t.Errorf("AJMPTarget = %#04x, want %#04x", target, want)
	}
}
