package disassemble

import (
	"strings"
	"testing"

	"github.com/rcornwell/mcs51/internal/cpu"
)

func TestDisassembleBasic(t *testing.T) {
	cases := []struct {
		data []byte
		addr uint16
		want string
		len  int
	}{
		{[]byte{0x00}, 0, "NOP", 1},
		{[]byte{0x74, 0x55}, 0, "MOV A,#0x55", 2},
		{[]byte{0xe4}, 0, "CLR A", 1},
		{[]byte{0xf8}, 0, "MOV R0,A", 1},
		{[]byte{0xa8, 0x30}, 0, "MOV R0,0x30", 2},
		{[]byte{0x02, 0x12, 0x34}, 0, "LJMP 0x1234", 3},
		{[]byte{0x80, 0xfe}, 0x100, "SJMP 0x0100", 2},
		{[]byte{0xd2, 0x8c}, 0, "SETB TR0", 2},
		{[]byte{0x85, 0x30, 0x31}, 0, "MOV 0x31,0x30", 3},
	}
	for _, c := range cases {
		got, n := Disassemble(c.data, c.addr)
		if got != c.want || n != c.len {
			t.Errorf("Disassemble(%x, %#04x) = %q,%d want %q,%d", c.data, c.addr, got, n, c.want, c.len)
		}
	}
}

func TestDisassembleAJMP(t *testing.T) {
	// AJMP with opcode 0xE1 at address 0x1300: top 3 bits = 7, target page.
	got, n := Disassemble([]byte{0xe1, 0x45}, 0x1300)
	want := "AJMP 0x1745"
	if got != want || n != 2 {
		t.Errorf("Disassemble AJMP = %q,%d want %q,2", got, n, want)
	}
}

func TestDisassembleUndefined(t *testing.T) {
	got, n := Disassemble([]byte{0xa5}, 0)
	if got != "???" || n != 1 {
		t.Errorf("Disassemble(0xa5) = %q,%d want ???,1", got, n)
	}
}

func TestDisassembleLiveShowsSampledValues(t *testing.T) {
	c := cpu.New(nil)
	c.SetA(0x10)
	c.Bus.Code[0] = 0x24 // ADD A,#0x01
	c.Bus.Code[1] = 0x01

	got, n := DisassembleLive(c, 0)
	if n != 2 {
		t.Fatalf("width = %d, want 2", n)
	}
	want := "ADD A(0x10),#0x01"
	if got != want {
		t.Errorf("DisassembleLive = %q, want %q", got, want)
	}
}

func TestDisassembleLiveIndirectReadsXRAMOnlyForMOVX(t *testing.T) {
	c := cpu.New(nil)
	c.WriteDirect(0xa0, 0x00) // P2: reset leaves ports at 0xFF, zero it for a clean XRAM page
	c.SetReg(0, 0x40)
	c.WriteDirect(0x40, 0x99) // IRAM[R0] for the plain-indirect case
	c.Bus.XRAM[0x40] = 0x77   // XRAM[(P2<<8)|R0] for the MOVX case (P2=0)

	c.Bus.Code[0] = 0x06 // INC @R0 (IRAM indirect)
	if got, _ := DisassembleLive(c, 0); !strings.Contains(got, "0x99") {
		t.Errorf("INC @R0 live text = %q, want it to show IRAM value 0x99", got)
	}

	c.Bus.Code[1] = 0xe2 // MOVX A,@R0 (XRAM indirect)
	if got, _ := DisassembleLive(c, 1); !strings.Contains(got, "0x77") {
		t.Errorf("MOVX A,@R0 live text = %q, want it to show XRAM value 0x77", got)
	}
}

func TestDisassembleLiveBitOperand(t *testing.T) {
	c := cpu.New(nil)
	c.WriteBit(0xd7, true) // carry flag
	c.Bus.Code[0] = 0xd3   // SETB C

	got, _ := DisassembleLive(c, 0)
	want := "SETB C(1)"
	if got != want {
		t.Errorf("DisassembleLive(SETB C) = %q, want %q", got, want)
	}
}
