package cpu

import (
	"strings"
	"testing"
)

func load(c *CPU, addr uint16, code ...byte) {
	for i, b := range code {
		c.Bus.Code[int(addr)+i] = b
	}
}

func TestStepMovAdd(t *testing.T) {
	c := New(nil)
	load(c, 0, 0x74, 0x05, 0x24, 0x03) // MOV A,#5 ; ADD A,#3
	c.Step()
	if c.A() != 5 {
		t.Fatalf("after MOV, A = %#02x, want 0x05", c.A())
	}
	c.Step()
	if c.A() != 8 {
		t.Fatalf("after ADD, A = %#02x, want 0x08", c.A())
	}
	if c.ReadBit(bitCY) {
		t.Error("carry set, want clear")
	}
}

func TestAddCarryAndOverflow(t *testing.T) {
	c := New(nil)
	c.SetA(0xff)
	load(c, 0, 0x24, 0x01) // ADD A,#1
	c.Step()
	if c.A() != 0 {
		t.Fatalf("A = %#02x, want 0x00", c.A())
	}
	if !c.ReadBit(bitCY) {
		t.Error("carry clear, want set")
	}
}

func TestRegisterBankSwitch(t *testing.T) {
	c := New(nil)
	c.SetReg(0, 0x11) // bank 0
	c.Bus.WriteDirect(addrPSW, 0x08) // select bank 1 (RS0=1)
	c.SetReg(0, 0x22)
	if c.Reg(0) != 0x22 {
		t.Fatalf("bank 1 R0 = %#02x, want 0x22", c.Reg(0))
	}
	c.Bus.WriteDirect(addrPSW, 0x00)
	if c.Reg(0) != 0x11 {
		t.Fatalf("bank 0 R0 = %#02x, want 0x11", c.Reg(0))
	}
}

func TestAcallAndRet(t *testing.T) {
	c := New(nil)
	// ACALL to 0x0010 within page 0; then the callee RETs.
	load(c, 0, 0x11, 0x10) // ACALL 0x0010 (page bits from opcode top 3 = 0)
	load(c, 0x10, 0x22)    // RET
	c.Step()                // ACALL
	if c.PC != 0x0010 {
		t.Fatalf("PC after ACALL = %#04x, want 0x0010", c.PC)
	}
	c.Step() // RET
	if c.PC != 0x0002 {
		t.Fatalf("PC after RET = %#04x, want 0x0002", c.PC)
	}
}

func TestDjnzLoop(t *testing.T) {
	c := New(nil)
	c.SetReg(0, 3)
	load(c, 0, 0xd8, 0xfe) // DJNZ R0,$ (branch to self)
	c.Step()
	if c.Reg(0) != 2 || c.PC != 0 {
		t.Fatalf("after first DJNZ: R0=%d PC=%#04x, want R0=2 PC=0", c.Reg(0), c.PC)
	}
	c.Step()
	c.Step()
	if c.Reg(0) != 0 {
		t.Fatalf("R0 = %d, want 0", c.Reg(0))
	}
	if c.PC != 2 {
		t.Fatalf("PC after loop exits = %#04x, want 0x0002", c.PC)
	}
}

func TestTimer0Mode1Overflow(t *testing.T) {
	c := New(nil)
	c.Bus.WriteDirect(addrTMOD, 0x01) // timer0 mode 1, 16-bit
	c.WriteBit(bitTR0, true)
	c.Bus.WriteDirect(addrTL0, 0xff)
	c.Bus.WriteDirect(addrTH0, 0xff)
	load(c, 0, 0x00) // NOP, 1 cycle
	c.Step()
	if !c.ReadBit(bitTF0) {
		t.Error("TF0 not set after timer overflow")
	}
	if c.Bus.ReadDirect(addrTL0) != 0 || c.Bus.ReadDirect(addrTH0) != 0 {
		t.Errorf("TL0/TH0 = %#02x/%#02x, want 0/0", c.Bus.ReadDirect(addrTL0), c.Bus.ReadDirect(addrTH0))
	}
}

func TestInterruptDispatch(t *testing.T) {
	c := New(nil)
	c.WriteBit(bitEA, true)
	c.WriteBit(bitEX0, true)
	c.WriteBit(bitIT0, true) // edge-triggered
	load(c, 0, 0x00, 0x00)   // two NOPs before the interrupt would fire

	c.RaiseINT0(true)
	c.RaiseINT0(false) // falling edge latches the request
	c.Step()

	if c.PC != vectorIE0 {
		t.Fatalf("PC = %#04x, want interrupt vector %#04x", c.PC, uint16(vectorIE0))
	}
	hi := c.Bus.ReadDirect(c.Bus.ReadDirect(addrSP))
	if hi != 0 {
		t.Errorf("pushed return PC high byte = %#02x, want 0", hi)
	}
}

func TestLoadHex(t *testing.T) {
	c := New(nil)
	// ":03000000020100FA\n:00000001FF\n" -> LJMP 0x0100 at address 0.
	hex := ":03000000020100FA\n:00000001FF\n"
	if err := c.LoadHex(strings.NewReader(hex)); err != nil {
		t.Fatalf("LoadHex: %v", err)
	}
	if c.Bus.Code[0] != 0x02 || c.Bus.Code[1] != 0x01 || c.Bus.Code[2] != 0x00 {
		t.Fatalf("loaded code = % x, want 02 01 00", c.Bus.Code[:3])
	}
	c.Step()
	if c.PC != 0x0100 {
		t.Fatalf("PC after LJMP = %#04x, want 0x0100", c.PC)
	}
}
