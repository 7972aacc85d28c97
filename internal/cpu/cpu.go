/*
   MCS-51 processor core.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   RICHARD CORNWELL BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package cpu implements a single MCS-51 processor core: its four address
// spaces, its instruction cycle, its two timers and its interrupt logic.
// Every piece of mutable state lives on a *CPU value; there is no
// package-level state, so a host can run as many independent cores as it
// wants in one process.
package cpu

import (
	"io"
	"log/slog"

	"github.com/rcornwell/mcs51/internal/mcs51"
	"github.com/rcornwell/mcs51/internal/membus"
)

// CPU is one MCS-51 processor core plus the memory it executes against.
type CPU struct {
	Bus membus.Bus

	PC     uint16
	Cycles uint64

	// Breakpoint support for the monitor's step/run commands. Reaching an
	// address in BreakAddresses calls BreakCallback and makes Step report a
	// stop. BreakInstruction is a plain switch: while it is true every Step
	// reports a stop; no opcode value is matched against it.
	BreakInstruction bool
	BreakAddresses   map[uint16]bool
	BreakCallback    func(*CPU)

	halted bool

	// INT0/INT1 pin state: int0Prev/int1Prev hold the last reported pin
	// level for edge detection, int0Pending/int1Pending hold a latched
	// request until it is dispatched.
	int0Prev, int1Prev bool
	int0Pending, int1Pending bool

	// Interrupt service bookkeeping. inInterrupt/inHighPrio track whether an
	// ISR (and at what priority) is currently running so dispatchInterrupt
	// can tell a preempt from a re-dispatch; justReturned enforces the
	// one-instruction delay after RETI during which no new interrupt may
	// fire.
	inInterrupt, inHighPrio, justReturned bool

	table [256]opFunc
	log   *slog.Logger
}

// New returns a CPU with its dispatch table built and logging directed at
// log. A nil log discards everything.
func New(log *slog.Logger) *CPU {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &CPU{
		BreakAddresses: map[uint16]bool{},
		log:            log,
	}
	c.createTable()
	c.FullReset()
	return c
}

// FullReset additionally clears IRAM, XRAM and the cycle counter on top of
// everything Reset clears. The loaded code image is untouched either way;
// ROM is only ever replaced by a program load.
func (c *CPU) FullReset() {
	c.Bus.ResetRAM()
	c.Cycles = 0
	c.Reset()
}

// Reset clears the SFR file and interrupt bookkeeping but leaves the loaded
// code image, IRAM, XRAM and the cycle counter intact, mirroring the 8051's
// RST pin behavior.
func (c *CPU) Reset() {
	c.Bus.SFR = [128]byte{}
	c.PC = 0
	c.halted = false
	c.int0Prev, c.int1Prev = false, false
	c.int0Pending, c.int1Pending = false, false
	c.inInterrupt, c.inHighPrio, c.justReturned = false, false, false
	c.Bus.WriteDirect(addrSP, 0x07)
	c.Bus.WriteDirect(addrP0, 0xff)
	c.Bus.WriteDirect(addrP1, 0xff)
	c.Bus.WriteDirect(addrP2, 0xff)
	c.Bus.WriteDirect(addrP3, 0xff)
}

// LoadHex loads an Intel HEX image into code memory without disturbing
// registers or RAM; see hexload.go.

// Accessors. None of these return a pointer or slice into CPU-owned
// storage, so a caller can never alias and mutate state behind the core's
// back the way a raw array field would invite.

func (c *CPU) ReadDirect(addr uint8) byte   { return c.Bus.ReadDirect(addr) }
func (c *CPU) WriteDirect(addr uint8, v byte) { c.Bus.WriteDirect(addr, v) }
func (c *CPU) ReadBit(bit uint8) bool       { return c.Bus.ReadBit(bit) }
func (c *CPU) WriteBit(bit uint8, v bool)   { c.Bus.WriteBit(bit, v) }
func (c *CPU) ReadCode(addr uint16) byte    { return c.Bus.ReadCode(addr) }

func (c *CPU) A() byte { return c.Bus.ReadDirect(addrACC) }

// SetA writes the accumulator and recomputes PSW.P, which must always equal
// the parity of A immediately after any write to it.
func (c *CPU) SetA(v byte) {
	c.Bus.WriteDirect(addrACC, v)
	c.WriteBit(bitP, parity(v))
}

func parity(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 != 0
}

func (c *CPU) PSW() byte { return c.Bus.ReadDirect(addrPSW) }
func (c *CPU) B() byte   { return c.Bus.ReadDirect(addrB) }
func (c *CPU) P2() byte  { return c.Bus.ReadDirect(addrP2) }

// DPTR returns the 16-bit data pointer (DPH:DPL).
func (c *CPU) DPTR() uint16 { return c.dptr() }

// ReadXRAM reads one byte of external data memory, reachable only via MOVX.
func (c *CPU) ReadXRAM(addr uint16) byte { return c.Bus.ReadXRAM(addr) }

// Reg returns general register n (0-7) from the currently selected bank.
func (c *CPU) Reg(n int) byte {
	return c.Bus.ReadDirect(c.regAddr(n))
}

// SetReg writes general register n (0-7) in the currently selected bank.
func (c *CPU) SetReg(n int, v byte) {
	c.Bus.WriteDirect(c.regAddr(n), v)
}

func (c *CPU) regAddr(n int) uint8 {
	psw := c.PSW()
	bank := (psw >> 3) & 0x03
	return bank*8 + uint8(n)
}

func (c *CPU) dptr() uint16 {
	return uint16(c.Bus.ReadDirect(addrDPH))<<8 | uint16(c.Bus.ReadDirect(addrDPL))
}

func (c *CPU) setDptr(v uint16) {
	c.Bus.WriteDirect(addrDPH, byte(v>>8))
	c.Bus.WriteDirect(addrDPL, byte(v))
}

func (c *CPU) push(v byte) {
	sp := c.Bus.ReadDirect(addrSP) + 1
	c.Bus.WriteDirect(addrSP, sp)
	c.Bus.WriteDirect(sp, v)
}

func (c *CPU) pop() byte {
	sp := c.Bus.ReadDirect(addrSP)
	v := c.Bus.ReadDirect(sp)
	c.Bus.WriteDirect(addrSP, sp-1)
	return v
}

// fetch decodes the instruction at c.PC into a stepInfo without advancing
// the program counter; Step advances it once the handler has run so a
// handler that writes PC itself (a jump or call) is not overwritten.
func (c *CPU) fetch() stepInfo {
	pc := c.PC
	op := c.Bus.ReadCode(pc)
	width := mcs51.Width[op]
	s := stepInfo{opcode: op, width: width, pc: pc}
	if width > 1 {
		s.b1 = c.Bus.ReadCode(pc + 1)
	}
	if width > 2 {
		s.b2 = c.Bus.ReadCode(pc + 2)
	}
	s.pcAfter = pc + uint16(width)
	return s
}

// Step runs one instruction cycle: interrupt check, fetch/execute, timer
// tick, breakpoint check. It returns false when PC has reached an address
// in BreakAddresses or BreakInstruction is set, and true otherwise. The
// halted flag is checked first, but nothing in the core sets it.
func (c *CPU) Step() bool {
	if c.halted {
		return false
	}

	c.refreshInterruptLatches()
	accepted := c.dispatchInterrupt()
	c.justReturned = false // the one-instruction delay after RETI is now consumed
	if accepted {
		c.tickTimers(2)
		return c.checkBreak()
	}

	s := c.fetch()
	c.PC = s.pcAfter
	fn := c.table[s.opcode]
	cycles := fn(c, &s)
	c.WriteBit(bitP, parity(c.A())) // also covers A written through its direct address
	c.Cycles += uint64(cycles)
	c.tickTimers(cycles)

	return c.checkBreak()
}

func (c *CPU) checkBreak() bool {
	if c.BreakAddresses[c.PC] {
		if c.BreakCallback != nil {
			c.BreakCallback(c)
		}
		return false
	}
	return !c.BreakInstruction
}

// createTable builds the 256-entry dispatch table. Each opcode family is
// implemented once, in whichever of cpu_arith.go/cpu_control.go/cpu.go
// handles that family, and installed here in opcode order exactly as the
// encoding tables in internal/mcs51 and internal/disassemble describe it.
func (c *CPU) createTable() {
	t := &c.table
	for i := range t {
		t[i] = opUndefined
	}

	t[0x00] = opNop
	t[0x01], t[0x21], t[0x41], t[0x61], t[0x81], t[0xa1], t[0xc1], t[0xe1] = opAjmp, opAjmp, opAjmp, opAjmp, opAjmp, opAjmp, opAjmp, opAjmp
	t[0x02] = opLjmp
	t[0x03] = opRR
	t[0x04] = opIncA
	t[0x05] = opIncDirect
	t[0x06], t[0x07] = opIncInd, opIncInd
	for r := 0; r < 8; r++ {
		t[0x08+r] = opIncReg
	}
	t[0x10] = opJbc
	t[0x11], t[0x31], t[0x51], t[0x71], t[0x91], t[0xb1], t[0xd1], t[0xf1] = opAcall, opAcall, opAcall, opAcall, opAcall, opAcall, opAcall, opAcall
	t[0x12] = opLcall
	t[0x13] = opRRC
	t[0x14] = opDecA
	t[0x15] = opDecDirect
	t[0x16], t[0x17] = opDecInd, opDecInd
	for r := 0; r < 8; r++ {
		t[0x18+r] = opDecReg
	}
	t[0x20] = opJb
	t[0x22] = opRet
	t[0x23] = opRL
	t[0x24], t[0x25], t[0x26], t[0x27] = opAdd, opAdd, opAdd, opAdd
	for r := 0; r < 8; r++ {
		t[0x28+r] = opAdd
	}
	t[0x30] = opJnb
	t[0x32] = opReti
	t[0x33] = opRLC
	t[0x34], t[0x35], t[0x36], t[0x37] = opAddc, opAddc, opAddc, opAddc
	for r := 0; r < 8; r++ {
		t[0x38+r] = opAddc
	}
	t[0x40] = opJc
	t[0x42] = opOrlDirectA
	t[0x43] = opOrlDirectImm
	t[0x44], t[0x45], t[0x46], t[0x47] = opOrl, opOrl, opOrl, opOrl
	for r := 0; r < 8; r++ {
		t[0x48+r] = opOrl
	}
	t[0x50] = opJnc
	t[0x52] = opAnlDirectA
	t[0x53] = opAnlDirectImm
	t[0x54], t[0x55], t[0x56], t[0x57] = opAnl, opAnl, opAnl, opAnl
	for r := 0; r < 8; r++ {
		t[0x58+r] = opAnl
	}
	t[0x60] = opJz
	t[0x62] = opXrlDirectA
	t[0x63] = opXrlDirectImm
	t[0x64], t[0x65], t[0x66], t[0x67] = opXrl, opXrl, opXrl, opXrl
	for r := 0; r < 8; r++ {
		t[0x68+r] = opXrl
	}
	t[0x70] = opJnz
	t[0x72] = opOrlBitC
	t[0x73] = opJmpIndirect
	t[0x74] = opMovAImm
	t[0x75] = opMovDirectImm
	t[0x76], t[0x77] = opMovIndImm, opMovIndImm
	for r := 0; r < 8; r++ {
		t[0x78+r] = opMovRegImm
	}
	t[0x80] = opSjmp
	t[0x82] = opAnlBitC
	t[0x83] = opMovcPC
	t[0x84] = opDiv
	t[0x85] = opMovDirectDirect
	t[0x86], t[0x87] = opMovDirectInd, opMovDirectInd
	for r := 0; r < 8; r++ {
		t[0x88+r] = opMovDirectReg
	}
	t[0x90] = opMovDptrImm
	t[0x92] = opMovBitC
	t[0x93] = opMovcDptr
	t[0x94], t[0x95], t[0x96], t[0x97] = opSubb, opSubb, opSubb, opSubb
	for r := 0; r < 8; r++ {
		t[0x98+r] = opSubb
	}
	t[0xa0] = opOrlNBitC
	t[0xa2] = opMovCBit
	t[0xa3] = opIncDptr
	t[0xa4] = opMul
	t[0xa5] = opUndefined
	t[0xa6], t[0xa7] = opMovIndDirect, opMovIndDirect
	for r := 0; r < 8; r++ {
		t[0xa8+r] = opMovRegDirect
	}
	t[0xb0] = opAnlNBitC
	t[0xb2] = opCplBit
	t[0xb3] = opCplC
	t[0xb4], t[0xb5], t[0xb6], t[0xb7] = opCjneAImm, opCjneADirect, opCjneInd, opCjneInd
	for r := 0; r < 8; r++ {
		t[0xb8+r] = opCjneReg
	}
	t[0xc0] = opPush
	t[0xc2] = opClrBit
	t[0xc3] = opClrC
	t[0xc4] = opSwap
	t[0xc5] = opXchDirect
	t[0xc6], t[0xc7] = opXchInd, opXchInd
	for r := 0; r < 8; r++ {
		t[0xc8+r] = opXchReg
	}
	t[0xd0] = opPop
	t[0xd2] = opSetbBit
	t[0xd3] = opSetbC
	t[0xd4] = opDA
	t[0xd5] = opDjnzDirect
	t[0xd6], t[0xd7] = opXchd, opXchd
	for r := 0; r < 8; r++ {
		t[0xd8+r] = opDjnzReg
	}
	t[0xe0] = opMovxADptr
	t[0xe2], t[0xe3] = opMovxAInd, opMovxAInd
	t[0xe4] = opClrA
	t[0xe5] = opMovADirect
	t[0xe6], t[0xe7] = opMovAInd, opMovAInd
	for r := 0; r < 8; r++ {
		t[0xe8+r] = opMovAReg
	}
	t[0xf0] = opMovxDptrA
	t[0xf2], t[0xf3] = opMovxIndA, opMovxIndA
	t[0xf4] = opCplA
	t[0xf5] = opMovDirectA
	t[0xf6], t[0xf7] = opMovIndA, opMovIndA
	for r := 0; r < 8; r++ {
		t[0xf8+r] = opMovRegA
	}
}

func opUndefined(c *CPU, s *stepInfo) uint8 {
	c.log.Warn("undefined opcode", "opcode", s.opcode, "pc", s.pc)
	return 1
}

func opNop(c *CPU, s *stepInfo) uint8 { return 1 }
