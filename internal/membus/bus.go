/*
   MCS-51 memory spaces.

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

// Package membus holds the four address spaces of an MCS-51 part: code ROM,
// internal RAM, external RAM and the special function register file. Each
// CPU owns one Bus value; nothing here is package-level global state, so
// independent processor instances never share memory by accident.
package membus

// Bus is the set of address spaces a single 8051 core executes against.
type Bus struct {
	Code [65536]byte // Program memory, read-only to the running program.
	IRAM [256]byte   // Internal RAM: general registers, bit space, user data.
	XRAM [65536]byte // External data RAM, reached only through MOVX.
	SFR  [128]byte   // Special function registers, direct addresses 0x80-0xFF.
}

// ResetRAM clears IRAM, XRAM and the SFR file but leaves Code untouched,
// mirroring the "power-on reset clears registers, not ROM" hardware rule.
func (b *Bus) ResetRAM() {
	b.IRAM = [256]byte{}
	b.XRAM = [65536]byte{}
	b.SFR = [128]byte{}
}

// ReadDirect reads a byte from internal RAM or an SFR depending on the
// address: 0x00-0x7F is IRAM, 0x80-0xFF is the SFR file.
func (b *Bus) ReadDirect(addr uint8) byte {
	if addr < 0x80 {
		return b.IRAM[addr]
	}
	return b.SFR[addr-0x80]
}

// WriteDirect writes a byte to internal RAM or an SFR.
func (b *Bus) WriteDirect(addr uint8, v byte) {
	if addr < 0x80 {
		b.IRAM[addr] = v
	} else {
		b.SFR[addr-0x80] = v
	}
}

// ReadBit reads a single bit from the bit-addressable space: 0x00-0x7F maps
// into IRAM 0x20-0x2F, 0x80-0xFF maps into bit-addressable SFRs.
func (b *Bus) ReadBit(bit uint8) bool {
	direct, pos := directOf(bit)
	return (b.ReadDirect(direct)>>pos)&1 != 0
}

// WriteBit sets or clears a single bit in the bit-addressable space.
func (b *Bus) WriteBit(bit uint8, v bool) {
	direct, pos := directOf(bit)
	cur := b.ReadDirect(direct)
	if v {
		cur |= 1 << pos
	} else {
		cur &^= 1 << pos
	}
	b.WriteDirect(direct, cur)
}

func directOf(bit uint8) (direct uint8, pos uint8) {
	if bit < 0x80 {
		return 0x20 + bit/8, bit % 8
	}
	return bit & 0xf8, bit % 8
}

// ReadCode reads one byte from program memory.
func (b *Bus) ReadCode(addr uint16) byte {
	return b.Code[addr]
}

// ReadXRAM and WriteXRAM implement the MOVX external-data-memory accesses.
func (b *Bus) ReadXRAM(addr uint16) byte {
	return b.XRAM[addr]
}

func (b *Bus) WriteXRAM(addr uint16, v byte) {
	b.XRAM[addr] = v
}
