/*
   MCS-51 processor core: shared types and constants.

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

package cpu

// Bit addresses of the flags the step loop and interrupt logic touch by
// name. Pulled out of internal/mcs51's BitAddr/PSWBit maps as constants so
// the hot path never pays for a map lookup.
const (
	bitP   = 0xd0
	bitOV  = 0xd2
	bitRS0 = 0xd3
	bitRS1 = 0xd4
	bitAC  = 0xd6
	bitCY  = 0xd7

	bitIT0 = 0x88
	bitIE0 = 0x89
	bitIT1 = 0x8a
	bitIE1 = 0x8b
	bitTR0 = 0x8c
	bitTF0 = 0x8d
	bitTR1 = 0x8e
	bitTF1 = 0x8f

	bitEX0 = 0xa8
	bitET0 = 0xa9
	bitEX1 = 0xaa
	bitET1 = 0xab
	bitES  = 0xac
	bitEA  = 0xaf

	bitPX0 = 0xb8
	bitPT0 = 0xb9
	bitPX1 = 0xba
	bitPT1 = 0xbb
	bitPS  = 0xbc
)

// Direct addresses of the special function registers the core manipulates
// without going through the disassembler's name table.
const (
	addrP0   = 0x80
	addrSP   = 0x81
	addrDPL  = 0x82
	addrDPH  = 0x83
	addrTCON = 0x88
	addrTMOD = 0x89
	addrTL0  = 0x8a
	addrTL1  = 0x8b
	addrTH0  = 0x8c
	addrTH1  = 0x8d
	addrP1   = 0x90
	addrSCON = 0x98
	addrSBUF = 0x99
	addrP2   = 0xa0
	addrIE   = 0xa8
	addrP3   = 0xb0
	addrIP   = 0xb8
	addrPSW  = 0xd0
	addrACC  = 0xe0
	addrB    = 0xf0
)

// Interrupt vector addresses, in descending priority order for same-level
// arbitration when more than one source is pending at once.
const (
	vectorIE0  = 0x0003
	vectorTF0  = 0x000b
	vectorIE1  = 0x0013
	vectorTF1  = 0x001b
	vectorSIO  = 0x0023
	resetVector = 0x0000
)

// stepInfo carries the decoded instruction across the dispatch table. The
// CPU core only ever needs at most two operand bytes, so there is no
// variable-length effective-address computation to thread through.
type stepInfo struct {
	opcode  byte
	width   uint8
	b1, b2  byte
	pc      uint16 // address of the opcode byte
	pcAfter uint16 // pc + width, already computed for branch targets
}

// opFunc executes one instruction and returns the number of machine cycles
// it consumes.
type opFunc func(c *CPU, s *stepInfo) uint8
