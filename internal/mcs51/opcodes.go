/*
   MCS-51 opcode widths and name tables.

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

// Package mcs51 holds the encoding tables shared by the processor core,
// the assembler and the disassembler: instruction byte widths and the
// special function register / bit name tables.
package mcs51

// Width holds the instruction length in bytes for every opcode, 1 to 3.
var Width [256]uint8

func init() {
	for i := range Width {
		Width[i] = 1
	}
	for _, op := range []int{
		0x01, 0x05, 0x11, 0x15, 0x21, 0x24, 0x25, 0x31, 0x34, 0x35,
		0x40, 0x41, 0x42, 0x44, 0x45, 0x50, 0x51, 0x52, 0x54, 0x55,
		0x60, 0x61, 0x62, 0x64, 0x65, 0x70, 0x71, 0x72, 0x74,
		0x76, 0x77, 0x78, 0x79, 0x7a, 0x7b, 0x7c, 0x7d, 0x7e, 0x7f,
		0x80, 0x81, 0x82, 0x86, 0x87,
		0x88, 0x89, 0x8a, 0x8b, 0x8c, 0x8d, 0x8e, 0x8f,
		0x91, 0x92, 0x94, 0x95,
		0xa0, 0xa1, 0xa2, 0xa6, 0xa7,
		0xa8, 0xa9, 0xaa, 0xab, 0xac, 0xad, 0xae, 0xaf,
		0xb0, 0xb1, 0xb2, 0xc0, 0xc1, 0xc2, 0xc5, 0xd0, 0xd1, 0xd2,
		0xd8, 0xd9, 0xda, 0xdb, 0xdc, 0xdd, 0xde, 0xdf,
		0xe1, 0xe5, 0xf1, 0xf5,
	} {
		Width[op] = 2
	}
	for _, op := range []int{
		0x02, 0x10, 0x12, 0x20, 0x30, 0x43, 0x53, 0x63, 0x75, 0x85, 0x90,
		0xb4, 0xb5, 0xb6, 0xb7,
		0xb8, 0xb9, 0xba, 0xbb, 0xbc, 0xbd, 0xbe, 0xbf,
		0xd5,
	} {
		Width[op] = 3
	}
}

// SFRName maps a direct address in 0x80-0xFF to its conventional register
// name. Addresses not present are ordinary SFR bytes with no mnemonic name.
var SFRName = map[uint8]string{
	0x80: "P0", 0x81: "SP", 0x82: "DPL", 0x83: "DPH",
	0x87: "PCON", 0x88: "TCON", 0x89: "TMOD",
	0x8a: "TL0", 0x8b: "TL1", 0x8c: "TH0", 0x8d: "TH1",
	0x90: "P1", 0x98: "SCON", 0x99: "SBUF",
	0xa0: "P2", 0xa8: "IE", 0xb0: "P3", 0xb8: "IP",
	0xd0: "PSW", 0xe0: "ACC", 0xf0: "B",
}

// SFRAddr is the inverse of SFRName.
var SFRAddr = map[string]uint8{}

func init() {
	for addr, name := range SFRName {
		SFRAddr[name] = addr
	}
}

// PSWBit maps PSW flag names to their bit address in the bit-addressable
// SFR space (0xD0-0xD7).
var PSWBit = map[string]uint8{
	"P": 0xd0, "UD": 0xd1, "OV": 0xd2, "RS0": 0xd3,
	"RS1": 0xd4, "F0": 0xd5, "AC": 0xd6, "C": 0xd7,
}

// BitName maps a bit address to a conventional name for the TCON, IE, IP
// and PSW flag bits; port pins have no entry.
var BitName = map[uint8]string{
	0x88: "IT0", 0x89: "IE0", 0x8a: "IT1", 0x8b: "IE1", 0x8c: "TR0", 0x8d: "TF0", 0x8e: "TR1", 0x8f: "TF1",
	0xa8: "EX0", 0xa9: "ET0", 0xaa: "EX1", 0xab: "ET1", 0xac: "ES", 0xaf: "EA",
	0xb8: "PX0", 0xb9: "PT0", 0xba: "PX1", 0xbb: "PT1", 0xbc: "PS",
	0xd0: "P", 0xd1: "UD", 0xd2: "OV", 0xd3: "RS0", 0xd4: "RS1", 0xd5: "F0", 0xd6: "AC", 0xd7: "C",
}

// BitAddr is the inverse of BitName.
var BitAddr = map[string]uint8{}

func init() {
	for addr, name := range BitName {
		BitAddr[name] = addr
	}
}

// DirectToBit converts a bit-addressable direct byte address (0x20-0x2F in
// IRAM, or a bit-addressable SFR) and a bit number 0-7 into a bit address.
func DirectToBit(direct uint8, bitnum uint8) uint8 {
	if direct >= 0x20 && direct <= 0x2f {
		return (direct-0x20)*8 + bitnum
	}
	return (direct & 0xf8) + bitnum
}

// BitToDirect is the inverse of DirectToBit, returning the byte address that
// holds the given bit and the bit's position within that byte.
func BitToDirect(bit uint8) (direct uint8, bitnum uint8) {
	if bit < 0x80 {
		return 0x20 + bit/8, bit % 8
	}
	return bit & 0xf8, bit % 8
}

// AJMPTarget computes the absolute target of an AJMP/ACALL instruction: the
// opcode's top 3 bits supply the high page bits, pcAfter is the PC value
// after the two-byte instruction has been fetched.
func AJMPTarget(opcode uint8, pcAfter uint16, arg1 uint8) uint16 {
	page := uint16(opcode&0xe0) << 3
	return (pcAfter & 0xf800) | page | uint16(arg1)
}
