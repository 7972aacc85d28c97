/*
   MCS-51 disassembler.

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

// Package disassemble formats a single instruction found in a byte slice
// into a textual mnemonic line: one map from opcode to a {name, operand
// class} record, and one switch over operand classes to render the
// arguments.
package disassemble

import (
	"fmt"

	"github.com/rcornwell/mcs51/internal/mcs51"
)

// Operand class: how the bytes after the opcode are rendered.
const (
	clsNone   = iota // no operand bytes, mnemonic text is already complete
	clsReg           // register encoded in the low 3 bits of the opcode
	clsAReg          // "A,Rn"
	clsAInd          // "A,@Ri"
	clsAImm          // "A,#immed" (next byte)
	clsADirect       // "A,direct" (next byte)
	clsRegImm        // "Rn,#immed"
	clsIndImm        // "@Ri,#immed"
	clsRegDirectDst  // "Rn,direct" (Rn is destination)
	clsRegDirectSrc  // "direct,Rn" (Rn is source)
	clsIndDirectDst  // "@Ri,direct"
	clsIndDirectSrc  // "direct,@Ri"
	clsDirectImm     // "direct,#immed" (3 bytes)
	clsDirectA       // "direct,A"
	clsADirectDst    // "A,direct" alias used by a few opcodes (kept distinct for clarity)
	clsDirect1       // single "direct" operand
	clsDirectDirect  // "direct,direct" (0x85: encoded as src,dest)
	clsBit           // single bit operand
	clsNBit          // "/bit"
	clsBitC          // "C,bit"
	clsCBit          // "bit,C"
	clsRel           // relative branch target, next byte is signed offset
	clsCode11        // AJMP/ACALL 11-bit page address
	clsCode16        // LJMP/LCALL absolute 16-bit address
	clsImm16         // MOV DPTR,#data16
	clsDirectRel     // "direct,rel" (DJNZ)
	clsRegRel        // "Rn,rel" (DJNZ)
	clsAImmRel       // "A,#immed,rel" (CJNE)
	clsADirectRel    // "A,direct,rel" (CJNE)
	clsIndImmRel     // "@Ri,#immed,rel" (CJNE)
	clsRegImmRel     // "Rn,#immed,rel" (CJNE)
	clsBitRel        // "bit,rel" (JB/JNB/JBC)
)

type opcode struct {
	name string
	cls  int
}

var opMap = [256]opcode{}

func def(op int, name string, cls int) {
	opMap[op] = opcode{name, cls}
}

func defRange(base int, name string, cls int) {
	for r := 0; r < 8; r++ {
		opMap[base+r] = opcode{name, cls}
	}
}

//nolint:funlen // table assembly, not branching logic
func init() {
	def(0x00, "NOP", clsNone)
	def(0x01, "AJMP", clsCode11)
	def(0x02, "LJMP", clsCode16)
	def(0x03, "RR", clsNone)
	def(0x04, "INC", clsNone) // INC A
	def(0x05, "INC", clsDirect1)
	def(0x06, "INC", clsNone) // INC @R0
	def(0x07, "INC", clsNone) // INC @R1
	defRange(0x08, "INC", clsReg)
	def(0x10, "JBC", clsBitRel)
	def(0x11, "ACALL", clsCode11)
	def(0x12, "LCALL", clsCode16)
	def(0x13, "RRC", clsNone)
	def(0x14, "DEC", clsNone)
	def(0x15, "DEC", clsDirect1)
	def(0x16, "DEC", clsNone)
	def(0x17, "DEC", clsNone)
	defRange(0x18, "DEC", clsReg)
	def(0x20, "JB", clsBitRel)
	def(0x21, "AJMP", clsCode11)
	def(0x22, "RET", clsNone)
	def(0x23, "RL", clsNone)
	def(0x24, "ADD", clsAImm)
	def(0x25, "ADD", clsADirect)
	def(0x26, "ADD", clsAInd)
	def(0x27, "ADD", clsAInd)
	defRange(0x28, "ADD", clsAReg)
	def(0x30, "JNB", clsBitRel)
	def(0x31, "ACALL", clsCode11)
	def(0x32, "RETI", clsNone)
	def(0x33, "RLC", clsNone)
	def(0x34, "ADDC", clsAImm)
	def(0x35, "ADDC", clsADirect)
	def(0x36, "ADDC", clsAInd)
	def(0x37, "ADDC", clsAInd)
	defRange(0x38, "ADDC", clsAReg)
	def(0x40, "JC", clsRel)
	def(0x41, "AJMP", clsCode11)
	def(0x42, "ORL", clsDirectA)
	def(0x43, "ORL", clsDirectImm)
	def(0x44, "ORL", clsAImm)
	def(0x45, "ORL", clsADirect)
	def(0x46, "ORL", clsAInd)
	def(0x47, "ORL", clsAInd)
	defRange(0x48, "ORL", clsAReg)
	def(0x50, "JNC", clsRel)
	def(0x51, "ACALL", clsCode11)
	def(0x52, "ANL", clsDirectA)
	def(0x53, "ANL", clsDirectImm)
	def(0x54, "ANL", clsAImm)
	def(0x55, "ANL", clsADirect)
	def(0x56, "ANL", clsAInd)
	def(0x57, "ANL", clsAInd)
	defRange(0x58, "ANL", clsAReg)
	def(0x60, "JZ", clsRel)
	def(0x61, "AJMP", clsCode11)
	def(0x62, "XRL", clsDirectA)
	def(0x63, "XRL", clsDirectImm)
	def(0x64, "XRL", clsAImm)
	def(0x65, "XRL", clsADirect)
	def(0x66, "XRL", clsAInd)
	def(0x67, "XRL", clsAInd)
	defRange(0x68, "XRL", clsAReg)
	def(0x70, "JNZ", clsRel)
	def(0x71, "ACALL", clsCode11)
	def(0x72, "ORL", clsBitC)
	def(0x73, "JMP", clsNone) // JMP @A+DPTR
	def(0x74, "MOV", clsAImm)
	def(0x75, "MOV", clsDirectImm)
	def(0x76, "MOV", clsIndImm)
	def(0x77, "MOV", clsIndImm)
	defRange(0x78, "MOV", clsRegImm)
	def(0x80, "SJMP", clsRel)
	def(0x81, "AJMP", clsCode11)
	def(0x82, "ANL", clsBitC)
	def(0x83, "MOVC", clsNone) // MOVC A,@A+PC
	def(0x84, "DIV", clsNone)
	def(0x85, "MOV", clsDirectDirect)
	def(0x86, "MOV", clsIndDirectSrc)
	def(0x87, "MOV", clsIndDirectSrc)
	defRange(0x88, "MOV", clsRegDirectSrc)
	def(0x90, "MOV", clsImm16)
	def(0x91, "ACALL", clsCode11)
	def(0x92, "MOV", clsCBit)
	def(0x93, "MOVC", clsNone) // MOVC A,@A+DPTR
	def(0x94, "SUBB", clsAImm)
	def(0x95, "SUBB", clsADirect)
	def(0x96, "SUBB", clsAInd)
	def(0x97, "SUBB", clsAInd)
	defRange(0x98, "SUBB", clsAReg)
	def(0xa0, "ORL", clsNBit)
	def(0xa1, "AJMP", clsCode11)
	def(0xa2, "MOV", clsBitC)
	def(0xa3, "INC", clsNone) // INC DPTR
	def(0xa4, "MUL", clsNone)
	def(0xa5, "???", clsNone) // reserved / undefined opcode
	def(0xa6, "MOV", clsIndDirectDst)
	def(0xa7, "MOV", clsIndDirectDst)
	defRange(0xa8, "MOV", clsRegDirectDst)
	def(0xb0, "ANL", clsNBit)
	def(0xb1, "ACALL", clsCode11)
	def(0xb2, "CPL", clsBit)
	def(0xb3, "CPL", clsNone) // CPL C
	def(0xb4, "CJNE", clsAImmRel)
	def(0xb5, "CJNE", clsADirectRel)
	def(0xb6, "CJNE", clsIndImmRel)
	def(0xb7, "CJNE", clsIndImmRel)
	defRange(0xb8, "CJNE", clsRegImmRel)
	def(0xc0, "PUSH", clsDirect1)
	def(0xc1, "AJMP", clsCode11)
	def(0xc2, "CLR", clsBit)
	def(0xc3, "CLR", clsNone) // CLR C
	def(0xc4, "SWAP", clsNone)
	def(0xc5, "XCH", clsADirect)
	def(0xc6, "XCH", clsAInd)
	def(0xc7, "XCH", clsAInd)
	defRange(0xc8, "XCH", clsAReg)
	def(0xd0, "POP", clsDirect1)
	def(0xd1, "ACALL", clsCode11)
	def(0xd2, "SETB", clsBit)
	def(0xd3, "SETB", clsNone) // SETB C
	def(0xd4, "DA", clsNone)
	def(0xd5, "DJNZ", clsDirectRel)
	def(0xd6, "XCHD", clsNone) // XCHD A,@R0
	def(0xd7, "XCHD", clsNone) // XCHD A,@R1
	defRange(0xd8, "DJNZ", clsRegRel)
	def(0xe0, "MOVX", clsNone) // MOVX A,@DPTR
	def(0xe1, "AJMP", clsCode11)
	def(0xe2, "MOVX", clsNone) // MOVX A,@R0
	def(0xe3, "MOVX", clsNone) // MOVX A,@R1
	def(0xe4, "CLR", clsNone)  // CLR A
	def(0xe5, "MOV", clsADirect)
	def(0xe6, "MOV", clsAInd)
	def(0xe7, "MOV", clsAInd)
	defRange(0xe8, "MOV", clsAReg)
	def(0xf0, "MOVX", clsNone) // MOVX @DPTR,A
	def(0xf1, "AJMP", clsCode11)
	def(0xf2, "MOVX", clsNone) // MOVX @R0,A
	def(0xf3, "MOVX", clsNone) // MOVX @R1,A
	def(0xf4, "CPL", clsNone)  // CPL A
	def(0xf5, "MOV", clsDirectA)
	def(0xf6, "MOV", clsNone)
	def(0xf7, "MOV", clsNone)
	defRange(0xf8, "MOV", clsNone)
	for r := 0; r < 8; r++ {
		nameSuffix[0xf8+r] = fmt.Sprintf("R%d,A", r)
	}

	// A handful of opcodes carry their full operand text in the mnemonic
	// itself because there is nothing left to decode from the stream.
	for _, op := range []int{0x04, 0x14, 0x23, 0x33, 0x73, 0x83, 0x84, 0x93, 0xa3, 0xa4, 0xb3, 0xc3, 0xc4, 0xd3, 0xd4, 0xe4, 0xf4} {
		opMap[op].cls = clsNone
	}
	nameSuffix[0x03] = "A"
	nameSuffix[0x04] = "A"
	nameSuffix[0x06] = "@R0"
	nameSuffix[0x07] = "@R1"
	nameSuffix[0x13] = "A"
	nameSuffix[0x14] = "A"
	nameSuffix[0x16] = "@R0"
	nameSuffix[0x17] = "@R1"
	nameSuffix[0x23] = "A"
	nameSuffix[0x33] = "A"
	nameSuffix[0x73] = "@A+DPTR"
	nameSuffix[0x83] = "A,@A+PC"
	nameSuffix[0x84] = "AB"
	nameSuffix[0x93] = "A,@A+DPTR"
	nameSuffix[0xa3] = "DPTR"
	nameSuffix[0xa4] = "AB"
	nameSuffix[0xa5] = ""
	nameSuffix[0xb3] = "C"
	nameSuffix[0xc3] = "C"
	nameSuffix[0xc4] = "A"
	nameSuffix[0xd3] = "C"
	nameSuffix[0xd4] = "A"
	nameSuffix[0xd6] = "A,@R0"
	nameSuffix[0xd7] = "A,@R1"
	nameSuffix[0xe0] = "A,@DPTR"
	nameSuffix[0xe2] = "A,@R0"
	nameSuffix[0xe3] = "A,@R1"
	nameSuffix[0xe4] = "A"
	nameSuffix[0xf0] = "@DPTR,A"
	nameSuffix[0xf2] = "@R0,A"
	nameSuffix[0xf3] = "@R1,A"
	nameSuffix[0xf4] = "A"
	nameSuffix[0xf6] = "@R0,A"
	nameSuffix[0xf7] = "@R1,A"
}

var nameSuffix [256]string

// directText renders a direct-address byte using its SFR mnemonic when one
// is known, and as a 0xNN hex address otherwise.
func directText(addr byte) string {
	if name, ok := mcs51.SFRName[addr]; ok {
		return name
	}
	return fmt.Sprintf("0x%02X", addr)
}

func bitText(bit byte) string {
	if name, ok := mcs51.BitName[bit]; ok {
		return name
	}
	direct, pos := mcs51.BitToDirect(bit)
	return fmt.Sprintf("%s.%d", directText(direct), pos)
}

func relTarget(pcAfter uint16, disp byte) uint16 {
	return uint16(int32(pcAfter) + int32(int8(disp)))
}

// LiveState is the minimal view into processor state the live-value variant
// of Disassemble needs to sample operand values. *cpu.CPU satisfies it
// structurally, so this package never imports internal/cpu: the decoder
// stays read-only and reusable against a bare byte slice (a HEX file that
// was never loaded into any CPU) as well as a live processor.
type LiveState interface {
	ReadCode(addr uint16) byte
	ReadDirect(addr uint8) byte
	ReadBit(bit uint8) bool
	ReadXRAM(addr uint16) byte
	A() byte
	B() byte
	P2() byte
	DPTR() uint16
	Reg(n int) byte
}

func hex8(v byte) string   { return fmt.Sprintf("(0x%02X)", v) }
func hex16(v uint16) string { return fmt.Sprintf("(0x%04X)", v) }
func bit1(v bool) string {
	if v {
		return "(1)"
	}
	return "(0)"
}

func directLiveText(s LiveState, addr byte) string {
	return directText(addr) + hex8(s.ReadDirect(addr))
}

func bitLiveText(s LiveState, bit byte) string {
	return bitText(bit) + bit1(s.ReadBit(bit))
}

// DisassembleLive decodes the instruction at addr by reading code bytes out
// of s and annotates every operand with its current value, sampled from s,
// in parentheses next to its symbolic form.
func DisassembleLive(s LiveState, addr uint16) (string, int) {
	op := int(s.ReadCode(addr))
	width := int(mcs51.Width[op])
	var data [3]byte
	data[0] = byte(op)
	for i := 1; i < width; i++ {
		data[i] = s.ReadCode(addr + uint16(i))
	}
	entry := opMap[op]
	name := entry.name
	pcAfter := addr + uint16(width)

	if suffix, ok := liveNoOperand(s, op, data[:width], addr, pcAfter); ok {
		return name + " " + suffix, width
	}
	if entry.cls == clsNone && nameSuffix[op] == "" {
		return name, width
	}

	text := name + " "
	switch entry.cls {
	case clsReg:
		text += fmt.Sprintf("R%d", op&7) + hex8(s.Reg(op&7))
	case clsAReg:
		text += "A" + hex8(s.A()) + "," + fmt.Sprintf("R%d", op&7) + hex8(s.Reg(op&7))
	case clsAInd:
		r := op & 1
		text += "A" + hex8(s.A()) + "," + indLiveText(s, r)
	case clsAImm:
		text += "A" + hex8(s.A()) + fmt.Sprintf(",#0x%02X", data[1])
	case clsADirect:
		text += "A" + hex8(s.A()) + "," + directLiveText(s, data[1])
	case clsRegImm:
		text += fmt.Sprintf("R%d", op&7) + hex8(s.Reg(op&7)) + fmt.Sprintf(",#0x%02X", data[1])
	case clsIndImm:
		r := op & 1
		text += indLiveText(s, r) + fmt.Sprintf(",#0x%02X", data[1])
	case clsRegDirectDst:
		text += fmt.Sprintf("R%d", op&7) + hex8(s.Reg(op&7)) + "," + directLiveText(s, data[1])
	case clsRegDirectSrc:
		text += directLiveText(s, data[1]) + "," + fmt.Sprintf("R%d", op&7) + hex8(s.Reg(op&7))
	case clsIndDirectDst:
		r := op & 1
		text += indLiveText(s, r) + "," + directLiveText(s, data[1])
	case clsIndDirectSrc:
		r := op & 1
		text += directLiveText(s, data[1]) + "," + indLiveText(s, r)
	case clsDirectImm:
		text += directLiveText(s, data[1]) + fmt.Sprintf(",#0x%02X", data[2])
	case clsDirectA:
		text += directLiveText(s, data[1]) + ",A" + hex8(s.A())
	case clsDirect1:
		text += directLiveText(s, data[1])
	case clsDirectDirect:
		text += directLiveText(s, data[2]) + "," + directLiveText(s, data[1])
	case clsBit:
		text += bitLiveText(s, data[1])
	case clsNBit:
		text += "C" + bit1(s.ReadBit(0xd7)) + ",/" + bitLiveText(s, data[1])
	case clsBitC:
		text += "C" + bit1(s.ReadBit(0xd7)) + "," + bitLiveText(s, data[1])
	case clsCBit:
		text += bitLiveText(s, data[1]) + ",C" + bit1(s.ReadBit(0xd7))
	case clsRel:
		text += fmt.Sprintf("0x%04X", relTarget(pcAfter, data[1]))
	case clsCode11:
		text += fmt.Sprintf("0x%04X", mcs51.AJMPTarget(byte(op), pcAfter, data[1]))
	case clsCode16:
		text += fmt.Sprintf("0x%04X", uint16(data[1])<<8|uint16(data[2]))
	case clsImm16:
		text += fmt.Sprintf("DPTR,#0x%04X", uint16(data[1])<<8|uint16(data[2]))
	case clsDirectRel:
		text += directLiveText(s, data[1]) + fmt.Sprintf(",0x%04X", relTarget(pcAfter, data[2]))
	case clsRegRel:
		text += fmt.Sprintf("R%d", op&7) + hex8(s.Reg(op&7)) + fmt.Sprintf(",0x%04X", relTarget(pcAfter, data[1]))
	case clsAImmRel:
		text += "A" + hex8(s.A()) + fmt.Sprintf(",#0x%02X,0x%04X", data[1], relTarget(pcAfter, data[2]))
	case clsADirectRel:
		text += "A" + hex8(s.A()) + "," + directLiveText(s, data[1]) + fmt.Sprintf(",0x%04X", relTarget(pcAfter, data[2]))
	case clsIndImmRel:
		r := op & 1
		text += indLiveText(s, r) + fmt.Sprintf(",#0x%02X,0x%04X", data[1], relTarget(pcAfter, data[2]))
	case clsRegImmRel:
		text += fmt.Sprintf("R%d", op&7) + hex8(s.Reg(op&7)) + fmt.Sprintf(",#0x%02X,0x%04X", data[1], relTarget(pcAfter, data[2]))
	case clsBitRel:
		text += bitLiveText(s, data[1]) + fmt.Sprintf(",0x%04X", relTarget(pcAfter, data[2]))
	default:
		text += "???"
	}
	return text, width
}

// indLiveText renders @R0/@R1 for r==0/1 with the IRAM byte Rn points at.
// The MOVX @Ri forms, which read XRAM at (P2<<8)|Rn, are rendered in
// liveNoOperand instead.
func indLiveText(s LiveState, r int) string {
	name := fmt.Sprintf("@R%d", r)
	ri := s.Reg(r)
	return name + hex8(s.ReadDirect(ri))
}

// liveNoOperand handles the opcodes whose entire operand text lives in
// nameSuffix (nothing left in opMap to decode from the instruction stream),
// annotating each register or memory reference named there with its
// current value. Returns ok=false for every other opcode; the caller then
// renders it from its opMap operand class, or bare when it has none.
func liveNoOperand(s LiveState, op int, data []byte, addr, pcAfter uint16) (string, bool) {
	switch op {
	case 0x03, 0x04, 0x13, 0x14, 0x23, 0x33, 0xc4, 0xd4, 0xe4, 0xf4: // RR/INC A/RRC/DEC A/RL/RLC/SWAP/DA/CLR A/CPL A
		return "A" + hex8(s.A()), true
	case 0x06, 0x16: // INC/DEC @R0
		return indLiveText(s, 0), true
	case 0x07, 0x17: // INC/DEC @R1
		return indLiveText(s, 1), true
	case 0x73: // JMP @A+DPTR
		target := s.DPTR() + uint16(s.A())
		return fmt.Sprintf("@A+DPTR,0x%04X", target), true
	case 0x83: // MOVC A,@A+PC
		target := pcAfter + uint16(s.A())
		return fmt.Sprintf("A%s,@A+PC%s", hex8(s.A()), hex8(s.ReadCode(target))), true
	case 0x84: // DIV AB
		return fmt.Sprintf("AB (A%s B%s)", hex8(s.A()), hex8(s.B())), true
	case 0x93: // MOVC A,@A+DPTR
		target := s.DPTR() + uint16(s.A())
		return fmt.Sprintf("A%s,@A+DPTR%s", hex8(s.A()), hex8(s.ReadCode(target))), true
	case 0xa3: // INC DPTR
		return "DPTR" + hex16(s.DPTR()), true
	case 0xa4: // MUL AB
		return fmt.Sprintf("AB (A%s B%s)", hex8(s.A()), hex8(s.B())), true
	case 0xb3, 0xc3, 0xd3: // CPL/CLR/SETB C
		return "C" + bit1(s.ReadBit(0xd7)), true
	case 0xd6: // XCHD A,@R0
		return "A" + hex8(s.A()) + "," + indLiveText(s, 0), true
	case 0xd7: // XCHD A,@R1
		return "A" + hex8(s.A()) + "," + indLiveText(s, 1), true
	case 0xe0: // MOVX A,@DPTR
		return fmt.Sprintf("A,@DPTR(0x%02X)", s.ReadXRAM(s.DPTR())), true
	case 0xe2, 0xe3: // MOVX A,@R0/@R1
		r := op & 1
		xaddr := uint16(s.P2())<<8 | uint16(s.Reg(r))
		return fmt.Sprintf("A,@R%d(0x%02X)", r, s.ReadXRAM(xaddr)), true
	case 0xf0: // MOVX @DPTR,A
		return fmt.Sprintf("@DPTR(0x%02X),A%s", s.ReadXRAM(s.DPTR()), hex8(s.A())), true
	case 0xf2, 0xf3: // MOVX @R0/@R1,A
		r := op & 1
		xaddr := uint16(s.P2())<<8 | uint16(s.Reg(r))
		return fmt.Sprintf("@R%d(0x%02X),A%s", r, s.ReadXRAM(xaddr), hex8(s.A())), true
	case 0xf6, 0xf7: // MOV @R0/@R1,A
		r := op & 1
		return indLiveText(s, r) + ",A" + hex8(s.A()), true
	}
	if op >= 0xf8 { // MOV Rn,A
		r := op & 7
		return fmt.Sprintf("R%d", r) + hex8(s.Reg(r)) + ",A" + hex8(s.A()), true
	}
	return "", false
}

// Disassemble decodes the instruction at data[0] and returns its mnemonic
// text and byte width. addr is the address of data[0], used to resolve
// relative and paged jump targets to absolute addresses.
func Disassemble(data []byte, addr uint16) (string, int) {
	op := int(data[0])
	width := int(mcs51.Width[op])
	if width > len(data) {
		width = len(data)
	}
	entry := opMap[op]
	name := entry.name
	if s := nameSuffix[op]; s != "" {
		return name + " " + s, width
	}
	if entry.cls == clsNone {
		return name, width
	}

	pcAfter := addr + uint16(width)
	text := name + " "
	switch entry.cls {
	case clsReg:
		text += fmt.Sprintf("R%d", op&7)
	case clsAReg:
		text += fmt.Sprintf("A,R%d", op&7)
	case clsAInd:
		text += fmt.Sprintf("A,@R%d", op&1)
	case clsAImm:
		text += fmt.Sprintf("A,#0x%02X", data[1])
	case clsADirect:
		text += "A," + directText(data[1])
	case clsRegImm:
		text += fmt.Sprintf("R%d,#0x%02X", op&7, data[1])
	case clsIndImm:
		text += fmt.Sprintf("@R%d,#0x%02X", op&1, data[1])
	case clsRegDirectDst:
		text += fmt.Sprintf("R%d,%s", op&7, directText(data[1]))
	case clsRegDirectSrc:
		text += fmt.Sprintf("%s,R%d", directText(data[1]), op&7)
	case clsIndDirectDst:
		text += fmt.Sprintf("@R%d,%s", op&1, directText(data[1]))
	case clsIndDirectSrc:
		text += fmt.Sprintf("%s,@R%d", directText(data[1]), op&1)
	case clsDirectImm:
		text += fmt.Sprintf("%s,#0x%02X", directText(data[1]), data[2])
	case clsDirectA:
		text += directText(data[1]) + ",A"
	case clsDirect1:
		text += directText(data[1])
	case clsDirectDirect:
		// Encoded as opcode,src,dest; written as "dest,src".
		text += fmt.Sprintf("%s,%s", directText(data[2]), directText(data[1]))
	case clsBit:
		text += bitText(data[1])
	case clsNBit:
		text += "C,/" + bitText(data[1])
	case clsBitC:
		text += "C," + bitText(data[1])
	case clsCBit:
		text += bitText(data[1]) + ",C"
	case clsRel:
		text += fmt.Sprintf("0x%04X", relTarget(pcAfter, data[1]))
	case clsCode11:
		text += fmt.Sprintf("0x%04X", mcs51.AJMPTarget(byte(op), pcAfter, data[1]))
	case clsCode16:
		text += fmt.Sprintf("0x%04X", uint16(data[1])<<8|uint16(data[2]))
	case clsImm16:
		text += fmt.Sprintf("DPTR,#0x%04X", uint16(data[1])<<8|uint16(data[2]))
	case clsDirectRel:
		text += fmt.Sprintf("%s,0x%04X", directText(data[1]), relTarget(pcAfter, data[2]))
	case clsRegRel:
		text += fmt.Sprintf("R%d,0x%04X", op&7, relTarget(pcAfter, data[1]))
	case clsAImmRel:
		text += fmt.Sprintf("A,#0x%02X,0x%04X", data[1], relTarget(pcAfter, data[2]))
	case clsADirectRel:
		text += fmt.Sprintf("A,%s,0x%04X", directText(data[1]), relTarget(pcAfter, data[2]))
	case clsIndImmRel:
		text += fmt.Sprintf("@R%d,#0x%02X,0x%04X", op&1, data[1], relTarget(pcAfter, data[2]))
	case clsRegImmRel:
		text += fmt.Sprintf("R%d,#0x%02X,0x%04X", op&7, data[1], relTarget(pcAfter, data[2]))
	case clsBitRel:
		text += fmt.Sprintf("%s,0x%04X", bitText(data[1]), relTarget(pcAfter, data[2]))
	default:
		text += "???"
	}
	return text, width
}
