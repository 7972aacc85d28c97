/*
   MCS-51 assembler instruction encoding.

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

package assemble

import (
	"fmt"
	"strings"

	"github.com/rcornwell/mcs51/internal/mcs51"
)

type opKind int

const (
	opA opKind = iota
	opC
	opAB
	opDPTR
	opReg
	opIndReg
	opIndDPTR
	opIndAPlusDPTR
	opIndAPlusPC
	opImmed
	opNBit
	opOther // a direct address, bit name, or jump/call target, resolved by context
)

type operand struct {
	kind opKind
	reg  int
	text string
}

func parseOperand(raw string) operand {
	s := strings.TrimSpace(raw)
	switch strings.ToUpper(s) {
	case "A":
		return operand{kind: opA}
	case "C":
		return operand{kind: opC}
	case "AB":
		return operand{kind: opAB}
	case "DPTR":
		return operand{kind: opDPTR}
	case "@DPTR":
		return operand{kind: opIndDPTR}
	case "@A+DPTR":
		return operand{kind: opIndAPlusDPTR}
	case "@A+PC":
		return operand{kind: opIndAPlusPC}
	case "@R0":
		return operand{kind: opIndReg, reg: 0}
	case "@R1":
		return operand{kind: opIndReg, reg: 1}
	}
	if len(s) == 2 && (s[0] == 'R' || s[0] == 'r') && s[1] >= '0' && s[1] <= '7' {
		return operand{kind: opReg, reg: int(s[1] - '0')}
	}
	if strings.HasPrefix(s, "#") {
		return operand{kind: opImmed, text: s[1:]}
	}
	if strings.HasPrefix(s, "/") {
		return operand{kind: opNBit, text: s[1:]}
	}
	return operand{kind: opOther, text: s}
}

func (a *assembler) resolveDirect(tok string) (int, bool, error) {
	if addr, known := mcs51.SFRAddr[strings.ToUpper(tok)]; known {
		return int(addr), true, nil
	}
	return a.number(tok)
}

func (a *assembler) resolveBit(tok string) (int, bool, error) {
	upper := strings.ToUpper(tok)
	if addr, known := mcs51.BitAddr[upper]; known {
		return int(addr), true, nil
	}
	if addr, known := mcs51.PSWBit[upper]; known {
		return int(addr), true, nil
	}
	if dot := strings.IndexByte(tok, '.'); dot >= 0 {
		directVal, ok, err := a.resolveDirect(tok[:dot])
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, fmt.Errorf("forward reference %q not allowed in a bit address", tok[:dot])
		}
		bitNum, ok, err := a.number(tok[dot+1:])
		if err != nil || !ok {
			return 0, false, fmt.Errorf("invalid bit number %q", tok[dot+1:])
		}
		return int(mcs51.DirectToBit(byte(directVal), byte(bitNum))), true, nil
	}
	return a.number(tok)
}

func (a *assembler) emitDirectByte(tok, mnemonic string) error {
	v, ok, err := a.resolveDirect(tok)
	if err != nil {
		return err
	}
	if ok {
		a.emit(byte(v))
		return nil
	}
	a.reserveByte(fixDirect, tok, mnemonic, 0)
	return nil
}

func (a *assembler) emitBitByte(tok, mnemonic string) error {
	v, ok, err := a.resolveBit(tok)
	if err != nil {
		return err
	}
	if ok {
		a.emit(byte(v))
		return nil
	}
	a.reserveByte(fixBit, tok, mnemonic, 0)
	return nil
}

func (a *assembler) emitImmByte(tok, mnemonic string) error {
	v, ok, err := a.number(tok)
	if err != nil {
		return err
	}
	if ok {
		a.emit(byte(v))
		return nil
	}
	a.reserveByte(fixDirect, tok, mnemonic, 0)
	return nil
}

func (a *assembler) emitRelByte(tok, mnemonic string, instrPC uint16) error {
	v, ok, err := a.number(tok)
	if err != nil {
		return err
	}
	if ok {
		disp := int(v) - int(instrPC)
		if disp < -128 || disp > 127 {
			return fmt.Errorf("%s target %q out of branch range", mnemonic, tok)
		}
		a.emit(byte(int8(disp)))
		return nil
	}
	a.reserveByte(fixRel, tok, mnemonic, instrPC)
	return nil
}

func (a *assembler) emitWord16(tok, mnemonic string, kind fixupKind) error {
	v, ok, err := a.number(tok)
	if err != nil {
		return err
	}
	if ok {
		a.emit(byte(v>>8), byte(v))
		return nil
	}
	a.reserveWord(kind, tok, mnemonic)
	return nil
}

func argErr(mnemonic string, ops []string) error {
	return fmt.Errorf("%s: unsupported operands %v", mnemonic, ops)
}

//nolint:funlen,gocyclo // one case per mnemonic, mirrors the disassembler's table
func (a *assembler) assembleInstruction(mnemonic string, ops []string) error {
	start := a.pos
	arg := func(i int) operand { return parseOperand(ops[i]) }

	switch mnemonic {
	case "NOP":
		a.emit(0x00)
	case "RET":
		a.emit(0x22)
	case "RETI":
		a.emit(0x32)
	case "RR":
		a.emit(0x03)
	case "RRC":
		a.emit(0x13)
	case "RL":
		a.emit(0x23)
	case "RLC":
		a.emit(0x33)
	case "SWAP":
		a.emit(0xc4)
	case "DA":
		a.emit(0xd4)
	case "DIV":
		a.emit(0x84)
	case "MUL":
		a.emit(0xa4)

	case "INC", "DEC":
		base := byte(0x04)
		if mnemonic == "DEC" {
			base = 0x14
		}
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		switch op := arg(0); op.kind {
		case opA:
			a.emit(base)
		case opDPTR:
			if mnemonic != "INC" {
				return argErr(mnemonic, ops)
			}
			a.emit(0xa3)
		case opReg:
			a.emit(base + 4 + byte(op.reg))
		case opIndReg:
			a.emit(base + 2 + byte(op.reg))
		case opOther:
			a.emit(base + 1)
			return a.emitDirectByte(op.text, mnemonic)
		default:
			return argErr(mnemonic, ops)
		}

	case "ADD", "ADDC", "SUBB":
		if len(ops) != 2 || arg(0).kind != opA {
			return argErr(mnemonic, ops)
		}
		var base byte
		switch mnemonic {
		case "ADD":
			base = 0x20
		case "ADDC":
			base = 0x30
		case "SUBB":
			base = 0x90
		}
		return a.emitALUSource(base, arg(1), mnemonic)

	case "ORL", "ANL":
		base := byte(0x40)
		cOpcode, notOpcode := byte(0x72), byte(0xa0)
		if mnemonic == "ANL" {
			base, cOpcode, notOpcode = 0x50, 0x82, 0xb0
		}
		if len(ops) != 2 {
			return argErr(mnemonic, ops)
		}
		first, second := arg(0), arg(1)
		switch {
		case first.kind == opA:
			return a.emitALUSource(base, second, mnemonic)
		case first.kind == opC && second.kind == opOther:
			a.emit(cOpcode)
			return a.emitBitByte(second.text, mnemonic)
		case first.kind == opC && second.kind == opNBit:
			a.emit(notOpcode)
			return a.emitBitByte(second.text, mnemonic)
		case first.kind == opOther && second.kind == opA:
			a.emit(base + 2)
			return a.emitDirectByte(first.text, mnemonic)
		case first.kind == opOther && second.kind == opImmed:
			a.emit(base + 3)
			if err := a.emitDirectByte(first.text, mnemonic); err != nil {
				return err
			}
			return a.emitImmByte(second.text, mnemonic)
		default:
			return argErr(mnemonic, ops)
		}

	case "XRL":
		if len(ops) != 2 {
			return argErr(mnemonic, ops)
		}
		first, second := arg(0), arg(1)
		switch {
		case first.kind == opA:
			return a.emitALUSource(0x60, second, mnemonic)
		case first.kind == opOther && second.kind == opA:
			a.emit(0x62)
			return a.emitDirectByte(first.text, mnemonic)
		case first.kind == opOther && second.kind == opImmed:
			a.emit(0x63)
			if err := a.emitDirectByte(first.text, mnemonic); err != nil {
				return err
			}
			return a.emitImmByte(second.text, mnemonic)
		default:
			return argErr(mnemonic, ops)
		}

	case "XCH":
		if len(ops) != 2 || arg(0).kind != opA {
			return argErr(mnemonic, ops)
		}
		switch op := arg(1); op.kind {
		case opReg:
			a.emit(0xc8 + byte(op.reg))
		case opIndReg:
			a.emit(0xc6 + byte(op.reg))
		case opOther:
			a.emit(0xc5)
			return a.emitDirectByte(op.text, mnemonic)
		default:
			return argErr(mnemonic, ops)
		}

	case "XCHD":
		if len(ops) != 2 || arg(0).kind != opA || arg(1).kind != opIndReg {
			return argErr(mnemonic, ops)
		}
		a.emit(0xd6 + byte(arg(1).reg))

	case "MOV":
		return a.assembleMOV(ops)

	case "MOVC":
		if len(ops) != 2 || arg(0).kind != opA {
			return argErr(mnemonic, ops)
		}
		switch arg(1).kind {
		case opIndAPlusPC:
			a.emit(0x83)
		case opIndAPlusDPTR:
			a.emit(0x93)
		default:
			return argErr(mnemonic, ops)
		}

	case "MOVX":
		if len(ops) != 2 {
			return argErr(mnemonic, ops)
		}
		first, second := arg(0), arg(1)
		switch {
		case first.kind == opA && second.kind == opIndDPTR:
			a.emit(0xe0)
		case first.kind == opA && second.kind == opIndReg:
			a.emit(0xe2 + byte(second.reg))
		case first.kind == opIndDPTR && second.kind == opA:
			a.emit(0xf0)
		case first.kind == opIndReg && second.kind == opA:
			a.emit(0xf2 + byte(first.reg))
		default:
			return argErr(mnemonic, ops)
		}

	case "PUSH":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		a.emit(0xc0)
		return a.emitDirectByte(arg(0).text, mnemonic)
	case "POP":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		a.emit(0xd0)
		return a.emitDirectByte(arg(0).text, mnemonic)

	case "CLR":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		switch op := arg(0); op.kind {
		case opA:
			a.emit(0xe4)
		case opC:
			a.emit(0xc3)
		case opOther:
			a.emit(0xc2)
			return a.emitBitByte(op.text, mnemonic)
		default:
			return argErr(mnemonic, ops)
		}
	case "SETB":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		switch op := arg(0); op.kind {
		case opC:
			a.emit(0xd3)
		case opOther:
			a.emit(0xd2)
			return a.emitBitByte(op.text, mnemonic)
		default:
			return argErr(mnemonic, ops)
		}
	case "CPL":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		switch op := arg(0); op.kind {
		case opA:
			a.emit(0xf4)
		case opC:
			a.emit(0xb3)
		case opOther:
			a.emit(0xb2)
			return a.emitBitByte(op.text, mnemonic)
		default:
			return argErr(mnemonic, ops)
		}

	case "JMP":
		if len(ops) != 1 || arg(0).kind != opIndAPlusDPTR {
			return argErr(mnemonic, ops)
		}
		a.emit(0x73)

	case "AJMP", "ACALL":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		base := byte(0x01)
		if mnemonic == "ACALL" {
			base = 0x11
		}
		return a.emitCode11(base, arg(0).text, mnemonic)
	case "LJMP", "LCALL":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		if mnemonic == "LJMP" {
			a.emit(0x02)
		} else {
			a.emit(0x12)
		}
		return a.emitWord16(arg(0).text, mnemonic, fixCode16)
	case "SJMP":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		a.emit(0x80)
		return a.emitRelByte(arg(0).text, mnemonic, start+2)
	case "JC", "JNC", "JZ", "JNZ":
		if len(ops) != 1 {
			return argErr(mnemonic, ops)
		}
		opcodes := map[string]byte{"JC": 0x40, "JNC": 0x50, "JZ": 0x60, "JNZ": 0x70}
		a.emit(opcodes[mnemonic])
		return a.emitRelByte(arg(0).text, mnemonic, start+2)
	case "JB", "JNB", "JBC":
		if len(ops) != 2 {
			return argErr(mnemonic, ops)
		}
		opcodes := map[string]byte{"JB": 0x20, "JNB": 0x30, "JBC": 0x10}
		a.emit(opcodes[mnemonic])
		if err := a.emitBitByte(arg(0).text, mnemonic); err != nil {
			return err
		}
		return a.emitRelByte(arg(1).text, mnemonic, start+3)

	case "DJNZ":
		if len(ops) != 2 {
			return argErr(mnemonic, ops)
		}
		switch op := arg(0); op.kind {
		case opReg:
			a.emit(0xd8 + byte(op.reg))
			return a.emitRelByte(arg(1).text, mnemonic, start+2)
		case opOther:
			a.emit(0xd5)
			if err := a.emitDirectByte(op.text, mnemonic); err != nil {
				return err
			}
			return a.emitRelByte(arg(1).text, mnemonic, start+3)
		default:
			return argErr(mnemonic, ops)
		}

	case "CJNE":
		if len(ops) != 3 {
			return argErr(mnemonic, ops)
		}
		first, second, target := arg(0), arg(1), ops[2]
		switch {
		case first.kind == opA && second.kind == opImmed:
			a.emit(0xb4)
			if err := a.emitImmByte(second.text, mnemonic); err != nil {
				return err
			}
			return a.emitRelByte(target, mnemonic, start+3)
		case first.kind == opA && second.kind == opOther:
			a.emit(0xb5)
			if err := a.emitDirectByte(second.text, mnemonic); err != nil {
				return err
			}
			return a.emitRelByte(target, mnemonic, start+3)
		case first.kind == opReg && second.kind == opImmed:
			a.emit(0xb8 + byte(first.reg))
			if err := a.emitImmByte(second.text, mnemonic); err != nil {
				return err
			}
			return a.emitRelByte(target, mnemonic, start+3)
		case first.kind == opIndReg && second.kind == opImmed:
			a.emit(0xb6 + byte(first.reg))
			if err := a.emitImmByte(second.text, mnemonic); err != nil {
				return err
			}
			return a.emitRelByte(target, mnemonic, start+3)
		default:
			return argErr(mnemonic, ops)
		}

	default:
		return fmt.Errorf("unknown mnemonic %q", mnemonic)
	}
	return nil
}

// emitALUSource encodes the second operand of an A,<src> ALU instruction
// (ADD, ADDC, SUBB, ORL, ANL, XRL), given the family's Rn-form base opcode.
func (a *assembler) emitALUSource(base byte, src operand, mnemonic string) error {
	switch src.kind {
	case opReg:
		a.emit(base + 8 + byte(src.reg))
	case opIndReg:
		a.emit(base + 6 + byte(src.reg))
	case opOther:
		a.emit(base + 5)
		return a.emitDirectByte(src.text, mnemonic)
	case opImmed:
		a.emit(base + 4)
		return a.emitImmByte(src.text, mnemonic)
	default:
		return fmt.Errorf("%s: unsupported source operand", mnemonic)
	}
	return nil
}

func (a *assembler) emitCode11(base byte, label, mnemonic string) error {
	instrPC := a.pos + 2
	if addr, ok := a.labels[label]; ok {
		if addr&0xf800 != instrPC&0xf800 {
			return fmt.Errorf("%s target %q not in same 2K page", mnemonic, label)
		}
		page := byte((addr >> 8) & 0x07)
		a.emit(base|(page<<5), byte(addr))
		return nil
	}
	a.reserveCode11(base, label, mnemonic, instrPC)
	return nil
}

func (a *assembler) assembleMOV(ops []string) error {
	if len(ops) != 2 {
		return argErr("MOV", ops)
	}
	first := parseOperand(ops[0])
	second := parseOperand(ops[1])
	switch {
	case first.kind == opA && second.kind == opReg:
		a.emit(0xe8 + byte(second.reg))
	case first.kind == opA && second.kind == opIndReg:
		a.emit(0xe6 + byte(second.reg))
	case first.kind == opA && second.kind == opImmed:
		a.emit(0x74)
		return a.emitImmByte(second.text, "MOV")
	case first.kind == opA && second.kind == opOther:
		a.emit(0xe5)
		return a.emitDirectByte(second.text, "MOV")
	case first.kind == opReg && second.kind == opA:
		a.emit(0xf8 + byte(first.reg))
	case first.kind == opReg && second.kind == opImmed:
		a.emit(0x78 + byte(first.reg))
		return a.emitImmByte(second.text, "MOV")
	case first.kind == opReg && second.kind == opOther:
		a.emit(0xa8 + byte(first.reg))
		return a.emitDirectByte(second.text, "MOV")
	case first.kind == opIndReg && second.kind == opA:
		a.emit(0xf6 + byte(first.reg))
	case first.kind == opIndReg && second.kind == opImmed:
		a.emit(0x76 + byte(first.reg))
		return a.emitImmByte(second.text, "MOV")
	case first.kind == opIndReg && second.kind == opOther:
		a.emit(0xa6 + byte(first.reg))
		return a.emitDirectByte(second.text, "MOV")
	case first.kind == opOther && second.kind == opA:
		a.emit(0xf5)
		return a.emitDirectByte(first.text, "MOV")
	case first.kind == opOther && second.kind == opReg:
		a.emit(0x88 + byte(second.reg))
		return a.emitDirectByte(first.text, "MOV")
	case first.kind == opOther && second.kind == opIndReg:
		a.emit(0x86 + byte(second.reg))
		return a.emitDirectByte(first.text, "MOV")
	case first.kind == opOther && second.kind == opImmed:
		a.emit(0x75)
		if err := a.emitDirectByte(first.text, "MOV"); err != nil {
			return err
		}
		return a.emitImmByte(second.text, "MOV")
	case first.kind == opOther && second.kind == opOther:
		// MOV dest,src encodes as opcode,src,dest.
		a.emit(0x85)
		if err := a.emitDirectByte(second.text, "MOV"); err != nil {
			return err
		}
		return a.emitDirectByte(first.text, "MOV")
	case first.kind == opDPTR && second.kind == opImmed:
		a.emit(0x90)
		return a.emitWord16(second.text, "MOV", fixImm16)
	case first.kind == opC && second.kind == opOther:
		a.emit(0xa2)
		return a.emitBitByte(second.text, "MOV")
	case first.kind == opOther && second.kind == opC:
		a.emit(0x92)
		return a.emitBitByte(first.text, "MOV")
	default:
		return argErr("MOV", ops)
	}
	return nil
}
