/*
   MCS-51 assembler.

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

// Package assemble compiles MCS-51 assembly source into code bytes. Numbers
// are always hexadecimal, with or without a leading "0x", following the
// convention of the reference implementation this simulator is modelled on.
// A token that starts with a letter (such as "ff") is taken as a label name,
// so such values need the "0x" prefix or a leading 0.
// Labels are collected as they are encountered and a trailing fix-up pass
// patches every instruction that referred to one before it was defined.
package assemble

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Result is the outcome of assembling a source file: the code image, the
// span of addresses it occupies, and any label table built along the way.
type Result struct {
	Code     []byte
	Base     uint16
	Labels   map[string]uint16
	Warnings []string
}

type fixupKind int

const (
	fixRel fixupKind = iota
	fixCode11
	fixCode16
	fixDirect
	fixBit
	fixImm16
)

type fixup struct {
	kind         fixupKind
	offset       int // address of the byte (or first byte of a word) to patch
	opcodeOffset int // address of the opcode byte, for fixCode11
	base         byte // 0x01 for AJMP, 0x11 for ACALL, used with opcodeOffset
	label        string
	instrPC      uint16 // address of the byte after the instruction, for fixRel/fixCode11
	lineNo       int
	mnemonic     string
}

type assembler struct {
	code    []byte
	base    uint16
	pos     uint16
	labels  map[string]uint16
	fixups  []fixup
	lineNo  int
	warn    []string
}

// Assemble compiles src, starting code emission at base.
func Assemble(src string, base uint16) (*Result, error) {
	a := &assembler{
		base:   base,
		pos:    base,
		labels: map[string]uint16{},
	}
	if err := a.firstPass(src); err != nil {
		return nil, err
	}
	if err := a.resolveFixups(); err != nil {
		return nil, err
	}
	return &Result{Code: a.code, Base: a.base, Labels: a.labels, Warnings: a.warn}, nil
}

func (a *assembler) emit(b ...byte) {
	want := int(a.pos-a.base) + len(b)
	for len(a.code) < want {
		a.code = append(a.code, 0)
	}
	copy(a.code[int(a.pos-a.base):], b)
	a.pos += uint16(len(b))
}

func (a *assembler) firstPass(src string) error {
	for _, raw := range strings.Split(src, "\n") {
		a.lineNo++
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idx := strings.IndexByte(line, ':'); idx >= 0 && isLabelName(line[:idx]) {
			label := line[:idx]
			if _, dup := a.labels[label]; dup {
				return fmt.Errorf("line %d: duplicate label %q", a.lineNo, label)
			}
			a.labels[label] = a.pos
			line = strings.TrimSpace(line[idx+1:])
			if line == "" {
				continue
			}
		}
		if err := a.assembleLine(line); err != nil {
			return fmt.Errorf("line %d: %w", a.lineNo, err)
		}
	}
	return nil
}

func isLabelName(s string) bool {
	if s == "" || !(unicode.IsLetter(rune(s[0])) || s[0] == '_') {
		return false
	}
	for _, r := range s {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, ';'); idx >= 0 {
		return line[:idx]
	}
	return line
}

func (a *assembler) assembleLine(line string) error {
	mnemonic, rest := splitWord(line)
	mnemonic = strings.ToUpper(mnemonic)
	if strings.HasPrefix(mnemonic, ".") {
		return a.directive(mnemonic, rest)
	}
	ops := splitOperands(rest)
	return a.assembleInstruction(mnemonic, ops)
}

func (a *assembler) directive(name, rest string) error {
	rest = strings.TrimSpace(rest)
	switch name {
	case ".ORG":
		v, _, err := a.number(rest)
		if err != nil {
			return err
		}
		a.pos = uint16(v)
		if len(a.code) < int(a.pos-a.base) {
			for len(a.code) < int(a.pos-a.base) {
				a.code = append(a.code, 0)
			}
		}
	case ".DATA":
		for _, tok := range strings.Fields(rest) {
			v, trailer := getHex(tok)
			if v < 0 || trailer != "" || v > 0xff {
				return fmt.Errorf("invalid byte %q in .data", tok)
			}
			digits := strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
			if !strings.EqualFold(digits, fmt.Sprintf("%02x", v)) {
				a.warn = append(a.warn, fmt.Sprintf("line %d: %q does not round-trip as a byte", a.lineNo, tok))
			}
			a.emit(byte(v))
		}
	case ".BYTE", ".DB":
		for _, tok := range splitOperands(rest) {
			v, _, err := a.number(tok)
			if err != nil {
				return err
			}
			a.emit(byte(v))
		}
	case ".WORD", ".DW":
		for _, tok := range splitOperands(rest) {
			v, _, err := a.number(tok)
			if err != nil {
				return err
			}
			a.emit(byte(v>>8), byte(v))
		}
	case ".ASCII", ".STR":
		s, err := unquote(rest)
		if err != nil {
			return err
		}
		a.emit([]byte(s)...)
	default:
		return fmt.Errorf("unknown directive %q", name)
	}
	return nil
}

func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", errors.New("expected a quoted string")
	}
	return s[1 : len(s)-1], nil
}

// number resolves a numeric literal or a label reference. When the label is
// not yet known it returns ok=false so the caller can record a fix-up.
func (a *assembler) number(s string) (value int, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, errors.New("expected a number")
	}
	if v, known := a.labels[s]; known {
		return int(v), true, nil
	}
	if isLabelName(s) {
		return 0, false, nil // forward reference
	}
	v, rest := getHex(s)
	if v < 0 || rest != "" {
		return 0, false, fmt.Errorf("invalid number %q", s)
	}
	return v, true, nil
}

func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	for i, r := range s {
		if unicode.IsSpace(r) {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// splitOperands splits a comma-separated operand list, respecting
// parentheses so "R0,(R1)"-style text never gets split inside the parens.
func splitOperands(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	var out []string
	depth := 0
	start := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

func getHex(s string) (int, string) {
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	n := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			n = n*16 + int(c-'0')
		case c >= 'a' && c <= 'f':
			n = n*16 + int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			n = n*16 + int(c-'A') + 10
		default:
			if i == 0 {
				return -1, s
			}
			return n, s[i:]
		}
		i++
	}
	if i == 0 {
		return -1, s
	}
	return n, ""
}

// reserveByte emits a placeholder byte and records a fix-up that patches it
// once label is known.
func (a *assembler) reserveByte(kind fixupKind, label, mnemonic string, instrPC uint16) {
	a.fixups = append(a.fixups, fixup{
		kind: kind, offset: int(a.pos), label: label, instrPC: instrPC,
		lineNo: a.lineNo, mnemonic: mnemonic,
	})
	a.emit(0)
}

// reserveWord emits two placeholder bytes for a 16-bit fix-up.
func (a *assembler) reserveWord(kind fixupKind, label, mnemonic string) {
	a.fixups = append(a.fixups, fixup{
		kind: kind, offset: int(a.pos), label: label, lineNo: a.lineNo, mnemonic: mnemonic,
	})
	a.emit(0, 0)
}

// reserveCode11 emits a placeholder AJMP/ACALL pair (opcode, target-low) and
// records a fix-up that recomputes both bytes once label is known.
func (a *assembler) reserveCode11(base byte, label, mnemonic string, instrPC uint16) {
	opcodeOffset := int(a.pos)
	a.fixups = append(a.fixups, fixup{
		kind: fixCode11, offset: opcodeOffset + 1, opcodeOffset: opcodeOffset, base: base,
		label: label, instrPC: instrPC, lineNo: a.lineNo, mnemonic: mnemonic,
	})
	a.emit(base, 0)
}

func (a *assembler) resolveFixups() error {
	for _, f := range a.fixups {
		addr, ok := a.labels[f.label]
		if !ok {
			return fmt.Errorf("line %d: undefined label %q", f.lineNo, f.label)
		}
		idx := f.offset - int(a.base)
		switch f.kind {
		case fixRel:
			disp := int(addr) - int(f.instrPC)
			if disp < -128 || disp > 127 {
				return fmt.Errorf("line %d: branch to %q out of range", f.lineNo, f.label)
			}
			a.code[idx] = byte(int8(disp))
		case fixCode11:
			if addr&0xf800 != f.instrPC&0xf800 {
				return fmt.Errorf("line %d: %s target %q not in same 2K page", f.lineNo, f.mnemonic, f.label)
			}
			page := byte((addr >> 8) & 0x07)
			a.code[f.opcodeOffset-int(a.base)] = f.base | (page << 5)
			a.code[idx] = byte(addr)
		case fixCode16:
			a.code[idx] = byte(addr >> 8)
			a.code[idx+1] = byte(addr)
		case fixImm16:
			a.code[idx] = byte(addr >> 8)
			a.code[idx+1] = byte(addr)
		case fixDirect:
			a.code[idx] = byte(addr)
		case fixBit:
			a.code[idx] = byte(addr)
		}
	}
	return nil
}
