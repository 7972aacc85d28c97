/*
   MCS-51 simulator - monitor command implementations.

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

package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"

	"github.com/rcornwell/mcs51/internal/assemble"
	"github.com/rcornwell/mcs51/internal/disassemble"
	"github.com/rcornwell/mcs51/util/debugopt"
)

func getHexAddr(l *cmdLine) (uint16, error) {
	tok := l.getToken()
	if tok == "" {
		return 0, errors.New("expected an address")
	}
	v, err := strconv.ParseUint(tok, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q: %w", tok, err)
	}
	return uint16(v), nil
}

func cmdLoad(l *cmdLine, mon *Monitor) (bool, error) {
	path := l.getRest()
	if path == "" {
		return false, errors.New("load requires a file name")
	}
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if err := mon.CPU.LoadHex(f); err != nil {
		return false, err
	}
	slog.Info("loaded HEX image", "file", path)
	return false, nil
}

func cmdAsm(l *cmdLine, mon *Monitor) (bool, error) {
	path := l.getRest()
	if path == "" {
		return false, errors.New("asm requires a file name")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	result, err := assemble.Assemble(string(src), 0)
	if err != nil {
		return false, err
	}
	for _, w := range result.Warnings {
		slog.Warn("assemble", "warning", w)
	}
	copy(mon.CPU.Bus.Code[result.Base:], result.Code)
	slog.Info("assembled", "file", path, "bytes", len(result.Code))
	return false, nil
}

func cmdReset(_ *cmdLine, mon *Monitor) (bool, error) {
	mon.CPU.Reset()
	slog.Info("reset")
	return false, nil
}

func cmdFullReset(_ *cmdLine, mon *Monitor) (bool, error) {
	mon.CPU.FullReset()
	slog.Info("full reset")
	return false, nil
}

func cmdStep(l *cmdLine, mon *Monitor) (bool, error) {
	n := 1
	if tok := l.getToken(); tok != "" {
		v, err := strconv.Atoi(tok)
		if err != nil || v < 1 {
			return false, fmt.Errorf("bad step count %q", tok)
		}
		n = v
	}
	for i := 0; i < n; i++ {
		if !mon.CPU.Step() {
			slog.Info("stopped at breakpoint", "pc", mon.CPU.PC)
			break
		}
	}
	return false, nil
}

func cmdRun(_ *cmdLine, mon *Monitor) (bool, error) {
	mon.SendStart()
	slog.Info("running")
	return false, nil
}

func cmdStop(_ *cmdLine, mon *Monitor) (bool, error) {
	mon.SendStop()
	slog.Info("stopped")
	return false, nil
}

func cmdBreak(l *cmdLine, mon *Monitor) (bool, error) {
	addr, err := getHexAddr(l)
	if err != nil {
		return false, err
	}
	mon.CPU.BreakAddresses[addr] = true
	slog.Info("breakpoint set", "addr", fmt.Sprintf("%04x", addr))
	return false, nil
}

func cmdUnbreak(l *cmdLine, mon *Monitor) (bool, error) {
	addr, err := getHexAddr(l)
	if err != nil {
		return false, err
	}
	delete(mon.CPU.BreakAddresses, addr)
	slog.Info("breakpoint cleared", "addr", fmt.Sprintf("%04x", addr))
	return false, nil
}

func cmdReg(_ *cmdLine, mon *Monitor) (bool, error) {
	c := mon.CPU
	fmt.Printf("PC=%04x A=%02x PSW=%02x SP=%02x DPTR=%04x\n",
		c.PC, c.A(), c.PSW(), c.ReadDirect(0x81), uint16(c.ReadDirect(0x83))<<8|uint16(c.ReadDirect(0x82)))
	for i := range 8 {
		fmt.Printf("R%d=%02x ", i, c.Reg(i))
	}
	fmt.Println()
	return false, nil
}

func cmdDump(_ *cmdLine, mon *Monitor) (bool, error) {
	fmt.Println(spew.Sdump(mon.CPU))
	return false, nil
}

func cmdDisasm(l *cmdLine, mon *Monitor) (bool, error) {
	addr, err := getHexAddr(l)
	if err != nil {
		return false, err
	}
	n := 1
	if tok := l.getToken(); tok != "" {
		v, err := strconv.Atoi(tok)
		if err != nil || v < 1 {
			return false, fmt.Errorf("bad instruction count %q", tok)
		}
		n = v
	}
	for i := 0; i < n; i++ {
		text, width := disassemble.DisassembleLive(mon.CPU, addr)
		fmt.Printf("%04x  %s\n", addr, text)
		addr += uint16(width)
	}
	return false, nil
}

func cmdDebug(l *cmdLine, _ *Monitor) (bool, error) {
	name := l.getWord()
	if name == "" {
		return false, errors.New("debug requires a category name")
	}
	on := true
	if name == "off" {
		on = false
		name = l.getWord()
	}
	upper := make([]byte, len(name))
	for i := range name {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper[i] = c
	}
	var ok bool
	if on {
		ok = debugopt.Set(string(upper))
	} else {
		ok = debugopt.Clear(string(upper))
	}
	if !ok {
		return false, fmt.Errorf("unknown debug category: %s", name)
	}
	return false, nil
}

func debugComplete(_ *cmdLine) []string {
	return debugopt.Names()
}

func cmdQuit(_ *cmdLine, _ *Monitor) (bool, error) {
	slog.Info("quit")
	return true, nil
}
