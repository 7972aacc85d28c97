/*
   MCS-51 simulator - debug category bitmask.

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

// Package debugopt holds the mask of debug categories the monitor's "debug"
// command has turned on, and the name table used to parse it.
package debugopt

const (
	Inst = 1 << iota
	IRQ
	Timer
	Mem
	Asm
)

var names = map[string]int{
	"INST":  Inst,
	"IRQ":   IRQ,
	"TIMER": Timer,
	"MEM":   Mem,
	"ASM":   Asm,
}

var mask int

// Set turns the named category on. An unknown name is reported back to the
// caller so the monitor can surface it as a command error.
func Set(name string) bool {
	bit, ok := names[name]
	if !ok {
		return false
	}
	mask |= bit
	return true
}

// Clear turns the named category off.
func Clear(name string) bool {
	bit, ok := names[name]
	if !ok {
		return false
	}
	mask &^= bit
	return true
}

// Enabled reports whether category is currently on.
func Enabled(category int) bool {
	return mask&category != 0
}

// Names lists the known category names, for tab completion.
func Names() []string {
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	return out
}
