/*
   MCS-51 processor core: interrupt latch refresh and dispatch.

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

// RaiseINT0 and RaiseINT1 simulate the external interrupt pins. In edge
// mode (IT0/IT1 set) a pin must fall from high to see a new request; in
// level mode (IT0/IT1 clear) every call with the pin low latches a request.
// Reporting the pin high does not withdraw a request already latched, and
// dispatch clears the request in either mode.
func (c *CPU) RaiseINT0(level bool) { c.setPin(bitIT0, &c.int0Prev, level) }
func (c *CPU) RaiseINT1(level bool) { c.setPin(bitIT1, &c.int1Prev, level) }

func (c *CPU) setPin(itBit byte, prev *bool, level bool) {
	if c.ReadBit(itBit) {
		// Edge-triggered: a falling edge (high-to-low, active-low pin) latches.
		if *prev && !level {
			if itBit == bitIT0 {
				c.int0Pending = true
			} else {
				c.int1Pending = true
			}
		}
	} else if !level {
		if itBit == bitIT0 {
			c.int0Pending = true
		} else {
			c.int1Pending = true
		}
	}
	*prev = level
}

// refreshInterruptLatches mirrors the pending external-interrupt state into
// the IE0/IE1 flags in TCON, where the rest of the core and the monitor can
// see it the same way they see a timer overflow flag.
func (c *CPU) refreshInterruptLatches() {
	if c.int0Pending {
		c.WriteBit(bitIE0, true)
	}
	if c.int1Pending {
		c.WriteBit(bitIE1, true)
	}
}

type irqSource struct {
	flagBit     byte
	enableBit   byte
	priorityBit byte // IP register bit: 1 selects this source's high-priority level
	vector      uint16
	clearFlag   bool // flag is cleared on service; set for IE0/TF0/IE1/TF1 in level and edge mode alike
}

// sources lists the five interrupts in their fixed natural-priority order:
// IE0, TF0, IE1, TF1, then serial I/O.
var sources = []irqSource{
	{bitIE0, bitEX0, bitPX0, vectorIE0, true},
	{bitTF0, bitET0, bitPT0, vectorTF0, true},
	{bitIE1, bitEX1, bitPX1, vectorIE1, true},
	{bitTF1, bitET1, bitPT1, vectorTF1, true},
	{0, bitES, bitPS, vectorSIO, false},
}

// dispatchInterrupt vectors to the highest-priority pending, enabled
// interrupt. It fires only when EA is set, the one-instruction post-RETI
// delay (justReturned) has elapsed, and the core is not already servicing a
// high-priority ISR (nothing preempts a high-priority ISR). A source already
// being serviced at low priority may only be preempted by a new source whose
// IP bit marks it high-priority.
func (c *CPU) dispatchInterrupt() bool {
	if !c.ReadBit(bitEA) || c.justReturned || c.inHighPrio {
		return false
	}
	// Serial I/O's pending flags (TI/RI in SCON) aren't modeled as a pin;
	// skip that source unless a future extension sets SCON bits directly.
	best, bestLevel := -1, -1
	for i, src := range sources {
		if src.flagBit == 0 {
			continue
		}
		if !c.ReadBit(src.enableBit) || !c.ReadBit(src.flagBit) {
			continue
		}
		level := 0
		if c.ReadBit(src.priorityBit) {
			level = 1
		}
		if c.inInterrupt && level == 0 {
			continue // already servicing an ISR; only a high-priority source may preempt
		}
		if best == -1 || level > bestLevel {
			best, bestLevel = i, level
		}
	}
	if best == -1 {
		return false
	}
	src := sources[best]
	if src.clearFlag {
		c.WriteBit(src.flagBit, false)
	}
	if src.flagBit == bitIE0 {
		c.int0Pending = false
	}
	if src.flagBit == bitIE1 {
		c.int1Pending = false
	}
	c.push(byte(c.PC))
	c.push(byte(c.PC >> 8))
	c.PC = src.vector
	c.inInterrupt = true
	if bestLevel == 1 {
		c.inHighPrio = true
	}
	return true
}
