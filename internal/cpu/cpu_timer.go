/*
   MCS-51 processor core: Timer 0 and Timer 1.

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

// tickTimers advances Timer 0 and Timer 1 by cycles machine cycles, one
// counter increment per cycle when the timer is running (TMOD's gate and
// counter/timer-select bits are not modeled; every enabled timer free-runs
// off the instruction clock, which is the common simplification emulators
// make when there is no external counter pin driving the simulation).
func (c *CPU) tickTimers(cycles uint8) {
	tmod := c.Bus.ReadDirect(addrTMOD)
	mode0 := tmod & 0x03
	mode1 := (tmod >> 4) & 0x03
	for i := uint8(0); i < cycles; i++ {
		if mode0 == 3 {
			if c.ReadBit(bitTR0) {
				c.tickSplitLow()
			}
			if c.ReadBit(bitTR1) {
				c.tickSplitHigh()
			}
			continue
		}
		if c.ReadBit(bitTR0) {
			c.tickTimer(0, mode0)
		}
		if c.ReadBit(bitTR1) {
			c.tickTimer(1, mode1)
		}
	}
}

// tickSplitLow and tickSplitHigh implement Timer 0 mode 3, where TL0 and
// TH0 become two independent 8-bit counters gated by TR0 and TR1
// respectively; Timer 1 itself is held stopped while mode 3 is selected.
func (c *CPU) tickSplitLow() {
	tl := c.Bus.ReadDirect(addrTL0) + 1
	c.Bus.WriteDirect(addrTL0, tl)
	if tl == 0 {
		c.WriteBit(bitTF0, true)
	}
}

func (c *CPU) tickSplitHigh() {
	th := c.Bus.ReadDirect(addrTH0) + 1
	c.Bus.WriteDirect(addrTH0, th)
	if th == 0 {
		c.WriteBit(bitTF1, true)
	}
}

func (c *CPU) tickTimer(n int, mode byte) {
	thAddr, tlAddr := uint8(addrTH0), uint8(addrTL0)
	tfBit := byte(bitTF0)
	if n == 1 {
		thAddr, tlAddr = addrTH1, addrTL1
		tfBit = bitTF1
	}

	switch mode {
	case 0: // 13-bit timer: TL holds the low 5 bits, TH the high 8.
		tl := c.Bus.ReadDirect(tlAddr)
		if tl&0x1f == 0x1f {
			c.Bus.WriteDirect(tlAddr, tl&0xe0)
			th := c.Bus.ReadDirect(thAddr) + 1
			c.Bus.WriteDirect(thAddr, th)
			if th == 0 {
				c.WriteBit(tfBit, true)
			}
		} else {
			c.Bus.WriteDirect(tlAddr, tl+1)
		}
	case 1: // 16-bit timer: TL:TH is one free-running counter.
		tl := c.Bus.ReadDirect(tlAddr) + 1
		c.Bus.WriteDirect(tlAddr, tl)
		if tl == 0 {
			th := c.Bus.ReadDirect(thAddr) + 1
			c.Bus.WriteDirect(thAddr, th)
			if th == 0 {
				c.WriteBit(tfBit, true)
			}
		}
	case 2: // 8-bit auto-reload: TL counts, reloads from TH on overflow.
		tl := c.Bus.ReadDirect(tlAddr) + 1
		if tl == 0 {
			c.WriteBit(tfBit, true)
			tl = c.Bus.ReadDirect(thAddr)
		}
		c.Bus.WriteDirect(tlAddr, tl)
	}
}
