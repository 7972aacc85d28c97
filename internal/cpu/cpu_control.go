/*
   MCS-51 processor core: control flow, data movement and stack opcodes.

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

import "github.com/rcornwell/mcs51/internal/mcs51"

func relTarget(pcAfter uint16, disp byte) uint16 {
	return uint16(int32(pcAfter) + int32(int8(disp)))
}

func opAjmp(c *CPU, s *stepInfo) uint8 {
	c.PC = mcs51.AJMPTarget(s.opcode, s.pcAfter, s.b1)
	return 2
}

func opAcall(c *CPU, s *stepInfo) uint8 {
	c.push(byte(s.pcAfter))
	c.push(byte(s.pcAfter >> 8))
	c.PC = mcs51.AJMPTarget(s.opcode, s.pcAfter, s.b1)
	return 2
}

func opLjmp(c *CPU, s *stepInfo) uint8 {
	c.PC = uint16(s.b1)<<8 | uint16(s.b2)
	return 2
}

func opLcall(c *CPU, s *stepInfo) uint8 {
	c.push(byte(s.pcAfter))
	c.push(byte(s.pcAfter >> 8))
	c.PC = uint16(s.b1)<<8 | uint16(s.b2)
	return 2
}

func opRet(c *CPU, s *stepInfo) uint8 {
	hi := c.pop()
	lo := c.pop()
	c.PC = uint16(hi)<<8 | uint16(lo)
	return 2
}

func opReti(c *CPU, s *stepInfo) uint8 {
	cycles := opRet(c, s)
	c.inInterrupt = false
	c.inHighPrio = false
	c.justReturned = true
	return cycles
}

func opSjmp(c *CPU, s *stepInfo) uint8 {
	c.PC = relTarget(s.pcAfter, s.b1)
	return 2
}

func opJmpIndirect(c *CPU, s *stepInfo) uint8 {
	c.PC = c.dptr() + uint16(c.A())
	return 2
}

func opJc(c *CPU, s *stepInfo) uint8 {
	if c.ReadBit(bitCY) {
		c.PC = relTarget(s.pcAfter, s.b1)
	}
	return 2
}

func opJnc(c *CPU, s *stepInfo) uint8 {
	if !c.ReadBit(bitCY) {
		c.PC = relTarget(s.pcAfter, s.b1)
	}
	return 2
}

func opJz(c *CPU, s *stepInfo) uint8 {
	if c.A() == 0 {
		c.PC = relTarget(s.pcAfter, s.b1)
	}
	return 2
}

func opJnz(c *CPU, s *stepInfo) uint8 {
	if c.A() != 0 {
		c.PC = relTarget(s.pcAfter, s.b1)
	}
	return 2
}

func opJb(c *CPU, s *stepInfo) uint8 {
	if c.ReadBit(s.b1) {
		c.PC = relTarget(s.pcAfter, s.b2)
	}
	return 2
}

func opJnb(c *CPU, s *stepInfo) uint8 {
	if !c.ReadBit(s.b1) {
		c.PC = relTarget(s.pcAfter, s.b2)
	}
	return 2
}

func opJbc(c *CPU, s *stepInfo) uint8 {
	if c.ReadBit(s.b1) {
		c.WriteBit(s.b1, false)
		c.PC = relTarget(s.pcAfter, s.b2)
	}
	return 2
}

func opDjnzReg(c *CPU, s *stepInfo) uint8 {
	n := int(s.opcode & 7)
	v := c.Reg(n) - 1
	c.SetReg(n, v)
	if v != 0 {
		c.PC = relTarget(s.pcAfter, s.b1)
	}
	return 2
}

func opDjnzDirect(c *CPU, s *stepInfo) uint8 {
	v := c.Bus.ReadDirect(s.b1) - 1
	c.Bus.WriteDirect(s.b1, v)
	if v != 0 {
		c.PC = relTarget(s.pcAfter, s.b2)
	}
	return 2
}

func opCjneAImm(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	c.WriteBit(bitCY, a < s.b1)
	if a != s.b1 {
		c.PC = relTarget(s.pcAfter, s.b2)
	}
	return 2
}

func opCjneADirect(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	d := c.Bus.ReadDirect(s.b1)
	c.WriteBit(bitCY, a < d)
	if a != d {
		c.PC = relTarget(s.pcAfter, s.b2)
	}
	return 2
}

func opCjneReg(c *CPU, s *stepInfo) uint8 {
	v := c.Reg(int(s.opcode & 7))
	c.WriteBit(bitCY, v < s.b1)
	if v != s.b1 {
		c.PC = relTarget(s.pcAfter, s.b2)
	}
	return 2
}

func opCjneInd(c *CPU, s *stepInfo) uint8 {
	addr := c.indAddr(s)
	v := c.Bus.ReadDirect(addr)
	c.WriteBit(bitCY, v < s.b1)
	if v != s.b1 {
		c.PC = relTarget(s.pcAfter, s.b2)
	}
	return 2
}

// MOV family.

func opMovAImm(c *CPU, s *stepInfo) uint8 { c.SetA(s.b1); return 1 }

func opMovDirectImm(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, s.b2)
	return 2
}

func opMovIndImm(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(c.indAddr(s), s.b1)
	return 1
}

func opMovRegImm(c *CPU, s *stepInfo) uint8 {
	c.SetReg(int(s.opcode&7), s.b1)
	return 1
}

func opMovDirectDirect(c *CPU, s *stepInfo) uint8 {
	// Encoded as opcode,src,dest.
	c.Bus.WriteDirect(s.b2, c.Bus.ReadDirect(s.b1))
	return 2
}

func opMovDirectInd(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(c.indAddr(s)))
	return 2
}

func opMovDirectReg(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Reg(int(s.opcode&7)))
	return 2
}

func opMovIndDirect(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(c.indAddr(s), c.Bus.ReadDirect(s.b1))
	return 2
}

func opMovRegDirect(c *CPU, s *stepInfo) uint8 {
	c.SetReg(int(s.opcode&7), c.Bus.ReadDirect(s.b1))
	return 2
}

func opMovADirect(c *CPU, s *stepInfo) uint8 { c.SetA(c.Bus.ReadDirect(s.b1)); return 1 }
func opMovDirectA(c *CPU, s *stepInfo) uint8 { c.Bus.WriteDirect(s.b1, c.A()); return 1 }

func opMovAInd(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.Bus.ReadDirect(c.indAddr(s)))
	return 1
}

func opMovIndA(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(c.indAddr(s), c.A())
	return 1
}

func opMovAReg(c *CPU, s *stepInfo) uint8 { c.SetA(c.Reg(int(s.opcode & 7))); return 1 }
func opMovRegA(c *CPU, s *stepInfo) uint8 { c.SetReg(int(s.opcode&7), c.A()); return 1 }

func opMovDptrImm(c *CPU, s *stepInfo) uint8 {
	c.setDptr(uint16(s.b1)<<8 | uint16(s.b2))
	return 2
}

func opMovCBit(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(bitCY, c.ReadBit(s.b1))
	return 2
}

func opMovBitC(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(s.b1, c.ReadBit(bitCY))
	return 2
}

func opMovcPC(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.Bus.ReadCode(s.pcAfter + uint16(c.A())))
	return 2
}

func opMovcDptr(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.Bus.ReadCode(c.dptr() + uint16(c.A())))
	return 2
}

func opMovxADptr(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.Bus.ReadXRAM(c.dptr()))
	return 2
}

func opMovxAInd(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.Bus.ReadXRAM(uint16(c.P2())<<8 | uint16(c.indAddr(s))))
	return 2
}

func opMovxDptrA(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteXRAM(c.dptr(), c.A())
	return 2
}

func opMovxIndA(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteXRAM(uint16(c.P2())<<8|uint16(c.indAddr(s)), c.A())
	return 2
}

func opXchDirect(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	d := c.Bus.ReadDirect(s.b1)
	c.SetA(d)
	c.Bus.WriteDirect(s.b1, a)
	return 1
}

func opXchReg(c *CPU, s *stepInfo) uint8 {
	n := int(s.opcode & 7)
	a := c.A()
	r := c.Reg(n)
	c.SetA(r)
	c.SetReg(n, a)
	return 1
}

func opXchInd(c *CPU, s *stepInfo) uint8 {
	addr := c.indAddr(s)
	a := c.A()
	v := c.Bus.ReadDirect(addr)
	c.SetA(v)
	c.Bus.WriteDirect(addr, a)
	return 1
}

// opXchd swaps the low nibbles of A and @Ri, leaving the high nibbles alone.
func opXchd(c *CPU, s *stepInfo) uint8 {
	addr := c.indAddr(s)
	a := c.A()
	v := c.Bus.ReadDirect(addr)
	c.SetA(a&0xf0 | v&0x0f)
	c.Bus.WriteDirect(addr, v&0xf0|a&0x0f)
	return 1
}

func opPush(c *CPU, s *stepInfo) uint8 {
	c.push(c.Bus.ReadDirect(s.b1))
	return 2
}

func opPop(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.pop())
	return 2
}
