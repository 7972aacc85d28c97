/*
   MCS-51 processor core: arithmetic and logic opcodes.

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

// aluSource resolves the second operand of an A,<src> family instruction
// (ADD/ADDC/SUBB/ORL/ANL/XRL) from the opcode's low bits: within the row,
// +4 is #immed, +5 is direct, +6/+7 are @R0/@R1, +8..+15 are R0-R7. base is
// the family's #immed opcode (0x24 for ADD, 0x34 for ADDC, 0x44 for ORL, and
// so on); every A,<src> family uses this same layout.
func (c *CPU) aluSource(s *stepInfo, base byte) byte {
	switch off := s.opcode - base; {
	case off == 0:
		return s.b1
	case off == 1:
		return c.Bus.ReadDirect(s.b1)
	case off == 2, off == 3:
		return c.Bus.ReadDirect(c.Reg(int(off - 2)))
	default:
		return c.Reg(int(s.opcode & 7))
	}
}

func (c *CPU) indAddr(s *stepInfo) uint8 {
	return c.Reg(int(s.opcode & 1))
}

// setArithFlags recomputes carry, auxiliary carry and overflow the textbook
// way: AC is the carry out of bit 3, OV is the carry out of bit 6 XORed
// with the carry out of bit 7. This is the corrected version of a classic
// emulator bug where OV is computed from sign comparison instead.
func (c *CPU) setArithFlags(a, b, carryIn byte, result uint16) {
	c.WriteBit(bitCY, result > 0xff)
	c.WriteBit(bitAC, (a&0x0f)+(b&0x0f)+carryIn > 0x0f)
	carry6 := (uint16(a&0x7f) + uint16(b&0x7f) + uint16(carryIn)) > 0x7f
	carry7 := result > 0xff
	c.WriteBit(bitOV, carry6 != carry7)
}

func opAdd(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	src := c.aluSource(s, 0x24)
	result := uint16(a) + uint16(src)
	c.setArithFlags(a, src, 0, result)
	c.SetA(byte(result))
	return 1
}

func opAddc(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	src := c.aluSource(s, 0x34)
	carryIn := byte(0)
	if c.ReadBit(bitCY) {
		carryIn = 1
	}
	result := uint16(a) + uint16(src) + uint16(carryIn)
	c.setArithFlags(a, src, carryIn, result)
	c.SetA(byte(result))
	return 1
}

func opSubb(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	src := c.aluSource(s, 0x94)
	borrowIn := byte(0)
	if c.ReadBit(bitCY) {
		borrowIn = 1
	}
	result := int16(a) - int16(src) - int16(borrowIn)
	c.WriteBit(bitCY, result < 0)
	c.WriteBit(bitAC, int16(a&0x0f)-int16(src&0x0f)-int16(borrowIn) < 0)
	signedResult := int16(int8(a)) - int16(int8(src)) - int16(borrowIn)
	c.WriteBit(bitOV, signedResult < -128 || signedResult > 127)
	c.SetA(byte(result))
	return 1
}

func opIncA(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.A() + 1)
	return 1
}

func opIncDirect(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(s.b1)+1)
	return 1
}

func opIncInd(c *CPU, s *stepInfo) uint8 {
	addr := c.indAddr(s)
	c.Bus.WriteDirect(addr, c.Bus.ReadDirect(addr)+1)
	return 1
}

func opIncReg(c *CPU, s *stepInfo) uint8 {
	n := int(s.opcode & 7)
	c.SetReg(n, c.Reg(n)+1)
	return 1
}

func opIncDptr(c *CPU, s *stepInfo) uint8 {
	c.setDptr(c.dptr() + 1)
	return 2
}

func opDecA(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.A() - 1)
	return 1
}

func opDecDirect(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(s.b1)-1)
	return 1
}

func opDecInd(c *CPU, s *stepInfo) uint8 {
	addr := c.indAddr(s)
	c.Bus.WriteDirect(addr, c.Bus.ReadDirect(addr)-1)
	return 1
}

func opDecReg(c *CPU, s *stepInfo) uint8 {
	n := int(s.opcode & 7)
	c.SetReg(n, c.Reg(n)-1)
	return 1
}

func opMul(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	b := c.Bus.ReadDirect(addrB)
	product := uint16(a) * uint16(b)
	c.SetA(byte(product))
	c.Bus.WriteDirect(addrB, byte(product>>8))
	c.WriteBit(bitCY, false)
	c.WriteBit(bitOV, product > 0xff)
	return 4
}

func opDiv(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	b := c.Bus.ReadDirect(addrB)
	c.WriteBit(bitCY, false)
	if b == 0 {
		c.WriteBit(bitOV, true)
		return 4
	}
	c.WriteBit(bitOV, false)
	c.SetA(a / b)
	c.Bus.WriteDirect(addrB, a%b)
	return 4
}

// opDA implements the decimal-adjust-after-addition fixup: add 6 to either
// nibble that is out of BCD range or that just carried.
func opDA(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	if a&0x0f > 9 || c.ReadBit(bitAC) {
		sum := uint16(a) + 6
		c.WriteBit(bitAC, sum&0x0f < uint16(a&0x0f))
		a = byte(sum)
	}
	if a>>4 > 9 || c.ReadBit(bitCY) {
		sum := uint16(a) + 0x60
		if sum > 0xff {
			c.WriteBit(bitCY, true)
		}
		a = byte(sum)
	}
	c.SetA(a)
	return 1
}

func opRR(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	c.SetA(a>>1 | a<<7)
	return 1
}

func opRL(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	c.SetA(a<<1 | a>>7)
	return 1
}

func opRRC(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	carry := byte(0)
	if c.ReadBit(bitCY) {
		carry = 0x80
	}
	c.WriteBit(bitCY, a&1 != 0)
	c.SetA(a>>1 | carry)
	return 1
}

func opRLC(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	carry := byte(0)
	if c.ReadBit(bitCY) {
		carry = 1
	}
	c.WriteBit(bitCY, a&0x80 != 0)
	c.SetA(a<<1 | carry)
	return 1
}

func opSwap(c *CPU, s *stepInfo) uint8 {
	a := c.A()
	c.SetA(a<<4 | a>>4)
	return 1
}

// Bit-wise logic. ORL/ANL/XRL share the same A,<src> operand layout as the
// arithmetic family (#immed at 0x44/0x54/0x64), so aluSource is called with
// that opcode as base.
func opOrl(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.A() | c.aluSource(s, 0x44))
	return 1
}

func opAnl(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.A() & c.aluSource(s, 0x54))
	return 1
}

func opXrl(c *CPU, s *stepInfo) uint8 {
	c.SetA(c.A() ^ c.aluSource(s, 0x64))
	return 1
}

func opOrlDirectA(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(s.b1)|c.A())
	return 1
}

func opOrlDirectImm(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(s.b1)|s.b2)
	return 2
}

func opAnlDirectA(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(s.b1)&c.A())
	return 1
}

func opAnlDirectImm(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(s.b1)&s.b2)
	return 2
}

func opXrlDirectA(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(s.b1)^c.A())
	return 1
}

func opXrlDirectImm(c *CPU, s *stepInfo) uint8 {
	c.Bus.WriteDirect(s.b1, c.Bus.ReadDirect(s.b1)^s.b2)
	return 2
}

func opOrlBitC(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(bitCY, c.ReadBit(bitCY) || c.ReadBit(s.b1))
	return 2
}

func opOrlNBitC(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(bitCY, c.ReadBit(bitCY) || !c.ReadBit(s.b1))
	return 2
}

func opAnlBitC(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(bitCY, c.ReadBit(bitCY) && c.ReadBit(s.b1))
	return 2
}

func opAnlNBitC(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(bitCY, c.ReadBit(bitCY) && !c.ReadBit(s.b1))
	return 2
}

func opClrA(c *CPU, s *stepInfo) uint8 {
	c.SetA(0)
	return 1
}

func opCplA(c *CPU, s *stepInfo) uint8 {
	c.SetA(^c.A())
	return 1
}

func opClrC(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(bitCY, false)
	return 1
}

func opSetbC(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(bitCY, true)
	return 1
}

func opCplC(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(bitCY, !c.ReadBit(bitCY))
	return 1
}

func opClrBit(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(s.b1, false)
	return 1
}

func opSetbBit(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(s.b1, true)
	return 1
}

func opCplBit(c *CPU, s *stepInfo) uint8 {
	c.WriteBit(s.b1, !c.ReadBit(s.b1))
	return 1
}
