/*
   MCS-51 processor core: program loading.

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

import (
	"io"

	"github.com/rcornwell/mcs51/internal/hexfile"
)

// LoadHex reads an Intel HEX program image from r into code memory. It does
// not reset registers or RAM; call Reset first if a clean start is wanted.
func (c *CPU) LoadHex(r io.Reader) error {
	return hexfile.LoadInto(r, &c.Bus.Code)
}

// SaveHex writes n bytes of code memory starting at base as an Intel HEX
// image to w.
func (c *CPU) SaveHex(w io.Writer, base uint16, n int) error {
	return hexfile.Write(w, c.Bus.Code[base:int(base)+n], base)
}
