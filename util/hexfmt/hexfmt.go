/*
   Hex digit formatting helpers.

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

// Package hexfmt writes hex digits straight into a strings.Builder without
// going through fmt. The Intel HEX record writer in internal/hexfile uses it;
// the disassembler formats its text with fmt.
package hexfmt

import "strings"

var digits = "0123456789ABCDEF"

// Byte writes the two hex digits of b.
func Byte(str *strings.Builder, b byte) {
	str.WriteByte(digits[(b>>4)&0xf])
	str.WriteByte(digits[b&0xf])
}

// Word writes the four hex digits of w.
func Word(str *strings.Builder, w uint16) {
	Byte(str, byte(w>>8))
	Byte(str, byte(w))
}

// Bytes writes every byte in data as a pair of hex digits, separated by a
// space when space is true.
func Bytes(str *strings.Builder, space bool, data []byte) {
	for _, b := range data {
		Byte(str, b)
		if space {
			str.WriteByte(' ')
		}
	}
}
