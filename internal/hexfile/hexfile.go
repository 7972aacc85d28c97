/*
   Intel HEX object file reader and writer.

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

// Package hexfile reads and writes the Intel HEX record format used to load
// and save assembled 8051 programs.
package hexfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rcornwell/mcs51/util/hexfmt"
)

const (
	recData = 0x00
	recEOF  = 0x01
)

// Record is one decoded line of an Intel HEX file.
type Record struct {
	Address uint16
	Type    byte
	Data    []byte
}

// Read parses Intel HEX text and returns the accumulated data records; text
// that ends without an EOF record is an error. Blank lines are tolerated; a malformed record is reported
// with the 1-based line number of the offending record.
func Read(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	lineNo := 0
	sawEOF := false
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rec, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("hexfile: line %d: %w", lineNo, err)
		}
		if rec.Type == recEOF {
			sawEOF = true
			break
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !sawEOF {
		return nil, fmt.Errorf("hexfile: missing end-of-file record")
	}
	return records, nil
}

func parseRecord(line string) (Record, error) {
	if line[0] != ':' {
		return Record{}, fmt.Errorf("record does not start with ':'")
	}
	raw, err := decodeHex(line[1:])
	if err != nil {
		return Record{}, err
	}
	if len(raw) < 5 {
		return Record{}, fmt.Errorf("record too short")
	}
	length := int(raw[0])
	if len(raw) != length+5 {
		return Record{}, fmt.Errorf("length field %d does not match record size", length)
	}
	sum := byte(0)
	for _, b := range raw[:len(raw)-1] {
		sum += b
	}
	sum = byte(-int8(sum))
	if sum != raw[len(raw)-1] {
		return Record{}, fmt.Errorf("checksum mismatch")
	}
	return Record{
		Address: uint16(raw[1])<<8 | uint16(raw[2]),
		Type:    raw[3],
		Data:    raw[4 : 4+length],
	}, nil
}

func decodeHex(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd number of hex digits")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex digits %q", s[i*2:i*2+2])
		}
		out[i] = byte(v)
	}
	return out, nil
}

// LoadInto decodes HEX text and writes every data record into code, which
// must be addressable by uint16 offsets (a 64K code ROM).
func LoadInto(r io.Reader, code *[65536]byte) error {
	records, err := Read(r)
	if err != nil {
		return err
	}
	for _, rec := range records {
		if rec.Type != recData {
			continue
		}
		for i, b := range rec.Data {
			code[int(rec.Address)+i] = b
		}
	}
	return nil
}

// Write emits all of code as Intel HEX text, 16 bytes per record, with
// record addresses starting at base, followed by the EOF record.
func Write(w io.Writer, code []byte, base uint16) error {
	const chunk = 16
	for off := 0; off < len(code); off += chunk {
		end := off + chunk
		if end > len(code) {
			end = len(code)
		}
		if err := writeRecord(w, base+uint16(off), recData, code[off:end]); err != nil {
			return err
		}
	}
	return writeRecord(w, 0, recEOF, nil)
}

func writeRecord(w io.Writer, addr uint16, typ byte, data []byte) error {
	raw := make([]byte, 0, 5+len(data))
	raw = append(raw, byte(len(data)), byte(addr>>8), byte(addr), typ)
	raw = append(raw, data...)
	sum := byte(0)
	for _, b := range raw {
		sum += b
	}
	raw = append(raw, byte(-int8(sum)))

	var str strings.Builder
	str.WriteByte(':')
	hexfmt.Bytes(&str, false, raw)
	str.WriteByte('\n')
	_, err := fmt.Fprint(w, str.String())
	return err
}
