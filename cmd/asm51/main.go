/*
   MCS-51 simulator - assembler/disassembler command-line tool.

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

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcornwell/mcs51/internal/assemble"
	"github.com/rcornwell/mcs51/internal/disassemble"
	"github.com/rcornwell/mcs51/internal/hexfile"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "asm51",
		Short: "MCS-51 assembler and disassembler",
	}

	var output string
	var base string

	assembleCmd := &cobra.Command{
		Use:   "assemble [src.s]",
		Short: "Assemble a source file to an Intel HEX image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runAssemble(args[0], output, base)
		},
	}
	assembleCmd.Flags().StringVarP(&output, "output", "o", "", "output HEX file (default: stdout)")
	assembleCmd.Flags().StringVar(&base, "base", "0", "load address in hex for the assembled code")

	disassembleCmd := &cobra.Command{
		Use:   "disassemble [in.hex]",
		Short: "Disassemble an Intel HEX image",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runDisassemble(args[0])
		},
	}

	rootCmd.AddCommand(assembleCmd, disassembleCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAssemble(path, output, baseStr string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	baseAddr, err := strconv.ParseUint(baseStr, 16, 16)
	if err != nil {
		return fmt.Errorf("bad --base value %q: %w", baseStr, err)
	}

	result, err := assemble.Assemble(string(src), uint16(baseAddr))
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		return hexfile.Write(f, result.Code, result.Base)
	}
	return hexfile.Write(w, result.Code, result.Base)
}

func runDisassemble(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := hexfile.Read(f)
	if err != nil {
		return err
	}

	var code [65536]byte
	end := uint16(0)
	for _, rec := range records {
		for i, b := range rec.Data {
			code[int(rec.Address)+i] = b
		}
		last := rec.Address + uint16(len(rec.Data))
		if last > end {
			end = last
		}
	}

	addr := uint16(0)
	for addr < end {
		text, width := disassemble.Disassemble(code[addr:], addr)
		fmt.Printf("%04x  %s\n", addr, text)
		if width < 1 {
			width = 1
		}
		addr += uint16(width)
	}
	return nil
}
