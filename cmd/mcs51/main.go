/*
   MCS-51 simulator - command-line monitor entry point.

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
	"log/slog"
	"os"
	"strconv"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/mcs51/command/parser"
	"github.com/rcornwell/mcs51/command/reader"
	"github.com/rcornwell/mcs51/internal/assemble"
	"github.com/rcornwell/mcs51/internal/cpu"
	logger "github.com/rcornwell/mcs51/util/logger"
)

func main() {
	optLoad := getopt.StringLong("load", 'l', "", "Intel HEX file to load at startup")
	optSource := getopt.StringLong("source", 's', "", "assembly source to assemble and load at startup")
	optBreak := getopt.StringLong("break", 'b', "", "comma-separated breakpoint addresses (hex)")
	optLogFile := getopt.StringLong("log", 0, "", "log file")
	optHelp := getopt.BoolLong("help", 'h', "help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		var err error
		file, err = os.Create(*optLogFile)
		if err != nil {
			slog.Error("cannot create log file", "error", err)
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	log := slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}, new(bool)))
	slog.SetDefault(log)

	c := cpu.New(log)

	if *optLoad != "" {
		f, err := os.Open(*optLoad)
		if err != nil {
			slog.Error("cannot open HEX file", "error", err)
			os.Exit(1)
		}
		err = c.LoadHex(f)
		f.Close()
		if err != nil {
			slog.Error("cannot load HEX file", "error", err)
			os.Exit(1)
		}
	}

	if *optSource != "" {
		src, err := os.ReadFile(*optSource)
		if err != nil {
			slog.Error("cannot read source file", "error", err)
			os.Exit(1)
		}
		result, err := assemble.Assemble(string(src), 0)
		if err != nil {
			slog.Error("assemble failed", "error", err)
			os.Exit(1)
		}
		copy(c.Bus.Code[result.Base:], result.Code)
	}

	if *optBreak != "" {
		for _, b := range strings.Split(*optBreak, ",") {
			addr, err := strconv.ParseUint(strings.TrimSpace(b), 16, 16)
			if err != nil {
				slog.Error("bad breakpoint address", "value", b)
				continue
			}
			c.BreakAddresses[uint16(addr)] = true
		}
	}

	mon := parser.NewMonitor(c)
	reader.ConsoleReader(mon)
	mon.Shutdown()
}
