/*
   MCS-51 simulator - monitor command parser.

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

// Package parser implements the monitor's line-oriented command language:
// load/asm/reset/fullreset/step/run/stop/break/unbreak/reg/dump/disasm/quit,
// all operating on a single Monitor wrapping one *cpu.CPU.
package parser

import (
	"errors"
	"unicode"
)

type cmd struct {
	name     string
	min      int // minimum abbreviation length that still matches
	process  func(*cmdLine, *Monitor) (bool, error)
	complete func(*cmdLine) []string
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "load", min: 1, process: cmdLoad},
	{name: "asm", min: 3, process: cmdAsm},
	{name: "reset", min: 2, process: cmdReset},
	{name: "fullreset", min: 5, process: cmdFullReset},
	{name: "step", min: 2, process: cmdStep},
	{name: "run", min: 1, process: cmdRun},
	{name: "stop", min: 2, process: cmdStop},
	{name: "break", min: 3, process: cmdBreak},
	{name: "unbreak", min: 3, process: cmdUnbreak},
	{name: "reg", min: 3, process: cmdReg},
	{name: "dump", min: 2, process: cmdDump},
	{name: "disasm", min: 3, process: cmdDisasm},
	{name: "debug", min: 3, process: cmdDebug, complete: debugComplete},
	{name: "quit", min: 1, process: cmdQuit},
}

// ProcessCommand executes one line of monitor input against mon. The bool
// return reports whether the monitor should exit.
func ProcessCommand(commandLine string, mon *Monitor) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}

	return match[0].process(&line, mon)
}

// CompleteCmd returns the tab-completion candidates for commandLine.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	if !line.isEOL() && line.line[line.pos] == ' ' {
		line.skipSpace()
		match := matchList(name)
		if len(match) != 1 || match[0].complete == nil {
			return nil
		}
		return match[0].complete(&line)
	}

	match := matchList(name)
	out := make([]string, len(match))
	for i, m := range match {
		out[i] = m.name
	}
	return out
}

func matchCommand(m cmd, name string) bool {
	if len(name) > len(m.name) {
		return false
	}
	for i := range len(name) {
		if m.name[i] != name[i] {
			return false
		}
	}
	return len(name) >= m.min
}

func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var match []cmd
	for _, m := range cmdList {
		if matchCommand(m, name) {
			match = append(match, m)
		}
	}
	return match
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line) || l.line[l.pos] == '#'
}

func (l *cmdLine) getNext() byte {
	l.pos++
	if l.isEOL() {
		return 0
	}
	return l.line[l.pos]
}

// getWord returns the next run of non-space characters, lower-cased, leaving pos at the
// following space (or EOL). Used for command names.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	word := l.line[start:l.pos]
	lower := make([]byte, len(word))
	for i := range word {
		c := word[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	return string(lower)
}

// getToken returns the next run of non-space characters without
// lower-casing it, for things like file paths that are case sensitive.
func (l *cmdLine) getToken() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	start := l.pos
	for !l.isEOL() && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return l.line[start:l.pos]
}

// getRest returns everything left on the line, trimmed, for commands whose
// last argument may itself contain spaces.
func (l *cmdLine) getRest() string {
	l.skipSpace()
	if l.isEOL() {
		return ""
	}
	rest := l.line[l.pos:]
	l.pos = len(l.line)
	return rest
}
