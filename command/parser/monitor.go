/*
   MCS-51 simulator - monitor run/stop control loop.

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

package parser

import (
	"log/slog"
	"sync"

	"github.com/rcornwell/mcs51/internal/cpu"
)

type control int

const (
	ctlStart control = iota
	ctlStop
)

// Monitor owns the simulated part and the background goroutine that free
// runs it while the "run" command is in effect. The command loop and the
// free-run goroutine are the only two goroutines in the program; everything
// else is the single-threaded cpu.CPU contract described alongside it.
type Monitor struct {
	CPU *cpu.CPU

	wg      sync.WaitGroup
	done    chan struct{}
	control chan control
	running bool
}

// NewMonitor wraps c in a Monitor and starts its control loop.
func NewMonitor(c *cpu.CPU) *Monitor {
	mon := &Monitor{
		CPU:     c,
		done:    make(chan struct{}),
		control: make(chan control),
	}
	mon.wg.Add(1)
	go mon.loop()
	return mon
}

// loop is the free-run scheduler: while running it is true it steps the CPU
// once per iteration; otherwise it blocks waiting for the next control
// message. A Step that reports a breakpoint (PC at an address in
// BreakAddresses, or BreakInstruction set) stops the run the same way an
// explicit "stop" command would.
func (mon *Monitor) loop() {
	defer mon.wg.Done()
	for {
		if mon.running {
			select {
			case <-mon.done:
				return
			case c := <-mon.control:
				mon.apply(c)
			default:
				if !mon.CPU.Step() {
					mon.running = false
					slog.Info("run stopped at breakpoint", "pc", mon.CPU.PC)
				}
			}
		} else {
			select {
			case <-mon.done:
				return
			case c := <-mon.control:
				mon.apply(c)
			}
		}
	}
}

func (mon *Monitor) apply(c control) {
	switch c {
	case ctlStart:
		mon.running = true
	case ctlStop:
		mon.running = false
	}
}

// SendStart tells the free-run goroutine to begin stepping.
func (mon *Monitor) SendStart() { mon.control <- ctlStart }

// SendStop tells the free-run goroutine to stop stepping.
func (mon *Monitor) SendStop() { mon.control <- ctlStop }

// Shutdown stops the control loop for good, for use when the monitor quits.
func (mon *Monitor) Shutdown() {
	close(mon.done)
	mon.wg.Wait()
}
