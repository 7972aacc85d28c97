package parser

import (
	"testing"

	"github.com/rcornwell/mcs51/internal/cpu"
)

func TestCmdLineGetWord(t *testing.T) {
	l := &cmdLine{line: "  Step 5"}
	if w := l.getWord(); w != "step" {
		t.Fatalf("getWord = %q, want step", w)
	}
	if tok := l.getToken(); tok != "5" {
		t.Fatalf("getToken = %q, want 5", tok)
	}
}

func TestMatchCommandAbbreviation(t *testing.T) {
	match := matchList("ste")
	if len(match) != 1 || match[0].name != "step" {
		t.Fatalf("matchList(ste) = %v, want [step]", match)
	}
	if len(matchList("st")) < 2 {
		t.Fatalf("expected ambiguous match for 'st' (step/stop)")
	}
}

func TestProcessCommandStepAndQuit(t *testing.T) {
	mon := NewMonitor(cpu.New(nil))
	defer mon.Shutdown()

	mon.CPU.Bus.Code[0] = 0x74 // MOV A,#5
	mon.CPU.Bus.Code[1] = 0x05

	quit, err := ProcessCommand("step", mon)
	if err != nil || quit {
		t.Fatalf("step: quit=%v err=%v", quit, err)
	}
	if mon.CPU.A() != 5 {
		t.Fatalf("A = %#02x, want 0x05", mon.CPU.A())
	}

	quit, err = ProcessCommand("quit", mon)
	if err != nil || !quit {
		t.Fatalf("quit: quit=%v err=%v", quit, err)
	}
}

func TestProcessCommandBreak(t *testing.T) {
	mon := NewMonitor(cpu.New(nil))
	defer mon.Shutdown()

	if _, err := ProcessCommand("break 0010", mon); err != nil {
		t.Fatalf("break: %v", err)
	}
	if !mon.CPU.BreakAddresses[0x0010] {
		t.Fatal("breakpoint at 0x0010 not set")
	}
	if _, err := ProcessCommand("unbreak 0010", mon); err != nil {
		t.Fatalf("unbreak: %v", err)
	}
	if mon.CPU.BreakAddresses[0x0010] {
		t.Fatal("breakpoint at 0x0010 still set after unbreak")
	}
}

func TestProcessCommandUnknown(t *testing.T) {
	mon := NewMonitor(cpu.New(nil))
	defer mon.Shutdown()

	if _, err := ProcessCommand("frobnicate", mon); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
