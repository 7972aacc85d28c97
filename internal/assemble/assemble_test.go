package assemble

import (
	"bytes"
	"testing"
)

func TestAssembleSimple(t *testing.T) {
	src := `
		MOV A,#0x55
		MOV 0x30,A
		INC A
		NOP
	`
	res, err := Assemble(src, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x74, 0x55, 0xf5, 0x30, 0x04, 0x00}
	if !bytes.Equal(res.Code, want) {
		t.Errorf("Code = % x, want % x", res.Code, want)
	}
}

func TestAssembleForwardLabel(t *testing.T) {
	src := `
		SJMP skip
		NOP
	skip:
		MOV A,#0x01
	`
	res, err := Assemble(src, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x80, 0x01, 0x00, 0x74, 0x01}
	if !bytes.Equal(res.Code, want) {
		t.Errorf("Code = % x, want % x", res.Code, want)
	}
	if res.Labels["skip"] != 3 {
		t.Errorf("label skip = %#04x, want 0x0003", res.Labels["skip"])
	}
}

func TestAssembleLJMPBackwardLabel(t *testing.T) {
	src := `
	loop:
		INC A
		LJMP loop
	`
	res, err := Assemble(src, 0x1000)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x04, 0x02, 0x10, 0x00}
	if !bytes.Equal(res.Code, want) {
		t.Errorf("Code = % x, want % x", res.Code, want)
	}
}

func TestAssembleAJMPPageEncoding(t *testing.T) {
	src := `
		AJMP target
		NOP
	target:
		NOP
	`
	res, err := Assemble(src, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	// target is at 0x0003; page bits (addr>>8)&7 = 0, so opcode stays 0x01.
	want := []byte{0x01, 0x03, 0x00, 0x00}
	if !bytes.Equal(res.Code, want) {
		t.Errorf("Code = % x, want % x", res.Code, want)
	}
}

func TestAssembleBitAndDirectDirect(t *testing.T) {
	src := `
		SETB TR0
		MOV 0x31,0x30
	`
	res, err := Assemble(src, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0xd2, 0x8c, 0x85, 0x30, 0x31}
	if !bytes.Equal(res.Code, want) {
		t.Errorf("Code = % x, want % x", res.Code, want)
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	_, err := Assemble("SJMP nowhere\n", 0)
	if err == nil {
		t.Error("expected error for undefined label")
	}
}

func TestAssembleDirective(t *testing.T) {
	src := `
		.org 0x10
		.byte 0x01,0x02
		.word 0x1234
	`
	res, err := Assemble(src, 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.Code[0x10] != 0x01 || res.Code[0x11] != 0x02 {
		t.Errorf("byte directive produced % x", res.Code[0x10:0x12])
	}
	if res.Code[0x12] != 0x12 || res.Code[0x13] != 0x34 {
		t.Errorf("word directive produced % x", res.Code[0x12:0x14])
	}
}

func TestAssembleDataDirective(t *testing.T) {
	res, err := Assemble(".data 01 02 03\n", 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x01, 0x02, 0x03}
	if !bytes.Equal(res.Code, want) {
		t.Errorf("Code = % x, want % x", res.Code, want)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", res.Warnings)
	}
}

func TestAssembleDataDirectiveRoundTripWarning(t *testing.T) {
	res, err := Assemble(".data 1\n", 0)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !bytes.Equal(res.Code, []byte{0x01}) {
		t.Errorf("Code = % x, want 01", res.Code)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", res.Warnings)
	}
}
