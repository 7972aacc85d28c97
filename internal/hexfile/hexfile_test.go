package hexfile

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	data := []byte{0x74, 0x42, 0xf5, 0x30, 0x80, 0xfe}
	var buf bytes.Buffer
	if err := Write(&buf, data, 0x0100); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var code [65536]byte
	if err := LoadInto(strings.NewReader(buf.String()), &code); err != nil {
		t.Fatalf("LoadInto: %v", err)
	}
	for i, b := range data {
		if got := code[0x0100+i]; got != b {
			t.Errorf("code[%#04x] = %#02x, want %#02x", 0x0100+i, got, b)
		}
	}
}

func TestReadRejectsBadChecksum(t *testing.T) {
	bad := ":0400000074420000FF\n:00000001FF\n"
	if _, err := Read(strings.NewReader(bad)); err == nil {
		t.Error("expected checksum error, got nil")
	}
}

func TestReadRequiresEOFRecord(t *testing.T) {
	noEOF := ":01000000AA55\n"
	if _, err := Read(strings.NewReader(noEOF)); err == nil {
		t.Error("expected missing EOF error, got nil")
	}
}

func TestWriteProducesColonRecords(t *testing.T) {
	var buf bytes.Buffer
	_ = Write(&buf, []byte{0x00}, 0)
	if !strings.HasPrefix(buf.String(), ":") {
		t.Error("record does not start with ':'")
	}
	if !strings.Contains(buf.String(), ":00000001FF") {
		t.Error("missing well-formed EOF record")
	}
}
