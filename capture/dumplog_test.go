package capture

import (
	"bytes"
	"strings"
	"testing"
)

func TestDumpLogRoundTrip(t *testing.T) {
	writes := []RegisterWrite{
		{WriteIndex: 0, Row: RowIndex{0, 0, 0}, Seconds: 0, Ticks: 0, Hz: 60, Addr: 0x15, Val: 4},
		{WriteIndex: 1, Row: RowIndex{0, 0, 1}, Seconds: 0, Ticks: 16667, Hz: 60, Addr: 0x19, Val: 15},
		{WriteIndex: 2, Row: RowIndex{0, 1, 0}, Seconds: 1, Ticks: 350, Hz: 60, Addr: 0x17, Val: 7},
		{WriteIndex: 2, Row: RowIndex{0, 1, 0}, SystemIndex: -1, Seconds: 1, Ticks: 350, Hz: 60},
	}

	var buf bytes.Buffer
	if err := WriteDumpLog(&buf, writes); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "; IDX0 0.0: SS0 ORD0 ROW0 SYS0> 21 = 4") {
		t.Fatalf("unexpected dump format:\n%s", buf.String())
	}

	parsed, err := ParseDumpLog(&buf, 60)
	if err != nil {
		t.Fatal(err)
	}
	if len(parsed) != 4 {
		t.Fatalf("got %d writes, want 3 plus sentinel", len(parsed))
	}
	for i := 0; i < 3; i++ {
		w, p := writes[i], parsed[i]
		if w.WriteIndex != p.WriteIndex || w.Row != p.Row || w.Seconds != p.Seconds ||
			w.Ticks != p.Ticks || w.Addr != p.Addr || w.Val != p.Val {
			t.Errorf("write %d: got %+v, want %+v", i, p, w)
		}
	}
	if !parsed[3].Sentinel() {
		t.Error("parsed log does not end with a sentinel")
	}
}

func TestParseDumpLogSkipsNoise(t *testing.T) {
	input := "; Song: test\n\n; IDX0 0.0: SS0 ORD0 ROW0 SYS0> 21 = 4\n; trailer comment\n"
	writes, err := ParseDumpLog(strings.NewReader(input), 60)
	if err != nil {
		t.Fatal(err)
	}
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 1 plus sentinel", len(writes))
	}
}

func TestParseDumpLogRejectsMalformed(t *testing.T) {
	if _, err := ParseDumpLog(strings.NewReader("; IDXoops\n"), 60); err == nil {
		t.Error("want parse error for malformed line")
	}
}
