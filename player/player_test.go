package player

import (
	"bytes"
	"testing"

	"tiaforge/capture"
)

// buildImage assembles a trivial player: init returns immediately, play
// writes a fixed tone to the TIA audio registers and returns.
func buildImage() *Image {
	// $f000: init  60           RTS
	// $f001: play  a9 04        LDA #$04
	//              85 15        STA $15
	//              a9 07        LDA #$07
	//              85 17        STA $17
	//              a9 0f        LDA #$0f
	//              85 19        STA $19
	//              60           RTS
	code := []byte{
		0x60,
		0xa9, 0x04, 0x85, 0x15,
		0xa9, 0x07, 0x85, 0x17,
		0xa9, 0x0f, 0x85, 0x19,
		0x60,
	}
	return &Image{
		Version:     1,
		LoadAddress: 0xf000,
		InitAddress: 0xf000,
		PlayAddress: 0xf001,
		Songs:       1,
		Data:        code,
	}
}

func TestImageRoundTrip(t *testing.T) {
	img := buildImage()
	var buf bytes.Buffer
	if _, err := img.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadImage(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.LoadAddress != img.LoadAddress || loaded.InitAddress != img.InitAddress ||
		loaded.PlayAddress != img.PlayAddress || loaded.Songs != 1 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if !bytes.Equal(loaded.Data, img.Data) {
		t.Errorf("payload mismatch")
	}
}

func TestLoadImageRejectsGarbage(t *testing.T) {
	if _, err := LoadImage(bytes.NewReader([]byte("RIFFxxxxxxxxxxxxxxxx"))); err == nil {
		t.Error("want error for bad magic")
	}
	if _, err := LoadImage(bytes.NewReader([]byte("TIAP"))); err == nil {
		t.Error("want error for truncated header")
	}
}

func TestPlayerCapture(t *testing.T) {
	p := New(buildImage())
	p.MaxFrames = 3
	p.Speed = 1
	p.PatternLen = 2

	writes, err := capture.Collect(p, 0)
	if err != nil {
		t.Fatal(err)
	}

	// three frames, three register stores each, plus the sentinel
	if len(writes) != 10 {
		t.Fatalf("got %d writes, want 9 plus sentinel: %v", len(writes), writes)
	}
	wantAddrs := []uint32{0x15, 0x17, 0x19}
	for i := 0; i < 9; i++ {
		if writes[i].Addr != wantAddrs[i%3] {
			t.Errorf("write %d addr = %#x, want %#x", i, writes[i].Addr, wantAddrs[i%3])
		}
	}
	if !writes[9].Sentinel() {
		t.Error("capture does not end with a sentinel")
	}

	// frame 0 is row 0, frame 2 wraps into order 1 with PatternLen 2
	if writes[0].Row != (capture.RowIndex{SubSong: 0, Order: 0, Row: 0}) {
		t.Errorf("first frame row = %+v", writes[0].Row)
	}
	if writes[6].Row != (capture.RowIndex{SubSong: 0, Order: 1, Row: 0}) {
		t.Errorf("third frame row = %+v", writes[6].Row)
	}

	for _, w := range writes[:9] {
		if w.Val != 0x04 && w.Val != 0x07 && w.Val != 0x0f {
			t.Errorf("unexpected value %#x", w.Val)
		}
	}
}

func TestPlayerSubSongRange(t *testing.T) {
	p := New(buildImage())
	if err := p.PrepareSubSong(1); err == nil {
		t.Error("want error for subsong out of range")
	}
}
