package export

import (
	"strings"
	"testing"
)

func TestWriteTrackMeta(t *testing.T) {
	info := SongInfo{
		Name:        "TEST",
		Author:      "somebody",
		Album:       "demos",
		SystemName:  "Atari TIA",
		Tuning:      440,
		Instruments: 2,
	}
	data := string(writeTrackMeta(info))

	for _, want := range []string{
		"; Name: TEST",
		"; Author: somebody",
		"; Album: demos",
		"; System: Atari TIA",
		"; Tuning: 440",
		"; Instruments: 2",
		"TITLE_GRAPHICS_0",
	} {
		if !strings.Contains(data, want) {
			t.Errorf("meta output missing %q:\n%s", want, data)
		}
	}
}

func TestTitleGraphics(t *testing.T) {
	t.Run("short titles pad to the minimum", func(t *testing.T) {
		data := renderTitle(t, "AB")
		if !strings.Contains(data, "TITLE_LENGTH = 3") {
			t.Errorf("short title should pad to 3 glyph pairs:\n%s", data)
		}
		// A is glyph 15, B glyph 16; row 1 packs 0x0a and 0x0e
		if !strings.Contains(data, "TITLE_GRAPHICS_0\n    byte 0,174,") {
			t.Errorf("unexpected first column group:\n%s", data)
		}
	})

	t.Run("unknown glyphs fall back to underscore", func(t *testing.T) {
		got := renderTitle(t, "A?")
		fallback := renderTitle(t, "A_")
		if got != fallback {
			t.Errorf("'?' should render as underscore")
		}
	})

	t.Run("long titles truncate", func(t *testing.T) {
		info := SongInfo{Name: strings.Repeat("X", 40)}
		title := info.Title()
		if len(title) != 26 || !strings.HasSuffix(title, "...") {
			t.Errorf("title = %q, want 23 glyphs plus ellipsis", title)
		}
	})
}

func renderTitle(t *testing.T, title string) string {
	t.Helper()
	info := SongInfo{Name: title, Author: ""}
	data := string(writeTrackMeta(info))
	i := strings.Index(data, "TITLE_GRAPHICS_0")
	if i < 0 {
		t.Fatalf("no title graphics in output:\n%s", data)
	}
	return data[i:]
}
