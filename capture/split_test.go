package capture

import "testing"

func TestSplitSubSongs(t *testing.T) {
	at := func(index, subsong int) RegisterWrite {
		return RegisterWrite{
			WriteIndex: index,
			Row:        RowIndex{SubSong: subsong},
			Hz:         60,
			Addr:       0x19,
			Val:        1,
		}
	}

	t.Run("groups by subsong with sentinels", func(t *testing.T) {
		writes := []RegisterWrite{
			at(0, 0), at(1, 0),
			at(2, 1),
			{WriteIndex: 2, Row: RowIndex{SubSong: 1}, SystemIndex: -1, Hz: 60},
		}
		groups := SplitSubSongs(writes)
		if len(groups) != 2 {
			t.Fatalf("got %d groups, want 2", len(groups))
		}
		if len(groups[0]) != 3 || !groups[0][2].Sentinel() {
			t.Errorf("subsong 0 = %v, want 2 writes plus sentinel", groups[0])
		}
		if len(groups[1]) != 2 || !groups[1][1].Sentinel() {
			t.Errorf("subsong 1 = %v, want 1 write plus sentinel", groups[1])
		}
	})

	t.Run("skipped subsongs get an empty capture", func(t *testing.T) {
		groups := SplitSubSongs([]RegisterWrite{at(0, 2)})
		if len(groups) != 3 {
			t.Fatalf("got %d groups, want 3", len(groups))
		}
		for ss := 0; ss < 2; ss++ {
			if len(groups[ss]) != 1 || !groups[ss][0].Sentinel() {
				t.Errorf("subsong %d = %v, want a lone sentinel", ss, groups[ss])
			}
		}
	})

	t.Run("sentinel-only input passes through", func(t *testing.T) {
		sentinel := RegisterWrite{SystemIndex: -1, Hz: 60}
		groups := SplitSubSongs([]RegisterWrite{sentinel})
		if len(groups) != 1 || len(groups[0]) != 1 || !groups[0][0].Sentinel() {
			t.Errorf("got %v, want the sentinel back", groups)
		}
	})
}
