package export

import "tiaforge/capture"

// TIA audio registers.
const (
	AUDC0 = 0x15
	AUDC1 = 0x16
	AUDF0 = 0x17
	AUDF1 = 0x18
	AUDV0 = 0x19
	AUDV1 = 0x1a
)

// NumChannels is the TIA voice count.
const NumChannels = 2

// Logical slot layout: control, frequency, volume.
const volumeSlot = 2

var channelAddressMaps = [NumChannels]capture.AddressMap{
	{AUDC0: 0, AUDF0: 1, AUDV0: 2},
	{AUDC1: 0, AUDF1: 1, AUDV1: 2},
}

// ChannelAddressMap returns the register-to-slot map of one voice.
func ChannelAddressMap(channel int) capture.AddressMap {
	return channelAddressMaps[channel]
}

// SubSong describes one subsong's order list for table emission.
type SubSong struct {
	Hz         float64
	PatternLen int
	// Orders holds one pattern id per channel for each order row.
	Orders [][]int
}

// SongInfo is the song-level metadata the exporter needs beyond the
// captured writes.
type SongInfo struct {
	Name        string
	Author      string
	Album       string
	SystemName  string
	Tuning      float64
	Instruments int
	Wavetables  int
	Samples     int
	SubSongs    []SubSong
}

// Title is the display string encoded into the glyph table.
func (s SongInfo) Title() string {
	if s.Name == "" {
		return "untitled"
	}
	title := s.Name
	if s.Author != "" {
		title = s.Name + " by " + s.Author
	}
	if len(title) > 26 {
		title = title[:23] + "..."
	}
	return title
}

// InfoFromWrites derives a minimal SongInfo from a capture when no song
// model is available (dump-log input): each order maps to the pattern of
// the same number on every channel, and the pattern length is the widest
// row index seen.
func InfoFromWrites(name, author string, writes []capture.RegisterWrite) SongInfo {
	maxSubSong := 0
	maxOrder := make(map[int]int)
	maxRow := make(map[int]int)
	hz := make(map[int]float64)
	for _, w := range writes {
		if w.Sentinel() {
			continue
		}
		ss := w.Row.SubSong
		if ss > maxSubSong {
			maxSubSong = ss
		}
		if w.Row.Order > maxOrder[ss] {
			maxOrder[ss] = w.Row.Order
		}
		if w.Row.Row > maxRow[ss] {
			maxRow[ss] = w.Row.Row
		}
		hz[ss] = w.Hz
	}
	info := SongInfo{
		Name:       name,
		Author:     author,
		SystemName: "Atari TIA",
		Tuning:     440,
	}
	for ss := 0; ss <= maxSubSong; ss++ {
		sub := SubSong{Hz: hz[ss], PatternLen: maxRow[ss] + 1}
		if sub.Hz == 0 {
			sub.Hz = 60
		}
		for ord := 0; ord <= maxOrder[ss]; ord++ {
			row := make([]int, NumChannels)
			for ch := range row {
				row[ch] = ord
			}
			sub.Orders = append(sub.Orders, row)
		}
		info.SubSongs = append(info.SubSongs, sub)
	}
	return info
}
