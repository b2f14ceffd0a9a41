// Package player captures TIA register writes by executing a 6502 player
// image on an emulated CPU, one play-routine call per frame.
package player

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Image header layout, big-endian like the classic tune formats:
//
//	+0  magic "TIAP"
//	+4  version
//	+6  load address
//	+8  init address (called once, A = subsong)
//	+10 play address (called every frame)
//	+12 song count
//	+14 start song
//	+16 payload
const imageMagic = "TIAP"

const headerSize = 16

// Image is a loadable 6502 player with its entry points.
type Image struct {
	Version     uint16
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Songs       uint16
	StartSong   uint16
	Data        []byte
}

// LoadImage parses a player image.
func LoadImage(r io.Reader) (*Image, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) < headerSize {
		return nil, fmt.Errorf("player image too short: %d bytes", len(raw))
	}
	if string(raw[0:4]) != imageMagic {
		return nil, fmt.Errorf("bad player image magic %q", raw[0:4])
	}
	img := &Image{
		Version:     binary.BigEndian.Uint16(raw[4:6]),
		LoadAddress: binary.BigEndian.Uint16(raw[6:8]),
		InitAddress: binary.BigEndian.Uint16(raw[8:10]),
		PlayAddress: binary.BigEndian.Uint16(raw[10:12]),
		Songs:       binary.BigEndian.Uint16(raw[12:14]),
		StartSong:   binary.BigEndian.Uint16(raw[14:16]),
		Data:        raw[headerSize:],
	}
	if img.Songs == 0 {
		img.Songs = 1
	}
	return img, nil
}

// WriteTo serializes the image, for tooling that assembles players.
func (img *Image) WriteTo(w io.Writer) (int64, error) {
	header := make([]byte, headerSize)
	copy(header, imageMagic)
	binary.BigEndian.PutUint16(header[4:6], img.Version)
	binary.BigEndian.PutUint16(header[6:8], img.LoadAddress)
	binary.BigEndian.PutUint16(header[8:10], img.InitAddress)
	binary.BigEndian.PutUint16(header[10:12], img.PlayAddress)
	binary.BigEndian.PutUint16(header[12:14], img.Songs)
	binary.BigEndian.PutUint16(header[14:16], img.StartSong)
	n, err := w.Write(header)
	if err != nil {
		return int64(n), err
	}
	m, err := w.Write(img.Data)
	return int64(n + m), err
}
