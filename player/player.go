package player

import (
	"fmt"

	"github.com/beevik/go6502/cpu"

	"tiaforge/capture"
)

// maxRoutineInstructions bounds one init or play call so a wedged player
// cannot hang the capture.
const maxRoutineInstructions = 0xffff

// tiaWriteLow..tiaWriteHigh is the audio register window trapped during
// playback: AUDC0 through AUDV1.
const (
	tiaWriteLow  = 0x15
	tiaWriteHigh = 0x1a
)

// Player executes a 6502 player image and exposes the trapped TIA writes
// as a capture.Engine. Each NextTick is one play-routine call, one frame.
type Player struct {
	// Speed is how many frames one tracker row lasts.
	Speed int
	// PatternLen is how many rows one order holds.
	PatternLen int
	// FrameRate is the replay rate in frames per second.
	FrameRate float64
	// MaxFrames stops capture when the image never ends on its own.
	MaxFrames int

	img       *Image
	mem       *trapMemory
	cpu       *cpu.CPU
	subsong   int
	playing   bool
	capturing bool
	frame     int
	seconds   int
	ticks     int
	pending   []capture.ChipWrite
}

// New wires a player around a loaded image.
func New(img *Image) *Player {
	p := &Player{
		Speed:      8,
		PatternLen: 16,
		FrameRate:  60,
		MaxFrames:  60 * 60 * 5,
		img:        img,
	}
	p.mem = &trapMemory{player: p}
	p.cpu = cpu.NewCPU(cpu.NMOS, p.mem)
	return p
}

// SystemCount implements capture.Engine; a player hosts one TIA.
func (p *Player) SystemCount() int { return 1 }

// SetRegisterDump toggles write trapping.
func (p *Player) SetRegisterDump(enabled bool) {
	p.capturing = enabled
	if !enabled {
		p.pending = nil
	}
}

// PrepareSubSong selects the tune the next Play starts.
func (p *Player) PrepareSubSong(subsong int) error {
	if subsong < 0 || subsong >= int(p.img.Songs) {
		return fmt.Errorf("subsong %d out of range (%d songs)", subsong, p.img.Songs)
	}
	p.subsong = subsong
	p.playing = false
	return nil
}

// Play loads the image into memory and runs the init routine.
func (p *Player) Play() error {
	p.mem.reset()
	p.mem.load(p.img.LoadAddress, p.img.Data)
	p.frame = 0
	p.seconds = 0
	p.ticks = 0
	p.pending = nil

	if err := p.runRoutine(p.img.InitAddress, uint8(p.subsong)); err != nil {
		return fmt.Errorf("init routine: %w", err)
	}
	// init-time writes are setup noise, not part of the song
	p.pending = nil
	p.playing = true
	return nil
}

// IsPlaying reports whether the song is still playing.
func (p *Player) IsPlaying() bool { return p.playing }

// NextTick runs the play routine for one frame and advances the clock.
func (p *Player) NextTick() (bool, error) {
	if !p.playing {
		return true, nil
	}
	if p.frame >= p.MaxFrames {
		p.playing = false
		return true, nil
	}
	if err := p.runRoutine(p.img.PlayAddress, 0); err != nil {
		p.playing = false
		return true, fmt.Errorf("play routine at frame %d: %w", p.frame, err)
	}
	p.frame++
	p.ticks += capture.TicksPerFrame(p.FrameRate)
	for p.ticks >= capture.TicksPerSecond {
		p.ticks -= capture.TicksPerSecond
		p.seconds++
	}
	return false, nil
}

// DrainWrites returns and clears the writes trapped since the last call.
func (p *Player) DrainWrites(system int) []capture.ChipWrite {
	if system != 0 {
		return nil
	}
	writes := p.pending
	p.pending = nil
	return writes
}

// Position derives the tracker position of the most recently played
// frame from the frame counter.
func (p *Player) Position() capture.RowIndex {
	frame := p.frame - 1
	if frame < 0 {
		frame = 0
	}
	rowsTotal := frame / p.Speed
	return capture.RowIndex{
		SubSong: p.subsong,
		Order:   rowsTotal / p.PatternLen,
		Row:     rowsTotal % p.PatternLen,
	}
}

// TotalSeconds and TotalTicks report the playback clock.
func (p *Player) TotalSeconds() int { return p.seconds }
func (p *Player) TotalTicks() int   { return p.ticks }

// Hz is the replay rate.
func (p *Player) Hz() float64 { return p.FrameRate }

// runRoutine calls a 6502 routine and steps until it returns. A routine
// ends on BRK, or on RTS/RTI with an empty stack.
func (p *Player) runRoutine(addr uint16, a uint8) error {
	p.cpu.SetPC(addr)
	p.cpu.Reg.A = a
	p.cpu.Reg.X = 0
	p.cpu.Reg.Y = 0
	p.cpu.Reg.SP = 0xff

	for i := 0; i < maxRoutineInstructions; i++ {
		p.cpu.Step()
		opcode := p.cpu.Mem.LoadByte(p.cpu.Reg.PC)
		inst := p.cpu.InstSet.Lookup(opcode)
		switch {
		case inst.Opcode == 0x00:
			return nil
		case inst.Opcode == 0x40 && p.cpu.Reg.SP == 0xff:
			return nil
		case inst.Opcode == 0x60 && p.cpu.Reg.SP == 0xff:
			return nil
		}
	}
	return fmt.Errorf("routine at $%04x exceeded %d instructions", addr, maxRoutineInstructions)
}

// trap records a write when it lands in the TIA audio register window.
func (p *Player) trap(addr uint16, v byte) {
	if !p.capturing {
		return
	}
	if addr < tiaWriteLow || addr > tiaWriteHigh {
		return
	}
	p.pending = append(p.pending, capture.ChipWrite{Addr: uint32(addr), Val: uint32(v)})
}

// trapMemory is a flat 64K address space that reports stores back to the
// player. Address loads wrap within the page the way the NMOS 6502 does.
type trapMemory struct {
	b      [64 * 1024]byte
	player *Player
}

func (m *trapMemory) reset() {
	m.b = [64 * 1024]byte{}
}

func (m *trapMemory) load(addr uint16, data []byte) {
	copy(m.b[addr:], data)
}

func (m *trapMemory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

func (m *trapMemory) LoadBytes(addr uint16, b []byte) {
	if int(addr)+len(b) <= len(m.b) {
		copy(b, m.b[addr:])
		return
	}
	r0 := len(m.b) - int(addr)
	copy(b, m.b[addr:])
	copy(b[r0:], make([]byte, len(b)-r0))
}

func (m *trapMemory) LoadAddress(addr uint16) uint16 {
	if (addr & 0xff) == 0xff {
		return uint16(m.b[addr]) | uint16(m.b[addr-0xff])<<8
	}
	return uint16(m.b[addr]) | uint16(m.b[addr+1])<<8
}

func (m *trapMemory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
	m.player.trap(addr, v)
}

func (m *trapMemory) StoreBytes(addr uint16, b []byte) {
	copy(m.b[addr:], b)
}

func (m *trapMemory) StoreAddress(addr uint16, v uint16) {
	m.b[addr] = byte(v & 0xff)
	if (addr & 0xff) == 0xff {
		m.b[addr-0xff] = byte(v >> 8)
	} else {
		m.b[addr+1] = byte(v >> 8)
	}
}
