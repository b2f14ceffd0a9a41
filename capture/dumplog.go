package capture

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteDumpLog renders writes as the human-readable register dump, one
// line per write. The same format is accepted back by ParseDumpLog, so a
// dump taken from one run can seed another.
func WriteDumpLog(w io.Writer, writes []RegisterWrite) error {
	for _, rw := range writes {
		if rw.Sentinel() {
			continue
		}
		_, err := fmt.Fprintf(w, "; IDX%d %d.%d: SS%d ORD%d ROW%d SYS%d> %d = %d\n",
			rw.WriteIndex,
			rw.Seconds,
			rw.Ticks,
			rw.Row.SubSong,
			rw.Row.Order,
			rw.Row.Row,
			rw.SystemIndex,
			rw.Addr,
			rw.Val,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ParseDumpLog reads a register dump back into a write stream. The log
// format carries no replay rate, so the caller supplies hz. Blank lines
// and comment lines that do not match the dump format are skipped. A
// sentinel is appended from the final write's clock.
func ParseDumpLog(r io.Reader, hz float64) ([]RegisterWrite, error) {
	var writes []RegisterWrite
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "; IDX") {
			continue
		}
		var rw RegisterWrite
		n, err := fmt.Sscanf(line, "; IDX%d %d.%d: SS%d ORD%d ROW%d SYS%d> %d = %d",
			&rw.WriteIndex,
			&rw.Seconds,
			&rw.Ticks,
			&rw.Row.SubSong,
			&rw.Row.Order,
			&rw.Row.Row,
			&rw.SystemIndex,
			&rw.Addr,
			&rw.Val,
		)
		if err != nil || n != 9 {
			return nil, fmt.Errorf("dump line %d: malformed write: %q", lineNo, line)
		}
		rw.Hz = hz
		writes = append(writes, rw)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(writes) > 0 {
		last := writes[len(writes)-1]
		writes = append(writes, RegisterWrite{
			WriteIndex:  last.WriteIndex,
			Row:         last.Row,
			SystemIndex: -1,
			Seconds:     last.Seconds,
			Ticks:       last.Ticks,
			Hz:          hz,
		})
	}
	return writes, nil
}
