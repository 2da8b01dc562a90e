package protocol

import (
	"bytes"
	"errors"
	"strconv"
)

var (
	ErrBadFrame    = errors.New("protocol: malformed status frame")
	ErrBadChecksum = errors.New("protocol: status frame checksum mismatch")
)

// StatusReport is one periodic telemetry sample from the firmware.
// Mode, Cause and Motor carry the core enum names ("fwd", "limit", "ccw").
type StatusReport struct {
	Seq           uint32
	Mode          string
	Cause         string
	Motor         string
	RPM           uint16
	IntervalUs    uint32
	Rapid         bool
	FeedRate      uint16
	RapidFeedRate uint16
}

// Encode writes the report as one line:
//
//	PF seq=7 mode=fwd cause=none motor=ccw rpm=10 us=468 rapid=0 feed=10 rrate=75 *XXXX\n
//
// XXXX is the CRC16 of every byte before '*'.
func (r *StatusReport) Encode(out OutputBuffer) {
	var buf [FrameMax]byte
	line := buf[:0]

	line = append(line, FramePrefix...)
	line = appendField(line, "seq", r.Seq)
	line = appendText(line, "mode", r.Mode)
	line = appendText(line, "cause", r.Cause)
	line = appendText(line, "motor", r.Motor)
	line = appendField(line, "rpm", uint32(r.RPM))
	line = appendField(line, "us", r.IntervalUs)
	if r.Rapid {
		line = appendField(line, "rapid", 1)
	} else {
		line = appendField(line, "rapid", 0)
	}
	line = appendField(line, "feed", uint32(r.FeedRate))
	line = appendField(line, "rrate", uint32(r.RapidFeedRate))
	line = append(line, ' ')

	crc := CRC16(line)
	line = append(line, ChecksumSep)
	line = appendHex16(line, crc)
	line = append(line, '\n')

	out.Output(line)
}

func appendText(dst []byte, key, value string) []byte {
	dst = append(dst, ' ')
	dst = append(dst, key...)
	dst = append(dst, '=')
	return append(dst, value...)
}

func appendField(dst []byte, key string, value uint32) []byte {
	dst = append(dst, ' ')
	dst = append(dst, key...)
	dst = append(dst, '=')
	return strconv.AppendUint(dst, uint64(value), 10)
}

// IsStatusFrame reports whether line looks like a telemetry frame rather than a log line
func IsStatusFrame(line []byte) bool {
	return bytes.HasPrefix(line, []byte(FramePrefix+" "))
}

// ParseStatusReport decodes one frame. Trailing CR/LF is ignored,
// unknown keys are skipped and every known key is required.
func ParseStatusReport(line []byte) (StatusReport, error) {
	var r StatusReport

	line = bytes.TrimRight(line, "\r\n")
	if !IsStatusFrame(line) {
		return r, ErrBadFrame
	}

	star := bytes.LastIndexByte(line, ChecksumSep)
	if star < 0 {
		return r, ErrBadFrame
	}
	want, ok := parseHex16(line[star+1:])
	if !ok {
		return r, ErrBadFrame
	}
	if CRC16(line[:star]) != want {
		return r, ErrBadChecksum
	}

	const (
		hasSeq = 1 << iota
		hasMode
		hasCause
		hasMotor
		hasRPM
		hasUs
		hasRapid
		hasFeed
		hasRRate
		hasAll = 1<<iota - 1
	)
	var seen int

	for _, tok := range bytes.Fields(line[len(FramePrefix):star]) {
		eq := bytes.IndexByte(tok, '=')
		if eq <= 0 {
			return r, ErrBadFrame
		}
		key, val := string(tok[:eq]), string(tok[eq+1:])

		var err error
		switch key {
		case "seq":
			r.Seq, err = parseU32(val)
			seen |= hasSeq
		case "mode":
			r.Mode = val
			seen |= hasMode
		case "cause":
			r.Cause = val
			seen |= hasCause
		case "motor":
			r.Motor = val
			seen |= hasMotor
		case "rpm":
			r.RPM, err = parseU16(val)
			seen |= hasRPM
		case "us":
			r.IntervalUs, err = parseU32(val)
			seen |= hasUs
		case "rapid":
			switch val {
			case "0":
				r.Rapid = false
			case "1":
				r.Rapid = true
			default:
				err = ErrBadFrame
			}
			seen |= hasRapid
		case "feed":
			r.FeedRate, err = parseU16(val)
			seen |= hasFeed
		case "rrate":
			r.RapidFeedRate, err = parseU16(val)
			seen |= hasRRate
		}
		if err != nil {
			return r, ErrBadFrame
		}
	}

	if seen != hasAll {
		return r, ErrBadFrame
	}
	return r, nil
}

func parseU32(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	return uint32(v), err
}

func parseU16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 10, 16)
	return uint16(v), err
}
