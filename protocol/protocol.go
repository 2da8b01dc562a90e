// Package protocol implements the power feed USB telemetry line protocol
package protocol

// Version represents the power feed firmware version
const Version = "0.1.0"

// Line protocol constants
const (
	FrameMax    = 128  // Maximum encoded frame length including newline
	FramePrefix = "PF" // Every telemetry frame starts with this token
	LogPrefix   = "# " // Debug log lines are sent with this prefix
	ChecksumSep = '*'  // Separates the frame body from its CRC16
)
