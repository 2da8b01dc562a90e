//go:build rp2040

package main

import (
	"machine"

	"powerfeed/protocol"
)

var (
	// txQueue holds whole telemetry and log lines until USB can take them
	txQueue = protocol.NewLineQueue(1024)
	txChunk [64]byte

	consecutiveWriteFailures uint32
)

// InitUSB initializes USB serial communication
// On RP2040, machine.Serial is USB CDC, not UART
func InitUSB() {
	machine.Serial.Configure(machine.UARTConfig{})
}

// queueLine appends one complete line to the USB queue, dropping it if full
func queueLine(line []byte) {
	state := disableIRQ()
	txQueue.PushLine(line)
	restoreIRQ(state)
}

// logLine queues a debug message with the log prefix so the host can tell it from telemetry
func logLine(msg string) {
	var buf [protocol.FrameMax]byte
	line := append(buf[:0], protocol.LogPrefix...)
	line = append(line, msg...)
	if len(line) >= len(buf) {
		line = line[:len(buf)-1]
	}
	line = append(line, '\n')
	queueLine(line)
}

// flushUSB writes queued bytes to USB until the queue is empty or the port stalls
func flushUSB() {
	for {
		state := disableIRQ()
		n := txQueue.Read(txChunk[:])
		restoreIRQ(state)
		if n == 0 {
			return
		}

		written, err := machine.Serial.Write(txChunk[:n])
		if err != nil || written < n {
			// Host not reading; drop the backlog after repeated stalls
			consecutiveWriteFailures++
			if consecutiveWriteFailures > 10 {
				consecutiveWriteFailures = 0
				state = disableIRQ()
				txQueue.Reset()
				restoreIRQ(state)
			}
			return
		}
		consecutiveWriteFailures = 0
	}
}
