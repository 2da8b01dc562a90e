//go:build rp2040

package main

import "runtime/interrupt"

func disableIRQ() interrupt.State {
	return interrupt.Disable()
}

func restoreIRQ(state interrupt.State) {
	interrupt.Restore(state)
}
