package core

// Timer represents a scheduled event
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var (
	timerList   *Timer
	currentTime uint32
)

// ScheduleTimer adds a timer to the schedule
func ScheduleTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	insertTimer(t)
}

// DelTimer removes a timer from the schedule if it is queued
func DelTimer(t *Timer) {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if timerList == t {
		timerList = t.Next
		t.Next = nil
		return
	}
	for cur := timerList; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// insertTimer inserts a timer in sorted order by WakeTime.
// Comparisons use the signed difference so ordering survives clock wraparound.
func insertTimer(t *Timer) {
	if timerList == nil || timerBefore(t.WakeTime, timerList.WakeTime) {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && !timerBefore(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

// timerBefore reports whether tick a is strictly earlier than b
func timerBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// TimerDispatch processes due timers.
// Handlers run with interrupts enabled so they may block on USB or I2C.
func TimerDispatch() {
	for {
		timer := popDueTimer()
		if timer == nil {
			return
		}

		if timer.Handler(timer) == SF_RESCHEDULE {
			ScheduleTimer(timer)
		}
	}
}

// popDueTimer unlinks the head timer if its wake time has passed
func popDueTimer() *Timer {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	if timerList == nil || timerBefore(currentTime, timerList.WakeTime) {
		return nil
	}
	timer := timerList
	timerList = timer.Next
	timer.Next = nil
	return timer
}

// ResetTimers drops every queued timer (for testing and restart)
func ResetTimers() {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	timerList = nil
	currentTime = 0
}
