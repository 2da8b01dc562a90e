package core

// Loop schedules the control cycle and the status report on the timer list.
// The firmware main loop only has to keep the clock current and call ProcessTimers.
type Loop struct {
	ctrl *Controller

	cycleTimer  Timer
	reportTimer Timer
	cycleTicks  uint32
	reportTicks uint32

	onReport func(Status)
	onError  func(error)

	running bool
}

// NewLoop creates a loop running ctrl every cycleMs and reporting every reportMs.
// A reportMs of zero or a nil onReport disables reporting.
func NewLoop(ctrl *Controller, cycleMs, reportMs uint32, onReport func(Status), onError func(error)) *Loop {
	l := &Loop{
		ctrl:        ctrl,
		cycleTicks:  TimerFromMS(cycleMs),
		reportTicks: TimerFromMS(reportMs),
		onReport:    onReport,
		onError:     onError,
	}
	l.cycleTimer.Handler = l.cycleEvent
	l.reportTimer.Handler = l.reportEvent
	return l
}

// Start schedules the first cycle one period from now
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true

	now := GetTime()
	l.cycleTimer.WakeTime = now + l.cycleTicks
	ScheduleTimer(&l.cycleTimer)

	if l.reporting() {
		l.reportTimer.WakeTime = now + l.reportTicks
		ScheduleTimer(&l.reportTimer)
	}
}

// Stop removes the loop's timers
func (l *Loop) Stop() {
	DelTimer(&l.cycleTimer)
	DelTimer(&l.reportTimer)
	l.running = false
}

// Running reports whether the loop is scheduled
func (l *Loop) Running() bool {
	return l.running
}

func (l *Loop) reporting() bool {
	return l.onReport != nil && l.reportTicks != 0
}

// cycleEvent runs one control cycle; a cycle error stops the loop
func (l *Loop) cycleEvent(t *Timer) uint8 {
	if err := l.ctrl.Cycle(); err != nil {
		DelTimer(&l.reportTimer)
		l.running = false
		if l.onError != nil {
			l.onError(err)
		}
		return SF_DONE
	}
	nextWake(t, l.cycleTicks)
	return SF_RESCHEDULE
}

// reportEvent hands a status snapshot to the report callback
func (l *Loop) reportEvent(t *Timer) uint8 {
	l.onReport(l.ctrl.Status())
	nextWake(t, l.reportTicks)
	return SF_RESCHEDULE
}

// nextWake advances t by period, skipping missed periods instead of bursting
func nextWake(t *Timer, period uint32) {
	t.WakeTime += period
	if now := GetTime(); !timerBefore(now, t.WakeTime) {
		t.WakeTime = now + period
	}
}
