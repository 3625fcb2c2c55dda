package ymodem

// abortPeer handles a peer-initiated CAN/0x41/0x61: the engine resets
// silently (no outbound CAN storm) and reports StatusAbort.
func (e *Engine) abortPeer() {
	e.resetToNone()
	e.cb(StatusAbort, nil, nil)
}

// timeoutAbort handles tick-counter exhaustion: CAN storm, StatusTimeout,
// reset to None.
func (e *Engine) timeoutAbort() {
	e.resetToNone()
	e.sendCanStorm()
	e.cb(StatusTimeout, nil, nil)
}

// errorAbort handles error-counter exhaustion: CAN storm, StatusError,
// reset to None.
func (e *Engine) errorAbort() {
	e.resetToNone()
	e.sendCanStorm()
	e.cb(StatusError, nil, nil)
}

// bumpErrorOr bumps the error counter; if it now exceeds ErrorMax it
// aborts with Error and reports true (caller should stop processing),
// otherwise it runs retry and reports false.
func (e *Engine) bumpErrorOr(retry func()) bool {
	if e.bumpError() {
		e.errorAbort()
		return true
	}
	retry()
	return false
}

// tickIdle advances the idle tick counter and, if the engine has timed
// out, aborts with Timeout and reports true. Otherwise it reports
// whether this tick falls on a repoll boundary.
func (e *Engine) tickIdle() (timedOut, shouldRepoll bool) {
	e.timeCount++
	if e.tickTimedOut() {
		e.timeoutAbort()
		return true, false
	}
	return false, e.tickShouldRepoll()
}
