package motor

import (
	"time"

	"github.com/Carlo47/DCmotor-control/internal/debug"
)

// Timed operations are resumable: each call performs one bounded unit of
// work and returns true only when the cycle has completed, at which point
// the state rearms and the next call starts a fresh cycle. Callers poll
// them every tick of their loop; nothing here blocks or sleeps.
//
// Caller contract: at most one timed operation may be in flight on a motor
// at a time. Starting a different timed operation while another cycle is
// running reuses its anchor state and produces undefined motion.

// phase of the per-motor timed-operation state machine.
type phase int

const (
	phaseIdle    phase = iota // no cycle in flight; next call anchors a new one
	phaseRunning              // cycle anchored, ticking towards completion
)

// rampDirection is fixed at the start of an Accelerate cycle.
type rampDirection int

const (
	rampConstant rampDirection = iota
	rampIncreasing
	rampDecreasing
)

type timedState struct {
	phase     phase
	anchor    time.Time // when the current cycle or ramp step began
	ramp      rampDirection
	rampSpeed int
}

// SpeedHold is an explicit sentinel for RunFor: do not re-actuate the motor
// this tick, only keep the cycle timer running. Useful when something else
// (e.g. a ramp) already commands the speed.
const SpeedHold = -1

// RunFor runs the motor at the given speed for at least d, then brakes.
// Returns true on the first call where the cycle is complete. The elapsed
// check is strictly greater-than, so the motor runs slightly longer than d,
// never shorter. Pass SpeedHold to leave the current actuation untouched.
func (m *Motor) RunFor(speed int, d time.Duration) bool {
	if m.timed.phase == phaseIdle {
		m.timed.anchor = m.clk.Now()
		m.timed.phase = phaseRunning
		debug.Motor(m.cfg.ID, "runFor speed=%d for %v", speed, d)
	}
	if speed >= 0 {
		m.Run(speed)
	}
	if m.clk.Now().Sub(m.timed.anchor) > d {
		m.Brake()
		m.timed.phase = phaseIdle
		return true
	}
	return false
}

// WaitFor brakes the motor once on entry, then idles for d. Returns true on
// the first call after d has elapsed and rearms. Brake is not re-issued on
// subsequent ticks of the same cycle.
func (m *Motor) WaitFor(d time.Duration) bool {
	if m.timed.phase == phaseIdle {
		m.Brake()
		m.timed.anchor = m.clk.Now()
		m.timed.phase = phaseRunning
		debug.Motor(m.cfg.ID, "waitFor %v", d)
	}
	if m.clk.Now().Sub(m.timed.anchor) > d {
		m.timed.phase = phaseIdle
		return true
	}
	return false
}

// Accelerate ramps the motor from speedFrom to speedTo in steps of exactly
// one speed percent, holding each step for step duration, so a full ramp
// takes about |speedTo-speedFrom| * step. The motor is re-commanded at the
// current ramp speed on every call. When speedFrom equals speedTo the cycle
// completes on its very first call, with the motor commanded once.
func (m *Motor) Accelerate(speedFrom, speedTo int, step time.Duration) bool {
	if m.timed.phase == phaseIdle {
		m.timed.rampSpeed = speedFrom
		m.timed.anchor = m.clk.Now()
		switch {
		case speedFrom < speedTo:
			m.timed.ramp = rampIncreasing
		case speedFrom > speedTo:
			m.timed.ramp = rampDecreasing
		default:
			m.timed.ramp = rampConstant
		}
		m.timed.phase = phaseRunning
		debug.Motor(m.cfg.ID, "accelerate %d -> %d, %v per step", speedFrom, speedTo, step)
	}

	m.Run(m.timed.rampSpeed)

	switch m.timed.ramp {
	case rampIncreasing:
		if m.timed.rampSpeed > speedTo {
			m.timed.phase = phaseIdle
			return true
		}
		if now := m.clk.Now(); now.Sub(m.timed.anchor) > step {
			m.timed.anchor = now
			m.timed.rampSpeed++
		}
	case rampDecreasing:
		if m.timed.rampSpeed < speedTo {
			m.timed.phase = phaseIdle
			return true
		}
		if now := m.clk.Now(); now.Sub(m.timed.anchor) > step {
			m.timed.anchor = now
			m.timed.rampSpeed--
		}
	case rampConstant:
		m.timed.phase = phaseIdle
		return true
	}
	return false
}
