// Package motion composes the motor's timed operations into reusable
// multi-phase sequences. Each builder returns a task.Func whose phase lives
// in the scheduler-owned context, so the same motor can be given a different
// sequence without any shared globals.
package motion

import (
	"time"

	"github.com/Carlo47/DCmotor-control/internal/hw/motor"
	"github.com/Carlo47/DCmotor-control/internal/logic/task"
)

// Phases of RunPauseReverse.
const (
	cycleRun = iota
	cyclePause
)

// RunPauseReverse runs m at speed for run, brakes and rests for pause,
// reverses the rotation and repeats, forever. When a step completes the
// next one starts within the same tick, so no tick is wasted between
// phases.
func RunPauseReverse(m *motor.Motor, speed int, run, pause time.Duration) task.Func {
	return func(tc *task.Context) {
		if tc.Phase == cycleRun {
			if m.RunFor(speed, run) {
				tc.Phase = cyclePause
			}
		}
		if tc.Phase == cyclePause {
			if m.WaitFor(pause) {
				m.ReverseRotation()
				tc.Phase = cycleRun
			}
		}
	}
}

// Phases of RampProfile.
const (
	profileUp = iota
	profileCruise
	profileDown
	profileRest
)

// Profile describes one full ramp cycle: accelerate from zero to TopSpeed,
// cruise, decelerate back to zero, then rest with the rotation reversed.
type Profile struct {
	TopSpeed    int           // upward ramp target, percent
	UpStep      time.Duration // duration of each 1% step upward
	CruiseSpeed int           // percent held during the cruise phase
	CruiseFor   time.Duration // cruise duration
	DownStep    time.Duration // duration of each 1% step downward
	Rest        time.Duration // pause before the cycle repeats
}

// RampProfile runs p on m as an endless cycle:
// ramp 0 -> TopSpeed, cruise, ramp CruiseSpeed -> 0, brake and reverse,
// rest, repeat.
func RampProfile(m *motor.Motor, p Profile) task.Func {
	return func(tc *task.Context) {
		if tc.Phase == profileUp {
			if m.Accelerate(0, p.TopSpeed, p.UpStep) {
				tc.Phase = profileCruise
			}
		}
		if tc.Phase == profileCruise {
			if m.RunFor(p.CruiseSpeed, p.CruiseFor) {
				tc.Phase = profileDown
			}
		}
		if tc.Phase == profileDown {
			if m.Accelerate(p.CruiseSpeed, 0, p.DownStep) {
				m.Brake()
				m.ReverseRotation()
				tc.Phase = profileRest
			}
		}
		if tc.Phase == profileRest {
			if m.WaitFor(p.Rest) {
				tc.Phase = profileUp
			}
		}
	}
}
