// Package indicator drives a status LED from the same cooperative loop
// that services the motors: no sleeps, the level is recomputed from the
// clock on every tick.
package indicator

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/Carlo47/DCmotor-control/internal/hw/gpio"
	"github.com/Carlo47/DCmotor-control/internal/logic/task"
)

var ErrBadBlink = errors.New("blink pulse must be positive and shorter than the period")

// Blinker flashes an LED for pulse out of every period. With ActiveLow set
// the LED is wired between Vcc and the pin (e.g. an ESP-style builtin LED),
// so the pin is driven low to light it.
type Blinker struct {
	drv       gpio.Driver
	clk       clock.Clock
	pin       int
	period    time.Duration
	pulse     time.Duration
	activeLow bool
	epoch     time.Time
}

// NewBlinker configures the LED pin as an output, starting dark.
// A nil clk selects the wall clock.
func NewBlinker(drv gpio.Driver, clk clock.Clock, pin int, period, pulse time.Duration, activeLow bool) (*Blinker, error) {
	if pin < 0 {
		return nil, fmt.Errorf("led pin %d must be non-negative", pin)
	}
	if pulse <= 0 || pulse >= period {
		return nil, fmt.Errorf("pulse %v, period %v: %w", pulse, period, ErrBadBlink)
	}
	if clk == nil {
		clk = clock.New()
	}
	if err := drv.SetupPin(pin, gpio.Output); err != nil {
		return nil, fmt.Errorf("setup led pin %d: %w", pin, err)
	}

	b := &Blinker{
		drv:       drv,
		clk:       clk,
		pin:       pin,
		period:    period,
		pulse:     pulse,
		activeLow: activeLow,
		epoch:     clk.Now(),
	}
	b.write(false)
	return b, nil
}

// Tick recomputes the LED level from the clock: lit for the first pulse of
// every period since construction. The pin is rewritten every call, like
// the motor actuator.
func (b *Blinker) Tick() {
	on := b.clk.Now().Sub(b.epoch)%b.period < b.pulse
	b.write(on)
}

// Task adapts the blinker for the cooperative scheduler.
func (b *Blinker) Task() task.Func {
	return func(*task.Context) { b.Tick() }
}

func (b *Blinker) write(on bool) {
	lv := gpio.Level(on != b.activeLow)
	// Fire-and-forget like the motor path: a failed write is retried by
	// the rewrite on the next tick anyway.
	_ = b.drv.WritePin(b.pin, lv)
}
