package gpio

import (
	"fmt"

	"github.com/Carlo47/DCmotor-control/internal/debug"
	"github.com/stianeikeland/go-rpio/v4"
)

// RPiDriver is the real implementation for Raspberry Pi using go-rpio.
type RPiDriver struct {
	pins   map[int]rpio.Pin
	cycles map[int]uint32 // PWM cycle length per configured PWM pin
}

// NewRPiRealDriver creates a real GPIO driver for Raspberry Pi.
// Requires running on a Raspberry Pi with access to /dev/gpiomem or as root.
func NewRPiRealDriver() (*RPiDriver, error) {
	debug.Info("Initializing real GPIO driver (go-rpio)")

	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w (are you running on a Raspberry Pi?)", err)
	}

	debug.Verbose("GPIO memory mapped successfully")

	return &RPiDriver{
		pins:   make(map[int]rpio.Pin),
		cycles: make(map[int]uint32),
	}, nil
}

func (r *RPiDriver) SetupPin(pin int, mode PinMode) error {
	debug.GPIO("SetupPin", pin, mode)

	p := rpio.Pin(pin)
	r.pins[pin] = p

	switch mode {
	case Input:
		p.Input()
	case Output:
		p.Output()
	default:
		return fmt.Errorf("unknown pin mode: %d", mode)
	}

	return nil
}

func (r *RPiDriver) WritePin(pin int, level Level) error {
	debug.GPIO("WritePin", pin, level)

	p, ok := r.pins[pin]
	if !ok {
		// Pin not setup yet, setup as output
		if err := r.SetupPin(pin, Output); err != nil {
			return err
		}
		p = r.pins[pin]
	}

	if level == High {
		p.High()
	} else {
		p.Low()
	}

	return nil
}

func (r *RPiDriver) SetupPWM(pin int, freqHz int, cycleLen uint32) error {
	debug.PWM("SetupPWM", pin, freqHz)

	if cycleLen == 0 || cycleLen > 4096 {
		return fmt.Errorf("PWM cycle length %d out of range [1,4096] on pin %d", cycleLen, pin)
	}

	p := rpio.Pin(pin)
	r.pins[pin] = p
	r.cycles[pin] = cycleLen

	p.Pwm()
	// go-rpio's Freq sets the PWM clock; the output frequency is the clock
	// divided by the cycle length.
	p.Freq(freqHz * int(cycleLen))
	p.DutyCycle(0, cycleLen)

	return nil
}

func (r *RPiDriver) WriteDuty(pin int, duty uint32) error {
	debug.PWM("WriteDuty", pin, duty)

	cycle, ok := r.cycles[pin]
	if !ok {
		return fmt.Errorf("pin %d is not configured for PWM", pin)
	}
	if duty >= cycle {
		duty = cycle - 1
	}

	r.pins[pin].DutyCycle(duty, cycle)
	return nil
}

func (r *RPiDriver) Close() error {
	debug.Trace("GPIO Close (real driver)")

	// Reset all pins to input (safe state)
	for pin, p := range r.pins {
		debug.Verbose("Resetting pin %d to input", pin)
		p.Input()
	}

	return rpio.Close()
}
