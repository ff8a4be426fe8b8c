// Package motor drives a brushed DC motor attached to an H-bridge
// (two direction pins plus one PWM-enabled pin, e.g. an L298N channel).
// Besides the immediate commands (Run, Rotate, Brake) it provides
// non-blocking timed operations meant to be polled from a cooperative
// loop; see timedops.go.
package motor

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/Carlo47/DCmotor-control/internal/debug"
	"github.com/Carlo47/DCmotor-control/internal/hw/gpio"
	"github.com/Carlo47/DCmotor-control/internal/logic/duty"
)

// Rotation is the intended direction of a motor.
type Rotation int

const (
	CW  Rotation = iota // clockwise
	CCW                 // counterclockwise
)

func (r Rotation) String() string {
	if r == CW {
		return "CW"
	}
	return "CCW"
}

// Reversed returns the opposite rotation.
func (r Rotation) Reversed() Rotation {
	if r == CW {
		return CCW
	}
	return CW
}

var (
	ErrBadPins       = errors.New("PWM and direction pins must be non-negative and distinct")
	ErrBadResolution = errors.New("PWM resolution must be 1 to 12 bits")
	ErrBadFrequency  = errors.New("PWM frequency must be positive")
	ErrNoID          = errors.New("motor needs a non-empty id")
)

// Config holds the hardware bindings for one motor. ResolutionBits is the
// PWM resolution shared by all motors in the process.
type Config struct {
	ID             string
	PWMPin         int
	In1Pin         int
	In2Pin         int
	PWMFreqHz      int
	ResolutionBits int
}

// Motor owns one H-bridge channel. All methods must be called from the
// single control goroutine; a Motor is not safe for concurrent use and
// does not need to be.
type Motor struct {
	drv   gpio.Driver
	clk   clock.Clock
	cfg   Config
	scale *duty.Scale

	rotation Rotation
	speed    int // last commanded speed percent

	// Timed-operation bookkeeping. One set per motor: at most one timed
	// operation may be in flight on a motor at a time (caller contract,
	// see timedops.go).
	timed timedState
}

// New validates the bindings, configures the pins and returns a Motor
// asserting CW with duty 0. A nil clk selects the wall clock.
func New(drv gpio.Driver, clk clock.Clock, cfg Config) (*Motor, error) {
	if cfg.ID == "" {
		return nil, ErrNoID
	}
	if cfg.PWMPin < 0 || cfg.In1Pin < 0 || cfg.In2Pin < 0 ||
		cfg.PWMPin == cfg.In1Pin || cfg.PWMPin == cfg.In2Pin || cfg.In1Pin == cfg.In2Pin {
		return nil, fmt.Errorf("motor %s: pins pwm=%d in1=%d in2=%d: %w",
			cfg.ID, cfg.PWMPin, cfg.In1Pin, cfg.In2Pin, ErrBadPins)
	}
	if cfg.ResolutionBits < 1 || cfg.ResolutionBits > 12 {
		return nil, fmt.Errorf("motor %s: %d bits: %w", cfg.ID, cfg.ResolutionBits, ErrBadResolution)
	}
	if cfg.PWMFreqHz <= 0 {
		return nil, fmt.Errorf("motor %s: %d Hz: %w", cfg.ID, cfg.PWMFreqHz, ErrBadFrequency)
	}

	dutyMax := (1 << cfg.ResolutionBits) - 1
	scale, err := duty.NewScale(0, 100, 0, dutyMax)
	if err != nil {
		return nil, fmt.Errorf("motor %s: %w", cfg.ID, err)
	}

	if err := drv.SetupPin(cfg.In1Pin, gpio.Output); err != nil {
		return nil, fmt.Errorf("motor %s: setup in1 pin %d: %w", cfg.ID, cfg.In1Pin, err)
	}
	if err := drv.SetupPin(cfg.In2Pin, gpio.Output); err != nil {
		return nil, fmt.Errorf("motor %s: setup in2 pin %d: %w", cfg.ID, cfg.In2Pin, err)
	}
	if err := drv.SetupPWM(cfg.PWMPin, cfg.PWMFreqHz, uint32(dutyMax)+1); err != nil {
		return nil, fmt.Errorf("motor %s: setup PWM pin %d: %w", cfg.ID, cfg.PWMPin, err)
	}

	if clk == nil {
		clk = clock.New()
	}

	m := &Motor{
		drv:      drv,
		clk:      clk,
		cfg:      cfg,
		scale:    scale,
		rotation: CW,
	}
	m.Rotate(CW)

	debug.Info("Motor %s ready: pwm=%d in1=%d in2=%d freq=%dHz duty 0..%d",
		cfg.ID, cfg.PWMPin, cfg.In1Pin, cfg.In2Pin, cfg.PWMFreqHz, dutyMax)
	return m, nil
}

// Run drives the motor at the given speed percent in the stored rotation
// direction. Speed outside [0,100] is clamped. Both the duty and the
// direction pins are rewritten on every call even when unchanged, so a pin
// disturbed externally is restored on the next command.
func (m *Motor) Run(speed int) {
	speed = clampSpeed(m.cfg.ID, speed)
	m.speed = speed
	d := m.scale.Map(speed)
	debug.Verbose("Motor %s: run speed=%d%% duty=%d", m.cfg.ID, speed, d)
	m.writeDuty(uint32(d))
	m.Rotate(m.rotation)
}

// Rotate asserts the exclusive direction pin pattern for dir and stores it.
// CW = in1 high / in2 low, CCW the inverse. Duty is left untouched.
func (m *Motor) Rotate(dir Rotation) {
	if dir == CW {
		m.writePin(m.cfg.In1Pin, gpio.High)
		m.writePin(m.cfg.In2Pin, gpio.Low)
	} else {
		m.writePin(m.cfg.In1Pin, gpio.Low)
		m.writePin(m.cfg.In2Pin, gpio.High)
	}
	m.rotation = dir
}

// ReverseRotation flips the stored rotation only. The pins change on the
// next Run or Rotate call, not immediately.
func (m *Motor) ReverseRotation() {
	m.rotation = m.rotation.Reversed()
	debug.Motor(m.cfg.ID, "rotation reversed, now %s", m.rotation)
}

// Brake shorts the motor terminals: both direction pins low, duty 0.
// The stored rotation is kept, so motion resumed later continues in the
// previously set direction.
func (m *Motor) Brake() {
	debug.Motor(m.cfg.ID, "brake")
	m.writePin(m.cfg.In1Pin, gpio.Low)
	m.writePin(m.cfg.In2Pin, gpio.Low)
	m.writeDuty(0)
}

// ID returns the motor's identifier.
func (m *Motor) ID() string { return m.cfg.ID }

// Rotation returns the stored rotation direction.
func (m *Motor) Rotation() Rotation { return m.rotation }

// Speed returns the last speed percent commanded via Run.
func (m *Motor) Speed() int { return m.speed }

// Hardware writes on the actuation path are fire-and-forget: a failing
// write is the driver's concern, the control loop keeps ticking.

func (m *Motor) writePin(pin int, lv gpio.Level) {
	if err := m.drv.WritePin(pin, lv); err != nil {
		debug.Error(fmt.Errorf("motor %s: write pin %d: %w", m.cfg.ID, pin, err))
	}
}

func (m *Motor) writeDuty(d uint32) {
	if err := m.drv.WriteDuty(m.cfg.PWMPin, d); err != nil {
		debug.Error(fmt.Errorf("motor %s: write duty %d: %w", m.cfg.ID, d, err))
	}
}

func clampSpeed(id string, speed int) int {
	switch {
	case speed < 0:
		debug.Verbose("Motor %s: speed %d clamped to 0", id, speed)
		return 0
	case speed > 100:
		debug.Verbose("Motor %s: speed %d clamped to 100", id, speed)
		return 100
	default:
		return speed
	}
}
