package gpio

import (
	"github.com/Carlo47/DCmotor-control/internal/debug"
)

// Level represents the logical state of a GPIO pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// PinMode indicates whether a GPIO is input or output.
type PinMode int

const (
	Input PinMode = iota
	Output
)

// Driver defines the abstract interface for controlling GPIOs and PWM
// channels. This allows plugging in a real Raspberry Pi implementation
// or a mock for development on PC.
type Driver interface {
	SetupPin(pin int, mode PinMode) error
	WritePin(pin int, level Level) error
	// SetupPWM configures a hardware PWM channel on the given pin with the
	// requested output frequency and a cycle length of cycleLen steps.
	// Duty values written afterwards are interpreted against that cycle.
	SetupPWM(pin int, freqHz int, cycleLen uint32) error
	// WriteDuty sets the duty of a previously configured PWM channel,
	// as a raw value in [0, cycleLen-1].
	WriteDuty(pin int, duty uint32) error
	Close() error
}

// MockDriver is a test implementation that simply logs actions.
// Used for development on PC or testing.
type MockDriver struct{}

// NewDriver creates a GPIO driver based on the chosen mode.
// If mock is true, returns a MockDriver (for dev/test).
// If mock is false, returns a real RPiDriver (for Raspberry Pi).
func NewDriver(mock bool) (Driver, error) {
	if mock {
		debug.Info("Using MOCK GPIO driver (development mode)")
		return &MockDriver{}, nil
	}
	return NewRPiRealDriver()
}

func (m *MockDriver) SetupPin(pin int, mode PinMode) error {
	debug.GPIO("SetupPin", pin, mode)
	return nil
}

func (m *MockDriver) WritePin(pin int, level Level) error {
	debug.GPIO("WritePin", pin, level)
	return nil
}

func (m *MockDriver) SetupPWM(pin int, freqHz int, cycleLen uint32) error {
	debug.PWM("SetupPWM", pin, freqHz)
	return nil
}

func (m *MockDriver) WriteDuty(pin int, duty uint32) error {
	debug.PWM("WriteDuty", pin, duty)
	return nil
}

func (m *MockDriver) Close() error {
	debug.Trace("GPIO Close (mock)")
	return nil
}
