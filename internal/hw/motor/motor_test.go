package motor

import (
	"errors"
	"testing"

	"github.com/benbjohnson/clock"

	"github.com/Carlo47/DCmotor-control/internal/hw/gpio"
)

// recordingDriver records GPIO and PWM calls for verification.
type recordingDriver struct {
	calls []hwCall
}

type hwCall struct {
	op    string // "setup", "write", "pwm-setup", "duty"
	pin   int
	level gpio.Level
	duty  uint32
}

func (d *recordingDriver) SetupPin(pin int, mode gpio.PinMode) error {
	d.calls = append(d.calls, hwCall{op: "setup", pin: pin})
	return nil
}

func (d *recordingDriver) WritePin(pin int, level gpio.Level) error {
	d.calls = append(d.calls, hwCall{op: "write", pin: pin, level: level})
	return nil
}

func (d *recordingDriver) SetupPWM(pin int, freqHz int, cycleLen uint32) error {
	d.calls = append(d.calls, hwCall{op: "pwm-setup", pin: pin})
	return nil
}

func (d *recordingDriver) WriteDuty(pin int, duty uint32) error {
	d.calls = append(d.calls, hwCall{op: "duty", pin: pin, duty: duty})
	return nil
}

func (d *recordingDriver) Close() error {
	return nil
}

func (d *recordingDriver) writesForPin(pin int) []hwCall {
	var result []hwCall
	for _, c := range d.calls {
		if c.op == "write" && c.pin == pin {
			result = append(result, c)
		}
	}
	return result
}

func (d *recordingDriver) lastLevel(t *testing.T, pin int) gpio.Level {
	t.Helper()
	writes := d.writesForPin(pin)
	if len(writes) == 0 {
		t.Fatalf("no writes on pin %d", pin)
	}
	return writes[len(writes)-1].level
}

func (d *recordingDriver) duties() []uint32 {
	var result []uint32
	for _, c := range d.calls {
		if c.op == "duty" {
			result = append(result, c.duty)
		}
	}
	return result
}

func testConfig() Config {
	return Config{
		ID:             "A",
		PWMPin:         18,
		In1Pin:         23,
		In2Pin:         24,
		PWMFreqHz:      220,
		ResolutionBits: 10,
	}
}

func newTestMotor(t *testing.T) (*Motor, *recordingDriver, *clock.Mock) {
	t.Helper()
	drv := &recordingDriver{}
	clk := clock.NewMock()
	m, err := New(drv, clk, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	drv.calls = nil // reset after init
	return m, drv, clk
}

func TestNew_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty id", func(c *Config) { c.ID = "" }, ErrNoID},
		{"negative pin", func(c *Config) { c.In1Pin = -1 }, ErrBadPins},
		{"duplicate pins", func(c *Config) { c.In2Pin = c.In1Pin }, ErrBadPins},
		{"pwm equals dir", func(c *Config) { c.PWMPin = c.In1Pin }, ErrBadPins},
		{"zero resolution", func(c *Config) { c.ResolutionBits = 0 }, ErrBadResolution},
		{"too wide", func(c *Config) { c.ResolutionBits = 13 }, ErrBadResolution},
		{"zero frequency", func(c *Config) { c.PWMFreqHz = 0 }, ErrBadFrequency},
	}
	for _, tc := range cases {
		cfg := testConfig()
		tc.mutate(&cfg)
		_, err := New(&recordingDriver{}, clock.NewMock(), cfg)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestNew_AssertsCW(t *testing.T) {
	drv := &recordingDriver{}
	m, err := New(drv, clock.NewMock(), testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Rotation() != CW {
		t.Errorf("initial rotation = %v, want CW", m.Rotation())
	}
	if drv.lastLevel(t, 23) != gpio.High || drv.lastLevel(t, 24) != gpio.Low {
		t.Error("initial pin pattern should be CW (in1 high, in2 low)")
	}
}

func TestRun_WritesDutyAndDirection(t *testing.T) {
	m, drv, _ := newTestMotor(t)

	m.Run(50)

	duties := drv.duties()
	if len(duties) != 1 || duties[0] != 512 {
		t.Errorf("Run(50) duties = %v, want [512] at 10 bits", duties)
	}
	// Direction re-asserted even though unchanged.
	if drv.lastLevel(t, 23) != gpio.High || drv.lastLevel(t, 24) != gpio.Low {
		t.Error("Run should re-assert the stored CW pattern")
	}
	if m.Speed() != 50 {
		t.Errorf("Speed() = %d, want 50", m.Speed())
	}
}

func TestRun_AlwaysWrites(t *testing.T) {
	m, drv, _ := newTestMotor(t)

	m.Run(40)
	m.Run(40)

	if got := len(drv.duties()); got != 2 {
		t.Errorf("two identical Run calls should write duty twice, got %d", got)
	}
}

func TestRun_ClampsSpeed(t *testing.T) {
	m, drv, _ := newTestMotor(t)

	m.Run(150)
	m.Run(-20)

	duties := drv.duties()
	if len(duties) != 2 || duties[0] != 1023 || duties[1] != 0 {
		t.Errorf("duties = %v, want [1023 0]", duties)
	}
	if m.Speed() != 0 {
		t.Errorf("Speed() = %d, want 0 after clamp", m.Speed())
	}
}

func TestRotate_ExclusivePatterns(t *testing.T) {
	m, drv, _ := newTestMotor(t)

	m.Rotate(CCW)
	if drv.lastLevel(t, 23) != gpio.Low || drv.lastLevel(t, 24) != gpio.High {
		t.Error("CCW should set in1 low, in2 high")
	}

	m.Rotate(CW)
	if drv.lastLevel(t, 23) != gpio.High || drv.lastLevel(t, 24) != gpio.Low {
		t.Error("CW should set in1 high, in2 low")
	}

	if got := len(drv.duties()); got != 0 {
		t.Errorf("Rotate must not touch duty, got %d duty writes", got)
	}
}

func TestReverseRotation_DeferredUntilNextRun(t *testing.T) {
	m, drv, _ := newTestMotor(t)

	m.ReverseRotation()
	if m.Rotation() != CCW {
		t.Errorf("rotation = %v, want CCW", m.Rotation())
	}
	if len(drv.calls) != 0 {
		t.Errorf("ReverseRotation must not touch pins, got %d calls", len(drv.calls))
	}

	m.Run(30)
	if drv.lastLevel(t, 23) != gpio.Low || drv.lastLevel(t, 24) != gpio.High {
		t.Error("next Run should assert the flipped CCW pattern")
	}
}

func TestBrake(t *testing.T) {
	m, drv, _ := newTestMotor(t)
	m.Rotate(CCW)
	m.Run(80)
	drv.calls = nil

	m.Brake()

	if drv.lastLevel(t, 23) != gpio.Low || drv.lastLevel(t, 24) != gpio.Low {
		t.Error("Brake should clear both direction pins")
	}
	duties := drv.duties()
	if len(duties) != 1 || duties[0] != 0 {
		t.Errorf("Brake duties = %v, want [0]", duties)
	}
	if m.Rotation() != CCW {
		t.Error("Brake must keep the stored rotation")
	}
}

func TestID(t *testing.T) {
	m, _, _ := newTestMotor(t)
	if m.ID() != "A" {
		t.Errorf("ID() = %q, want %q", m.ID(), "A")
	}
}

func TestRotation_Reversed(t *testing.T) {
	if CW.Reversed() != CCW || CCW.Reversed() != CW {
		t.Error("Reversed should swap CW and CCW")
	}
	if CW.String() != "CW" || CCW.String() != "CCW" {
		t.Error("unexpected Rotation string values")
	}
}
