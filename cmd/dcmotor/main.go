// Command dcmotor drives brushed DC motors on an L298N dual H-bridge from
// a single cooperative polling loop, while the status LED blinks on the
// same loop. Motor wiring comes from a YAML config; the demo motion
// mirrors the classic two-motor setup: motor A cycles run/pause/reverse,
// motor B runs a full ramp profile.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Carlo47/DCmotor-control/internal/config"
	"github.com/Carlo47/DCmotor-control/internal/debug"
	"github.com/Carlo47/DCmotor-control/internal/hw/gpio"
	"github.com/Carlo47/DCmotor-control/internal/hw/indicator"
	"github.com/Carlo47/DCmotor-control/internal/hw/motor"
	"github.com/Carlo47/DCmotor-control/internal/logic/motion"
	"github.com/Carlo47/DCmotor-control/internal/logic/task"
)

func main() {
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	mock := flag.Bool("mock", false, "force the mock GPIO driver regardless of config")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("PWM resolution bits", cfg.PWMResolutionBits)

	useMock := cfg.Defaults.MockGPIO || *mock
	debug.Value("Mock GPIO", useMock)
	gpioDriver, err := gpio.NewDriver(useMock)
	if err != nil {
		log.Fatalf("init GPIO failed: %v", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	motors, err := buildMotors(gpioDriver, cfg)
	if err != nil {
		log.Fatalf("init motors failed: %v", err)
	}

	led, err := indicator.NewBlinker(gpioDriver, nil, cfg.LED.Pin, cfg.LEDPeriod(), cfg.LEDPulse(), cfg.LED.ActiveLow)
	if err != nil {
		log.Fatalf("init status LED failed: %v", err)
	}

	sched := task.NewScheduler(nil)
	sched.Add("led", led.Task())
	assignDemoTasks(sched, motors)

	debug.Section("Polling Loop")
	if err := sched.Run(ctx, cfg.Tick()); err != nil {
		log.Fatalf("polling loop: %v", err)
	}
}

// buildMotors constructs one Motor per configured channel.
func buildMotors(drv gpio.Driver, cfg *config.Config) ([]*motor.Motor, error) {
	motors := make([]*motor.Motor, 0, len(cfg.Motors))
	for _, mc := range cfg.Motors {
		m, err := motor.New(drv, nil, motor.Config{
			ID:             mc.ID,
			PWMPin:         mc.PWMPin,
			In1Pin:         mc.In1Pin,
			In2Pin:         mc.In2Pin,
			PWMFreqHz:      mc.PWMFreqHz,
			ResolutionBits: cfg.PWMResolutionBits,
		})
		if err != nil {
			return nil, fmt.Errorf("motor %s: %w", mc.ID, err)
		}
		motors = append(motors, m)
	}
	return motors, nil
}

// assignDemoTasks gives the second motor a full ramp profile and every
// other motor a run/pause/reverse cycle.
func assignDemoTasks(sched *task.Scheduler, motors []*motor.Motor) {
	for i, m := range motors {
		name := "motor-" + m.ID()
		if i == 1 {
			// Accelerate 0 -> 100% in 6s, cruise at 50% for 2s, slow
			// down to 0 in 5s, reverse, rest 5s, repeat.
			sched.Add(name, motion.RampProfile(m, motion.Profile{
				TopSpeed:    100,
				UpStep:      60 * time.Millisecond,
				CruiseSpeed: 50,
				CruiseFor:   2000 * time.Millisecond,
				DownStep:    100 * time.Millisecond,
				Rest:        5000 * time.Millisecond,
			}))
			continue
		}
		// Run 1s at 30%, rest 0.5s, reverse, repeat.
		sched.Add(name, motion.RunPauseReverse(m, 30, 1000*time.Millisecond, 500*time.Millisecond))
	}
}
