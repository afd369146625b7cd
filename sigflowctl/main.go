package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/sigflow/sigflow"
	"github.com/sigflow/sigflow/device"
	"github.com/sigflow/sigflow/ratelimit"
	"github.com/sigflow/sigflow/sched"
)

const SigflowCtlVersion = "0.0.1"

var Out *log.Logger
var Err *log.Logger

func init() {
	Out = log.New(os.Stdout, "", 0)
	Err = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)
}

type Config struct {
	Source struct {
		Kind        string `yaml:"kind"`
		Url         string `yaml:"url"`
		Broker      string `yaml:"broker"`
		ClientId    string `yaml:"client_id"`
		TopicPrefix string `yaml:"topic_prefix"`
		ByJwt       string `yaml:"by_jwt"`
		Codec       string `yaml:"codec"`
	} `yaml:"source"`
	PositionControl string   `yaml:"position_control"`
	Buttons         []string `yaml:"buttons"`
	Smoothing       float64  `yaml:"smoothing"`
	ThrottleMs      int      `yaml:"throttle_ms"`
	FrameRate       int      `yaml:"frame_rate"`
}

func DefaultConfig() *Config {
	config := &Config{
		PositionControl: "position",
		Smoothing:       0.25,
		ThrottleMs:      100,
		FrameRate:       60,
	}
	config.Source.Kind = "term"
	return config
}

func main() {
	usage := `Sigflow control.

Usage:
    sigflowctl monitor --config=<config>
    sigflowctl keys

Options:
    -h --help           Show this screen.
    --version           Show version.
    --config=<config>   Yaml config file.`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], SigflowCtlVersion)
	if err != nil {
		panic(err)
	}
	flag.CommandLine.Parse([]string{})

	if monitor_, _ := opts.Bool("monitor"); monitor_ {
		monitor(opts)
	} else if keys_, _ := opts.Bool("keys"); keys_ {
		keys(opts)
	}
}

func loadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(configBytes, config); err != nil {
		return nil, err
	}
	return config, nil
}

// monitor builds a small derived graph over the configured source and prints
// the derived values: smoothed position, speed, and per-button press counts.
func monitor(opts docopt.Opts) {
	configPath, _ := opts.String("--config")
	config, err := loadConfig(configPath)
	if err != nil {
		Err.Fatalf("could not load config: %s", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loopSettings := sched.DefaultLoopSettings()
	if 0 < config.FrameRate {
		loopSettings.FrameRate = config.FrameRate
	}
	loop := sched.NewLoopWithSettings(ctx, loopSettings)
	defer loop.Close()

	registry := sigflow.NewRegistry()

	var controls *device.Controls
	var runTerm func() error
	switch config.Source.Kind {
	case "term":
		source := device.NewTermSource(loop, registry)
		controls = source.Controls()
		runTerm = func() error {
			return source.Run(ctx)
		}
	case "ws":
		var auth *device.Auth
		if config.Source.ByJwt != "" {
			auth = &device.Auth{
				ByJwt:      config.Source.ByJwt,
				AppVersion: SigflowCtlVersion,
			}
		}
		source := device.NewWsSource(ctx, loop, registry, config.Source.Url, auth)
		defer source.Close()
		controls = source.Controls()
	case "mqtt":
		settings := device.DefaultMqttSourceSettings()
		if config.Source.Codec != "" {
			settings.Codec = device.Codec(config.Source.Codec)
		}
		source := device.NewMqttSourceWithSettings(
			loop,
			registry,
			config.Source.Broker,
			config.Source.ClientId,
			config.Source.TopicPrefix,
			settings,
		)
		defer source.Close()
		if err := source.Connect(ctx); err != nil {
			Err.Fatalf("could not connect source: %s", err)
		}
		controls = source.Controls()
	default:
		Err.Fatalf("unknown source kind %q", config.Source.Kind)
	}

	loop.Post(func() {
		buildMonitorGraph(loop, controls, config)
	})

	if runTerm != nil {
		if err := runTerm(); err != nil {
			Err.Fatalf("terminal source failed: %s", err)
		}
	} else {
		waitForExit(cancel)
	}
}

func buildMonitorGraph(loop *sched.Loop, controls *device.Controls, config *Config) {
	position := controls.Vector(config.PositionControl)

	smoothed := position.Lerp(loop, config.Smoothing, 0)
	smoothed.Subscribe(func(value sigflow.Vec2) {
		Out.Printf("position %.2f,%.2f", value.X, value.Y)
	})

	wait := time.Duration(config.ThrottleMs) * time.Millisecond
	speed := position.Velocity().Norm().Throttle(loop, wait, ratelimit.DefaultThrottleOptions())
	speed.Subscribe(func(value float64) {
		Out.Printf("speed %.2f", value)
	})

	for _, name := range config.Buttons {
		name := name
		count := sigflow.Fold(sigflow.Down(controls.Button(name)), func(acc int, value bool) int {
			return acc + 1
		}, 0)
		count.Subscribe(func(value int) {
			Out.Printf("%s pressed %d times", name, value)
		})
	}
}

// keys runs the local terminal source and prints every derived press edge.
func keys(opts docopt.Opts) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		Err.Fatalf("keys requires a terminal")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := sched.NewLoop(ctx)
	defer loop.Close()

	registry := sigflow.NewRegistry()
	source := device.NewTermSource(loop, registry)

	loop.Post(func() {
		for _, name := range []string{"space", "enter", "up", "down", "left", "right"} {
			name := name
			sigflow.Down(source.Controls().Button("key:" + name)).Subscribe(func(bool) {
				Out.Printf("%s down", name)
			})
		}
		mouse := source.Controls().Vector("mouse")
		mouse.Velocity().Norm().Subscribe(func(value float64) {
			Out.Printf("mouse speed %.1f", value)
		})
	})

	if err := source.Run(ctx); err != nil {
		Err.Fatalf("terminal source failed: %s", err)
	}
	fmt.Println("bye")
}

func waitForExit(cancel context.CancelFunc) {
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	<-exit
	cancel()
}
