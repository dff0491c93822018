// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"beatpulse/cmd"
	"beatpulse/internal/analysis"
	"beatpulse/internal/audio"
	"beatpulse/internal/config"
	applog "beatpulse/internal/log"
	"beatpulse/internal/pulse"
	"beatpulse/internal/transport"
	"beatpulse/internal/tui"
	"beatpulse/pkg/build"
)

// main is the entry point for the beat visualizer.
// The program flow is divided into three distinct phases:
//
// 1. Startup Phase (Cold Path):
//   - Initialize build information
//   - Parse command line arguments and load configuration
//   - Initialize PortAudio
//   - Execute one-off commands if requested
//
// 2. Concurrent Phase (Hot Path):
//   - Open the input stream feeding the sample channel
//   - Run the analysis loop from the TUI or the headless ticker
//
// 3. Shutdown Phase (Cold Path):
//   - Handle termination signals or quit
//   - Stop and close the stream
//   - Terminate PortAudio
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// ==================== STARTUP PHASE (Cold Path) ====================

	// Development builds have no ldflags; that is not fatal.
	if err := build.Initialize(); err != nil {
		applog.Debugf("Build: %v", err)
	}

	// One OS thread for the PortAudio callback, one for analysis and UI.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		return err
	}
	if cfg.Command == "" {
		return nil // Help or version was printed.
	}

	if err := applog.Configure(cfg.LogLevel, cfg.Debug); err != nil {
		applog.Warnf("Config: %v", err)
	}
	applog.Debugf("Build: %s", build.GetBuildFlags())

	if err := audio.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := audio.Terminate(); err != nil {
			applog.Errorf("%v", err)
		}
	}()

	switch cfg.Command {
	case cmd.CommandList:
		return audio.ListDevices(os.Stdout)
	case cmd.CommandSelect:
		sel, err := tui.PickDevice()
		if errors.Is(err, tui.ErrNoSelection) {
			return nil
		}
		if err != nil {
			return err
		}
		cfg.Audio.InputDevice = sel.Device.ID
		cfg.Audio.SampleRate = sel.SampleRate
		cfg.Audio.InputChannels = min(cfg.Audio.InputChannels, sel.Device.MaxInputChannels)
	}

	return visualize(cfg)
}

// visualize runs the concurrent phase until the user quits or a signal
// arrives.
func visualize(cfg *config.Config) error {
	engine, err := audio.NewEngine(cfg)
	if err != nil {
		return err
	}
	// Shutdown: stop the callback before the channel goes away.
	defer func() {
		if err := engine.Close(); err != nil {
			applog.Errorf("Error closing audio engine: %v", err)
		}
	}()

	detector, err := newDetector(cfg)
	if err != nil {
		return err
	}

	controller := engine.Controller()
	loop, err := pulse.NewLoop(engine.Consumer(), detector,
		pulse.Config{
			WindowSize: cfg.Analysis.WindowSize,
			HopSize:    cfg.Analysis.HopSize,
			Decay:      cfg.Analysis.Decay,
		},
		pulse.WithParams(pulse.Params{Threshold: cfg.Analysis.Threshold, Silence: cfg.Analysis.Silence}),
		pulse.WithPlayState(controller.IsPlaying),
		pulse.WithDropCounter(engine.Dropped),
	)
	if err != nil {
		return err
	}

	// ==================== CONCURRENT PHASE (Hot Path) ====================

	// CRITICAL: Start of real-time audio processing. PortAudio begins
	// calling the capture callback from here on.
	if err := controller.Play(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UI.Headless {
		return runHeadless(ctx, loop, cfg.UI.FPS)
	}
	return runTUI(ctx, loop, controller, engine.DeviceName(), cfg)
}

func newDetector(cfg *config.Config) (*analysis.OnsetDetector, error) {
	mode, err := analysis.ParseOnsetMode(cfg.Analysis.OnsetMode)
	if err != nil {
		return nil, err
	}
	window, err := analysis.ParseWindowFunc(cfg.Analysis.FFTWindow)
	if err != nil {
		return nil, err
	}
	return analysis.NewOnsetDetector(analysis.OnsetConfig{
		Mode:       mode,
		WindowSize: cfg.Analysis.WindowSize,
		HopSize:    cfg.Analysis.HopSize,
		SampleRate: cfg.Audio.SampleRate,
		Window:     window,
	})
}

func runHeadless(ctx context.Context, loop *pulse.Loop, fps int) error {
	sink := transport.NewLoggingTransport()
	defer sink.Close()

	fmt.Printf("%s listening, Ctrl+C to stop.\n", build.GetBuildFlags().Name)
	return loop.Run(ctx, time.Second/time.Duration(fps), sink.Send)
}

// runTUI hands the terminal to the visualizer. Logs go to the configured log
// file meanwhile, or nowhere.
func runTUI(ctx context.Context, loop *pulse.Loop, controller *audio.Controller, device string, cfg *config.Config) error {
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	applog.SetOutput(out)
	defer applog.SetOutput(os.Stderr)

	v := tui.NewVisualizer(loop, controller, device, cfg.UI.FPS, cfg.UI.MaxRadius)
	return tui.RunVisualizer(ctx, v)
}
