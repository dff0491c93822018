// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"beatpulse/internal/analysis"
	applog "beatpulse/internal/log"
	"beatpulse/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// DefaultPath is searched when no config path is given.
const DefaultPath = "config.yaml"

// LoadConfig loads configuration from a YAML file specified by path. If path is
// empty, it looks for DefaultPath in the working directory and falls back to the
// built-in defaults when none exists. Environment overrides are applied after the
// file, then the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field against the engine's limits and reports all
// violations at once.
func (c *Config) Validate() error {
	var errs []error

	// Audio
	if c.Audio.InputDevice < MinDeviceID {
		errs = append(errs, fmt.Errorf("audio.input_device must be >= %d, got %d", MinDeviceID, c.Audio.InputDevice))
	}
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be within [%d, %d], got %.0f", MinSampleRate, MaxSampleRate, c.Audio.SampleRate))
	}
	if c.Audio.FramesPerBuffer < 0 || c.Audio.FramesPerBuffer > MaxBufferFrames {
		errs = append(errs, fmt.Errorf("audio.frames_per_buffer must be within [0, %d], got %d", MaxBufferFrames, c.Audio.FramesPerBuffer))
	}
	if c.Audio.InputChannels < 1 {
		errs = append(errs, fmt.Errorf("audio.input_channels must be >= 1, got %d", c.Audio.InputChannels))
	}

	// Analysis
	a := c.Analysis
	if !bitint.IsPowerOfTwo(a.WindowSize) {
		errs = append(errs, fmt.Errorf("analysis.window_size must be a power of 2, got %d", a.WindowSize))
	}
	if a.HopSize <= 0 || a.HopSize > a.WindowSize {
		errs = append(errs, fmt.Errorf("analysis.hop_size must be within [1, window_size], got %d", a.HopSize))
	}
	if !bitint.IsPowerOfTwo(a.ChannelCapacity) || a.ChannelCapacity < a.WindowSize {
		errs = append(errs, fmt.Errorf("analysis.channel_capacity must be a power of 2 >= window_size, got %d", a.ChannelCapacity))
	}
	if _, err := analysis.ParseOnsetMode(a.OnsetMode); err != nil {
		errs = append(errs, fmt.Errorf("analysis.onset_mode: %w", err))
	}
	if _, err := analysis.ParseWindowFunc(a.FFTWindow); err != nil {
		errs = append(errs, fmt.Errorf("analysis.fft_window: %w", err))
	}
	if a.Threshold < 0 || a.Threshold > 1 {
		errs = append(errs, fmt.Errorf("analysis.threshold must be within [0, 1], got %.3f", a.Threshold))
	}
	if a.Silence < 0 || a.Silence > 1 {
		errs = append(errs, fmt.Errorf("analysis.silence must be within [0, 1], got %.3f", a.Silence))
	}
	if a.Decay <= 0 || a.Decay >= 1 {
		errs = append(errs, fmt.Errorf("analysis.decay must be within (0, 1), got %.3f", a.Decay))
	}

	// UI
	if c.UI.FPS < 1 || c.UI.FPS > MaxFPS {
		errs = append(errs, fmt.Errorf("ui.fps must be within [1, %d], got %d", MaxFPS, c.UI.FPS))
	}
	if c.UI.MaxRadius < 1 {
		errs = append(errs, fmt.Errorf("ui.max_radius must be >= 1, got %d", c.UI.MaxRadius))
	}

	return errors.Join(errs...)
}

// applyEnvOverrides applies ENV_* variables on top of the file values.
// Unparseable values are ignored.
func (c *Config) applyEnvOverrides() {
	// ENV_DEBUG
	if val, ok := os.LookupEnv("ENV_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Debug = bVal
			applog.Debugf("configuration: overriding debug from env: %v", bVal)
		}
	}
	// ENV_LOG_LEVEL
	if val, ok := os.LookupEnv("ENV_LOG_LEVEL"); ok && val != "" {
		c.LogLevel = val
		applog.Debugf("configuration: overriding log_level from env: %s", val)
	}
	// ENV_INPUT_DEVICE
	if val, ok := os.LookupEnv("ENV_INPUT_DEVICE"); ok {
		if iVal, err := strconv.Atoi(val); err == nil {
			c.Audio.InputDevice = iVal
			applog.Debugf("configuration: overriding audio.input_device from env: %d", iVal)
		}
	}
	// ENV_THRESHOLD
	if val, ok := os.LookupEnv("ENV_THRESHOLD"); ok {
		if fVal, err := strconv.ParseFloat(val, 32); err == nil {
			c.Analysis.Threshold = float32(fVal)
			applog.Debugf("configuration: overriding analysis.threshold from env: %.3f", fVal)
		}
	}
	// ENV_SILENCE
	if val, ok := os.LookupEnv("ENV_SILENCE"); ok {
		if fVal, err := strconv.ParseFloat(val, 32); err == nil {
			c.Analysis.Silence = float32(fVal)
			applog.Debugf("configuration: overriding analysis.silence from env: %.3f", fVal)
		}
	}
}
