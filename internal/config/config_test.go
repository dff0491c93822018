// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg := NewConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
	if cfg.Analysis.WindowSize != 1024 || cfg.Analysis.HopSize != 512 {
		t.Errorf("window/hop = %d/%d, want 1024/512", cfg.Analysis.WindowSize, cfg.Analysis.HopSize)
	}
	if cfg.Analysis.ChannelCapacity != 2048 {
		t.Errorf("channel capacity = %d, want 2048", cfg.Analysis.ChannelCapacity)
	}
	if cfg.Analysis.Threshold != 0.3 || cfg.Analysis.Silence != 0.1 {
		t.Errorf("threshold/silence = %.2f/%.2f, want 0.30/0.10", cfg.Analysis.Threshold, cfg.Analysis.Silence)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("sample rate = %.0f, want 44100", cfg.Audio.SampleRate)
	}
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("")
	if err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
log_level: debug
audio:
  input_device: 3
  frames_per_buffer: 128
analysis:
  onset_mode: specflux
  threshold: 0.55
  fft_window: Hamming
ui:
  fps: 30
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Audio.InputDevice != 3 || cfg.Audio.FramesPerBuffer != 128 {
		t.Errorf("audio = %+v, want device 3 with 128 frames", cfg.Audio)
	}
	if cfg.Analysis.OnsetMode != "specflux" || cfg.Analysis.Threshold != 0.55 {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	// Untouched fields keep their defaults.
	if cfg.Analysis.Silence != DefaultSilence || cfg.Analysis.WindowSize != DefaultWindowSize {
		t.Errorf("defaults lost: %+v", cfg.Analysis)
	}
	if cfg.UI.FPS != 30 || cfg.UI.MaxRadius != DefaultMaxRadius {
		t.Errorf("ui = %+v", cfg.UI)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
analysis:
  window_size: 1000
  threshold: 1.5
`)
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"invalid configuration", "window_size", "threshold"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		desc   string
		mutate func(*Config)
		substr string
	}{
		{"Device below default", func(c *Config) { c.Audio.InputDevice = -2 }, "input_device"},
		{"Sample rate too low", func(c *Config) { c.Audio.SampleRate = 4000 }, "sample_rate"},
		{"Too many frames", func(c *Config) { c.Audio.FramesPerBuffer = MaxBufferFrames + 1 }, "frames_per_buffer"},
		{"No channels", func(c *Config) { c.Audio.InputChannels = 0 }, "input_channels"},
		{"Hop larger than window", func(c *Config) { c.Analysis.HopSize = 2048 }, "hop_size"},
		{"Capacity below window", func(c *Config) { c.Analysis.ChannelCapacity = 512 }, "channel_capacity"},
		{"Capacity not power of two", func(c *Config) { c.Analysis.ChannelCapacity = 3000 }, "channel_capacity"},
		{"Unknown onset mode", func(c *Config) { c.Analysis.OnsetMode = "hfc" }, "onset_mode"},
		{"Unknown FFT window", func(c *Config) { c.Analysis.FFTWindow = "kaiser" }, "fft_window"},
		{"Negative silence", func(c *Config) { c.Analysis.Silence = -0.1 }, "silence"},
		{"Decay of one", func(c *Config) { c.Analysis.Decay = 1 }, "decay"},
		{"Zero fps", func(c *Config) { c.UI.FPS = 0 }, "fps"},
		{"Zero radius", func(c *Config) { c.UI.MaxRadius = 0 }, "max_radius"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.substr)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q does not contain %q", err, tt.substr)
			}
		})
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ENV_DEBUG", "true")
	t.Setenv("ENV_LOG_LEVEL", "warn")
	t.Setenv("ENV_INPUT_DEVICE", "2")
	t.Setenv("ENV_THRESHOLD", "0.45")
	t.Setenv("ENV_SILENCE", "not-a-number")

	cfg := NewConfig()
	cfg.applyEnvOverrides()

	if !cfg.Debug {
		t.Error("ENV_DEBUG not applied")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("log level = %q, want warn", cfg.LogLevel)
	}
	if cfg.Audio.InputDevice != 2 {
		t.Errorf("input device = %d, want 2", cfg.Audio.InputDevice)
	}
	if cfg.Analysis.Threshold != 0.45 {
		t.Errorf("threshold = %.2f, want 0.45", cfg.Analysis.Threshold)
	}
	if cfg.Analysis.Silence != DefaultSilence {
		t.Errorf("unparseable ENV_SILENCE should be ignored, got %.2f", cfg.Analysis.Silence)
	}
}
