package config

// Core configuration constants that define the boundaries and defaults
// for the capture device, the analysis loop and the presentation layer.
const (
	// Audio device defaults
	DefaultDeviceID        = MinDeviceID // Default to system default device
	DefaultChannels        = 1           // Mono capture
	DefaultFramesPerBuffer = 256         // Driver hint, the ring absorbs any size
	DefaultLowLatency      = true        // Beat display wants the short path
	DefaultSampleRate      = 44100       // CD-quality audio

	// Analysis defaults
	DefaultOnsetMode       = "complex" // Complex-domain onset detection
	DefaultWindowSize      = 1024      // Samples per detection call
	DefaultHopSize         = 512       // Samples advanced per window (50% overlap)
	DefaultChannelCapacity = 2048      // Slightly more than one window
	DefaultThreshold       = 0.3       // Peak-picking threshold
	DefaultSilence         = 0.1       // Silence floor
	DefaultDecay           = 0.8       // Strength multiplier per tick
	DefaultFFTWindow       = "Hann"    // Spectral taper

	// Presentation defaults
	DefaultFPS       = 60
	DefaultMaxRadius = 10 // Terminal rows covered by a full-strength pulse
	DefaultHeadless  = false

	DefaultLogLevel  = "info"
	DefaultVerbosity = false

	// Hardware and processing limits
	MinDeviceID     = -1     // -1 represents system default device
	MinSampleRate   = 8000   // Minimum usable sample rate (Hz)
	MaxSampleRate   = 192000 // Maximum supported sample rate (Hz)
	MaxBufferFrames = 8192   // Maximum frames per buffer
	MaxFPS          = 240
)

// Config holds all runtime configuration options. It is built from defaults,
// an optional YAML file, ENV_* overrides and finally command line flags.
type Config struct {
	Debug    bool   `yaml:"debug"`              // Force DEBUG logging.
	LogLevel string `yaml:"log_level"`          // debug, info, warn, error.
	LogFile  string `yaml:"log_file,omitempty"` // Log destination while the TUI owns the terminal.

	Audio    AudioConfig    `yaml:"audio"`
	Analysis AnalysisConfig `yaml:"analysis"`
	UI       UIConfig       `yaml:"ui"`

	// Command is a one-off command selected on the command line ("list",
	// "select"); it is never read from the file.
	Command string `yaml:"-"`
}

// AudioConfig holds capture device settings.
type AudioConfig struct {
	InputDevice     int     `yaml:"input_device"`      // PortAudio device index (-1 for default).
	SampleRate      float64 `yaml:"sample_rate"`       // Sample rate in Hz.
	FramesPerBuffer int     `yaml:"frames_per_buffer"` // Frames per hardware callback, a hint to the driver.
	LowLatency      bool    `yaml:"low_latency"`       // Use the device's low input latency.
	InputChannels   int     `yaml:"input_channels"`    // Channels opened on the device; only channel 0 is analysed.
}

// AnalysisConfig holds the sample channel, detector and strength settings.
type AnalysisConfig struct {
	OnsetMode       string  `yaml:"onset_mode"`       // energy, specflux or complex.
	WindowSize      int     `yaml:"window_size"`      // Samples per detection call (power of 2).
	HopSize         int     `yaml:"hop_size"`         // Samples discarded after each call.
	ChannelCapacity int     `yaml:"channel_capacity"` // Ring capacity in samples (power of 2, >= window).
	Threshold       float32 `yaml:"threshold"`        // Initial onset threshold [0,1].
	Silence         float32 `yaml:"silence"`          // Initial silence floor [0,1].
	Decay           float32 `yaml:"decay"`            // Strength multiplier per tick (0,1).
	FFTWindow       string  `yaml:"fft_window"`       // Taper applied before the FFT.
}

// UIConfig holds presentation settings.
type UIConfig struct {
	FPS       int  `yaml:"fps"`        // Update ticks per second.
	MaxRadius int  `yaml:"max_radius"` // Pulse radius at strength 1.0.
	Headless  bool `yaml:"headless"`   // Log frames instead of drawing.
}

// NewConfig creates a new Config instance with default values.
func NewConfig() *Config {
	return &Config{
		Debug:    DefaultVerbosity,
		LogLevel: DefaultLogLevel,
		Audio: AudioConfig{
			InputDevice:     DefaultDeviceID,
			SampleRate:      DefaultSampleRate,
			FramesPerBuffer: DefaultFramesPerBuffer,
			LowLatency:      DefaultLowLatency,
			InputChannels:   DefaultChannels,
		},
		Analysis: AnalysisConfig{
			OnsetMode:       DefaultOnsetMode,
			WindowSize:      DefaultWindowSize,
			HopSize:         DefaultHopSize,
			ChannelCapacity: DefaultChannelCapacity,
			Threshold:       DefaultThreshold,
			Silence:         DefaultSilence,
			Decay:           DefaultDecay,
			FFTWindow:       DefaultFFTWindow,
		},
		UI: UIConfig{
			FPS:       DefaultFPS,
			MaxRadius: DefaultMaxRadius,
			Headless:  DefaultHeadless,
		},
	}
}
