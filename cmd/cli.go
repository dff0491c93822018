// SPDX-License-Identifier: MIT
package cmd

import (
	"fmt"

	"beatpulse/internal/config"
	"beatpulse/pkg/build"

	"github.com/spf13/cobra"
)

// Commands selected on the command line.
const (
	CommandRun    = "run"    // Visualize the configured input device.
	CommandList   = "list"   // Print the available devices.
	CommandSelect = "select" // Pick a device interactively, then visualize.
)

// flagValues holds command line values until the config file is loaded; only
// flags the user actually set override it.
type flagValues struct {
	configPath      string
	device          int
	channels        int
	sampleRate      float64
	framesPerBuffer int
	lowLatency      bool
	onsetMode       string
	threshold       float32
	silence         float32
	fps             int
	headless        bool
	verbose         bool
	logFile         string
}

// ParseArgs parses args (without the program name) and returns the merged
// configuration: defaults, then the YAML file, then ENV_* overrides, then
// flags. Config.Command is empty when cobra only printed help or the version.
func ParseArgs(args []string) (*config.Config, error) {
	buildInfo := build.GetBuildFlags()

	var (
		flags    flagValues
		command  string
		executed *cobra.Command
	)
	selectCommand := func(name string) func(*cobra.Command, []string) {
		return func(cmd *cobra.Command, _ []string) {
			command = name
			executed = cmd
		}
	}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		Run: selectCommand(CommandRun),
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(&cobra.Command{
		Use:   CommandList,
		Short: "List available audio devices",
		Args:  cobra.NoArgs,
		Run:   selectCommand(CommandList),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   CommandSelect,
		Short: "Choose an input device interactively, then start the visualizer",
		Args:  cobra.NoArgs,
		Run:   selectCommand(CommandSelect),
	})

	pf := rootCmd.PersistentFlags()

	pf.StringVar(&flags.configPath, "config", "",
		"Path to a YAML config file (default: ./"+config.DefaultPath+" if present)")

	// Audio Device Configuration
	pf.IntVarP(&flags.device, "device", "d", config.DefaultDeviceID,
		"Specify input device ID. Use 'list' command to see available devices.")
	pf.IntVarP(&flags.channels, "channels", "c", config.DefaultChannels,
		"Number of input channels to open (only the first is analysed)")
	pf.Float64VarP(&flags.sampleRate, "sample-rate", "r", config.DefaultSampleRate,
		"Sample rate, measured in Hertz (Hz)")
	pf.IntVarP(&flags.framesPerBuffer, "frames-per-buffer", "b", config.DefaultFramesPerBuffer,
		"The number of frames per buffer (affects latency)")
	pf.BoolVarP(&flags.lowLatency, "low-latency", "l", config.DefaultLowLatency,
		"Use low latency mode for real-time processing")

	// Detection Configuration
	pf.StringVarP(&flags.onsetMode, "onset-mode", "m", config.DefaultOnsetMode,
		"Onset detection function: energy, specflux or complex")
	pf.Float32VarP(&flags.threshold, "threshold", "t", config.DefaultThreshold,
		"Initial onset threshold [0,1]")
	pf.Float32VarP(&flags.silence, "silence", "s", config.DefaultSilence,
		"Initial silence floor [0,1]")

	// Presentation Configuration
	pf.IntVar(&flags.fps, "fps", config.DefaultFPS,
		"Display updates per second")
	pf.BoolVar(&flags.headless, "headless", config.DefaultHeadless,
		"Log beats instead of drawing the visualizer")

	// Debug Configuration
	pf.BoolVarP(&flags.verbose, "verbose", "v", config.DefaultVerbosity,
		"Show verbose output")
	pf.StringVar(&flags.logFile, "log-file", "",
		"Write logs to this file while the visualizer owns the terminal")

	// Execute the CLI
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	if command == "" {
		return &config.Config{}, nil
	}

	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	flags.apply(cfg, executed)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid command line: %w", err)
	}
	cfg.Command = command

	return cfg, nil
}

// apply copies every flag set on cmd into cfg.
func (f *flagValues) apply(cfg *config.Config, cmd *cobra.Command) {
	changed := cmd.Flags().Changed

	if changed("device") {
		cfg.Audio.InputDevice = f.device
	}
	if changed("channels") {
		cfg.Audio.InputChannels = f.channels
	}
	if changed("sample-rate") {
		cfg.Audio.SampleRate = f.sampleRate
	}
	if changed("frames-per-buffer") {
		cfg.Audio.FramesPerBuffer = f.framesPerBuffer
	}
	if changed("low-latency") {
		cfg.Audio.LowLatency = f.lowLatency
	}
	if changed("onset-mode") {
		cfg.Analysis.OnsetMode = f.onsetMode
	}
	if changed("threshold") {
		cfg.Analysis.Threshold = f.threshold
	}
	if changed("silence") {
		cfg.Analysis.Silence = f.silence
	}
	if changed("fps") {
		cfg.UI.FPS = f.fps
	}
	if changed("headless") {
		cfg.UI.Headless = f.headless
	}
	if changed("verbose") {
		cfg.Debug = f.verbose
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
}
