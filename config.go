package qlab

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/theapemachine/errnie"
)

/*
Config carries the environment of a lab session: the physical knobs fed to
the simulator and the sizing of the worker pool that runs sweeps and shot
batches.
*/
type Config struct {
	Temperature       float64
	ExtraNoise        float64
	NoiseCap          float64
	GateNoiseFactor   float64
	Shots             int
	Intensities       Intensities
	HistoryLength     int
	MinWorkers        int
	MaxWorkers        int
	SchedulingTimeout time.Duration
	PlaybackInterval  time.Duration
	Seed              uint64
}

func NewConfig() *Config {
	return &Config{
		Temperature:       MinTemperature,
		NoiseCap:          MaxNoiseProbability,
		GateNoiseFactor:   PerGateNoiseFactor,
		Shots:             512,
		HistoryLength:     DefaultHistoryLength,
		MinWorkers:        2,
		MaxWorkers:        8,
		SchedulingTimeout: 10 * time.Second,
		PlaybackInterval:  700 * time.Millisecond,
	}
}

// Settings projects the config onto circuit simulation settings.
func (config *Config) Settings() Settings {
	return Settings{
		NumQubits:   2,
		Temperature: config.Temperature,
		ExtraNoise:  config.ExtraNoise,
		NoiseCap:    config.NoiseCap,
		GateFactor:  config.GateNoiseFactor,
	}
}

/*
LoadConfig reads a config file (any format viper understands) and QLAB_*
environment overrides, e.g. QLAB_TEMPERATURE=4 or QLAB_NOISE_PHASE=0.3.
An empty path reads the environment only. Keys that are absent keep the
defaults of NewConfig, and every value is clamped into its valid range.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetEnvPrefix("QLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("temperature", defaults.Temperature)
	v.SetDefault("extra_noise", defaults.ExtraNoise)
	v.SetDefault("noise_cap", defaults.NoiseCap)
	v.SetDefault("gate_noise_factor", defaults.GateNoiseFactor)
	v.SetDefault("shots", defaults.Shots)
	v.SetDefault("noise.amplitude", 0.0)
	v.SetDefault("noise.phase", 0.0)
	v.SetDefault("noise.depolarizing", 0.0)
	v.SetDefault("history_length", defaults.HistoryLength)
	v.SetDefault("workers.min", defaults.MinWorkers)
	v.SetDefault("workers.max", defaults.MaxWorkers)
	v.SetDefault("scheduling_timeout", defaults.SchedulingTimeout)
	v.SetDefault("playback_interval", defaults.PlaybackInterval)
	v.SetDefault("seed", 0)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	config := &Config{
		Temperature:     v.GetFloat64("temperature"),
		ExtraNoise:      v.GetFloat64("extra_noise"),
		NoiseCap:        v.GetFloat64("noise_cap"),
		GateNoiseFactor: v.GetFloat64("gate_noise_factor"),
		Shots:           v.GetInt("shots"),
		Intensities: Intensities{
			Amplitude:    v.GetFloat64("noise.amplitude"),
			Phase:        v.GetFloat64("noise.phase"),
			Depolarizing: v.GetFloat64("noise.depolarizing"),
		},
		HistoryLength:     v.GetInt("history_length"),
		MinWorkers:        v.GetInt("workers.min"),
		MaxWorkers:        v.GetInt("workers.max"),
		SchedulingTimeout: v.GetDuration("scheduling_timeout"),
		PlaybackInterval:  v.GetDuration("playback_interval"),
		Seed:              v.GetUint64("seed"),
	}

	config.normalize(defaults)
	errnie.Info("LoadConfig - %s: temperature %s, shots %d", path, FormatTemperature(config.Temperature), config.Shots)

	return config, nil
}

func (config *Config) normalize(defaults *Config) {
	config.Temperature = clamp(config.Temperature, MinTemperature, MaxTemperature)
	config.ExtraNoise = clamp(config.ExtraNoise, 0, 1)
	config.NoiseCap = clamp(config.NoiseCap, 0, MaxNoiseProbability)
	config.Intensities = config.Intensities.Clamped()

	if !(config.GateNoiseFactor > 0) {
		config.GateNoiseFactor = defaults.GateNoiseFactor
	}
	if config.Shots <= 0 {
		config.Shots = defaults.Shots
	}
	if config.HistoryLength <= 0 {
		config.HistoryLength = defaults.HistoryLength
	}
	if config.MinWorkers <= 0 {
		config.MinWorkers = defaults.MinWorkers
	}
	if config.MaxWorkers < config.MinWorkers {
		config.MaxWorkers = config.MinWorkers
	}
	if config.SchedulingTimeout <= 0 {
		config.SchedulingTimeout = defaults.SchedulingTimeout
	}
	if config.PlaybackInterval <= 0 {
		config.PlaybackInterval = defaults.PlaybackInterval
	}
}
