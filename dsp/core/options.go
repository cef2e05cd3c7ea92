package core

import "math"

// ProcessorConfig defines common processing settings shared by the reverb
// engines: the rate they run at, the largest rate they must be able to
// switch to without reallocating, and the fixed block size.
type ProcessorConfig struct {
	SampleRate    float64
	MaxSampleRate float64
	BlockSize     int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the synthesizer defaults: 44.1 kHz and
// 64-sample blocks.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:    44100,
		MaxSampleRate: 44100,
		BlockSize:     64,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithMaxSampleRate sets the largest sample rate buffers are sized for.
func WithMaxSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.MaxSampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size. Only powers of two are accepted.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if IsPowerOfTwo(blockSize) {
			cfg.BlockSize = blockSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
// The max sample rate never ends up below the sample rate.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.MaxSampleRate < cfg.SampleRate {
		cfg.MaxSampleRate = cfg.SampleRate
	}
	return cfg
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
