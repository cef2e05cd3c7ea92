package reverb

import (
	"log/slog"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/curve"
)

// DefaultBlockSize is the synthesizer block size in samples.
const DefaultBlockSize = 64

// Option configures an Engine.
type Option func(*options)

type options struct {
	blockSize int
	logger    *slog.Logger
	fdnLines  int
	response  RoomsizeResponse
	roomCurve curve.Func
	params    Params
}

func defaultOptions() options {
	return options{
		blockSize: DefaultBlockSize,
		logger:    slog.New(slog.DiscardHandler),
		fdnLines:  len(fdnLengths8),
		response:  ResponseFreeverb,
		params:    DefaultParams(),
	}
}

// WithBlockSize sets the processing block size. It must be a power of two.
func WithBlockSize(n int) Option {
	return func(o *options) { o.blockSize = n }
}

// WithLogger sets the diagnostics sink. Nil restores the discarding default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

// WithFDNLines selects 8 or 12 delay lines for TypeFDN.
func WithFDNLines(n int) Option {
	return func(o *options) { o.fdnLines = n }
}

// WithFDNRoomsizeResponse selects the roomsize response of TypeFDN.
func WithFDNRoomsizeResponse(r RoomsizeResponse) Option {
	return func(o *options) { o.response = r }
}

// WithRoomCurve lets roomsize shorten the right-into-left delay of
// TypeLexverb through f. f must be non-decreasing on [0,1].
func WithRoomCurve(f curve.Func) Option {
	return func(o *options) { o.roomCurve = f }
}

// WithParams sets the parameters applied at construction instead of
// DefaultParams.
func WithParams(p Params) Option {
	return func(o *options) { o.params = p.Clamped() }
}

func (o options) processorConfig(maxSampleRate, sampleRate float64) core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(sampleRate),
		core.WithMaxSampleRate(maxSampleRate),
		core.WithBlockSize(o.blockSize),
	)
}
