package main

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
	"github.com/cwbudde/algo-reverb/dsp/signal"
)

// PlayCmd streams noise bursts through an engine to the default output.
type PlayCmd struct {
	EngineFlags `embed:""`

	Duration time.Duration `short:"d" help:"Playback length." default:"6s"`
	Burst    time.Duration `help:"Length of each noise burst." default:"80ms"`
	Period   time.Duration `help:"Time between burst onsets." default:"1.5s"`
	Dry      float64       `help:"Dry signal gain." default:"0.5"`
	Sweep    bool          `help:"Sweep roomsize from 0 to 1 during playback."`
}

// streamer renders interleaved float32 stereo frames. It owns the engine;
// parameter changes arrive through the handoff between blocks.
type streamer struct {
	engine  *reverb.Engine
	handoff *reverb.ParamHandoff
	source  *signal.Bursts
	dry     float64

	in, left, right []float64
}

func newStreamer(e *reverb.Engine, h *reverb.ParamHandoff, burst, period time.Duration, dry float64) (*streamer, error) {
	g := signal.NewGenerator(1, core.WithSampleRate(e.SampleRate()))
	source, err := g.Bursts(0.25, burst, period)
	if err != nil {
		return nil, err
	}

	n := e.BlockSize()
	return &streamer{
		engine:  e,
		handoff: h,
		source:  source,
		dry:     dry,
		in:      make([]float64, n),
		left:    make([]float64, n),
		right:   make([]float64, n),
	}, nil
}

// Read fills p with whole frames of 32-bit little-endian float samples.
func (s *streamer) Read(p []byte) (int, error) {
	const frameBytes = 8
	frames := len(p) / frameBytes

	for done := 0; done < frames; {
		s.handoff.Apply(s.engine)

		n := min(frames-done, len(s.in))
		in := s.in[:n]
		s.source.Read(in)
		s.engine.ProcessReplace(in, s.left[:n], s.right[:n])

		for i := range in {
			off := (done + i) * frameBytes
			binary.LittleEndian.PutUint32(p[off:], math.Float32bits(float32(s.dry*in[i]+s.left[i])))
			binary.LittleEndian.PutUint32(p[off+4:], math.Float32bits(float32(s.dry*in[i]+s.right[i])))
		}
		done += n
	}
	return frames * frameBytes, nil
}
