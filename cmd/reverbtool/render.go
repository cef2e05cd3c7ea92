package main

import (
	"fmt"
	"math"
	"os"

	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-reverb/dsp/core"
	"github.com/cwbudde/algo-reverb/dsp/signal"
	"github.com/cwbudde/algo-reverb/measure/ir"
)

// RenderCmd writes the impulse response of an engine to a WAV file.
type RenderCmd struct {
	EngineFlags `embed:""`

	Seconds   float64 `short:"s" help:"Length of the response in seconds." default:"3"`
	Bits      int     `help:"PCM bit depth." default:"24" enum:"16,24"`
	Normalize bool    `short:"n" help:"Scale the response to a -1 dBFS peak."`
	Out       string  `arg:"" type:"path" help:"Output WAV file."`
}

// Run renders and writes the file.
func (c *RenderCmd) Run(rc *runContext) error {
	e, err := c.build(rc.logger)
	if err != nil {
		return err
	}
	resp, err := ir.Render(e, c.Seconds)
	if err != nil {
		return err
	}

	if c.Normalize {
		signal.Normalize(resp.Left, resp.Right, -1)
	}
	peak := max(vecmath.MaxAbs(resp.Left), vecmath.MaxAbs(resp.Right))

	if err := writeWAV(c.Out, int(resp.SampleRate), c.Bits, resp.Left, resp.Right); err != nil {
		return err
	}

	printTitle(rc.out, "Rendered "+e.Type().String())
	printKeyValue(rc.out, "File", c.Out)
	printKeyValue(rc.out, "Length", fmt.Sprintf("%d samples @ %.0f Hz", len(resp.Left), resp.SampleRate))
	printKeyValue(rc.out, "Peak", fmt.Sprintf("%.1f dBFS", core.LinearToDB(peak)))
	if peak > 1 {
		printKeyValue(rc.out, "Warning", "output clipped, use --normalize")
	}
	return nil
}

// writeWAV stores left and right as interleaved integer PCM, clipping at
// full scale.
func writeWAV(path string, sampleRate, bits int, left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("wav: channel lengths differ: %d != %d", len(left), len(right))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	fullScale := float64(int(1)<<(bits-1) - 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           make([]int, 2*len(left)),
		SourceBitDepth: bits,
	}
	for i := range left {
		buf.Data[2*i] = int(math.Round(core.Clamp(left[i], -1, 1) * fullScale))
		buf.Data[2*i+1] = int(math.Round(core.Clamp(right[i], -1, 1) * fullScale))
	}

	enc := wav.NewEncoder(f, sampleRate, bits, 2, 1)
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("wav: write %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("wav: finalize %s: %w", path, err)
	}
	return f.Close()
}
