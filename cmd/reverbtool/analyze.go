package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-reverb/measure/ir"
)

// AnalyzeCmd prints metrics of an engine's impulse response.
type AnalyzeCmd struct {
	EngineFlags `embed:""`

	Seconds float64 `short:"s" help:"Length of the analyzed response in seconds." default:"4"`
}

// Run renders and measures the response.
func (c *AnalyzeCmd) Run(rc *runContext) error {
	e, err := c.build(rc.logger)
	if err != nil {
		return err
	}
	resp, err := ir.Render(e, c.Seconds)
	if err != nil {
		return err
	}
	m, err := ir.AnalyzeStereo(resp)
	if err != nil {
		return err
	}

	p := e.Params()
	printTitle(rc.out, fmt.Sprintf("%s @ %.0f Hz", e.Type(), e.SampleRate()))
	printKeyValue(rc.out, "Parameters", fmt.Sprintf("roomsize=%.2f damping=%.2f width=%.2f level=%.2f",
		p.RoomSize, p.Damping, p.Width, p.Level))
	printKeyValue(rc.out, "Correlation", fmt.Sprintf("%.3f", m.Correlation))
	fmt.Fprintln(rc.out)

	t := newTable("Metric", "Left", "Right")
	for _, row := range metricRows(m, resp.SampleRate) {
		t.Row(row[:]...)
	}
	fmt.Fprintln(rc.out, t)
	return nil
}

func metricRows(m ir.StereoMetrics, sampleRate float64) [][3]string {
	seconds := func(v float64) string {
		if v <= 0 {
			return "n/a"
		}
		return fmt.Sprintf("%.3f s", v)
	}
	decibels := func(v float64) string {
		if math.IsInf(v, 0) {
			return "n/a"
		}
		return fmt.Sprintf("%.1f dB", v)
	}
	ms := func(samples int) string {
		return fmt.Sprintf("%.1f ms", 1000*float64(samples)/sampleRate)
	}

	l, r := m.Left, m.Right
	return [][3]string{
		{"RT60", seconds(l.RT60), seconds(r.RT60)},
		{"EDT", seconds(l.EDT), seconds(r.EDT)},
		{"T20", seconds(l.T20), seconds(r.T20)},
		{"T30", seconds(l.T30), seconds(r.T30)},
		{"C50", decibels(l.C50), decibels(r.C50)},
		{"C80", decibels(l.C80), decibels(r.C80)},
		{"D50", fmt.Sprintf("%.3f", l.D50), fmt.Sprintf("%.3f", r.D50)},
		{"Center time", seconds(l.CenterTime), seconds(r.CenterTime)},
		{"Onset", ms(l.Onset), ms(r.Onset)},
		{"Brightness", fmt.Sprintf("%.0f Hz", m.BrightnessLeft), fmt.Sprintf("%.0f Hz", m.BrightnessRight)},
	}
}
