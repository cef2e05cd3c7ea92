package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/cwbudde/algo-reverb/dsp/curve"
	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
)

// presets are named starting points; explicit parameter flags override them.
var presets = map[string]reverb.Params{
	"small-room":  {RoomSize: 0.3, Damping: 0.6, Width: 0.7, Level: 0.8},
	"medium-hall": {RoomSize: 0.6, Damping: 0.4, Width: 0.9, Level: 0.8},
	"large-hall":  {RoomSize: 0.85, Damping: 0.3, Width: 1, Level: 0.9},
	"cathedral":   {RoomSize: 1, Damping: 0.15, Width: 1, Level: 1},
}

func presetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var curves = map[string]curve.Func{
	"linear":  curve.Linear,
	"concave": curve.Concave,
	"convex":  curve.Convex,
}

// EngineFlags are shared by every command that builds an engine.
type EngineFlags struct {
	Type   string  `short:"t" help:"Reverb type." default:"freeverb" enum:"freeverb,fdn,dattorro,lexverb"`
	Rate   float64 `short:"r" help:"Sample rate in Hz." default:"48000"`
	Preset string  `short:"p" help:"Parameter preset (small-room, medium-hall, large-hall, cathedral)."`

	RoomSize *float64 `help:"Room size in [0,1]."`
	Damping  *float64 `help:"High-frequency damping in [0,1]."`
	Width    *float64 `help:"Stereo width in [0,100]."`
	Level    *float64 `help:"Wet level in [0,1]."`

	FDNLines int    `name:"fdn-lines" help:"FDN delay line count (8 or 12)." default:"8"`
	Linear   bool   `help:"Map FDN roomsize linearly onto the reverb time."`
	Curve    string `help:"Lexverb roomsize curve." default:"none" enum:"none,linear,concave,convex"`
}

func (f *EngineFlags) params() (reverb.Params, error) {
	p := reverb.DefaultParams()
	if f.Preset != "" {
		preset, ok := presets[strings.ToLower(f.Preset)]
		if !ok {
			return reverb.Params{}, fmt.Errorf("unknown preset %q (want one of %s)",
				f.Preset, strings.Join(presetNames(), ", "))
		}
		p = preset
	}

	var mask reverb.Mask
	var update reverb.Params
	if f.RoomSize != nil {
		mask |= reverb.SetRoomSize
		update.RoomSize = *f.RoomSize
	}
	if f.Damping != nil {
		mask |= reverb.SetDamping
		update.Damping = *f.Damping
	}
	if f.Width != nil {
		mask |= reverb.SetWidth
		update.Width = *f.Width
	}
	if f.Level != nil {
		mask |= reverb.SetLevel
		update.Level = *f.Level
	}
	return p.Merge(mask, update), nil
}

func (f *EngineFlags) build(logger *slog.Logger) (*reverb.Engine, error) {
	typ, err := reverb.ParseType(f.Type)
	if err != nil {
		return nil, err
	}
	p, err := f.params()
	if err != nil {
		return nil, err
	}

	response := reverb.ResponseFreeverb
	if f.Linear {
		response = reverb.ResponseLinear
	}
	opts := []reverb.Option{
		reverb.WithLogger(logger),
		reverb.WithParams(p),
		reverb.WithFDNLines(f.FDNLines),
		reverb.WithFDNRoomsizeResponse(response),
	}
	if fn, ok := curves[f.Curve]; ok {
		opts = append(opts, reverb.WithRoomCurve(fn))
	}

	return reverb.New(typ, f.Rate, f.Rate, opts...)
}
