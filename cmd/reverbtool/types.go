package main

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
)

var typeDescriptions = map[reverb.Type]string{
	reverb.TypeFreeverb: "8 parallel damped combs into 4 series allpasses per channel",
	reverb.TypeFDN:      "modulated 8 or 12 line feedback delay network",
	reverb.TypeDattorro: "plate with input diffusers and a figure-eight tank",
	reverb.TypeLexverb:  "two cross-fed allpass chains, fixed sample rate",
}

// TypesCmd lists the reverb types and presets.
type TypesCmd struct{}

// Run prints both tables.
func (c *TypesCmd) Run(rc *runContext) error {
	types := newTable("Type", "Topology")
	for _, typ := range reverb.Types() {
		types.Row(typ.String(), typeDescriptions[typ])
	}

	params := newTable("Preset", "Room size", "Damping", "Width", "Level")
	for _, name := range presetNames() {
		p := presets[name]
		params.Row(name,
			fmt.Sprintf("%.2f", p.RoomSize),
			fmt.Sprintf("%.2f", p.Damping),
			fmt.Sprintf("%.2f", p.Width),
			fmt.Sprintf("%.2f", p.Level))
	}

	printTitle(rc.out, "Reverb types")
	fmt.Fprintln(rc.out, types)
	printTitle(rc.out, "Presets")
	fmt.Fprintln(rc.out, params)
	return nil
}
