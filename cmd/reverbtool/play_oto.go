//go:build !headless

package main

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
)

// Run opens the audio device and plays until the duration elapses.
func (c *PlayCmd) Run(rc *runContext) error {
	e, err := c.build(rc.logger)
	if err != nil {
		return err
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(e.SampleRate()),
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}
	<-ready

	var handoff reverb.ParamHandoff
	stream, err := newStreamer(e, &handoff, c.Burst, c.Period, c.Dry)
	if err != nil {
		return err
	}
	player := ctx.NewPlayer(stream)
	defer player.Close()

	printTitle(rc.out, "Playing "+e.Type().String())
	player.Play()

	start := time.Now()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for now := range ticker.C {
		elapsed := now.Sub(start)
		if elapsed >= c.Duration {
			break
		}
		if c.Sweep {
			room := float64(elapsed) / float64(c.Duration)
			handoff.Publish(reverb.SetRoomSize, reverb.Params{RoomSize: room})
		}
	}
	return nil
}
