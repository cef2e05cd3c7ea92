package reverb_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/effects/reverb"
)

func ExampleNew() {
	e, err := reverb.New(reverb.TypeDattorro, 48000, 48000)
	if err != nil {
		fmt.Println(err)
		return
	}

	e.SetParameters(reverb.SetRoomSize|reverb.SetLevel, 0.6, 0, 0, 0.8)

	in := make([]float64, e.BlockSize())
	in[0] = 1
	left := make([]float64, len(in))
	right := make([]float64, len(in))
	e.ProcessReplace(in, left, right)

	fmt.Println(e.Type(), e.State(), e.BlockSize(), e.Params().RoomSize)
	// Output: dattorro ready 64 0.6
}

func ExampleEngine_SampleRateChange() {
	e, err := reverb.New(reverb.TypeLexverb, 44100, 44100)
	if err != nil {
		fmt.Println(err)
		return
	}

	err = e.SampleRateChange(48000)
	fmt.Println(errors.Is(err, reverb.ErrUnsupported))

	if err := e.Rebuild(48000); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(e.SampleRate(), e.State())
	// Output:
	// true
	// 48000 ready
}

func ExampleParamHandoff() {
	e, err := reverb.New(reverb.TypeFreeverb, 44100, 44100)
	if err != nil {
		fmt.Println(err)
		return
	}

	var h reverb.ParamHandoff
	h.Publish(reverb.SetDamping, reverb.Params{Damping: 0.5})
	h.Publish(reverb.SetWidth, reverb.Params{Width: 2})

	// between blocks on the audio goroutine
	h.Apply(e)

	fmt.Printf("%+v\n", e.Params())
	// Output: {RoomSize:0.2 Damping:0.5 Width:2 Level:0.9}
}
