package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-reverb/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)

	fmt.Printf("sampleRate=%.0f maxSampleRate=%.0f blockSize=%d\n", cfg.SampleRate, cfg.MaxSampleRate, cfg.BlockSize)

	// Output:
	// sampleRate=48000 maxSampleRate=48000 blockSize=256
}

func ExampleEnsureLen() {
	buf := make([]float64, 2, 4)
	buf[0], buf[1] = 1, 2
	buf = core.EnsureLen(buf, 4)
	buf[2], buf[3] = 3, 4
	fmt.Println(len(buf), cap(buf), buf)

	core.Zero(buf[:2])
	fmt.Println(buf)

	// Output:
	// 4 4 [1 2 3 4]
	// [0 0 3 4]
}
