package reverb

import (
	"sync"
	"testing"
)

func TestParamHandoffMergesUpdates(t *testing.T) {
	var h ParamHandoff
	e := newEngine(t, TypeDattorro)

	if h.Apply(e) {
		t.Fatal("apply with nothing pending reported an update")
	}

	h.Publish(SetRoomSize, Params{RoomSize: 0.7})
	h.Publish(SetLevel, Params{Level: 0.4})
	h.Publish(SetRoomSize, Params{RoomSize: 0.8})
	if !h.Pending() {
		t.Fatal("expected a pending update")
	}
	if !h.Apply(e) {
		t.Fatal("apply reported no update")
	}

	want := DefaultParams()
	want.RoomSize = 0.8
	want.Level = 0.4
	if e.Params() != want {
		t.Fatalf("params got %+v want %+v", e.Params(), want)
	}
	if h.Pending() || h.Apply(e) {
		t.Fatal("update applied twice")
	}
}

func TestParamHandoffClampsOnPublish(t *testing.T) {
	var h ParamHandoff
	e := newEngine(t, TypeFreeverb)

	h.Publish(SetWidth|SetDamping, Params{Width: 500, Damping: -1})
	h.Apply(e)
	if got := e.Params(); got.Width != MaxWidth || got.Damping != 0 {
		t.Fatalf("params got %+v", got)
	}
}

func TestParamHandoffConcurrentPublish(t *testing.T) {
	var h ParamHandoff
	e := newEngine(t, TypeFDN)

	const writers, updates = 4, 500
	var wg sync.WaitGroup
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mask := Mask(1) << w
			for i := range updates {
				v := float64(i+1) / updates
				h.Publish(mask, Params{RoomSize: v, Damping: v, Width: v, Level: v})
			}
		}()
	}

	in := make([]float64, e.BlockSize())
	left := make([]float64, e.BlockSize())
	right := make([]float64, e.BlockSize())
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

loop:
	for {
		select {
		case <-done:
			break loop
		default:
			h.Apply(e)
			e.ProcessReplace(in, left, right)
		}
	}
	h.Apply(e)

	want := Params{RoomSize: 1, Damping: 1, Width: 1, Level: 1}
	if e.Params() != want {
		t.Fatalf("params got %+v want %+v", e.Params(), want)
	}
}
