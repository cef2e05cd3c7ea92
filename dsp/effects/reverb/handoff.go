package reverb

import "sync/atomic"

type paramUpdate struct {
	mask   Mask
	params Params
}

// ParamHandoff passes parameter updates from one control goroutine to the
// goroutine that owns an Engine. Publish never blocks; Apply runs between
// blocks on the audio goroutine and never allocates.
//
// Updates published before an Apply are merged: the latest value of each
// masked field wins.
type ParamHandoff struct {
	pending atomic.Pointer[paramUpdate]
}

// Publish queues the fields selected by mask.
func (h *ParamHandoff) Publish(mask Mask, p Params) {
	next := &paramUpdate{}
	for {
		prev := h.pending.Load()
		if prev != nil {
			*next = *prev
		} else {
			*next = paramUpdate{}
		}
		next.params = next.params.Merge(mask, p)
		next.mask |= mask

		if h.pending.CompareAndSwap(prev, next) {
			return
		}
	}
}

// Pending reports whether an update is waiting.
func (h *ParamHandoff) Pending() bool {
	return h.pending.Load() != nil
}

// Apply hands the pending update to e and reports whether there was one.
func (h *ParamHandoff) Apply(e *Engine) bool {
	u := h.pending.Swap(nil)
	if u == nil {
		return false
	}
	e.SetParams(u.mask, u.params)
	return true
}
