package core

// EnsureLen returns a slice of length n, reusing the capacity of buf when it
// is large enough. Contents of a reused slice are left as they were.
func EnsureLen[F Float](buf []F, n int) []F {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]F, n)
}

// Fill sets every value in buf to v.
func Fill[F Float](buf []F, v F) {
	for i := range buf {
		buf[i] = v
	}
}

// Zero sets all values in buf to 0.
func Zero[F Float](buf []F) {
	Fill(buf, 0)
}
