package sim

// VerticalSpeedBuffer keeps a rolling window of height samples and reports
// a smoothed climb rate. Times are simulation seconds.
type VerticalSpeedBuffer struct {
	samples []heightSample
	window  float64
}

type heightSample struct {
	t float64
	y float64
}

// NewVerticalSpeedBuffer creates a buffer spanning window seconds.
func NewVerticalSpeedBuffer(window float64) *VerticalSpeedBuffer {
	return &VerticalSpeedBuffer{window: window}
}

// Update adds a sample and returns the climb rate in units per second over
// the window. The first sample yields 0.
func (b *VerticalSpeedBuffer) Update(now, y float64) float64 {
	b.samples = append(b.samples, heightSample{t: now, y: y})

	cutoff := now - b.window
	for len(b.samples) > 2 && b.samples[1].t < cutoff {
		b.samples = b.samples[1:]
	}

	if len(b.samples) < 2 {
		return 0
	}

	first := b.samples[0]
	last := b.samples[len(b.samples)-1]
	dt := last.t - first.t
	if dt <= 0 {
		return 0
	}
	return (last.y - first.y) / dt
}

// Reset clears the buffer.
func (b *VerticalSpeedBuffer) Reset() {
	b.samples = nil
}
