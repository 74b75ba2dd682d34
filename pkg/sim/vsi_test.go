package sim

import (
	"testing"
)

func TestVerticalSpeedBuffer(t *testing.T) {
	buf := NewVerticalSpeedBuffer(5)

	// 1. Initial state
	if vs := buf.Update(0, 1000); vs != 0 {
		t.Errorf("Expected 0 for first sample, got %.2f", vs)
	}

	// 2. Constant height
	if vs := buf.Update(1, 1000); vs != 0 {
		t.Errorf("Expected 0 for constant height, got %.2f", vs)
	}

	// 3. Simple climb: 60 units in 6s
	buf.Reset()
	buf.Update(10, 1000)
	vs := buf.Update(16, 1060)
	if vs < 9.99 || vs > 10.01 {
		t.Errorf("Expected ~10 u/s, got %.2f", vs)
	}

	// 4. Jitter is smoothed over the window.
	// samples: [10, 1000], [16, 1060], [17, 1050]. Cutoff 12 keeps the
	// first sample because the second is still inside the window.
	vs = buf.Update(17, 1050)
	if vs < 7.13 || vs > 7.15 {
		t.Errorf("Expected ~7.14 u/s for jitter tick, got %.2f", vs)
	}

	// 5. Old samples fall out of the window.
	// Cutoff 25 leaves [17, 1050] as the oldest sample.
	vs = buf.Update(30, 1076)
	if vs < 1.99 || vs > 2.01 {
		t.Errorf("Expected ~2 u/s after window slide, got %.3f", vs)
	}
}

func TestVerticalSpeedBuffer_SameTime(t *testing.T) {
	buf := NewVerticalSpeedBuffer(1)
	buf.Update(2, 10)
	if vs := buf.Update(2, 20); vs != 0 {
		t.Errorf("Expected 0 for zero elapsed time, got %.2f", vs)
	}
}
