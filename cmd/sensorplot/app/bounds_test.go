package app

import (
	"math"
	"testing"
)

func TestBoundsTracker_Empty(t *testing.T) {
	b := NewBoundsTracker()

	bounds := b.Current()
	if bounds.Min != defaultMinValue || bounds.Max != defaultMaxValue {
		t.Errorf("Current() = %+v, want default bounds", bounds)
	}
	if bounds.Mean != 0.5 {
		t.Errorf("Mean = %f, want 0.5", bounds.Mean)
	}
}

func TestBoundsTracker_SmallSample(t *testing.T) {
	b := NewBoundsTracker()
	for _, v := range []float64{10, 20, 30} {
		b.Update(v)
	}

	// Below the minimum sample count the raw range still gets the margin
	bounds := b.Current()
	if bounds.Min != 8 || bounds.Max != 32 {
		t.Errorf("Current() = %+v, want 8..32", bounds)
	}
	if bounds.Mean != 20 {
		t.Errorf("Mean = %f, want 20", bounds.Mean)
	}
}

func TestBoundsTracker_Percentiles(t *testing.T) {
	b := NewBoundsTracker()
	for i := 1; i <= 100; i++ {
		b.Update(float64(i))
	}

	// 5th/95th percentiles of 1..100 are 6 and 96, margin is 9
	bounds := b.Current()
	if bounds.Min != -3 || bounds.Max != 105 {
		t.Errorf("Current() = %+v, want -3..105", bounds)
	}
	if bounds.Mean != 50.5 {
		t.Errorf("Mean = %f, want 50.5", bounds.Mean)
	}
}

func TestBoundsTracker_SkipsNaN(t *testing.T) {
	b := NewBoundsTracker()
	b.Update(math.NaN())
	b.Update(42)
	b.Update(math.NaN())

	if n := b.Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
	if bounds := b.Current(); bounds.Mean != 42 {
		t.Errorf("Mean = %f, want 42", bounds.Mean)
	}
}

func TestBoundsTracker_FlatSeries(t *testing.T) {
	b := NewBoundsTracker()
	for i := 0; i < 25; i++ {
		b.Update(7)
	}

	bounds := b.Current()
	if bounds.Min != 6.5 || bounds.Max != 7.5 {
		t.Errorf("Current() = %+v, want widened 6.5..7.5", bounds)
	}
}
