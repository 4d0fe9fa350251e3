package timeline

import (
	"math"
	"testing"
)

func TestTimeMapMap(t *testing.T) {
	tm, err := BuildTimeMap(CutList{{10, 12}, {50, 53}}, 100)
	if err != nil {
		t.Fatalf("BuildTimeMap() error = %v", err)
	}

	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"before first cut", 5, 5},
		{"at first cut start", 10, 10},
		{"inside first cut clamps", 11, 10},
		{"at first cut end", 12, 10},
		{"between cuts", 30, 28},
		{"inside second cut clamps", 51, 48},
		{"after second cut", 60, 55},
		{"media end", 100, 95},
		{"negative clamps to zero", -2, 0},
		{"past end clamps to end", 120, 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tm.Map(tt.in); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := tm.OutputDuration(); math.Abs(got-95) > 1e-9 {
		t.Errorf("OutputDuration() = %v, want 95", got)
	}
	if got := tm.RemovedDuration(); math.Abs(got-5) > 1e-9 {
		t.Errorf("RemovedDuration() = %v, want 5", got)
	}
}

func TestTimeMapMonotonic(t *testing.T) {
	tm, err := BuildTimeMap(CutList{{0, 2}, {10, 12}, {50, 53}, {97, 100}}, 100)
	if err != nil {
		t.Fatalf("BuildTimeMap() error = %v", err)
	}

	prev := math.Inf(-1)
	for step := 0; step <= 400; step++ {
		in := float64(step) * 0.25
		got := tm.Map(in)
		if got < prev-1e-9 {
			t.Fatalf("Map(%v) = %v dropped below previous %v", in, got, prev)
		}
		prev = got
	}
	if got := tm.Map(100); math.Abs(got-tm.OutputDuration()) > 1e-9 {
		t.Errorf("Map(end) = %v, want OutputDuration %v", got, tm.OutputDuration())
	}
}

func TestTimeMapNoCuts(t *testing.T) {
	tm, err := BuildTimeMap(nil, 60)
	if err != nil {
		t.Fatalf("BuildTimeMap() error = %v", err)
	}
	for _, in := range []float64{0, 17.3, 60} {
		if got := tm.Map(in); got != in {
			t.Errorf("Map(%v) = %v, want identity", in, got)
		}
	}
	if got := tm.OutputDuration(); got != 60 {
		t.Errorf("OutputDuration() = %v, want 60", got)
	}
}

func TestBuildTimeMapRejectsBadCuts(t *testing.T) {
	tests := []struct {
		name  string
		cuts  CutList
		total float64
	}{
		{"zero duration cut", CutList{{5, 5}}, 60},
		{"inverted cut", CutList{{7, 5}}, 60},
		{"cut past media end", CutList{{55, 65}}, 60},
		{"negative cut start", CutList{{-2, 5}}, 60},
		{"overlapping cuts", CutList{{5, 10}, {8, 12}}, 60},
		{"unordered cuts", CutList{{20, 25}, {5, 10}}, 60},
		{"bad duration", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildTimeMap(tt.cuts, tt.total); err == nil {
				t.Error("BuildTimeMap() expected error")
			}
		})
	}
}
