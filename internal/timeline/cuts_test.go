package timeline

import (
	"errors"
	"math"
	"testing"
)

func TestPlanCuts(t *testing.T) {
	spans := []Span{
		{0, 10, Speech},
		{10, 13, Silence},
		{13, 40, Speech},
		{40, 40.3, Silence},
		{40.3, 60, Speech},
	}

	cuts, err := PlanCuts(spans, 1.0)
	if err != nil {
		t.Fatalf("PlanCuts() error = %v", err)
	}
	if len(cuts) != 1 || cuts[0] != (Cut{10, 13}) {
		t.Errorf("PlanCuts() = %+v, want [{10 13}]", cuts)
	}
}

func TestPlanCutsThresholdInclusive(t *testing.T) {
	spans := []Span{
		{0, 5, Speech},
		{5, 7, Silence}, // exactly min gap
		{7, 12, Speech},
	}
	cuts, err := PlanCuts(spans, 2.0)
	if err != nil {
		t.Fatalf("PlanCuts() error = %v", err)
	}
	if len(cuts) != 1 || cuts[0] != (Cut{5, 7}) {
		t.Errorf("silence equal to min gap should be cut, got %+v", cuts)
	}
}

func TestPlanCutsLeadingTrailingSilence(t *testing.T) {
	spans := []Span{
		{0, 4, Silence},
		{4, 10, Speech},
		{10, 15, Silence},
	}
	cuts, err := PlanCuts(spans, 1.0)
	if err != nil {
		t.Fatalf("PlanCuts() error = %v", err)
	}
	want := CutList{{0, 4}, {10, 15}}
	if len(cuts) != 2 || cuts[0] != want[0] || cuts[1] != want[1] {
		t.Errorf("PlanCuts() = %+v, want %+v", cuts, want)
	}
}

func TestPlanCutsNoSilence(t *testing.T) {
	cuts, err := PlanCuts([]Span{{0, 60, Speech}}, 1.0)
	if err != nil {
		t.Fatalf("PlanCuts() error = %v", err)
	}
	if len(cuts) != 0 {
		t.Errorf("PlanCuts() = %+v, want empty", cuts)
	}
}

func TestPlanCutsInvalidInput(t *testing.T) {
	_, err := PlanCuts([]Span{{0, 5, Speech}, {6, 10, Silence}}, 1.0)
	if !errors.Is(err, ErrInvalidSpanSequence) {
		t.Errorf("error = %v, want ErrInvalidSpanSequence", err)
	}
}

func TestPlanCutsBadMinGap(t *testing.T) {
	if _, err := PlanCuts([]Span{{0, 60, Speech}}, 0); err == nil {
		t.Error("expected error for zero min gap")
	}
}

func TestCutListTotalDuration(t *testing.T) {
	cl := CutList{{10, 12}, {50, 53}}
	if got := cl.TotalDuration(); math.Abs(got-5.0) > 1e-9 {
		t.Errorf("TotalDuration() = %v, want 5", got)
	}
}

func TestCutListShrink(t *testing.T) {
	cl := CutList{{10, 13}, {20, 20.4}}

	shrunk := cl.Shrink(0.25)
	want := CutList{{10.25, 12.75}}
	if len(shrunk) != 1 || shrunk[0] != want[0] {
		t.Errorf("Shrink(0.25) = %+v, want %+v (collapsed cut dropped)", shrunk, want)
	}

	if got := cl.Shrink(0); len(got) != 2 || got[0] != cl[0] || got[1] != cl[1] {
		t.Errorf("Shrink(0) = %+v, want identity", got)
	}
}
