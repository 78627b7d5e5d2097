package protocols

import (
	"math"
	"testing"
	"time"

	"github.com/liftlab/liftplan/internal/models"
)

func TestWeeklyIntensitiesLinear(t *testing.T) {
	got := WeeklyIntensities(models.ProgressionConfig{
		Style:          models.ProgressionLinear,
		StartIntensity: 0.60,
		EndIntensity:   0.85,
		Weeks:          6,
	})
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	if got[0] != 0.60 {
		t.Errorf("week 1 = %.3f, want 0.600", got[0])
	}
	if math.Abs(got[5]-0.85) > 1e-9 {
		t.Errorf("week 6 = %.3f, want 0.850", got[5])
	}
	for w := 1; w < len(got); w++ {
		if got[w] <= got[w-1] {
			t.Errorf("week %d = %.3f not above week %d = %.3f", w+1, got[w], w, got[w-1])
		}
	}
}

func TestWeeklyIntensitiesUndulating(t *testing.T) {
	got := WeeklyIntensities(models.ProgressionConfig{
		Style:          models.ProgressionUndulating,
		StartIntensity: 0.60,
		EndIntensity:   0.80,
		Weeks:          5,
	})
	want := []float64{0.60, 0.50, 0.70, 0.60, 0.80}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for w := range want {
		if math.Abs(got[w]-want[w]) > 1e-9 {
			t.Errorf("week %d = %.3f, want %.3f", w+1, got[w], want[w])
		}
	}
}

func TestWeeklyIntensitiesUndulatingFloorsAtZero(t *testing.T) {
	got := WeeklyIntensities(models.ProgressionConfig{
		Style:          models.ProgressionUndulating,
		StartIntensity: 0.05,
		EndIntensity:   0.05,
		Weeks:          2,
	})
	if got[1] != 0 {
		t.Errorf("recovery week = %.3f, want 0 (clamped)", got[1])
	}
}

func TestWeeklyIntensitiesStatic(t *testing.T) {
	got := WeeklyIntensities(models.ProgressionConfig{
		Style:          models.ProgressionStatic,
		StartIntensity: 0.70,
		EndIntensity:   0.95,
		Weeks:          4,
	})
	for w, v := range got {
		if v != 0.70 {
			t.Errorf("week %d = %.3f, want 0.700", w+1, v)
		}
	}
}

func TestWeeklyIntensitiesZeroWeeks(t *testing.T) {
	got := WeeklyIntensities(models.ProgressionConfig{StartIntensity: 0.65})
	if len(got) != 1 || got[0] != 0.65 {
		t.Errorf("got %v, want [0.65]", got)
	}
}

func TestWeekFor(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		offsetDays int
		want       int
	}{
		{0, 1},
		{6, 1},
		{7, 2},
		{13, 2},
		{14, 3},
		{100, 4}, // past the program end, clamps to the last week
		{-30, 1}, // before the program started
	}
	for _, tt := range tests {
		date := start.AddDate(0, 0, tt.offsetDays)
		if got := WeekFor(date, start, 4); got != tt.want {
			t.Errorf("WeekFor(start+%dd, 4 weeks) = %d, want %d", tt.offsetDays, got, tt.want)
		}
	}
}
