package protocols

import (
	"time"

	"github.com/liftlab/liftplan/internal/models"
)

// undulating recovery weeks drop this far below the preceding week.
const undulationDrop = 0.10

// WeeklyIntensities computes one intensity value per program week.
// The returned slice always has max(1, cfg.Weeks) entries.
//
// Linear progression runs start → end inclusive. Undulating
// progression walks the even-indexed weeks from start toward end and
// makes every odd-indexed week a forced recovery, ten points below
// the week before it. Static holds start throughout.
func WeeklyIntensities(cfg models.ProgressionConfig) []float64 {
	weeks := cfg.Weeks
	if weeks < 1 {
		weeks = 1
	}
	out := make([]float64, weeks)
	if weeks == 1 {
		out[0] = cfg.StartIntensity
		return out
	}

	switch cfg.Style {
	case models.ProgressionLinear:
		step := (cfg.EndIntensity - cfg.StartIntensity) / float64(weeks-1)
		for w := range out {
			out[w] = cfg.StartIntensity + float64(w)*step
		}
	case models.ProgressionUndulating:
		evenCount := (weeks + 1) / 2
		evenStep := 0.0
		if evenCount > 1 {
			evenStep = (cfg.EndIntensity - cfg.StartIntensity) / float64(evenCount-1)
		}
		for w := range out {
			if w%2 == 0 {
				out[w] = cfg.StartIntensity + float64(w/2)*evenStep
			} else {
				out[w] = out[w-1] - undulationDrop
				if out[w] < 0 {
					out[w] = 0
				}
			}
		}
	default: // static
		for w := range out {
			out[w] = cfg.StartIntensity
		}
	}
	return out
}

// WeekFor maps a date to a 1-based program week, clamped to the
// intensity array length.
func WeekFor(date, programStart time.Time, weeks int) int {
	if weeks < 1 {
		weeks = 1
	}
	days := int(date.Sub(programStart).Hours() / 24)
	if days < 0 {
		days = 0
	}
	week := days/7 + 1
	if week > weeks {
		week = weeks
	}
	return week
}
