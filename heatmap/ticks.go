package heatmap

import (
	"time"

	"gonum.org/v1/plot"
)

// A todStep is a labeled tick spacing and the unlabeled spacing that
// subdivides it.
type todStep struct {
	major, minor time.Duration
}

// todSteps runs from coarse to fine.
var todSteps = []todStep{
	{6 * time.Hour, time.Hour},
	{3 * time.Hour, time.Hour},
	{2 * time.Hour, 30 * time.Minute},
	{time.Hour, 15 * time.Minute},
	{30 * time.Minute, 10 * time.Minute},
	{15 * time.Minute, 5 * time.Minute},
	{5 * time.Minute, time.Minute},
}

// pickTODStep returns the step whose labels over [lo, hi] come closest
// in number to target. Ties go to the coarser step.
func pickTODStep(lo, hi time.Duration, target int) todStep {
	best, bestDelta := todSteps[0], -1
	for _, s := range todSteps {
		first := ceilTo(lo, s.major)
		if first > hi {
			continue
		}
		delta := int((hi-first)/s.major) + 1 - target
		if delta < 0 {
			delta = -delta
		}
		if bestDelta < 0 || delta < bestDelta {
			best, bestDelta = s, delta
		}
	}
	return best
}

// ceilTo rounds d up to a multiple of step.
func ceilTo(d, step time.Duration) time.Duration {
	q := d / step * step
	if q < d {
		q += step
	}
	return q
}

// timeOfDayTicks labels an axis of durations since midnight UTC with
// clock times.
type timeOfDayTicks struct {
	target int // approximate number of labels
}

func (o timeOfDayTicks) Ticks(min, max float64) []plot.Tick {
	lo, hi := time.Duration(min), time.Duration(max)
	step := pickTODStep(lo, hi, o.target)
	midnight := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	var ticks []plot.Tick
	for t := ceilTo(lo, step.minor); t <= hi; t += step.minor {
		tick := plot.Tick{Value: float64(t)}
		if t%step.major == 0 {
			tick.Label = midnight.Add(t).Format("15:04")
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// monthTicks marks the first of each month on an axis of Unix seconds.
// Quarters are labeled. A range that holds no first of the month gets
// a single label on its first whole day.
type monthTicks struct{}

func (monthTicks) Ticks(min, max float64) []plot.Tick {
	lo, hi := plot.UTCUnixTime(min), plot.UTCUnixTime(max)
	var ticks []plot.Tick
	for t := time.Date(lo.Year(), lo.Month(), 1, 0, 0, 0, 0, time.UTC); !t.After(hi); t = t.AddDate(0, 1, 0) {
		if t.Before(lo) {
			continue
		}
		tick := plot.Tick{Value: float64(t.Unix())}
		switch {
		case t.Month() == time.January:
			tick.Label = t.Format("Jan 2006")
		case t.Month()%3 == 1:
			tick.Label = t.Format("Jan")
		}
		ticks = append(ticks, tick)
	}
	if len(ticks) == 0 {
		day := lo.Truncate(24 * time.Hour)
		if day.Before(lo) {
			day = day.Add(24 * time.Hour)
		}
		if !day.After(hi) {
			ticks = append(ticks, plot.Tick{Value: float64(day.Unix()), Label: day.Format("Jan 2")})
		}
	}
	return ticks
}
