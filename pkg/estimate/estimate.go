package estimate

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/model"
)

// DefaultTail is the duration credited to the last task of a day, whose end
// is not recorded anywhere. Both the hours report and the day summary use it.
const DefaultTail = 60 * time.Minute

const minutesPerDay = 24 * 60

type Strategy int

const (
	// Sum totals the per-task durations, tail included.
	Sum Strategy = iota
	// Span totals the distance between the earliest and latest task times.
	// A single task is credited the tail.
	Span
)

type Options struct {
	Tail     time.Duration
	Strategy Strategy
}

// Result holds the derived timeline of a day.
type Result struct {
	Durations []time.Duration // parallel to the input tasks
	Total     time.Duration
	Start     time.Time
}

// Average returns the mean duration per task.
func (r Result) Average() time.Duration {
	if len(r.Durations) == 0 {
		return 0
	}
	return r.Total / time.Duration(len(r.Durations))
}

// Estimate derives per-task and total durations. day anchors task clocks to a
// calendar date; sessionStart is the creation time of the earliest file of the
// day and may be zero.
func Estimate(tasks []model.Task, day, sessionStart time.Time, opts Options) Result {
	if opts.Tail <= 0 {
		opts.Tail = DefaultTail
	}
	res := Result{Start: sessionStart}
	if len(tasks) == 0 {
		return res
	}

	res.Durations = make([]time.Duration, len(tasks))
	var sum time.Duration
	for i := range tasks {
		d := opts.Tail
		if i < len(tasks)-1 {
			d = Gap(tasks[i].Time, tasks[i+1].Time)
		}
		res.Durations[i] = d
		sum += d
	}

	earliest, latest := tasks[0].Time.Minutes(), tasks[0].Time.Minutes()
	for _, t := range tasks[1:] {
		m := t.Time.Minutes()
		earliest = min(earliest, m)
		latest = max(latest, m)
	}

	switch opts.Strategy {
	case Span:
		if len(tasks) > 1 {
			res.Total = time.Duration(latest-earliest) * time.Minute
		} else {
			res.Total = opts.Tail
		}
	default:
		res.Total = sum
	}

	if res.Start.IsZero() {
		y, m, d := day.Date()
		res.Start = time.Date(y, m, d, 0, earliest, 0, 0, day.Location())
	}
	return res
}

// Gap returns the minutes from one clock to the next, wrapping past midnight.
func Gap(from, to model.Clock) time.Duration {
	diff := to.Minutes() - from.Minutes()
	if diff < 0 {
		diff += minutesPerDay
	}
	return time.Duration(diff) * time.Minute
}

// At places a clock on the given day.
func At(day time.Time, c model.Clock) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, day.Location())
}

// FormatHM renders d as "Xh Ym".
func FormatHM(d time.Duration) string {
	total := int(d / time.Minute)
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

// FormatShort renders durations under an hour as "Nm" and longer ones as "Xh Ym".
func FormatShort(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d/time.Minute))
	}
	return FormatHM(d)
}
