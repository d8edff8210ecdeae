package daily

import (
	"time"

	"github.com/harrisonrobin/prdaily/pkg/datefmt"
	"github.com/harrisonrobin/prdaily/pkg/estimate"
	"github.com/harrisonrobin/prdaily/pkg/model"
	"github.com/harrisonrobin/prdaily/pkg/prd"
)

// minSlot is the length given to a task followed by another at the same clock time.
const minSlot = time.Minute

// Slot is one task placed on the calendar.
type Slot struct {
	ID    string
	Day   string // YYYYMMDD of the PRD
	Task  model.Task
	Start time.Time
	End   time.Time
}

// Timeline places every timed task of the PRD on its day using the same
// estimates as the hours report.
func (s *Service) Timeline(prdPath string) (time.Time, []Slot, error) {
	doc, err := prd.ParseFile(prdPath)
	if err != nil {
		return time.Time{}, nil, classify(err, prdPath)
	}
	day, err := doc.Day()
	if err != nil {
		return time.Time{}, nil, opError(ErrNoDataFound, "No se encontró la fecha en el PRD", prdPath, err)
	}

	// Bodies fill in descriptions; tasks without them still get a slot.
	detailed := make(map[int]model.Task)
	for t := range doc.Records(prd.WithBody) {
		detailed[t.Number] = t
	}
	tasks := doc.Tasks(prd.TimesOnly)
	if len(tasks) == 0 {
		return day, nil, opError(ErrNoDataFound, "No se encontraron tareas con horas", prdPath, nil)
	}
	for i, t := range tasks {
		if d, ok := detailed[t.Number]; ok && d.Time == t.Time {
			tasks[i] = d
		}
	}

	est := estimate.Estimate(tasks, day, time.Time{}, estimate.Options{
		Tail:     s.cfg.TailDuration(),
		Strategy: estimate.Sum,
	})
	key := datefmt.Compact(day)
	slots := make([]Slot, len(tasks))
	anchor := day
	for i, t := range tasks {
		start := estimate.At(anchor, t.Time)
		// Times that go backwards continue past midnight.
		if i > 0 && start.Before(slots[i-1].Start) {
			anchor = anchor.AddDate(0, 0, 1)
			start = estimate.At(anchor, t.Time)
		}
		slots[i] = Slot{
			ID:    t.ID(key),
			Day:   key,
			Task:  t,
			Start: start,
			End:   start.Add(max(est.Durations[i], minSlot)),
		}
	}
	return day, slots, nil
}
