package prd

import (
	"bufio"
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/harrisonrobin/prdaily/pkg/model"
)

// Level selects how much of each task block the scanner extracts.
type Level int

const (
	// TimesOnly yields every heading that carries a valid time. Bodies are ignored.
	TimesOnly Level = iota
	// WithBody additionally requires the labelled sections of the block and fills
	// Description, Solution and StatusNote. Blocks missing them are dropped.
	WithBody
)

var (
	headingRegex = regexp.MustCompile(`^###\s+(?:(.+?)\s+)?(\d+)\.\s+(.+?)\s*(?:(?:—|–|--)\s*)?\*\*([^*]+)\*\*\s*$`)
	labelRegex   = regexp.MustCompile(`(?i)^\*\*(descripci[oó]n|soluci[oó]n|estado)\s*:?\*\*\s*:?\s*(.*)$`)
	ruleRegex    = regexp.MustCompile(`^(?:-{3,}|\*{3,}|_{3,})$`)
	// ATX headings need whitespace after the hashes; "#42" is body text.
	atxRegex = regexp.MustCompile(`^#{1,6}(?:\s|$)`)
)

type section int

const (
	noSection section = iota
	descSection
	solutionSection
	stateSection
)

// Extract collects the records of text at the given level.
func Extract(text string, level Level) []model.Task {
	return slices.Collect(Records(text, level))
}

// Records scans text lazily and yields task records in document order.
// Every range over the returned sequence rescans text from the start.
func Records(text string, level Level) iter.Seq[model.Task] {
	return func(yield func(model.Task) bool) {
		scanner := bufio.NewScanner(strings.NewReader(StripFrontMatter(text)))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		var current *block
		flush := func() bool {
			if current == nil {
				return true
			}
			task, ok := current.finish(level)
			current = nil
			if !ok {
				return true
			}
			return yield(task)
		}

		for scanner.Scan() {
			line := strings.TrimRight(scanner.Text(), " \t\r")
			trimmed := strings.TrimSpace(line)

			if atxRegex.MatchString(trimmed) {
				if !flush() {
					return
				}
				if m := headingRegex.FindStringSubmatch(trimmed); m != nil {
					current = newBlock(m)
				}
				continue
			}
			if current != nil && level == WithBody {
				current.add(trimmed)
			}
		}
		flush()
	}
}

// block accumulates one heading and the lines that follow it.
type block struct {
	task     model.Task
	valid    bool
	sections map[section][]string
	active   section
}

func newBlock(m []string) *block {
	b := &block{
		sections: make(map[section][]string),
	}
	number, err := strconv.Atoi(m[2])
	if err != nil || number <= 0 {
		return b
	}
	clock, err := model.ParseClock(m[4])
	if err != nil {
		return b
	}
	name := strings.TrimSpace(m[3])
	if name == "" {
		return b
	}
	marker := strings.TrimSpace(m[1])
	b.task = model.Task{
		Number: number,
		Name:   name,
		Time:   clock,
		Status: model.StatusFromMarker(marker),
		Marker: marker,
	}
	b.valid = true
	return b
}

func (b *block) add(line string) {
	if m := labelRegex.FindStringSubmatch(line); m != nil {
		switch strings.ToLower(m[1])[0] {
		case 'd':
			b.active = descSection
		case 's':
			b.active = solutionSection
		case 'e':
			b.active = stateSection
		}
		if rest := strings.TrimSpace(m[2]); rest != "" {
			b.sections[b.active] = append(b.sections[b.active], rest)
		}
		return
	}
	if b.active == noSection {
		return
	}
	b.sections[b.active] = append(b.sections[b.active], line)
}

func (b *block) text(s section) string {
	lines := b.sections[s]
	// Drop trailing blank and horizontal-rule lines separating blocks.
	for len(lines) > 0 {
		last := lines[len(lines)-1]
		if last != "" && !ruleRegex.MatchString(last) {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (b *block) finish(level Level) (model.Task, bool) {
	if !b.valid {
		return model.Task{}, false
	}
	task := b.task
	if level == TimesOnly {
		return task, true
	}

	task.Description = b.text(descSection)
	solution := b.text(solutionSection)
	state := b.text(stateSection)

	if task.Status == model.UNKNOWN {
		switch {
		case solution != "":
			task.Status = model.COMPLETED
		case state != "":
			task.Status = model.PENDING
		}
	}

	switch task.Status {
	case model.COMPLETED:
		if solution == "" {
			return model.Task{}, false
		}
		task.Solution = solution
	case model.PENDING:
		if state == "" {
			return model.Task{}, false
		}
		task.StatusNote = state
	default:
		return model.Task{}, false
	}
	return task, true
}
