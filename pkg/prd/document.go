package prd

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
	"time"

	"github.com/harrisonrobin/prdaily/pkg/datefmt"
	"github.com/harrisonrobin/prdaily/pkg/files"
	"github.com/harrisonrobin/prdaily/pkg/model"
)

var (
	titleRegex        = regexp.MustCompile(`^#\s+PRD\s+-\s+(.+?)\s*$`)
	summaryFieldRegex = regexp.MustCompile(`\*\*(.+?):?\*\*:?\s*(.+)`)
)

const summaryHeading = "## Resumen Ejecutivo"

// Field is one bolded "key: value" line of the executive summary.
type Field struct {
	Key   string
	Value string
}

// Document is a parsed PRD.
type Document struct {
	Source  string
	Date    string // localized date of the title line, empty when absent
	Summary []Field
	text    string
}

// ParseFile reads and parses the PRD at path.
func ParseFile(path string) (*Document, error) {
	text, err := files.ReadText(path)
	if err != nil {
		return nil, err
	}
	doc := Parse(text)
	doc.Source = path
	return doc, nil
}

// Parse extracts the title date and executive summary of a PRD. Task records
// are scanned on demand through Records.
func Parse(text string) *Document {
	doc := &Document{text: text}
	inSummary := false
	for _, raw := range strings.Split(StripFrontMatter(text), "\n") {
		line := strings.TrimSpace(raw)
		if doc.Date == "" {
			if m := titleRegex.FindStringSubmatch(line); m != nil {
				doc.Date = m[1]
				continue
			}
		}
		switch {
		case line == summaryHeading:
			inSummary = true
			continue
		case inSummary && (ruleRegex.MatchString(line) || atxRegex.MatchString(line)):
			inSummary = false
			continue
		}
		if !inSummary {
			continue
		}
		if m := summaryFieldRegex.FindStringSubmatch(line); m != nil {
			doc.Summary = append(doc.Summary, Field{
				Key:   strings.TrimSpace(m[1]),
				Value: strings.TrimSpace(m[2]),
			})
		}
	}
	return doc
}

// Records yields the task records of the document.
func (d *Document) Records(level Level) iter.Seq[model.Task] {
	return Records(d.text, level)
}

// Tasks collects the task records of the document.
func (d *Document) Tasks(level Level) []model.Task {
	return Extract(d.text, level)
}

// Value returns the summary value for key.
func (d *Document) Value(key string) (string, bool) {
	for _, f := range d.Summary {
		if strings.EqualFold(f.Key, key) {
			return f.Value, true
		}
	}
	return "", false
}

// Day parses the title date.
func (d *Document) Day() (time.Time, error) {
	if d.Date == "" {
		return time.Time{}, fmt.Errorf("missing '# PRD - <fecha>' title")
	}
	return datefmt.ParseSpanish(d.Date)
}
