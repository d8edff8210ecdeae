package prd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("prd: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("prd: malformed frontmatter")
)

const stampLayout = "2006-01-02T15:04:05Z07:00"

// Meta describes a generated report.
type Meta struct {
	Kind         string
	Date         string // YYYYMMDD
	Source       string
	Generated    time.Time
	Tasks        int
	Completed    int
	Pending      int
	TotalMinutes int
}

type envelope struct {
	PRDaily metaYAML `yaml:"prdaily"`
}

type metaYAML struct {
	Kind         string `yaml:"kind"`
	Date         string `yaml:"date"`
	Source       string `yaml:"source,omitempty"`
	Generated    string `yaml:"generated"`
	Tasks        int    `yaml:"tasks"`
	Completed    int    `yaml:"completed"`
	Pending      int    `yaml:"pending"`
	TotalMinutes int    `yaml:"total_minutes"`
}

// WriteFrontMatter prefixes body with meta between `---` fences.
func WriteFrontMatter(meta Meta, body string) (string, error) {
	if meta.Kind == "" {
		return "", fmt.Errorf("prd: frontmatter missing kind")
	}
	env := envelope{PRDaily: metaYAML{
		Kind:         meta.Kind,
		Date:         meta.Date,
		Source:       meta.Source,
		Generated:    meta.Generated.Format(stampLayout),
		Tasks:        meta.Tasks,
		Completed:    meta.Completed,
		Pending:      meta.Pending,
		TotalMinutes: meta.TotalMinutes,
	}}
	data, err := yaml.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("prd: encode frontmatter: %w", err)
	}
	var buf strings.Builder
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.WriteString(body)
	return buf.String(), nil
}

// ParseFrontMatter splits a generated report into its metadata and body.
func ParseFrontMatter(content string) (Meta, string, error) {
	meta, body, ok := splitFrontMatter(content)
	if !ok {
		return Meta{}, "", ErrMissingFrontMatter
	}
	var env envelope
	if err := yaml.Unmarshal([]byte(meta), &env); err != nil {
		return Meta{}, "", fmt.Errorf("prd: parse frontmatter: %w", err)
	}
	if env.PRDaily.Kind == "" {
		return Meta{}, "", ErrMalformedFrontMatter
	}
	generated, err := time.Parse(stampLayout, env.PRDaily.Generated)
	if err != nil {
		return Meta{}, "", fmt.Errorf("%w: generated: %v", ErrMalformedFrontMatter, err)
	}
	return Meta{
		Kind:         env.PRDaily.Kind,
		Date:         env.PRDaily.Date,
		Source:       env.PRDaily.Source,
		Generated:    generated,
		Tasks:        env.PRDaily.Tasks,
		Completed:    env.PRDaily.Completed,
		Pending:      env.PRDaily.Pending,
		TotalMinutes: env.PRDaily.TotalMinutes,
	}, body, nil
}

// StripFrontMatter returns content without a leading YAML block, if any.
func StripFrontMatter(content string) string {
	if _, body, ok := splitFrontMatter(content); ok {
		return body
	}
	return content
}

func splitFrontMatter(content string) (meta, body string, ok bool) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalized, "---\n") {
		return "", "", false
	}
	parts := strings.SplitN(normalized[4:], "\n---\n", 2)
	if len(parts) < 2 {
		return "", "", false
	}
	return parts[0], strings.TrimLeft(parts[1], "\n"), true
}
