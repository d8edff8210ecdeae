package datefmt

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDateFormat is returned when a date override is not an 8-digit YYYYMMDD value.
var ErrInvalidDateFormat = errors.New("invalid date format")

const (
	compactLayout = "20060102"
	folderLayout  = "060102"
)

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var (
	compactRegex = regexp.MustCompile(`^\d{8}$`)
	spanishRegex = regexp.MustCompile(`^(\d{1,2}) de ([a-záéíóúñ]+) de (\d{4})$`)
)

// ParseCompact parses a YYYYMMDD string as a local calendar date.
func ParseCompact(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !compactRegex.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: %q, use YYYYMMDD", ErrInvalidDateFormat, s)
	}
	t, err := time.ParseInLocation(compactLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, use YYYYMMDD", ErrInvalidDateFormat, s)
	}
	return t, nil
}

// Resolve returns the parsed override, or the date part of now when override is empty.
func Resolve(override string, now time.Time) (time.Time, error) {
	if override == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), nil
	}
	return ParseCompact(override)
}

// Compact formats t as YYYYMMDD.
func Compact(t time.Time) string {
	return t.Format(compactLayout)
}

// FolderCode formats t as the YYMMDD name of a daily folder.
func FolderCode(t time.Time) string {
	return t.Format(folderLayout)
}

// Slashed formats t as DD/MM/YYYY.
func Slashed(t time.Time) string {
	return t.Format("02/01/2006")
}

// Spanish formats t as "D de <mes> de YYYY".
func Spanish(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), months[t.Month()-1], t.Year())
}

// ParseSpanish is the inverse of Spanish.
func ParseSpanish(s string) (time.Time, error) {
	m := spanishRegex.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	for i, name := range months {
		if name == m[2] {
			t := time.Date(year, time.Month(i+1), day, 0, 0, 0, 0, time.Local)
			if t.Day() != day {
				return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unknown month in %q", ErrInvalidDateFormat, s)
}

// Stamp is the generation timestamp layout used in every rendered document.
func Stamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
