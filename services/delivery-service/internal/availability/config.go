package availability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// PeriodConfig is one opening period as configured by the merchant ("HH:MM", 24h clock).
type PeriodConfig struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// DayConfig configures one weekday; Weekday follows time.Weekday (0 = Sunday).
type DayConfig struct {
	Weekday int            `json:"weekday" yaml:"weekday"`
	IsOpen  bool           `json:"is_open" yaml:"is_open"`
	Periods []PeriodConfig `json:"periods" yaml:"periods"`
}

// ParseClock parses "HH:MM" (or "H:MM") into minutes since midnight.
func ParseClock(raw string) (int, bool) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || len(hh) < 1 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Compile builds a WeeklySchedule from configuration, dropping anything it cannot use.
func Compile(timezone string, days []DayConfig) WeeklySchedule {
	s, _ := CompileWithReport(timezone, days)
	return s
}

// CompileWithReport is Compile plus a description of every entry that was dropped or adjusted.
// A later entry for the same weekday replaces an earlier one.
func CompileWithReport(timezone string, days []DayConfig) (WeeklySchedule, []string) {
	var problems []string

	loc := time.UTC
	if tz := strings.TrimSpace(timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			problems = append(problems, fmt.Sprintf("unknown timezone %q, using UTC", tz))
		} else {
			loc = l
		}
	}

	s := WeeklySchedule{Location: loc}
	for _, d := range days {
		if d.Weekday < 0 || d.Weekday > 6 {
			problems = append(problems, fmt.Sprintf("weekday %d out of range 0-6", d.Weekday))
			continue
		}
		var periods []TimeRange
		for _, p := range d.Periods {
			start, okStart := ParseClock(p.Start)
			end, okEnd := ParseClock(p.End)
			if !okStart || !okEnd {
				problems = append(problems, fmt.Sprintf("weekday %d: malformed period %q-%q", d.Weekday, p.Start, p.End))
				continue
			}
			if start >= end {
				problems = append(problems, fmt.Sprintf("weekday %d: period %s-%s ends before it starts", d.Weekday, p.Start, p.End))
				continue
			}
			periods = append(periods, TimeRange{Start: start, End: end})
		}
		s.Days[d.Weekday] = DaySchedule{IsOpen: d.IsOpen, Periods: mergePeriods(periods)}
	}
	return s, problems
}

// mergePeriods sorts periods and joins the ones that overlap. Periods that only touch
// (one ends where the next starts) stay separate.
func mergePeriods(periods []TimeRange) []TimeRange {
	if len(periods) == 0 {
		return nil
	}
	sorted := append([]TimeRange(nil), periods...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := []TimeRange{sorted[0]}
	for _, p := range sorted[1:] {
		last := &out[len(out)-1]
		if p.Start < last.End {
			if p.End > last.End {
				last.End = p.End
			}
			continue
		}
		out = append(out, p)
	}
	return out
}
