package availability

import "time"

// TimeRange is a half-open [Start, End) interval in minutes since local midnight.
type TimeRange struct {
	Start int
	End   int
}

func (r TimeRange) Contains(minute int) bool {
	return minute >= r.Start && minute < r.End
}

// DaySchedule holds the opening periods of one weekday, sorted and non-overlapping.
type DaySchedule struct {
	IsOpen  bool
	Periods []TimeRange
}

// WeeklySchedule is a recurring week indexed by time.Weekday.
// Location is the merchant time zone; nil evaluates instants in their own location.
type WeeklySchedule struct {
	Days     [7]DaySchedule
	Location *time.Location
}

func (s WeeklySchedule) local(t time.Time) time.Time {
	if s.Location == nil {
		return t
	}
	return t.In(s.Location)
}

// Day returns the schedule for wd; closed days report IsOpen=false.
func (s WeeklySchedule) Day(wd time.Weekday) DaySchedule {
	if wd < time.Sunday || wd > time.Saturday {
		return DaySchedule{}
	}
	return s.Days[wd]
}

// MinuteOfDay ignores seconds: 17:59:59 is minute 1079.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IsOpenAt reports whether the instant falls inside an opening period of its weekday.
// Opening time is open, closing time is closed.
func IsOpenAt(s WeeklySchedule, t time.Time) bool {
	_, ok := activePeriod(s, s.local(t))
	return ok
}

func activePeriod(s WeeklySchedule, local time.Time) (TimeRange, bool) {
	day := s.Day(local.Weekday())
	if !day.IsOpen {
		return TimeRange{}, false
	}
	m := MinuteOfDay(local)
	for _, p := range day.Periods {
		if p.Contains(m) {
			return p, true
		}
	}
	return TimeRange{}, false
}

type TransitionKind string

const (
	TransitionOpen  TransitionKind = "open"
	TransitionClose TransitionKind = "close"
	// TransitionNone means no opening within the next 7 days.
	TransitionNone TransitionKind = "none"
)

type Transition struct {
	Kind  TransitionKind
	At    time.Time
	Label string
}

// lookaheadDays bounds the search for the next opening.
const lookaheadDays = 7

// NextTransition returns when the open/closed state changes next.
// While open it is the end of the active period; while closed it is the first period
// start later today or on one of the following 7 days.
func NextTransition(s WeeklySchedule, t time.Time) Transition {
	local := s.local(t)
	if p, ok := activePeriod(s, local); ok {
		return Transition{
			Kind:  TransitionClose,
			At:    atMinute(local, 0, p.End),
			Label: closesLabel(p.End),
		}
	}

	m := MinuteOfDay(local)
	for offset := 0; offset <= lookaheadDays; offset++ {
		day := s.Day(time.Weekday((int(local.Weekday()) + offset) % 7))
		if !day.IsOpen {
			continue
		}
		for _, p := range day.Periods {
			if offset == 0 && p.Start <= m {
				continue
			}
			at := atMinute(local, offset, p.Start)
			return Transition{Kind: TransitionOpen, At: at, Label: opensLabel(at)}
		}
	}
	return Transition{Kind: TransitionNone, Label: ClosedLabel}
}

func NextTransitionLabel(s WeeklySchedule, t time.Time) string {
	return NextTransition(s, t).Label
}

// atMinute builds the instant at minute-of-day on the day offset days after ref, in ref's location.
func atMinute(ref time.Time, offset int, minute int) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day()+offset, minute/60, minute%60, 0, 0, ref.Location())
}
