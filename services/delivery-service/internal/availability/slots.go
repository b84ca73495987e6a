package availability

import "time"

// SlotStep is the spacing between candidate delivery slot starts, in minutes.
const SlotStep = 30

// Slot is a selectable delivery start time.
type Slot struct {
	Start         time.Time
	Label         string
	NextAvailable bool
	// Remaining is set for slots on the current day ("1h 30min").
	Remaining string
	// Weekday is set for slots on future days.
	Weekday string
}

// Candidates returns the slot starts of one period: start, start+30, ... up to end-leadMax.
func Candidates(p TimeRange, leadMax int) []int {
	cutoff := p.End - leadMax
	var out []int
	for c := p.Start; c <= cutoff; c += SlotStep {
		out = append(out, c)
	}
	return out
}

// ListSlots returns the delivery slots for the calendar day of date (only its year, month and
// day are used). leadMin is the earliest lead from now, leadMax the latest delivery end offset.
func ListSlots(s WeeklySchedule, date time.Time, leadMin, leadMax int, now time.Time) []Slot {
	if leadMin < 0 {
		leadMin = 0
	}
	if leadMax < leadMin {
		leadMax = leadMin
	}

	localNow := s.local(now)
	y, mo, d := date.Date()
	target := time.Date(y, mo, d, 0, 0, 0, 0, localNow.Location())
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, localNow.Location())
	if target.Before(today) {
		return nil
	}
	isToday := target.Equal(today)
	nowMinute := MinuteOfDay(localNow)

	day := s.Day(target.Weekday())
	if !day.IsOpen {
		return nil
	}

	var slots []Slot
	for _, p := range day.Periods {
		for _, c := range Candidates(p, leadMax) {
			if isToday && c-leadMin < nowMinute {
				continue
			}
			slot := Slot{
				Start: atMinute(target, 0, c),
				Label: clockLabel(c),
			}
			if isToday {
				slot.Remaining = RemainingLabel(c - nowMinute)
				slot.NextAvailable = len(slots) == 0
			} else {
				slot.Weekday = target.Weekday().String()
			}
			slots = append(slots, slot)
		}
	}
	return slots
}
