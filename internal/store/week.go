package store

import (
	"errors"
	"time"

	"recipebox/models"
)

// ErrEntryOutsideWeek is returned by Week.Add for an entry dated outside the week.
var ErrEntryOutsideWeek = errors.New("meal plan entry falls outside the week")

// WeekDay holds one date of a week view and its entries per slot.
type WeekDay struct {
	Date  time.Time              `json:"date"`
	Slots map[string][]PlanEntry `json:"slots"`
}

// Week is a 7-day grid of planner slots. Every cell exists; an empty cell is
// an empty slice.
type Week struct {
	Start time.Time  `json:"start"`
	Days  [7]WeekDay `json:"days"`
}

// StartOfWeek returns the Monday on or before t, at midnight UTC.
func StartOfWeek(t time.Time) time.Time {
	day := PlanDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func newWeek(start time.Time) Week {
	week := Week{Start: PlanDay(start)}
	for i := range week.Days {
		slots := make(map[string][]PlanEntry, len(models.MealSlots))
		for _, slot := range models.MealSlots {
			slots[slot] = []PlanEntry{}
		}
		week.Days[i] = WeekDay{Date: week.Start.AddDate(0, 0, i), Slots: slots}
	}
	return week
}

// Add places entry in its (date, slot) cell.
func (w *Week) Add(entry PlanEntry) error {
	day := PlanDay(entry.Date)
	index := int(day.Sub(w.Start).Hours() / 24)
	if day.Before(w.Start) || index >= len(w.Days) {
		return ErrEntryOutsideWeek
	}
	slot := models.NormalizeMealSlot(entry.Slot)
	if slot == "" {
		return newValidationError("unknown meal slot " + entry.Slot)
	}
	w.Days[index].Slots[slot] = append(w.Days[index].Slots[slot], entry)
	return nil
}

// Cell returns the entries of day index (0 is start) and slot.
func (w Week) Cell(day int, slot string) []PlanEntry {
	if day < 0 || day >= len(w.Days) {
		return nil
	}
	return w.Days[day].Slots[slot]
}

// BuildWeek groups entries into the 7 days starting at start and the fixed
// meal slots. Entries outside the week or in an unknown slot are skipped.
func BuildWeek(start time.Time, entries []PlanEntry) Week {
	week := newWeek(start)
	for _, entry := range entries {
		_ = week.Add(entry)
	}
	return week
}
