package service

import (
	"github.com/khallude/healthify-booking/pkg/clocktime"
)

// SlotGranularity is the fixed appointment length in minutes. Slot starts
// are aligned to the doctor's day start, not to the hour.
const SlotGranularity clocktime.Minutes = 30

type SlotService struct{}

func NewSlotService() *SlotService {
	return &SlotService{}
}

// GenerateSlots walks the working window in SlotGranularity steps and
// returns every slot whose full duration fits before end and does not
// overlap the lunch window. A cursor landing inside lunch jumps straight
// to lunchEnd, so post-lunch slots stay anchored to the lunch boundary.
// A degenerate lunch window (start >= end) excludes nothing.
func (s *SlotService) GenerateSlots(start, end, lunchStart, lunchEnd clocktime.Minutes) []string {
	slots := []string{}
	hasLunch := lunchStart < lunchEnd

	for cursor := start; cursor+SlotGranularity <= end; {
		if hasLunch && cursor >= lunchStart && cursor < lunchEnd {
			cursor = lunchEnd
			continue
		}
		if hasLunch && cursor < lunchStart && cursor+SlotGranularity > lunchStart {
			cursor = lunchEnd
			continue
		}
		slots = append(slots, cursor.Format())
		cursor += SlotGranularity
	}

	return slots
}

// SubtractBooked removes booked times from slots, preserving order.
// Booked entries are canonical formatted times, matching what the
// booking path persists.
func (s *SlotService) SubtractBooked(slots, booked []string) []string {
	if len(booked) == 0 {
		return slots
	}

	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	free := []string{}
	for _, slot := range slots {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free
}

// AlternativesAfter returns up to limit free slots strictly after the
// requested time, for suggesting replacements when a slot is taken.
func (s *SlotService) AlternativesAfter(free []string, after clocktime.Minutes, limit int) []string {
	alternatives := []string{}
	for _, slot := range free {
		t, err := clocktime.Parse(slot)
		if err != nil {
			continue
		}
		if t > after {
			alternatives = append(alternatives, slot)
			if len(alternatives) == limit {
				break
			}
		}
	}
	return alternatives
}
