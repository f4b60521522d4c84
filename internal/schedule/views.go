package schedule

import (
	"fmt"
	"sort"
)

// PreviewCapacity is the number of cards on the combined 3x3 preview.
const PreviewCapacity = 9

// Form time slot range, in quarter hours
const (
	slotStartHour = 6
	slotEndHour   = 20
	slotsPerHour  = 4
)

// Less orders by day index, then by time string.
func Less(a, b Activity) bool {
	if ai, bi := a.Day.Index(), b.Day.Index(); ai != bi {
		return ai < bi
	}
	return a.Time < b.Time
}

// SortActivities returns a stably sorted copy.
func SortActivities(activities []Activity) []Activity {
	out := make([]Activity, len(activities))
	copy(out, activities)
	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Preview returns the first PreviewCapacity activities in sort order.
func Preview(activities []Activity) []Activity {
	sorted := SortActivities(activities)
	if len(sorted) > PreviewCapacity {
		sorted = sorted[:PreviewCapacity]
	}
	return sorted
}

// DayGroup is the list of activities of one weekday.
type DayGroup struct {
	Day        Day        `json:"day"`
	Label      string     `json:"label"`
	Activities []Activity `json:"activities"`
}

// GroupByDay splits activities per weekday, each group ordered by time only.
func GroupByDay(activities []Activity) [7]DayGroup {
	var groups [7]DayGroup
	for i, d := range Days {
		groups[i] = DayGroup{Day: d, Label: d.Label(), Activities: []Activity{}}
	}
	for _, a := range activities {
		if i := a.Day.Index(); i >= 0 {
			groups[i].Activities = append(groups[i].Activities, a)
		}
	}
	for i := range groups {
		acts := groups[i].Activities
		sort.SliceStable(acts, func(x, y int) bool {
			return acts[x].Time < acts[y].Time
		})
	}
	return groups
}

// IsNight reports whether the HH:MM time is at or after 18:00 or before 06:00.
func IsNight(t string) bool {
	if !ValidTime(t) {
		return false
	}
	hour := int(t[0]-'0')*10 + int(t[1]-'0')
	return hour >= 18 || hour < 6
}

// TimeSlots lists the quarter-hour values offered by the form, 06:00 to 20:00.
func TimeSlots() []string {
	start := slotStartHour * slotsPerHour
	end := slotEndHour * slotsPerHour
	slots := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		slots = append(slots, fmt.Sprintf("%02d:%02d", i/slotsPerHour, (i%slotsPerHour)*15))
	}
	return slots
}
