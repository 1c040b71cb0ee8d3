package tracker

import (
	"sort"

	"github.com/Tiliavir/tacho-tracker/internal/model"
)

// IndexedEvent is an event together with its position in the day file.
type IndexedEvent struct {
	Index int
	Event model.DutyEvent
}

// Group is the set of events that happened while one mission was active.
// Segment is nil for events logged before the first mission of the day, or
// for every event when the day has no missions.
type Group struct {
	Segment *model.ShiftSegment
	Events  []IndexedEvent
}

// GroupBySegment assigns each event to the mission active at its start: the
// last segment starting at or before it. Both inputs are sorted on copies so
// out-of-order files still associate events with the right mission.
func GroupBySegment(day model.DayFile) []Group {
	events := make([]IndexedEvent, len(day.Events))
	for i, ev := range day.Events {
		events[i] = IndexedEvent{Index: i, Event: ev}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Event.Start.Before(events[j].Event.Start)
	})
	segs := append([]model.ShiftSegment(nil), day.Segments...)
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].Start.Before(segs[j].Start)
	})

	if len(segs) == 0 {
		return []Group{{Events: events}}
	}

	var groups []Group
	var preliminary []IndexedEvent
	i := 0
	for ; i < len(events) && events[i].Event.Start.Before(segs[0].Start); i++ {
		preliminary = append(preliminary, events[i])
	}
	if len(preliminary) > 0 {
		groups = append(groups, Group{Events: preliminary})
	}
	for s := range segs {
		g := Group{Segment: &segs[s]}
		for ; i < len(events); i++ {
			if s+1 < len(segs) && !events[i].Event.Start.Before(segs[s+1].Start) {
				break
			}
			g.Events = append(g.Events, events[i])
		}
		groups = append(groups, g)
	}
	return groups
}
