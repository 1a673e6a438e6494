package schedule

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// FromICS decodes an iCalendar stream into schedule events. VEVENT
// components become one Event each; exception instances (RECURRENCE-ID)
// come back as overrides sharing the master's key. Components without
// usable time information are skipped.
//
// LOCATION maps to the event's resource name, so an ICS feed of room
// bookings lays out directly into per-room timeline lanes.
func FromICS(r io.Reader) ([]Event, error) {
	cal, err := ical.NewDecoder(r).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}

	var events []Event
	for _, comp := range cal.Events() {
		ev, ok := eventFromComponent(comp.Component)
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// eventFromComponent converts one VEVENT component. The second return
// value is false when the component carries no usable start time.
func eventFromComponent(comp *ical.Component) (Event, bool) {
	start, end, allDay, ok := extractTimeInfo(comp)
	if !ok {
		return Event{}, false
	}

	ev := Event{
		Start:      start,
		End:        end,
		AllDay:     allDay,
		Recurrence: extractRecurrenceInfo(comp),
	}
	ev.IsOverride = ev.Recurrence.RecurrenceID != nil

	if prop := comp.Props.Get(ical.PropUID); prop != nil && prop.Value != "" {
		ev.Key = prop.Value
	} else {
		ev.Key = uuid.NewString()
	}
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		ev.Title = prop.Value
	}
	if prop := comp.Props.Get(ical.PropLocation); prop != nil {
		ev.ResourceName = prop.Value
	}
	// COLOR is the RFC 7986 event color extension.
	if prop := comp.Props.Get("COLOR"); prop != nil {
		ev.Color = prop.Value
	}

	return ev, true
}

// extractTimeInfo extracts start and end times from a VEVENT, falling
// back from DTEND to DURATION to the iCalendar defaults.
func extractTimeInfo(comp *ical.Component) (start, end time.Time, allDay, ok bool) {
	dtstart, err := comp.Props.DateTime(ical.PropDateTimeStart, nil)
	if err != nil {
		return start, end, false, false
	}
	start = dtstart
	allDay = isDateOnlyProp(comp.Props.Get(ical.PropDateTimeStart))

	if dtend, err := comp.Props.DateTime(ical.PropDateTimeEnd, nil); err == nil {
		end = dtend
		// An all-day event whose DTEND equals its DTSTART date covers
		// one whole day.
		if allDay && !end.After(start) {
			end = start.AddDate(0, 0, 1)
		}
	} else if durationProp := comp.Props.Get(ical.PropDuration); durationProp != nil {
		duration, err := durationProp.Duration()
		if err != nil {
			return start, end, false, false
		}
		end = start.Add(duration)
	} else if allDay {
		end = start.AddDate(0, 0, 1)
	} else {
		// Instantaneous event.
		end = start
	}

	return start, end, allDay, true
}

// extractRecurrenceInfo extracts recurrence information from a VEVENT.
func extractRecurrenceInfo(comp *ical.Component) RecurrenceInfo {
	info := RecurrenceInfo{}

	if prop := comp.Props.Get(ical.PropRecurrenceRule); prop != nil && prop.Value != "" {
		info.RRule = prop.Value
	}
	if prop := comp.Props.Get(ical.PropRecurrenceDates); prop != nil && prop.Value != "" {
		info.RDates = parseDateList(prop.Value, prop.Params)
	}
	if prop := comp.Props.Get(ical.PropExceptionDates); prop != nil && prop.Value != "" {
		info.ExDates = parseDateList(prop.Value, prop.Params)
	}
	if prop := comp.Props.Get("RECURRENCE-ID"); prop != nil && prop.Value != "" {
		if recID, err := parseDateTime(prop.Value, prop.Params); err == nil {
			info.RecurrenceID = &recID
		}
	}

	return info
}

// parseDateList parses a comma-separated RDATE/EXDATE value.
func parseDateList(value string, params map[string][]string) []time.Time {
	var out []time.Time
	for _, s := range strings.Split(value, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if t, err := parseDateTime(s, params); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// parseDateTime parses an iCalendar date-time or date-only value.
// Date-only values are stored as midnight UTC.
func parseDateTime(value string, params map[string][]string) (time.Time, error) {
	if isDateOnlyParams(params) {
		t, err := time.Parse("20060102", value)
		if err != nil {
			return time.Time{}, err
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	t, err := time.Parse("20060102T150405Z", value)
	if err == nil {
		return t, nil
	}
	// Fall back to date-only format.
	t, err = time.Parse("20060102", value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func isDateOnlyProp(prop *ical.Prop) bool {
	if prop == nil {
		return false
	}
	return isDateOnlyParams(prop.Params)
}

func isDateOnlyParams(params map[string][]string) bool {
	if params == nil {
		return false
	}
	values := params["VALUE"]
	return len(values) > 0 && strings.EqualFold(values[0], "DATE")
}
