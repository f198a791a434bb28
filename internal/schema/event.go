package schema

import (
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"}

func buildEvent(doc Document, in Input, bc BuildContext) {
	start, end := Text(in.StartDate), Text(in.EndDate)
	if rule := strings.TrimSpace(in.Recurrence); rule != "" && start != "" {
		if next, shifted, freq, ok := nextOccurrence(rule, start, end, bc.now()); ok {
			doc["eventSchedule"] = map[string]any{
				"@type":           "Schedule",
				"startDate":       start,
				"repeatFrequency": freq,
			}
			start, end = next, shifted
		}
	}
	doc.set("startDate", start)
	doc.set("endDate", end)
	doc["location"] = map[string]any{
		"@type": "Place",
		"name":  Text(in.Location),
	}
	if status := Text(in.EventStatus); status != "" {
		doc["eventStatus"] = Context + "/" + status
	}
	if ticket := URL(in.TicketURL); ticket != "" {
		doc["offers"] = map[string]any{"@type": "Offer", "url": ticket}
	}
}

// nextOccurrence anchors rule at start and returns the first occurrence at or
// after now, the end date moved by the same amount, and the ISO-8601 repeat
// frequency. ok is false when the rule or dates do not parse.
func nextOccurrence(rule, start, end string, now time.Time) (next, shifted, freq string, ok bool) {
	startAt, layout, err := parseDate(start)
	if err != nil {
		return "", "", "", false
	}
	opt, err := rrule.StrToROption(strings.TrimPrefix(rule, "RRULE:"))
	if err != nil {
		return "", "", "", false
	}
	opt.Dtstart = startAt
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return "", "", "", false
	}
	at := r.After(now, true)
	if at.IsZero() {
		// The series has ended; keep the authored dates.
		return start, end, repeatFrequency(opt.Freq, opt.Interval), true
	}
	shifted = end
	if endAt, endLayout, err := parseDate(end); err == nil {
		shifted = endAt.Add(at.Sub(startAt)).Format(endLayout)
	}
	return at.Format(layout), shifted, repeatFrequency(opt.Freq, opt.Interval), true
}

func parseDate(s string) (time.Time, string, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, layout, nil
		}
	}
	return time.Time{}, "", err
}

func repeatFrequency(f rrule.Frequency, interval int) string {
	if interval < 1 {
		interval = 1
	}
	n := strconv.Itoa(interval)
	switch f {
	case rrule.YEARLY:
		return "P" + n + "Y"
	case rrule.MONTHLY:
		return "P" + n + "M"
	case rrule.WEEKLY:
		return "P" + n + "W"
	case rrule.DAILY:
		return "P" + n + "D"
	case rrule.HOURLY:
		return "PT" + n + "H"
	case rrule.MINUTELY:
		return "PT" + n + "M"
	default:
		return "PT" + n + "S"
	}
}
