// Package ics builds and serializes iCalendar containers for due-date
// reminders. It covers only what the exporter emits: all-day events, display
// alarms with relative triggers, and monthly recurrence rules bounded by
// both an occurrence count and an until date.
package ics

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "20060102"
const timestampLayout = "20060102T150405Z"

// Alarm is a display reminder relative to the event start.
type Alarm struct {
	// Trigger is an ISO-8601 duration with sign, e.g. "-P1D" or "-PT2H".
	Trigger string
	Message string
}

// RecurrenceRule expresses a monthly repetition bounded both ways. Count and
// Until are emitted together; callers must build Until as the date of the
// Count-th occurrence so consumers honoring either bound stop at the same
// event.
type RecurrenceRule struct {
	Count int
	Until time.Time
}

// Event is a single all-day calendar entry.
type Event struct {
	UID         string
	Timestamp   time.Time // DTSTAMP, generation time
	Start       time.Time // all-day start date
	End         time.Time // exclusive all-day end date
	Summary     string
	Description string
	Rule        *RecurrenceRule
	Alarms      []Alarm
}

// Calendar is the container artifact.
type Calendar struct {
	ProdID   string
	Name     string
	Timezone string
	Events   []Event
}

// escapeText escapes TEXT property values per RFC 5545: backslash, comma,
// semicolon and newlines.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)
	return r.Replace(s)
}

func writeProp(b *strings.Builder, name, value string) {
	b.WriteString(name)
	b.WriteString(":")
	b.WriteString(value)
	b.WriteString("\r\n")
}

func (e *Event) encode(b *strings.Builder) {
	writeProp(b, "BEGIN", "VEVENT")
	writeProp(b, "UID", e.UID)
	writeProp(b, "DTSTAMP", e.Timestamp.UTC().Format(timestampLayout))
	writeProp(b, "DTSTART;VALUE=DATE", e.Start.Format(dateLayout))
	writeProp(b, "DTEND;VALUE=DATE", e.End.Format(dateLayout))
	if e.Rule != nil {
		writeProp(b, "RRULE", fmt.Sprintf("FREQ=MONTHLY;COUNT=%d;UNTIL=%s",
			e.Rule.Count, e.Rule.Until.Format(dateLayout)))
	}
	writeProp(b, "SUMMARY", escapeText(e.Summary))
	writeProp(b, "DESCRIPTION", escapeText(e.Description))
	for _, a := range e.Alarms {
		writeProp(b, "BEGIN", "VALARM")
		writeProp(b, "TRIGGER", a.Trigger)
		writeProp(b, "ACTION", "DISPLAY")
		writeProp(b, "DESCRIPTION", escapeText(a.Message))
		writeProp(b, "END", "VALARM")
	}
	writeProp(b, "END", "VEVENT")
}

// Encode serializes the calendar with CRLF line endings.
func (c *Calendar) Encode() []byte {
	var b strings.Builder
	writeProp(&b, "BEGIN", "VCALENDAR")
	writeProp(&b, "VERSION", "2.0")
	writeProp(&b, "PRODID", c.ProdID)
	writeProp(&b, "CALSCALE", "GREGORIAN")
	writeProp(&b, "METHOD", "PUBLISH")
	if c.Name != "" {
		writeProp(&b, "X-WR-CALNAME", escapeText(c.Name))
	}
	if c.Timezone != "" {
		writeProp(&b, "X-WR-TIMEZONE", c.Timezone)
	}
	for i := range c.Events {
		c.Events[i].encode(&b)
	}
	writeProp(&b, "END", "VCALENDAR")
	return []byte(b.String())
}
