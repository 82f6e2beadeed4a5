// Package ics imports and exports tasks as iCalendar (RFC 5545) data.
//
// Import expands RRULE recurrences inside a window, honors EXDATE and
// RECURRENCE-ID overrides, and skips malformed events instead of failing
// the whole file. Export writes one VEVENT per dated user task.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/javiermolinar/slate/internal/dateutil"
	"github.com/javiermolinar/slate/internal/debuglog"
	"github.com/javiermolinar/slate/internal/task"
)

// Non-standard properties used to round-trip slate fields.
const (
	propTravel    ical.ComponentProperty = "X-SLATE-TRAVEL-MINUTES"
	propCompleted ical.ComponentProperty = "X-SLATE-COMPLETED"
	propRecurID   ical.ComponentProperty = "RECURRENCE-ID"
)

const (
	// DefaultProdID identifies slate as the producer of exported calendars.
	DefaultProdID = "-//slate//slate calendar//EN"

	// DefaultMaxOccurrences caps the expansion of a single recurring event.
	DefaultMaxOccurrences = 1000

	untitled = "Untitled event"
)

const (
	layoutUTC   = "20060102T150405Z"
	layoutLocal = "20060102T150405"
	layoutDate  = "20060102"
)

// ErrEmptyCalendar is returned when the input holds no calendar data.
var ErrEmptyCalendar = errors.New("empty calendar")

// importNamespace derives stable task IDs for imported events, so importing
// the same file twice yields the same IDs.
var importNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("slate:ics"))

// Window bounds the events kept by Parse. A zero Window keeps every
// non-recurring event, but recurring events need a bounded window.
type Window struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the window is unbounded.
func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// Contains reports whether t falls in [Start, End).
func (w Window) Contains(t time.Time) bool {
	if w.IsZero() {
		return true
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// YearWindow returns the window covering ref's calendar year in loc.
func YearWindow(ref time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.Local
	}
	year := ref.In(loc).Year()
	return Window{
		Start: dateutil.Midnight(year, time.January, 1, loc),
		End:   dateutil.Midnight(year+1, time.January, 1, loc),
	}
}

// Options configures Parse.
type Options struct {
	Window Window

	// Location is used for floating and all-day times. Nil means time.Local.
	Location *time.Location

	// MaxOccurrences caps each recurring event. Zero means DefaultMaxOccurrences.
	MaxOccurrences int

	// Log receives skipped events. Nil discards them.
	Log *debuglog.Logger
}

// event is a VEVENT reduced to the fields slate uses.
type event struct {
	uid         string
	summary     string
	description string
	start       time.Time
	end         *time.Time
	allDay      bool
	priority    task.Priority
	travel      time.Duration
	completed   bool
	rrule       string
	exdates     []time.Time
	recurrence  *time.Time
}

// Parse reads an iCalendar stream and returns the tasks it describes.
func Parse(r io.Reader, opts Options) ([]*task.Task, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxOccurrences <= 0 {
		opts.MaxOccurrences = DefaultMaxOccurrences
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCalendar
		}
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	var (
		masters   []event
		overrides = make(map[string][]event)
	)
	for _, ve := range cal.Events() {
		ev, skip, err := parseEvent(ve, opts.Location)
		if err != nil {
			opts.Log.Event("ICS_SKIP", map[string]any{
				"uid":   uidOf(ve),
				"error": err.Error(),
			})
			continue
		}
		if skip {
			continue
		}
		if ev.recurrence != nil {
			overrides[ev.uid] = append(overrides[ev.uid], ev)
			continue
		}
		masters = append(masters, ev)
	}

	var tasks []*task.Task
	for _, ev := range masters {
		if ev.rrule == "" {
			if opts.Window.Contains(ev.start) {
				tasks = append(tasks, ev.toTask(stableID(ev.uid), opts.Location))
			}
			continue
		}

		occ, err := expand(ev, overrides[ev.uid], opts)
		if err != nil {
			opts.Log.Event("ICS_SKIP", map[string]any{
				"uid":   ev.uid,
				"error": err.Error(),
			})
			continue
		}
		tasks = append(tasks, occ...)
		delete(overrides, ev.uid)
	}

	// Overrides whose master is not in this file stand on their own.
	for _, evs := range overrides {
		for _, ev := range evs {
			if opts.Window.Contains(ev.start) {
				tasks = append(tasks, ev.toTask(occurrenceID(ev.uid, *ev.recurrence), opts.Location))
			}
		}
	}

	task.SortByStart(tasks)
	opts.Log.Event("ICS_PARSED", map[string]any{"tasks": len(tasks)})
	return tasks, nil
}

// expand returns the occurrences of a recurring event inside the window.
func expand(ev event, overrides []event, opts Options) ([]*task.Task, error) {
	if opts.Window.IsZero() {
		return nil, errors.New("recurring event needs a bounded window")
	}

	r, err := rrule.StrToRRule(ev.rrule)
	if err != nil {
		return nil, fmt.Errorf("parsing RRULE %q: %w", ev.rrule, err)
	}
	r.DTStart(ev.start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.exdates {
		set.ExDate(ex)
	}

	starts := set.Between(opts.Window.Start, opts.Window.End, true)
	if len(starts) > opts.MaxOccurrences {
		opts.Log.Event("ICS_TRUNCATED", map[string]any{
			"uid":         ev.uid,
			"occurrences": len(starts),
			"kept":        opts.MaxOccurrences,
		})
		starts = starts[:opts.MaxOccurrences]
	}

	var length time.Duration
	if ev.end != nil {
		length = ev.end.Sub(ev.start)
	}

	tasks := make([]*task.Task, 0, len(starts))
	for _, start := range starts {
		occ := ev
		if o, ok := findOverride(overrides, start, ev.allDay); ok {
			occ = o
		} else {
			occ.start = start
			if ev.end != nil {
				end := start.Add(length)
				occ.end = &end
			}
		}
		if !opts.Window.Contains(occ.start) {
			continue
		}
		tasks = append(tasks, occ.toTask(occurrenceID(ev.uid, start), opts.Location))
	}
	return tasks, nil
}

func findOverride(overrides []event, start time.Time, allDay bool) (event, bool) {
	for _, o := range overrides {
		if o.recurrence.Equal(start) {
			return o, true
		}
		if allDay && sameDate(*o.recurrence, start) {
			return o, true
		}
	}
	return event{}, false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (ev event) toTask(id string, loc *time.Location) *task.Task {
	start := ev.start.In(loc)
	t := &task.Task{
		ID:          id,
		Title:       ev.summary,
		Description: ev.description,
		Start:       &start,
		Completed:   ev.completed,
		Priority:    ev.priority,
		AllDay:      ev.allDay,
		TravelTime:  ev.travel,
		Origin:      task.OriginUser,
	}
	if ev.end != nil && !ev.allDay {
		end := ev.end.In(loc)
		t.End = &end
	}
	return t
}

// parseEvent extracts an event. skip is true for events that are valid but
// should not become tasks.
func parseEvent(ve *ical.VEvent, loc *time.Location) (ev event, skip bool, err error) {
	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil && strings.EqualFold(p.Value, "CANCELLED") {
		return event{}, true, nil
	}

	dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtstart == nil || dtstart.Value == "" {
		return event{}, false, errors.New("missing DTSTART")
	}

	ev.allDay = isDateValue(dtstart)
	ev.start, err = parseTime(dtstart, loc)
	if err != nil {
		return event{}, false, fmt.Errorf("DTSTART: %w", err)
	}

	if !ev.allDay {
		if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil && p.Value != "" {
			end, err := parseTime(p, loc)
			if err != nil {
				return event{}, false, fmt.Errorf("DTEND: %w", err)
			}
			if end.Before(ev.start) {
				return event{}, false, errors.New("DTEND before DTSTART")
			}
			ev.end = &end
		} else if p := ve.GetProperty(ical.ComponentPropertyDuration); p != nil && p.Value != "" {
			d, err := parseDuration(p.Value)
			if err != nil {
				return event{}, false, fmt.Errorf("DURATION: %w", err)
			}
			end := ev.start.Add(d)
			ev.end = &end
		}
	}

	ev.summary = strings.TrimSpace(propValue(ve, ical.ComponentPropertySummary))
	if ev.summary == "" {
		ev.summary = untitled
	}
	ev.description = strings.TrimSpace(propValue(ve, ical.ComponentPropertyDescription))
	ev.priority = priorityFromICal(propValue(ve, ical.ComponentPropertyPriority))

	if v := propValue(ve, propTravel); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m > 0 {
			ev.travel = time.Duration(m) * time.Minute
		}
	}
	ev.completed = strings.EqualFold(propValue(ve, propCompleted), "TRUE")

	ev.uid = propValue(ve, ical.ComponentPropertyUniqueId)
	if ev.uid == "" {
		ev.uid = ev.summary + "@" + ev.start.UTC().Format(layoutUTC)
	}

	ev.rrule = propValue(ve, ical.ComponentPropertyRrule)
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ex, err := parseValue(part, p.ICalParameters, loc)
			if err != nil {
				return event{}, false, fmt.Errorf("EXDATE: %w", err)
			}
			ev.exdates = append(ev.exdates, ex)
		}
	}

	if p := ve.GetProperty(propRecurID); p != nil && p.Value != "" {
		rid, err := parseTime(p, loc)
		if err != nil {
			return event{}, false, fmt.Errorf("RECURRENCE-ID: %w", err)
		}
		ev.recurrence = &rid
	}

	return ev, false, nil
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return strings.TrimSpace(p.Value)
	}
	return ""
}

func uidOf(ve *ical.VEvent) string {
	return propValue(ve, ical.ComponentPropertyUniqueId)
}

func isDateValue(p *ical.IANAProperty) bool {
	if vs := p.ICalParameters["VALUE"]; len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

func parseTime(p *ical.IANAProperty, loc *time.Location) (time.Time, error) {
	return parseValue(p.Value, p.ICalParameters, loc)
}

// parseValue parses a DATE or DATE-TIME value. UTC and TZID values keep
// their zone so recurrences expand in it; floating values are read in loc.
func parseValue(v string, params map[string][]string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	switch {
	case strings.HasSuffix(v, "Z"):
		t, err := time.Parse(layoutUTC, v)
		if err != nil {
			return time.Time{}, err
		}
		return t, nil
	case strings.Contains(v, "T"):
		zone := loc
		if tz := params["TZID"]; len(tz) > 0 && tz[0] != "" {
			l, err := time.LoadLocation(strings.Trim(tz[0], `"`))
			if err != nil {
				return time.Time{}, fmt.Errorf("unknown TZID %q", tz[0])
			}
			zone = l
		}
		return time.ParseInLocation(layoutLocal, v, zone)
	default:
		d, err := time.Parse(layoutDate, v)
		if err != nil {
			return time.Time{}, err
		}
		return dateutil.Midnight(d.Year(), d.Month(), d.Day(), loc), nil
	}
}

// parseDuration parses the RFC 5545 dur-value subset used by calendar
// clients: weeks, days, hours, minutes and seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") || len(s) < 3 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	var (
		d      time.Duration
		num    int
		digits bool
		inTime bool
	)
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9':
			num = num*10 + int(c-'0')
			digits = true
			continue
		case c == 'T':
			inTime = true
			continue
		}
		if !digits {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		switch {
		case c == 'W' && !inTime:
			d += time.Duration(num) * 7 * 24 * time.Hour
		case c == 'D' && !inTime:
			d += time.Duration(num) * 24 * time.Hour
		case c == 'H' && inTime:
			d += time.Duration(num) * time.Hour
		case c == 'M' && inTime:
			d += time.Duration(num) * time.Minute
		case c == 'S' && inTime:
			d += time.Duration(num) * time.Second
		default:
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		num, digits = 0, false
	}
	if digits {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if neg {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}

// priorityFromICal maps PRIORITY 1-4 to high, 6-9 to low and the rest to medium.
func priorityFromICal(v string) task.Priority {
	n, err := strconv.Atoi(v)
	switch {
	case err != nil || n == 0 || n == 5:
		return task.PriorityMedium
	case n < 5:
		return task.PriorityHigh
	default:
		return task.PriorityLow
	}
}

func priorityToICal(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "1"
	case task.PriorityLow:
		return "9"
	default:
		return "5"
	}
}

// stableID keeps UIDs that are already UUIDs, as slate exports them, and
// derives one otherwise.
func stableID(uid string) string {
	if id, err := uuid.Parse(uid); err == nil {
		return id.String()
	}
	return uuid.NewSHA1(importNamespace, []byte(uid)).String()
}

func occurrenceID(uid string, start time.Time) string {
	return uuid.NewSHA1(importNamespace, []byte(uid+"/"+start.UTC().Format(layoutUTC))).String()
}

// Export writes tasks as a VCALENDAR and returns how many events it wrote.
// Sleep blocks and undated tasks are skipped.
func Export(w io.Writer, tasks []*task.Task, prodID string) (int, error) {
	if prodID == "" {
		prodID = DefaultProdID
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	now := time.Now().UTC()
	n := 0
	for _, t := range tasks {
		if t == nil || t.IsSleep() || !t.IsDated() {
			continue
		}

		ev := cal.AddEvent(t.ID)
		ev.SetDtStampTime(now)
		if !t.CreatedAt.IsZero() {
			ev.SetCreatedTime(t.CreatedAt.UTC())
		}
		if !t.UpdatedAt.IsZero() {
			ev.SetModifiedAt(t.UpdatedAt.UTC())
		}
		ev.SetSummary(t.Title)
		if t.Description != "" {
			ev.SetDescription(t.Description)
		}

		if t.AllDay {
			day := *t.Start
			ev.SetProperty(ical.ComponentPropertyDtStart, day.Format(layoutDate), ical.WithValue(string(ical.ValueDataTypeDate)))
			ev.SetProperty(ical.ComponentPropertyDtEnd, dateutil.AddDays(day, 1).Format(layoutDate), ical.WithValue(string(ical.ValueDataTypeDate)))
		} else {
			ev.SetProperty(ical.ComponentPropertyDtStart, t.Start.UTC().Format(layoutUTC))
			if t.End != nil {
				ev.SetProperty(ical.ComponentPropertyDtEnd, t.End.UTC().Format(layoutUTC))
			}
		}

		ev.SetProperty(ical.ComponentPropertyPriority, priorityToICal(t.Priority))
		if t.TravelTime > 0 {
			ev.SetProperty(propTravel, strconv.Itoa(int(t.TravelTime/time.Minute)))
		}
		if t.Completed {
			ev.SetProperty(propCompleted, "TRUE")
		}
		n++
	}

	if err := cal.SerializeTo(w); err != nil {
		return 0, fmt.Errorf("writing calendar: %w", err)
	}
	return n, nil
}
