// Package export converts birthdays to and from the interchange formats
// calendar and address-book clients understand: an iCalendar feed of
// yearly events and vCard files.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/types"
)

// iCalendar constants.
const (
	ICalVersion  = "2.0"
	ICalProdID   = "-//Birthdays API//Calendar Feed//EN"
	ICalScale    = "GREGORIAN"
	ICalMethod   = "PUBLISH"
	ICalDomain   = "birthdays-api"
	ICalMIMEType = "text/calendar; charset=utf-8"

	propVersion     = "VERSION"
	propProdID      = "PRODID"
	propCalName     = "X-WR-CALNAME"
	propCalScale    = "CALSCALE"
	propMethod      = "METHOD"
	propRefresh     = "REFRESH-INTERVAL"
	propUID         = "UID"
	propSummary     = "SUMMARY"
	propDescription = "DESCRIPTION"
	propCategories  = "CATEGORIES"
	propDTStart     = "DTSTART"
	propDTStamp     = "DTSTAMP"

	formatUID = "%s-%d@%s"
)

// RefreshInterval is the polling interval suggested to subscribers.
const RefreshInterval = 12 * time.Hour

// emptyCalendar is served when there are no events; the encoder refuses
// a VCALENDAR without children.
const emptyCalendar = "BEGIN:VCALENDAR\r\nVERSION:" + ICalVersion + "\r\nPRODID:" + ICalProdID + "\r\nEND:VCALENDAR\r\n"

// Summarizer titles the feed and its events.
type Summarizer interface {
	CalendarName() string
	EventSummary(name string, age int) string
}

// Calendar renders items as an iCalendar feed with one all-day event per
// record for last year, this year and next year, skipping years before
// the birth. now stamps every event and decides which years are emitted.
func Calendar(items []types.Birthday, now time.Time, names Summarizer) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(propVersion, ICalVersion)
	cal.Props.SetText(propProdID, ICalProdID)
	cal.Props.SetText(propCalScale, ICalScale)
	cal.Props.SetText(propMethod, ICalMethod)
	cal.Props.SetText(propCalName, names.CalendarName())

	refresh := ical.NewProp(propRefresh)
	refresh.SetDuration(RefreshInterval)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(propDTStamp)
	stamp.SetDateTime(now.UTC())

	year := now.Year()
	for _, b := range items {
		for y := year - 1; y <= year+1; y++ {
			if y < b.BirthDate.Year {
				continue
			}
			event := birthdayEvent(b, y, names)
			event.Props.Set(stamp)
			cal.Children = append(cal.Children, event.Component)
		}
	}
	return cal
}

func birthdayEvent(b types.Birthday, year int, names Summarizer) *ical.Event {
	day := occurrence.Anniversary(b.BirthDate, year)

	event := ical.NewEvent()
	event.Props.SetText(propUID, fmt.Sprintf(formatUID, b.ID, year, ICalDomain))
	event.Props.SetText(propSummary, names.EventSummary(b.Name, year-b.BirthDate.Year))
	event.Props.SetText(propCategories, string(b.Category))
	if b.Notes != "" {
		event.Props.SetText(propDescription, b.Notes)
	}

	start := ical.NewProp(propDTStart)
	start.SetDate(day.In(time.UTC))
	event.Props.Set(start)

	return event
}

// WriteCalendar encodes the feed of items to w.
func WriteCalendar(w io.Writer, items []types.Birthday, now time.Time, names Summarizer) error {
	cal := Calendar(items, now, names)
	if len(cal.Children) == 0 {
		_, err := io.WriteString(w, emptyCalendar)
		return err
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
