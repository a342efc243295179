// Package feed renders the widget surface: an iCalendar document of upcoming
// birthdays served over localhost HTTP so calendar clients can subscribe.
package feed

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"

	"github.com/malotru/jourj/internal/birthday"
	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
)

// Builder turns a filtered contact list into an iCalendar payload.
type Builder struct {
	Clock contacts.Clock

	// Summary injects the localized event summary; age is the turning age,
	// 0 when the birth year is unknown.
	Summary func(name string, age int) string

	// LeadDays are the reminder offsets attached as DISPLAY alarms.
	LeadDays []int
}

// Build renders the calendar. Contacts whose birthday value no longer parses
// are skipped; an empty result still yields a valid VCALENDAR stub so feed
// clients never see an invalid payload.
func (b *Builder) Build(list []contacts.Contact) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Event dates follow the local calendar; only the stamp is UTC.
	now := b.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	for _, c := range list {
		birthDate, yearKnown, err := birthday.Parse(c.Birthday)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompFeed,
				config.LogKeyValue, c.Birthday,
			)
			continue
		}
		for _, e := range b.events(c, birthDate, yearKnown, now) {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// events generates one all-day event per surrounding year so calendar
// clients scrolling backward or forward see entries without a re-sync.
func (b *Builder) events(c contacts.Contact, birthDate time.Time, yearKnown bool, now time.Time) []*ical.Event {
	currentYear := now.Year()
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}
	loc := now.Location()

	var events []*ical.Event
	for _, y := range targetYears {
		// No events before the person is born.
		if yearKnown && y < birthDate.Year() {
			continue
		}

		age := 0
		if yearKnown {
			age = y - birthDate.Year()
		}

		summary := c.Name
		if b.Summary != nil {
			summary = b.Summary(c.Name, age)
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, c.ID, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, summary)

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(y, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc))
		event.Props.Set(dtStartProp)

		for _, d := range b.LeadDays {
			addAlarm(event, fmt.Sprintf(config.FormatTriggerDays, d), summary)
		}

		events = append(events, event)
	}
	return events
}

// addAlarm appends a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid a VALUE=TEXT param on the duration.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}
