package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"timeline/internal/model"
)

// ProductID is written as PRODID on exported calendars.
const ProductID = "-//timeline//timeline editor//EN"

// uidNamespace scopes exported UIDs so they do not collide with UIDs
// minted by other producers.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:timeline:event"))

// EventUID derives a stable UID from an event's title, date and position.
// Re-exporting an unchanged timeline yields the same UIDs, which lets a
// subscribed calendar update in place.
func EventUID(ev model.Event, index int) string {
	key := fmt.Sprintf("%d|%s|%s", index, ev.Date.Format("2006-01-02"), ev.Title)
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@timeline"
}

// Encode writes events as an iCalendar of all-day VEVENTs.
func Encode(w io.Writer, events []model.Event, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName("Timeline")

	for i, ev := range events {
		vev := cal.AddEvent(EventUID(ev, i))
		vev.SetDtStampTime(stamp.UTC())
		vev.SetSummary(ev.Title)
		vev.SetAllDayStartAt(ev.Date)
		vev.SetAllDayEndAt(ev.Date.AddDate(0, 0, 1))
	}

	return cal.SerializeTo(w)
}
